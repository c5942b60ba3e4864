package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"
)

const pinRetries = 10

var phonePattern = regexp.MustCompile(`^\+\d{10,14}$`)

type FleetService struct {
	ctx       context.Context
	mylog     mylogger.Logger
	fleetRepo ports.IFleetRepo
	sms       ports.ISmsSender
	matcher   *Matcher
}

func NewFleetService(ctx context.Context,
	log mylogger.Logger,
	fleetRepo ports.IFleetRepo,
	sms ports.ISmsSender,
	matcher *Matcher,
) ports.IFleetService {
	return &FleetService{
		ctx:       ctx,
		mylog:     log,
		fleetRepo: fleetRepo,
		sms:       sms,
		matcher:   matcher,
	}
}

func (fs *FleetService) AddCar(ownerUID string, req dto.CarDto) (dto.CarResponseDto, error) {
	log := fs.mylog.Action("AddCar")

	if err := validateCar(req); err != nil {
		return dto.CarResponseDto{}, err
	}

	c := model.Car{
		RegistrationNumber: *req.RegistrationNumber,
		OwnerUID:           ownerUID,
		Manufacturer:       *req.Manufacturer,
		Model:              *req.Model,
		Year:               *req.Year,
		Color:              *req.Color,
		Status:             model.CarIdle,
		CreatedAt:          time.Now().UTC(),
	}
	if req.AverageKmpl != nil {
		c.AverageKmpl = *req.AverageKmpl
	}

	ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
	defer cancel()
	if err := fs.fleetRepo.AddCar(ctx, c); err != nil {
		log.Error("cannot insert car", err, "registration", c.RegistrationNumber)
		return dto.CarResponseDto{}, err
	}

	fs.matcher.OnCarAvailable(ownerUID, c.RegistrationNumber)
	log.Info("car added", "owner", ownerUID, "registration", c.RegistrationNumber)
	return carToDto(c), nil
}

func (fs *FleetService) RemoveCar(ownerUID, registration string) error {
	log := fs.mylog.Action("RemoveCar")

	ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
	defer cancel()
	if err := fs.fleetRepo.RemoveCar(ctx, ownerUID, registration); err != nil {
		log.Error("cannot remove car", err, "registration", registration)
		return err
	}
	fs.matcher.OnCarUnavailable(ownerUID, registration)
	log.Info("car removed", "owner", ownerUID, "registration", registration)
	return nil
}

func (fs *FleetService) ListCars(ownerUID string) ([]dto.CarResponseDto, error) {
	ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
	defer cancel()
	cars, err := fs.fleetRepo.ListCars(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CarResponseDto, 0, len(cars))
	for _, c := range cars {
		out = append(out, carToDto(c))
	}
	return out, nil
}

// AddDriver provisions a driver under a fresh 4-digit PIN and texts the PIN
// to the driver's phone. The PIN doubles as login credential, so generation
// retries until an unused code is found.
func (fs *FleetService) AddDriver(ownerUID string, req dto.AddDriverRequestDto) (dto.DriverResponseDto, error) {
	log := fs.mylog.Action("AddDriver")

	if req.PhoneNumber == nil || !phonePattern.MatchString(*req.PhoneNumber) {
		return dto.DriverResponseDto{}, fmt.Errorf("invalid phone number, expected +XXXXXXXXXXX format")
	}

	var d model.Driver
	inserted := false
	for i := 0; i < pinRetries; i++ {
		d = model.Driver{
			PinCode:     generatePIN(),
			OwnerUID:    ownerUID,
			PhoneNumber: *req.PhoneNumber,
			Status:      model.DriverOffline,
			CreatedAt:   time.Now().UTC(),
		}
		ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
		err := fs.fleetRepo.AddDriver(ctx, d)
		cancel()
		if err == nil {
			inserted = true
			break
		}
		if !errors.Is(err, myerrors.ErrPinTaken) {
			log.Error("cannot insert driver", err)
			return dto.DriverResponseDto{}, err
		}
		log.Warn("pin collision, regenerating", "pin", d.PinCode)
	}
	if !inserted {
		return dto.DriverResponseDto{}, fmt.Errorf("cannot allocate a free pin after %d attempts", pinRetries)
	}

	smsBody := fmt.Sprintf("Your PIN is %s. Please use this PIN to login to the app.", d.PinCode)
	if err := fs.sms.Send(fs.ctx, d.PhoneNumber, smsBody); err != nil {
		// the record stands; the owner can read the PIN from the driver list
		log.Error("cannot send pin sms", err, "pin", d.PinCode)
	}

	log.Info("driver provisioned", "owner", ownerUID, "pin", d.PinCode)
	return driverToDto(d), nil
}

func (fs *FleetService) RemoveDriver(ownerUID, pinCode string) error {
	log := fs.mylog.Action("RemoveDriver")

	ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
	defer cancel()
	if err := fs.fleetRepo.RemoveDriver(ctx, ownerUID, pinCode); err != nil {
		log.Error("cannot remove driver", err, "pin", pinCode)
		return err
	}
	log.Info("driver removed", "owner", ownerUID, "pin", pinCode)
	return nil
}

func (fs *FleetService) ListDrivers(ownerUID string) ([]dto.DriverResponseDto, error) {
	ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
	defer cancel()
	drivers, err := fs.fleetRepo.ListDrivers(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	return driversToDto(drivers), nil
}

func (fs *FleetService) ListAvailableDrivers(ownerUID string) ([]dto.DriverResponseDto, error) {
	ctx, cancel := context.WithTimeout(fs.ctx, repoTimeout)
	defer cancel()
	drivers, err := fs.fleetRepo.ListAvailableDrivers(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	return driversToDto(drivers), nil
}

func validateCar(req dto.CarDto) error {
	if err := validateRegistration(req.RegistrationNumber); err != nil {
		return err
	}
	for _, f := range []*string{req.Manufacturer, req.Model, req.Year, req.Color} {
		if f == nil || *f == "" {
			return ErrEmptyField
		}
	}
	return nil
}

// generatePIN returns a random 4-digit code, zero-padded.
func generatePIN() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return fmt.Sprintf("%04d", time.Now().UnixNano()%10000)
	}
	return fmt.Sprintf("%04d", n.Int64())
}

func carToDto(c model.Car) dto.CarResponseDto {
	return dto.CarResponseDto{
		RegistrationNumber: c.RegistrationNumber,
		Manufacturer:       c.Manufacturer,
		Model:              c.Model,
		Year:               c.Year,
		Color:              c.Color,
		AverageKmpl:        c.AverageKmpl,
		Status:             string(c.Status),
	}
}

func driverToDto(d model.Driver) dto.DriverResponseDto {
	return dto.DriverResponseDto{
		PinCode:     d.PinCode,
		PhoneNumber: d.PhoneNumber,
		CNIC:        d.CNIC,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Status:      string(d.Status),
	}
}

func driversToDto(drivers []model.Driver) []dto.DriverResponseDto {
	out := make([]dto.DriverResponseDto, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, driverToDto(d))
	}
	return out
}
