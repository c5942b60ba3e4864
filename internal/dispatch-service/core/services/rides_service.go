package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/domain/websocketdto"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"

	"github.com/google/uuid"
)

const (
	BASE_FARE    = 200 // ₨
	RATE_PER_KM  = 55  // ₨/km
	RATE_PER_MIN = 10  // ₨/min

	repoTimeout = time.Second * 15
)

type RidesService struct {
	ctx          context.Context
	mylog        mylogger.Logger
	ridesRepo    ports.IRidesRepo
	customerRepo ports.ICustomerRepo
	broker       ports.IDispatchBroker
	ws           ports.INotifyWebsocket
	matcher      *Matcher
}

func NewRidesService(ctx context.Context,
	log mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	customerRepo ports.ICustomerRepo,
	broker ports.IDispatchBroker,
	ws ports.INotifyWebsocket,
	matcher *Matcher,
) ports.IRidesService {
	return &RidesService{
		ctx:          ctx,
		mylog:        log,
		ridesRepo:    ridesRepo,
		customerRepo: customerRepo,
		broker:       broker,
		ws:           ws,
		matcher:      matcher,
	}
}

func (rs *RidesService) CreateRide(customerID string, req dto.RideRequestDto) (dto.RideResponseDto, error) {
	log := rs.mylog.Action("CreateRide")

	if err := validateRideRequest(req); err != nil {
		return dto.RideResponseDto{}, err
	}

	fare := math.Round(BASE_FARE + *req.DistanceKm*RATE_PER_KM + *req.DurationMinutes*RATE_PER_MIN)

	m := model.Ride{
		RideID:     uuid.NewString(),
		CustomerID: customerID,
		Origin: model.Location{
			LocationName: *req.Origin.LocationName,
			Latitude:     *req.Origin.Latitude,
			Longitude:    *req.Origin.Longitude,
		},
		Destination: model.Location{
			LocationName: *req.Destination.LocationName,
			Latitude:     *req.Destination.Latitude,
			Longitude:    *req.Destination.Longitude,
		},
		SelectedCar: model.CarInfo{
			RegistrationNumber: *req.SelectedCar.RegistrationNumber,
			Manufacturer:       derefStr(req.SelectedCar.Manufacturer),
			Model:              derefStr(req.SelectedCar.Model),
			Year:               derefStr(req.SelectedCar.Year),
			Color:              derefStr(req.SelectedCar.Color),
		},
		DistanceKm:      *req.DistanceKm,
		DurationMinutes: *req.DurationMinutes,
		Fare:            fare,
		Status:          model.StatusRequested,
		RequestedAt:     time.Now().UTC(),
	}

	log.Info("creating a ride",
		"ride-id", m.RideID,
		"customer-id", customerID,
		"registration", m.SelectedCar.RegistrationNumber,
		"fare", fare,
	)

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	if err := rs.ridesRepo.CreateRide(ctx, m); err != nil {
		log.Error("cannot insert ride", err)
		return dto.RideResponseDto{}, err
	}
	if err := rs.ridesRepo.AppendEvent(ctx, m.RideID, "ride_requested", m); err != nil {
		log.Warn("cannot append audit event", "ride-id", m.RideID)
	}

	msg := brokerdto.RideRequested{
		RideID:       m.RideID,
		CustomerID:   customerID,
		Registration: m.SelectedCar.RegistrationNumber,
		Pickup:       brokerdto.Location{Name: m.Origin.LocationName, Lat: m.Origin.Latitude, Lng: m.Origin.Longitude},
		Destination:  brokerdto.Location{Name: m.Destination.LocationName, Lat: m.Destination.Latitude, Lng: m.Destination.Longitude},
		Fare:         fare,
		DistanceKm:   m.DistanceKm,
	}
	if err := rs.broker.PublishRideRequested(rs.ctx, msg); err != nil {
		log.Error("cannot publish ride request", err)
		return dto.RideResponseDto{}, fmt.Errorf("cannot send message to broker: %w", err)
	}

	rs.matcher.OnRideRequested(m)
	rs.pushToMatchingOwners(m)

	res := dto.RideResponseDto{
		RideID:          m.RideID,
		Status:          string(m.Status),
		Fare:            fare,
		DistanceKm:      m.DistanceKm,
		DurationMinutes: m.DurationMinutes,
		RequestedAt:     m.RequestedAt.Format(time.RFC3339),
	}
	return res, nil
}

func (rs *RidesService) pushToMatchingOwners(m model.Ride) {
	push := websocketdto.RideRequestPush{
		RideID:          m.RideID,
		CustomerID:      m.CustomerID,
		Registration:    m.SelectedCar.RegistrationNumber,
		PickupName:      m.Origin.LocationName,
		DestinationName: m.Destination.LocationName,
		Fare:            m.Fare,
		DistanceKm:      m.DistanceKm,
	}
	payload, err := json.Marshal(push)
	if err != nil {
		return
	}
	event := websocketdto.Event{Type: websocketdto.TypeRideRequest, Data: payload}
	for _, ownerUID := range rs.matcher.MatchingOwners(m.SelectedCar.RegistrationNumber) {
		rs.ws.WriteToOwner(ownerUID, event)
	}
}

func (rs *RidesService) CancelRide(customerID, rideID string) (dto.RideCancelResponseDto, error) {
	log := rs.mylog.Action("CancelRide")

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(ctx, rideID)
	if err != nil {
		return dto.RideCancelResponseDto{}, err
	}

	if err := rs.ridesRepo.MarkCancelled(ctx, rideID, customerID); err != nil {
		log.Error("cannot cancel ride", err, "ride-id", rideID)
		return dto.RideCancelResponseDto{}, err
	}
	cancelledAt := time.Now().UTC().Format(time.RFC3339)
	if err := rs.ridesRepo.AppendEvent(ctx, rideID, "ride_cancelled", nil); err != nil {
		log.Warn("cannot append audit event", "ride-id", rideID)
	}

	if err := rs.broker.PublishRideCancelled(rs.ctx, brokerdto.RideCancelled{
		RideID:    rideID,
		Timestamp: cancelledAt,
	}); err != nil {
		log.Error("cannot publish cancellation", err)
	}

	rs.matcher.OnRideClosed(rideID)
	rs.pushRequestClosed(ride.SelectedCar.RegistrationNumber, rideID, "cancelled")

	log.Info("ride cancelled", "ride-id", rideID)
	return dto.RideCancelResponseDto{
		RideID:      rideID,
		Status:      string(model.StatusCancelled),
		CancelledAt: cancelledAt,
		Message:     "Ride cancelled successfully",
	}, nil
}

func (rs *RidesService) pushRequestClosed(registration, rideID, reason string) {
	payload, err := json.Marshal(websocketdto.RideRequestClosedPush{RideID: rideID, Reason: reason})
	if err != nil {
		return
	}
	event := websocketdto.Event{Type: websocketdto.TypeRideRequestClosed, Data: payload}
	for _, ownerUID := range rs.matcher.MatchingOwners(registration) {
		rs.ws.WriteToOwner(ownerUID, event)
	}
}

// CandidatesFor resolves the owner's candidate list and enriches each entry
// with the requesting customer's profile.
func (rs *RidesService) CandidatesFor(ownerUID string) ([]dto.CandidateRideDto, error) {
	rides := rs.matcher.CandidatesFor(ownerUID)

	out := make([]dto.CandidateRideDto, 0, len(rides))
	for _, r := range rides {
		c := dto.CandidateRideDto{
			RideID:          r.RideID,
			CustomerID:      r.CustomerID,
			PickupName:      r.Origin.LocationName,
			DestinationName: r.Destination.LocationName,
			Car:             fmt.Sprintf("%s %s - %s - %s", r.SelectedCar.Manufacturer, r.SelectedCar.Model, r.SelectedCar.Year, r.SelectedCar.Color),
			Registration:    r.SelectedCar.RegistrationNumber,
			Fare:            r.Fare,
			DistanceKm:      r.DistanceKm,
		}
		ctx, cancel := context.WithTimeout(rs.ctx, time.Second*5)
		name, phone, err := rs.customerRepo.GetProfile(ctx, r.CustomerID)
		cancel()
		if err == nil {
			c.CustomerName = name
			c.CustomerPhone = phone
		}
		out = append(out, c)
	}
	return out, nil
}

func (rs *RidesService) Ignore(ownerUID, rideID string) {
	rs.matcher.Ignore(ownerUID, rideID)
}

// HandleDriverStatus relays a driver stage transition to the rider and
// records it in the audit trail. The driver service already wrote the ride
// record; this side only fans out.
func (rs *RidesService) HandleDriverStatus(msg brokerdto.DriverStatusUpdate) error {
	log := rs.mylog.Action("HandleDriverStatus")

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(ctx, msg.RideID)
	if err != nil {
		log.Error("cannot load ride for status update", err, "ride-id", msg.RideID)
		return err
	}

	if err := rs.ridesRepo.AppendEvent(ctx, msg.RideID, "driver_status_"+msg.Status, msg); err != nil {
		log.Warn("cannot append audit event", "ride-id", msg.RideID)
	}

	push := websocketdto.RideStatusUpdatePush{
		RideID:    msg.RideID,
		Status:    msg.Status,
		Timestamp: msg.Timestamp,
	}
	if ride.Driver != nil {
		push.DriverInfo = &websocketdto.DriverInfo{
			PinCode:     ride.Driver.PinCode,
			Name:        ride.Driver.FirstName + " " + ride.Driver.LastName,
			PhoneNumber: ride.Driver.PhoneNumber,
		}
	}
	payload, err := json.Marshal(push)
	if err != nil {
		return err
	}
	rs.ws.WriteToRider(ride.CustomerID, websocketdto.Event{
		Type: websocketdto.TypeRideStatusUpdate,
		Data: payload,
	})
	return nil
}

var (
	ErrEmptyField       = errors.New("field is empty")
	ErrInvalidLatitude  = errors.New("invalid latitude [-90, 90]")
	ErrInvalidLongitude = errors.New("invalid longitude [-180, 180]")
	ErrInvalidAddress   = errors.New("maximum 255 characters allowed")
	ErrInvalidDistance  = errors.New("distance must be positive")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

var registrationPattern = regexp.MustCompile(`^[A-Z]{2,3}-\d{1,4}$`)

func validateRideRequest(req dto.RideRequestDto) error {
	if req.Origin == nil || req.Destination == nil || req.SelectedCar == nil {
		return ErrEmptyField
	}
	if err := validateLocation(*req.Origin); err != nil {
		return fmt.Errorf("invalid origin: %v", err)
	}
	if err := validateLocation(*req.Destination); err != nil {
		return fmt.Errorf("invalid destination: %v", err)
	}
	if err := validateRegistration(req.SelectedCar.RegistrationNumber); err != nil {
		return fmt.Errorf("invalid selected car: %v", err)
	}
	if req.DistanceKm == nil || *req.DistanceKm <= 0 {
		return ErrInvalidDistance
	}
	if req.DurationMinutes == nil || *req.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

func validateLocation(l dto.LocationDto) error {
	if l.LocationName == nil || *l.LocationName == "" {
		return ErrEmptyField
	}
	if len(*l.LocationName) > 255 {
		return ErrInvalidAddress
	}
	if l.Latitude == nil || math.Abs(*l.Latitude) > 90 {
		return ErrInvalidLatitude
	}
	if l.Longitude == nil || math.Abs(*l.Longitude) > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

func validateRegistration(reg *string) error {
	if reg == nil || *reg == "" {
		return ErrEmptyField
	}
	if !registrationPattern.MatchString(*reg) {
		return fmt.Errorf("registration %q does not match the ABC-1234 format", *reg)
	}
	return nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// used by handlers to map domain errors onto status codes
func IsConflict(err error) bool {
	return errors.Is(err, myerrors.ErrRideUnavailable) ||
		errors.Is(err, myerrors.ErrDriverUnavailable) ||
		errors.Is(err, myerrors.ErrCarUnavailable) ||
		errors.Is(err, myerrors.ErrNotRequested)
}
