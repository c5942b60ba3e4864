package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/domain/websocketdto"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"
)

// AssignmentService commits a driver to a ride. The commit spans three
// records (ride, driver, car), each transitioned by a conditional update.
// A later step failing compensates the earlier ones, so the observable
// outcomes are exactly two: fully assigned, or untouched. The SMS
// notification is sent before any write; if it cannot be sent, nothing
// changes.
type AssignmentService struct {
	ctx       context.Context
	mylog     mylogger.Logger
	ridesRepo ports.IRidesRepo
	fleetRepo ports.IFleetRepo
	broker    ports.IDispatchBroker
	ws        ports.INotifyWebsocket
	sms       ports.ISmsSender
	matcher   *Matcher
}

func NewAssignmentService(ctx context.Context,
	log mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	fleetRepo ports.IFleetRepo,
	broker ports.IDispatchBroker,
	ws ports.INotifyWebsocket,
	sms ports.ISmsSender,
	matcher *Matcher,
) ports.IAssignmentService {
	return &AssignmentService{
		ctx:       ctx,
		mylog:     log,
		ridesRepo: ridesRepo,
		fleetRepo: fleetRepo,
		broker:    broker,
		ws:        ws,
		sms:       sms,
		matcher:   matcher,
	}
}

func (as *AssignmentService) AssignDriver(ownerUID, rideID, pinCode string) (dto.AssignResponseDto, error) {
	log := as.mylog.Action("AssignDriver").With("ride-id", rideID, "pin", pinCode)

	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()

	driver, err := as.fleetRepo.GetDriver(ctx, pinCode)
	if err != nil {
		return dto.AssignResponseDto{}, err
	}
	if driver.OwnerUID != ownerUID {
		return dto.AssignResponseDto{}, myerrors.ErrDriverNotOwned
	}
	if driver.Status != model.DriverOnline {
		return dto.AssignResponseDto{}, myerrors.ErrDriverUnavailable
	}

	ride, err := as.ridesRepo.GetRide(ctx, rideID)
	if err != nil {
		return dto.AssignResponseDto{}, err
	}
	if ride.Status != model.StatusRequested {
		return dto.AssignResponseDto{}, myerrors.ErrRideUnavailable
	}

	// Notify first. An unsendable notification must leave the ride open.
	smsBody := fmt.Sprintf("You have been assigned a ride. Please login to the Safri360 app with the PIN: %s", pinCode)
	if err := as.sms.Send(ctx, driver.PhoneNumber, smsBody); err != nil {
		log.Error("sms send failed, assignment aborted", err)
		return dto.AssignResponseDto{}, fmt.Errorf("cannot notify driver: %w", err)
	}

	info := model.DriverInfo{
		PinCode:     driver.PinCode,
		FirstName:   driver.FirstName,
		LastName:    driver.LastName,
		PhoneNumber: driver.PhoneNumber,
	}

	if err := as.ridesRepo.MarkAssigned(ctx, rideID, info, ownerUID); err != nil {
		log.Warn("lost the ride", "err", err.Error())
		return dto.AssignResponseDto{}, err
	}

	if err := as.fleetRepo.BookDriver(ctx, pinCode); err != nil {
		log.Error("cannot book driver, compensating ride", err)
		as.compensate(log, func(c context.Context) error { return as.ridesRepo.RevertAssigned(c, rideID) })
		return dto.AssignResponseDto{}, err
	}

	reg := ride.SelectedCar.RegistrationNumber
	if err := as.fleetRepo.BookCar(ctx, reg); err != nil {
		log.Error("cannot book car, compensating driver and ride", err)
		as.compensate(log, func(c context.Context) error { return as.fleetRepo.ReleaseDriver(c, pinCode) })
		as.compensate(log, func(c context.Context) error { return as.ridesRepo.RevertAssigned(c, rideID) })
		return dto.AssignResponseDto{}, err
	}

	assignedAt := time.Now().UTC().Format(time.RFC3339)
	if err := as.ridesRepo.AppendEvent(ctx, rideID, "ride_assigned", info); err != nil {
		log.Warn("cannot append audit event")
	}

	msg := brokerdto.RideAssigned{
		RideID:       rideID,
		PinCode:      pinCode,
		RentACarUID:  ownerUID,
		Registration: reg,
		CustomerID:   ride.CustomerID,
		Pickup:       brokerdto.Location{Name: ride.Origin.LocationName, Lat: ride.Origin.Latitude, Lng: ride.Origin.Longitude},
		Destination:  brokerdto.Location{Name: ride.Destination.LocationName, Lat: ride.Destination.Latitude, Lng: ride.Destination.Longitude},
		Fare:         ride.Fare,
		AssignedAt:   assignedAt,
	}
	if err := as.broker.PublishRideAssigned(as.ctx, msg); err != nil {
		// committed state stands; the driver learns of the ride on next login
		log.Error("cannot publish assignment", err)
	}

	as.notifyAfterCommit(ownerUID, ride, info, assignedAt)

	log.Info("driver assigned", "owner", ownerUID)
	return dto.AssignResponseDto{
		RideID:     rideID,
		Status:     string(model.StatusAssigned),
		DriverPin:  pinCode,
		AssignedAt: assignedAt,
		Message:    "Driver has been assigned and notified via SMS",
	}, nil
}

func (as *AssignmentService) compensate(log mylogger.Logger, undo func(context.Context) error) {
	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()
	if err := undo(ctx); err != nil {
		log.Error("compensation failed", err)
	}
}

func (as *AssignmentService) notifyAfterCommit(ownerUID string, ride model.Ride, info model.DriverInfo, assignedAt string) {
	reg := ride.SelectedCar.RegistrationNumber

	// rider sees the assignment
	statusPush, err := json.Marshal(websocketdto.RideStatusUpdatePush{
		RideID: ride.RideID,
		Status: string(model.StatusAssigned),
		DriverInfo: &websocketdto.DriverInfo{
			PinCode:     info.PinCode,
			Name:        info.FirstName + " " + info.LastName,
			PhoneNumber: info.PhoneNumber,
		},
		Timestamp: assignedAt,
	})
	if err == nil {
		as.ws.WriteToRider(ride.CustomerID, websocketdto.Event{
			Type: websocketdto.TypeRideStatusUpdate,
			Data: statusPush,
		})
	}

	// every matching owner drops the request; the booked car leaves the index
	closedPush, err := json.Marshal(websocketdto.RideRequestClosedPush{RideID: ride.RideID, Reason: "assigned"})
	if err == nil {
		event := websocketdto.Event{Type: websocketdto.TypeRideRequestClosed, Data: closedPush}
		for _, uid := range as.matcher.MatchingOwners(reg) {
			as.ws.WriteToOwner(uid, event)
		}
	}
	as.matcher.OnRideClosed(ride.RideID)
	as.matcher.OnCarUnavailable(ownerUID, reg)
}
