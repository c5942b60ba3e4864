package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safri360/internal/driver-service/core/domain/brokerdto"
	"safri360/internal/driver-service/core/domain/dto"
	"safri360/internal/driver-service/core/domain/model"
	"safri360/internal/driver-service/core/domain/websocketdto"
	"safri360/internal/driver-service/core/myerrors"
	"safri360/internal/driver-service/core/ports"
	"safri360/internal/mylogger"
)

const repoTimeout = time.Second * 15

type DriverService struct {
	ctx    context.Context
	mylog  mylogger.Logger
	repo   ports.IDriverRepo
	broker ports.IDriverBroker
	ws     ports.IDriverWebsocket
}

func NewDriverService(ctx context.Context,
	log mylogger.Logger,
	repo ports.IDriverRepo,
	broker ports.IDriverBroker,
	ws ports.IDriverWebsocket,
) ports.IDriverService {
	return &DriverService{
		ctx:    ctx,
		mylog:  log,
		repo:   repo,
		broker: broker,
		ws:     ws,
	}
}

func (ds *DriverService) GoOnline(pinCode string) (dto.StatusResponseDto, error) {
	log := ds.mylog.Action("GoOnline").With("pin", pinCode)

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	driver, err := ds.repo.GetDriver(ctx, pinCode)
	if err != nil {
		return dto.StatusResponseDto{}, err
	}
	if driver.Status == model.DriverBooked {
		return dto.StatusResponseDto{}, myerrors.ErrDriverBooked
	}

	if err := ds.repo.SetOnline(ctx, pinCode); err != nil {
		return dto.StatusResponseDto{}, err
	}

	log.Info("driver is online")
	return dto.StatusResponseDto{
		PinCode: pinCode,
		Status:  model.DriverOnline,
		Message: "You are now online and ready to accept rides",
	}, nil
}

func (ds *DriverService) GoOffline(pinCode string) (dto.StatusResponseDto, error) {
	log := ds.mylog.Action("GoOffline").With("pin", pinCode)

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	driver, err := ds.repo.GetDriver(ctx, pinCode)
	if err != nil {
		return dto.StatusResponseDto{}, err
	}
	if driver.Status == model.DriverBooked {
		return dto.StatusResponseDto{}, myerrors.ErrDriverBooked
	}

	if err := ds.repo.SetOffline(ctx, pinCode); err != nil {
		return dto.StatusResponseDto{}, err
	}

	log.Info("driver is offline")
	return dto.StatusResponseDto{
		PinCode: pinCode,
		Status:  model.DriverOffline,
		Message: "You are now offline",
	}, nil
}

func (ds *DriverService) ActiveRide(pinCode string) (dto.ActiveRideResponseDto, error) {
	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	if _, err := ds.repo.GetDriver(ctx, pinCode); err != nil {
		return dto.ActiveRideResponseDto{}, err
	}

	ride, err := ds.repo.GetActiveRide(ctx, pinCode)
	if err != nil {
		return dto.ActiveRideResponseDto{}, err
	}
	return rideToDto(ride), nil
}

func (ds *DriverService) Arrived(pinCode string) (dto.StageResponseDto, error) {
	return ds.advance(pinCode, model.StageArrived, "driver_arrived", ds.repo.MarkArrived)
}

func (ds *DriverService) StartRide(pinCode string) (dto.StageResponseDto, error) {
	return ds.advance(pinCode, model.StageOngoing, "ride_started", ds.repo.MarkOngoing)
}

func (ds *DriverService) CompleteRide(pinCode string) (dto.StageResponseDto, error) {
	log := ds.mylog.Action("CompleteRide").With("pin", pinCode)

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	ride, err := ds.repo.GetActiveRide(ctx, pinCode)
	if err != nil {
		return dto.StageResponseDto{}, err
	}
	if model.StageOf(ride.Status) != model.StageOngoing {
		return dto.StageResponseDto{}, myerrors.ErrStageConflict
	}

	rows, err := ds.repo.MarkCompleted(ctx, ride.RideID)
	if err != nil {
		return dto.StageResponseDto{}, err
	}
	if rows == 0 {
		// someone beat us to a conflicting transition
		return dto.StageResponseDto{}, myerrors.ErrStageConflict
	}

	// The ride is done: the driver goes back to online, the car back to
	// idle. Failures here leave stale bookings, so they are loud.
	if err := ds.repo.ReleaseDriver(ctx, pinCode); err != nil {
		log.Error("cannot release driver after completion", err)
	}
	if err := ds.repo.ReleaseCar(ctx, ride.CarRegistration); err != nil {
		log.Error("cannot release car after completion", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := ds.repo.AppendEvent(ctx, ride.RideID, "ride_completed", map[string]string{"pin_code": pinCode}); err != nil {
		log.Warn("cannot append audit event")
	}
	ds.publishStatus(log, ride.RideID, pinCode, model.RideCompleted, now)

	log.Info("ride completed", "ride-id", ride.RideID)
	return dto.StageResponseDto{
		RideID:    ride.RideID,
		Stage:     model.StageIdle.String(),
		Timestamp: now,
	}, nil
}

// advance performs a forward stage transition as a conditional update on
// the ride row. A repeat of the current stage is answered with success
// and no write.
func (ds *DriverService) advance(pinCode string,
	target model.Stage,
	eventType string,
	mark func(ctx context.Context, rideID string) (int64, error),
) (dto.StageResponseDto, error) {
	log := ds.mylog.Action("StageTransition").With("pin", pinCode, "target", target.String())

	ctx, cancel := context.WithTimeout(ds.ctx, repoTimeout)
	defer cancel()

	ride, err := ds.repo.GetActiveRide(ctx, pinCode)
	if err != nil {
		return dto.StageResponseDto{}, err
	}

	stage := model.StageOf(ride.Status)
	next, ok := stage.Next(target)
	if !ok {
		return dto.StageResponseDto{}, myerrors.ErrStageConflict
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if next == stage {
		// already there, nothing to write
		return dto.StageResponseDto{RideID: ride.RideID, Stage: stage.String(), Timestamp: now}, nil
	}

	rows, err := mark(ctx, ride.RideID)
	if err != nil {
		return dto.StageResponseDto{}, err
	}
	if rows == 0 {
		// lost a race: accept if the row already carries the target stage
		fresh, err := ds.repo.GetActiveRide(ctx, pinCode)
		if err != nil || model.StageOf(fresh.Status) != target {
			return dto.StageResponseDto{}, myerrors.ErrStageConflict
		}
	}

	if err := ds.repo.AppendEvent(ctx, ride.RideID, eventType, map[string]string{"pin_code": pinCode}); err != nil {
		log.Warn("cannot append audit event")
	}
	ds.publishStatus(log, ride.RideID, pinCode, rideStatusOf(target), now)

	log.Info("stage advanced", "ride-id", ride.RideID)
	return dto.StageResponseDto{
		RideID:    ride.RideID,
		Stage:     target.String(),
		Timestamp: now,
	}, nil
}

func (ds *DriverService) HandleRideAssigned(msg brokerdto.RideAssigned) {
	log := ds.mylog.Action("HandleRideAssigned").With("ride-id", msg.RideID, "pin", msg.PinCode)

	push, err := json.Marshal(websocketdto.RideAssignedPush{
		RideID:          msg.RideID,
		Registration:    msg.Registration,
		PickupName:      msg.Pickup.Name,
		DestinationName: msg.Destination.Name,
		Fare:            msg.Fare,
		AssignedAt:      msg.AssignedAt,
	})
	if err != nil {
		log.Error("cannot marshal assignment push", err)
		return
	}
	ds.ws.WriteToDriver(msg.PinCode, websocketdto.Event{
		Type: websocketdto.TypeRideAssigned,
		Data: push,
	})
	log.Debug("assignment pushed to driver")
}

func (ds *DriverService) publishStatus(log mylogger.Logger, rideID, pinCode, status, ts string) {
	msg := brokerdto.DriverStatusUpdate{
		RideID:    rideID,
		PinCode:   pinCode,
		Status:    status,
		Timestamp: ts,
	}
	if err := ds.broker.PublishDriverStatus(ds.ctx, msg); err != nil {
		// rider misses one live update; the store already holds the truth
		log.Error(fmt.Sprintf("cannot publish %s", status), err)
	}
}

func rideStatusOf(s model.Stage) string {
	switch s {
	case model.StageArrived:
		return model.RideArrived
	case model.StageOngoing:
		return model.RideOngoing
	default:
		return model.RideCompleted
	}
}

func rideToDto(r model.ActiveRide) dto.ActiveRideResponseDto {
	return dto.ActiveRideResponseDto{
		RideID:          r.RideID,
		Origin:          dto.LocationDto{Name: r.Origin.Name, Lat: r.Origin.Lat, Lng: r.Origin.Lng},
		Destination:     dto.LocationDto{Name: r.Destination.Name, Lat: r.Destination.Lat, Lng: r.Destination.Lng},
		Registration:    r.CarRegistration,
		DistanceKm:      r.DistanceKm,
		DurationMinutes: r.DurationMinutes,
		Fare:            r.Fare,
		Status:          r.Status,
		Stage:           model.StageOf(r.Status).String(),
	}
}
