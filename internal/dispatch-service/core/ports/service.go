package ports

import (
	"context"

	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/domain/dto"
)

type IRidesService interface {
	CreateRide(customerID string, req dto.RideRequestDto) (dto.RideResponseDto, error)
	CancelRide(customerID, rideID string) (dto.RideCancelResponseDto, error)
	CandidatesFor(ownerUID string) ([]dto.CandidateRideDto, error)
	Ignore(ownerUID, rideID string)
	HandleDriverStatus(msg brokerdto.DriverStatusUpdate) error
}

type IAssignmentService interface {
	AssignDriver(ownerUID, rideID, pinCode string) (dto.AssignResponseDto, error)
}

type IFleetService interface {
	AddCar(ownerUID string, req dto.CarDto) (dto.CarResponseDto, error)
	RemoveCar(ownerUID, registration string) error
	ListCars(ownerUID string) ([]dto.CarResponseDto, error)
	AddDriver(ownerUID string, req dto.AddDriverRequestDto) (dto.DriverResponseDto, error)
	RemoveDriver(ownerUID, pinCode string) error
	ListDrivers(ownerUID string) ([]dto.DriverResponseDto, error)
	ListAvailableDrivers(ownerUID string) ([]dto.DriverResponseDto, error)
}

type IPresenceService interface {
	GoOnline(ctx context.Context, uid string) (dto.PresenceResponseDto, error)
	GoOffline(ctx context.Context, uid string) (dto.PresenceResponseDto, error)
}
