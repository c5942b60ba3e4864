package ports

import (
	"safri360/internal/driver-service/core/domain/brokerdto"
	"safri360/internal/driver-service/core/domain/dto"
)

type IDriverService interface {
	GoOnline(pinCode string) (dto.StatusResponseDto, error)
	GoOffline(pinCode string) (dto.StatusResponseDto, error)

	ActiveRide(pinCode string) (dto.ActiveRideResponseDto, error)

	Arrived(pinCode string) (dto.StageResponseDto, error)
	StartRide(pinCode string) (dto.StageResponseDto, error)
	CompleteRide(pinCode string) (dto.StageResponseDto, error)

	// HandleRideAssigned is invoked by the broker consumer when dispatch
	// assigns a ride to one of our drivers.
	HandleRideAssigned(msg brokerdto.RideAssigned)
}
