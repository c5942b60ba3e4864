package services

import (
	"context"
	"time"

	"safri360/internal/admin-service/core/domain/dto"
	"safri360/internal/admin-service/core/domain/model"
	"safri360/internal/admin-service/core/ports"
	"safri360/internal/mylogger"
)

const (
	repoTimeout     = time.Second * 15
	defaultPageSize = 20
	maxPageSize     = 100
)

type AdminService struct {
	ctx       context.Context
	mylog     mylogger.Logger
	adminRepo ports.IAdminRepo
	presence  ports.IPresenceCounter
}

func NewAdminService(ctx context.Context,
	log mylogger.Logger,
	adminRepo ports.IAdminRepo,
	presence ports.IPresenceCounter,
) ports.IAdminService {
	return &AdminService{
		ctx:       ctx,
		mylog:     log,
		adminRepo: adminRepo,
		presence:  presence,
	}
}

func (as *AdminService) ActiveRides(page, pageSize int) (dto.ActiveRidesResponseDto, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()

	total, rides, err := as.adminRepo.ActiveRides(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return dto.ActiveRidesResponseDto{}, err
	}

	out := make([]dto.ActiveRideDto, 0, len(rides))
	for _, r := range rides {
		out = append(out, rideToDto(r))
	}
	return dto.ActiveRidesResponseDto{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Rides:    out,
	}, nil
}

func (as *AdminService) Overview() (dto.OverviewDto, error) {
	log := as.mylog.Action("Overview")

	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()

	c, err := as.adminRepo.Counters(ctx)
	if err != nil {
		return dto.OverviewDto{}, err
	}

	online, err := as.presence.CountOnline(ctx)
	if err != nil {
		// presence is best-effort; the store counters still stand
		log.Warn("cannot count online users", "err", err.Error())
		online = 0
	}

	return dto.OverviewDto{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Rides: dto.RideCounts{
			Requested: c.RidesRequested,
			Assigned:  c.RidesAssigned,
			Arrived:   c.RidesArrived,
			Ongoing:   c.RidesOngoing,
			Completed: c.RidesCompleted,
			Cancelled: c.RidesCancelled,
		},
		Drivers: dto.FleetCount{
			Offline: c.DriversOffline,
			Online:  c.DriversOnline,
			Booked:  c.DriversBooked,
		},
		Cars: dto.CarCounts{
			Idle:   c.CarsIdle,
			Booked: c.CarsBooked,
		},
		OnlineUsers: online,
	}, nil
}

func rideToDto(r model.ActiveRide) dto.ActiveRideDto {
	return dto.ActiveRideDto{
		RideID:          r.RideID,
		CustomerID:      r.CustomerID,
		OriginName:      r.OriginName,
		DestinationName: r.DestinationName,
		Registration:    r.Registration,
		Fare:            r.Fare,
		Status:          r.Status,
		DriverPin:       r.DriverPin,
		RentACarUID:     r.RentACarUID,
		RequestedAt:     r.RequestedAt.UTC().Format(time.RFC3339),
	}
}
