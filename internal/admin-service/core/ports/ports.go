package ports

import (
	"context"

	"safri360/internal/admin-service/core/domain/dto"
	"safri360/internal/admin-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
	IsAlive(ctx context.Context) error
	Close() error
}

type IAdminRepo interface {
	// ActiveRides returns the total count of non-terminal rides plus one
	// page of them, newest request first.
	ActiveRides(ctx context.Context, limit, offset int) (int, []model.ActiveRide, error)
	Counters(ctx context.Context) (model.Counters, error)
}

type IPresenceCounter interface {
	CountOnline(ctx context.Context) (int64, error)
	Close() error
}

type IAdminService interface {
	ActiveRides(page, pageSize int) (dto.ActiveRidesResponseDto, error)
	Overview() (dto.OverviewDto, error)
}
