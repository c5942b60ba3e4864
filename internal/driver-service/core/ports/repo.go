package ports

import (
	"context"

	"safri360/internal/driver-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
	IsAlive(ctx context.Context) error
	Close() error
}

type IDriverRepo interface {
	GetDriver(ctx context.Context, pinCode string) (model.Driver, error)

	// Availability toggles are conditional: a booked driver stays booked.
	SetOnline(ctx context.Context, pinCode string) error
	SetOffline(ctx context.Context, pinCode string) error

	// GetActiveRide returns the driver's non-terminal ride, or
	// ErrNoActiveRide when there is none.
	GetActiveRide(ctx context.Context, pinCode string) (model.ActiveRide, error)

	// Stage transitions are compare-and-set updates on ride status.
	// Each returns the number of rows changed so callers can tell an
	// idempotent repeat from a lost race.
	MarkArrived(ctx context.Context, rideID string) (int64, error)
	MarkOngoing(ctx context.Context, rideID string) (int64, error)
	MarkCompleted(ctx context.Context, rideID string) (int64, error)

	// Completion frees the driver and the car booked for the ride.
	ReleaseDriver(ctx context.Context, pinCode string) error
	ReleaseCar(ctx context.Context, registration string) error

	AppendEvent(ctx context.Context, rideID, eventType string, payload any) error
}
