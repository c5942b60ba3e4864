package ports

import (
	"context"

	"safri360/internal/dispatch-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
	IsAlive(ctx context.Context) error
	Close() error
}

type IRidesRepo interface {
	CreateRide(ctx context.Context, m model.Ride) error
	GetRide(ctx context.Context, rideID string) (model.Ride, error)
	ListRequested(ctx context.Context) ([]model.Ride, error)

	// MarkAssigned performs a conditional transition requested -> assigned,
	// writing driver info and the owning rent-a-car in the same statement.
	// Returns ErrRideUnavailable when the ride was already taken.
	MarkAssigned(ctx context.Context, rideID string, d model.DriverInfo, rentACarUID string) error

	// RevertAssigned is the compensating write: assigned -> requested,
	// clearing driver info.
	RevertAssigned(ctx context.Context, rideID string) error

	// MarkCancelled performs requested -> cancelled, guarded by the
	// requesting customer.
	MarkCancelled(ctx context.Context, rideID, customerID string) error

	AppendEvent(ctx context.Context, rideID, eventType string, eventData any) error
}

type IFleetRepo interface {
	AddCar(ctx context.Context, c model.Car) error
	RemoveCar(ctx context.Context, ownerUID, registration string) error
	ListCars(ctx context.Context, ownerUID string) ([]model.Car, error)
	ListIdleCars(ctx context.Context) ([]model.Car, error)
	BookCar(ctx context.Context, registration string) error    // idle -> booked
	ReleaseCar(ctx context.Context, registration string) error // booked -> idle

	AddDriver(ctx context.Context, d model.Driver) error // ErrPinTaken on duplicate
	RemoveDriver(ctx context.Context, ownerUID, pinCode string) error
	GetDriver(ctx context.Context, pinCode string) (model.Driver, error)
	ListDrivers(ctx context.Context, ownerUID string) ([]model.Driver, error)
	ListAvailableDrivers(ctx context.Context, ownerUID string) ([]model.Driver, error)
	BookDriver(ctx context.Context, pinCode string) error    // online -> booked
	ReleaseDriver(ctx context.Context, pinCode string) error // booked -> online
}

type ICustomerRepo interface {
	GetProfile(ctx context.Context, customerID string) (name, phone string, err error)
}
