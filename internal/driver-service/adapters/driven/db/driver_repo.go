package db

import (
	"context"
	"encoding/json"
	"errors"

	"safri360/internal/driver-service/core/domain/model"
	"safri360/internal/driver-service/core/myerrors"
	"safri360/internal/driver-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type DriverRepo struct {
	db *DB
}

func NewDriverRepo(db *DB) ports.IDriverRepo {
	return &DriverRepo{db: db}
}

func (dr *DriverRepo) GetDriver(ctx context.Context, pinCode string) (model.Driver, error) {
	q := `SELECT pin_code, owner_uid, phone_number, COALESCE(cnic,''), COALESCE(first_name,''), COALESCE(last_name,''), status
		FROM drivers WHERE pin_code = $1`

	var d model.Driver
	err := dr.db.pool.QueryRow(ctx, q, pinCode).Scan(
		&d.PinCode, &d.OwnerUID, &d.PhoneNumber, &d.Cnic, &d.FirstName, &d.LastName, &d.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	if err != nil {
		return model.Driver{}, err
	}
	return d, nil
}

func (dr *DriverRepo) SetOnline(ctx context.Context, pinCode string) error {
	return dr.setAvailability(ctx, pinCode, model.DriverOnline)
}

func (dr *DriverRepo) SetOffline(ctx context.Context, pinCode string) error {
	return dr.setAvailability(ctx, pinCode, model.DriverOffline)
}

// setAvailability never touches a booked driver; completion is the only
// way out of booked.
func (dr *DriverRepo) setAvailability(ctx context.Context, pinCode, status string) error {
	q := `UPDATE drivers SET status = $2 WHERE pin_code = $1 AND status <> 'booked'`

	tag, err := dr.db.pool.Exec(ctx, q, pinCode, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverBooked
	}
	return nil
}

func (dr *DriverRepo) GetActiveRide(ctx context.Context, pinCode string) (model.ActiveRide, error) {
	q := `SELECT ride_id, customer_id,
			origin_name, origin_lat, origin_lng,
			destination_name, destination_lat, destination_lng,
			car_registration, distance_km, duration_minutes, fare, status,
			assigned_at, arrived_at, started_at, completed_at
		FROM rides
		WHERE driver_pin = $1 AND status IN ('assigned','arrived','ongoing')
		ORDER BY assigned_at DESC
		LIMIT 1`

	var r model.ActiveRide
	err := dr.db.pool.QueryRow(ctx, q, pinCode).Scan(
		&r.RideID, &r.CustomerID,
		&r.Origin.Name, &r.Origin.Lat, &r.Origin.Lng,
		&r.Destination.Name, &r.Destination.Lat, &r.Destination.Lng,
		&r.CarRegistration, &r.DistanceKm, &r.DurationMinutes, &r.Fare, &r.Status,
		&r.AssignedAt, &r.ArrivedAt, &r.StartedAt, &r.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ActiveRide{}, myerrors.ErrNoActiveRide
	}
	if err != nil {
		return model.ActiveRide{}, err
	}
	return r, nil
}

func (dr *DriverRepo) MarkArrived(ctx context.Context, rideID string) (int64, error) {
	q := `UPDATE rides SET status = 'arrived', arrived_at = now()
		WHERE ride_id = $1 AND status = 'assigned'`
	return dr.exec(ctx, q, rideID)
}

func (dr *DriverRepo) MarkOngoing(ctx context.Context, rideID string) (int64, error) {
	q := `UPDATE rides SET status = 'ongoing', started_at = now()
		WHERE ride_id = $1 AND status = 'arrived'`
	return dr.exec(ctx, q, rideID)
}

func (dr *DriverRepo) MarkCompleted(ctx context.Context, rideID string) (int64, error) {
	q := `UPDATE rides SET status = 'completed', completed_at = now()
		WHERE ride_id = $1 AND status = 'ongoing'`
	return dr.exec(ctx, q, rideID)
}

func (dr *DriverRepo) exec(ctx context.Context, q, rideID string) (int64, error) {
	tag, err := dr.db.pool.Exec(ctx, q, rideID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (dr *DriverRepo) ReleaseDriver(ctx context.Context, pinCode string) error {
	q := `UPDATE drivers SET status = 'online' WHERE pin_code = $1 AND status = 'booked'`
	_, err := dr.db.pool.Exec(ctx, q, pinCode)
	return err
}

func (dr *DriverRepo) ReleaseCar(ctx context.Context, registration string) error {
	q := `UPDATE cars SET status = 'idle' WHERE registration_number = $1 AND status = 'booked'`
	_, err := dr.db.pool.Exec(ctx, q, registration)
	return err
}

func (dr *DriverRepo) AppendEvent(ctx context.Context, rideID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q := `INSERT INTO ride_events(ride_id, event_type, event_data) VALUES ($1, $2, $3)`
	_, err = dr.db.pool.Exec(ctx, q, rideID, eventType, data)
	return err
}
