package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type RidesRepo struct {
	db *DB
}

func NewRidesRepo(db *DB) ports.IRidesRepo {
	return &RidesRepo{db: db}
}

func (rr *RidesRepo) CreateRide(ctx context.Context, m model.Ride) error {
	q := `INSERT INTO rides(
			ride_id,
			customer_id,
			origin_name, origin_lat, origin_lng,
			destination_name, destination_lat, destination_lng,
			car_registration, car_manufacturer, car_model, car_year, car_color,
			distance_km, duration_minutes, fare,
			status, requested_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	_, err := rr.db.pool.Exec(ctx, q,
		m.RideID,
		m.CustomerID,
		m.Origin.LocationName, m.Origin.Latitude, m.Origin.Longitude,
		m.Destination.LocationName, m.Destination.Latitude, m.Destination.Longitude,
		m.SelectedCar.RegistrationNumber, m.SelectedCar.Manufacturer, m.SelectedCar.Model, m.SelectedCar.Year, m.SelectedCar.Color,
		m.DistanceKm, m.DurationMinutes, m.Fare,
		string(m.Status), m.RequestedAt,
	)
	return err
}

const rideColumns = `
	ride_id, customer_id,
	origin_name, origin_lat, origin_lng,
	destination_name, destination_lat, destination_lng,
	car_registration, car_manufacturer, car_model, car_year, car_color,
	distance_km, duration_minutes, fare, status,
	driver_pin, driver_first_name, driver_last_name, driver_phone,
	rent_a_car_uid, requested_at`

func (rr *RidesRepo) GetRide(ctx context.Context, rideID string) (model.Ride, error) {
	q := `SELECT ` + rideColumns + ` FROM rides WHERE ride_id = $1`

	row := rr.db.pool.QueryRow(ctx, q, rideID)
	m, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ride{}, myerrors.ErrRideNotFound
	}
	return m, err
}

func (rr *RidesRepo) ListRequested(ctx context.Context) ([]model.Ride, error) {
	q := `SELECT ` + rideColumns + ` FROM rides WHERE status = 'requested' ORDER BY requested_at`

	rows, err := rr.db.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ride
	for rows.Next() {
		m, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanRide(row pgx.Row) (model.Ride, error) {
	var (
		m                               model.Ride
		status                          string
		pin, firstName, lastName, phone sql.NullString
		rentACarUID                     sql.NullString
	)
	err := row.Scan(
		&m.RideID, &m.CustomerID,
		&m.Origin.LocationName, &m.Origin.Latitude, &m.Origin.Longitude,
		&m.Destination.LocationName, &m.Destination.Latitude, &m.Destination.Longitude,
		&m.SelectedCar.RegistrationNumber, &m.SelectedCar.Manufacturer, &m.SelectedCar.Model, &m.SelectedCar.Year, &m.SelectedCar.Color,
		&m.DistanceKm, &m.DurationMinutes, &m.Fare, &status,
		&pin, &firstName, &lastName, &phone,
		&rentACarUID, &m.RequestedAt,
	)
	if err != nil {
		return model.Ride{}, err
	}
	m.Status = model.RideStatus(status)
	if pin.Valid {
		m.Driver = &model.DriverInfo{
			PinCode:     pin.String,
			FirstName:   firstName.String,
			LastName:    lastName.String,
			PhoneNumber: phone.String,
		}
	}
	m.RentACarUID = rentACarUID.String
	return m, nil
}

// MarkAssigned is the compare-and-swap the whole workflow hinges on: only a
// ride still in 'requested' can be taken, and only one of two racing owners
// sees a row update.
func (rr *RidesRepo) MarkAssigned(ctx context.Context, rideID string, d model.DriverInfo, rentACarUID string) error {
	q := `UPDATE rides SET
			status = 'assigned',
			driver_pin = $2,
			driver_first_name = $3,
			driver_last_name = $4,
			driver_phone = $5,
			rent_a_car_uid = $6,
			assigned_at = now()
		WHERE ride_id = $1 AND status = 'requested'`

	tag, err := rr.db.pool.Exec(ctx, q, rideID, d.PinCode, d.FirstName, d.LastName, d.PhoneNumber, rentACarUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrRideUnavailable
	}
	return nil
}

func (rr *RidesRepo) RevertAssigned(ctx context.Context, rideID string) error {
	q := `UPDATE rides SET
			status = 'requested',
			driver_pin = NULL,
			driver_first_name = NULL,
			driver_last_name = NULL,
			driver_phone = NULL,
			rent_a_car_uid = NULL,
			assigned_at = NULL
		WHERE ride_id = $1 AND status = 'assigned'`

	tag, err := rr.db.pool.Exec(ctx, q, rideID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotRequested
	}
	return nil
}

func (rr *RidesRepo) MarkCancelled(ctx context.Context, rideID, customerID string) error {
	q := `UPDATE rides SET status = 'cancelled', cancelled_at = now()
		WHERE ride_id = $1 AND customer_id = $2 AND status = 'requested'`

	tag, err := rr.db.pool.Exec(ctx, q, rideID, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotRequested
	}
	return nil
}

func (rr *RidesRepo) AppendEvent(ctx context.Context, rideID, eventType string, eventData any) error {
	var payload []byte
	if eventData != nil {
		var err error
		payload, err = json.Marshal(eventData)
		if err != nil {
			return err
		}
	}
	q := `INSERT INTO ride_events(ride_id, event_type, event_data) VALUES ($1, $2, $3)`
	_, err := rr.db.pool.Exec(ctx, q, rideID, eventType, payload)
	return err
}
