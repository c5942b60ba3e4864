package db

import (
	"context"
	"errors"

	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type FleetRepo struct {
	db *DB
}

func NewFleetRepo(db *DB) ports.IFleetRepo {
	return &FleetRepo{db: db}
}

func (fr *FleetRepo) AddCar(ctx context.Context, c model.Car) error {
	q := `INSERT INTO cars(registration_number, owner_uid, manufacturer, model, year, color, average_kmpl, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := fr.db.pool.Exec(ctx, q,
		c.RegistrationNumber, c.OwnerUID, c.Manufacturer, c.Model, c.Year, c.Color, c.AverageKmpl, string(c.Status))
	return err
}

func (fr *FleetRepo) RemoveCar(ctx context.Context, ownerUID, registration string) error {
	q := `DELETE FROM cars WHERE registration_number = $1 AND owner_uid = $2`

	tag, err := fr.db.pool.Exec(ctx, q, registration, ownerUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrCarNotFound
	}
	return nil
}

func (fr *FleetRepo) ListCars(ctx context.Context, ownerUID string) ([]model.Car, error) {
	q := `SELECT registration_number, owner_uid, manufacturer, model, year, color, average_kmpl, status, created_at
		FROM cars WHERE owner_uid = $1 ORDER BY created_at`

	rows, err := fr.db.pool.Query(ctx, q, ownerUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

// ListIdleCars feeds the matcher seed at boot.
func (fr *FleetRepo) ListIdleCars(ctx context.Context) ([]model.Car, error) {
	q := `SELECT registration_number, owner_uid, manufacturer, model, year, color, average_kmpl, status, created_at
		FROM cars WHERE status = 'idle'`

	rows, err := fr.db.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

func scanCars(rows pgx.Rows) ([]model.Car, error) {
	var out []model.Car
	for rows.Next() {
		var c model.Car
		var status string
		if err := rows.Scan(&c.RegistrationNumber, &c.OwnerUID, &c.Manufacturer, &c.Model, &c.Year,
			&c.Color, &c.AverageKmpl, &status, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Status = model.CarStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (fr *FleetRepo) BookCar(ctx context.Context, registration string) error {
	q := `UPDATE cars SET status = 'booked' WHERE registration_number = $1 AND status = 'idle'`

	tag, err := fr.db.pool.Exec(ctx, q, registration)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrCarUnavailable
	}
	return nil
}

func (fr *FleetRepo) ReleaseCar(ctx context.Context, registration string) error {
	q := `UPDATE cars SET status = 'idle' WHERE registration_number = $1 AND status = 'booked'`

	_, err := fr.db.pool.Exec(ctx, q, registration)
	return err
}

func (fr *FleetRepo) AddDriver(ctx context.Context, d model.Driver) error {
	q := `INSERT INTO drivers(pin_code, owner_uid, phone_number, status) VALUES ($1,$2,$3,$4)`

	_, err := fr.db.pool.Exec(ctx, q, d.PinCode, d.OwnerUID, d.PhoneNumber, string(d.Status))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return myerrors.ErrPinTaken
	}
	return err
}

func (fr *FleetRepo) RemoveDriver(ctx context.Context, ownerUID, pinCode string) error {
	q := `DELETE FROM drivers WHERE pin_code = $1 AND owner_uid = $2`

	tag, err := fr.db.pool.Exec(ctx, q, pinCode, ownerUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverNotFound
	}
	return nil
}

const driverColumns = `pin_code, owner_uid, phone_number, COALESCE(cnic, ''), COALESCE(first_name, ''), COALESCE(last_name, ''), status, created_at`

func (fr *FleetRepo) GetDriver(ctx context.Context, pinCode string) (model.Driver, error) {
	q := `SELECT ` + driverColumns + ` FROM drivers WHERE pin_code = $1`

	var d model.Driver
	var status string
	err := fr.db.pool.QueryRow(ctx, q, pinCode).Scan(
		&d.PinCode, &d.OwnerUID, &d.PhoneNumber, &d.CNIC, &d.FirstName, &d.LastName, &status, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	if err != nil {
		return model.Driver{}, err
	}
	d.Status = model.DriverStatus(status)
	return d, nil
}

func (fr *FleetRepo) ListDrivers(ctx context.Context, ownerUID string) ([]model.Driver, error) {
	q := `SELECT ` + driverColumns + ` FROM drivers WHERE owner_uid = $1 ORDER BY created_at`
	return fr.queryDrivers(ctx, q, ownerUID)
}

func (fr *FleetRepo) ListAvailableDrivers(ctx context.Context, ownerUID string) ([]model.Driver, error) {
	q := `SELECT ` + driverColumns + ` FROM drivers WHERE owner_uid = $1 AND status = 'online' ORDER BY created_at`
	return fr.queryDrivers(ctx, q, ownerUID)
}

func (fr *FleetRepo) queryDrivers(ctx context.Context, q string, args ...any) ([]model.Driver, error) {
	rows, err := fr.db.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Driver
	for rows.Next() {
		var d model.Driver
		var status string
		if err := rows.Scan(&d.PinCode, &d.OwnerUID, &d.PhoneNumber, &d.CNIC, &d.FirstName, &d.LastName, &status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Status = model.DriverStatus(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (fr *FleetRepo) BookDriver(ctx context.Context, pinCode string) error {
	q := `UPDATE drivers SET status = 'booked' WHERE pin_code = $1 AND status = 'online'`

	tag, err := fr.db.pool.Exec(ctx, q, pinCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverUnavailable
	}
	return nil
}

func (fr *FleetRepo) ReleaseDriver(ctx context.Context, pinCode string) error {
	q := `UPDATE drivers SET status = 'online' WHERE pin_code = $1 AND status = 'booked'`

	_, err := fr.db.pool.Exec(ctx, q, pinCode)
	return err
}
