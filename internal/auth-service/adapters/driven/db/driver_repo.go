package db

import (
	"context"
	"errors"

	"safri360/internal/auth-service/core/domain/model"
	"safri360/internal/auth-service/core/myerrors"
	"safri360/internal/auth-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type DriverRepo struct {
	db *DB
}

func NewDriverRepo(db *DB) ports.IDriverRepo {
	return &DriverRepo{db: db}
}

func (dr *DriverRepo) GetByPin(ctx context.Context, pinCode string) (model.Driver, error) {
	q := `SELECT pin_code, owner_uid, phone_number, COALESCE(cnic,''), COALESCE(first_name,''), COALESCE(last_name,''), status
		FROM drivers WHERE pin_code = $1`

	var d model.Driver
	err := dr.db.pool.QueryRow(ctx, q, pinCode).Scan(
		&d.PinCode, &d.OwnerUID, &d.PhoneNumber, &d.Cnic, &d.FirstName, &d.LastName, &d.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Driver{}, myerrors.ErrUnknownPin
	}
	if err != nil {
		return model.Driver{}, err
	}
	return d, nil
}

// CompleteProfile fills the name fields exactly once; a named record is
// never overwritten.
func (dr *DriverRepo) CompleteProfile(ctx context.Context, pinCode, firstName, lastName, cnic string) error {
	q := `UPDATE drivers SET first_name = $2, last_name = $3, cnic = $4
		WHERE pin_code = $1 AND (first_name IS NULL OR first_name = '')`

	_, err := dr.db.pool.Exec(ctx, q, pinCode, firstName, lastName, cnic)
	return err
}
