package db

import (
	"context"

	"safri360/internal/dispatch-service/core/ports"
)

type CustomerRepo struct {
	db *DB
}

func NewCustomerRepo(db *DB) ports.ICustomerRepo {
	return &CustomerRepo{db: db}
}

func (cr *CustomerRepo) GetProfile(ctx context.Context, customerID string) (string, string, error) {
	q := `SELECT COALESCE(first_name, '') || ' ' || COALESCE(last_name, ''), COALESCE(phone_number, '')
		FROM users WHERE uid = $1`

	var name, phone string
	if err := cr.db.pool.QueryRow(ctx, q, customerID).Scan(&name, &phone); err != nil {
		return "", "", err
	}
	return name, phone, nil
}
