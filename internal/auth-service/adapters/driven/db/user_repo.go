package db

import (
	"context"
	"errors"

	"safri360/internal/auth-service/core/domain/model"
	"safri360/internal/auth-service/core/myerrors"
	"safri360/internal/auth-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) ports.IUserRepo {
	return &UserRepo{db: db}
}

func (ur *UserRepo) Create(ctx context.Context, u model.User) error {
	q := `INSERT INTO users(uid, role, email, password_hash, first_name, last_name, phone_number, photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := ur.db.pool.Exec(ctx, q,
		u.UID, u.Role, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber, u.PhotoURL)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return myerrors.ErrEmailRegistered
	}
	return err
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	q := `SELECT uid, role, email, password_hash, COALESCE(first_name,''), COALESCE(last_name,''),
			COALESCE(phone_number,''), COALESCE(photo_url,''), created_at
		FROM users WHERE email = $1`

	var u model.User
	err := ur.db.pool.QueryRow(ctx, q, email).Scan(
		&u.UID, &u.Role, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.PhoneNumber, &u.PhotoURL, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, myerrors.ErrUnknownEmail
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
