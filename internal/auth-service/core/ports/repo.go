package ports

import (
	"context"

	"safri360/internal/auth-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
	IsAlive(ctx context.Context) error
	Close() error
}

type IUserRepo interface {
	Create(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

type IDriverRepo interface {
	GetByPin(ctx context.Context, pinCode string) (model.Driver, error)

	// CompleteProfile fills in name and CNIC on first login only; a
	// record that already carries a name is left untouched.
	CompleteProfile(ctx context.Context, pinCode, firstName, lastName, cnic string) error
}
