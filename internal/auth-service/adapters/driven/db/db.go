package db

import (
	"context"
	"fmt"

	"safri360/internal/config"
	"safri360/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	ctx   context.Context
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// New opens a connection pool. The dispatch service owns schema
// migrations.
func New(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	d := &DB{
		ctx:   ctx,
		cfg:   dbCfg,
		mylog: mylog,
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Database,
	)

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	d.pool = pool

	return d, nil
}

func (d *DB) GetPool() *pgxpool.Pool {
	return d.pool
}

func (d *DB) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("database is not initialized")
	}
	return d.pool.Ping(ctx)
}

func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
