package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"safri360/internal/config"
	"safri360/internal/mylogger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	ctx   context.Context
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// New opens a connection pool and applies any pending file migrations.
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

	if err := d.migrateUp(url); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

func (d *DB) migrateUp(url string) error {
	log := d.mylog.Action("migrate")

	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, d.cfg.Migrations)
	if _, err := os.Stat(mPath); err != nil {
		log.Warn("migrations directory not found, skipping", "path", mPath)
		return nil
	}

	m, err := migrate.New("file://"+mPath, url)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration up: %w", err)
	}
	log.Info("migrations applied")
	return nil
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
