package db

import (
	"context"
	"fmt"

	"safri360/internal/admin-service/core/domain/model"
	"safri360/internal/admin-service/core/ports"
)

type AdminRepo struct {
	db *DB
}

func NewAdminRepo(db *DB) ports.IAdminRepo {
	return &AdminRepo{db: db}
}

func (ar *AdminRepo) ActiveRides(ctx context.Context, limit, offset int) (int, []model.ActiveRide, error) {
	qCount := `SELECT COUNT(*) FROM rides WHERE status IN ('requested','assigned','arrived','ongoing')`

	total := 0
	if err := ar.db.pool.QueryRow(ctx, qCount).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count active rides: %v", err)
	}

	q := `SELECT ride_id, customer_id, origin_name, destination_name, car_registration,
			fare, status, COALESCE(driver_pin,''), COALESCE(rent_a_car_uid,''), requested_at
		FROM rides
		WHERE status IN ('requested','assigned','arrived','ongoing')
		ORDER BY requested_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := ar.db.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list active rides: %v", err)
	}
	defer rows.Close()

	var rides []model.ActiveRide
	for rows.Next() {
		var r model.ActiveRide
		if err := rows.Scan(&r.RideID, &r.CustomerID, &r.OriginName, &r.DestinationName,
			&r.Registration, &r.Fare, &r.Status, &r.DriverPin, &r.RentACarUID, &r.RequestedAt); err != nil {
			return 0, nil, err
		}
		rides = append(rides, r)
	}
	return total, rides, rows.Err()
}

func (ar *AdminRepo) Counters(ctx context.Context) (model.Counters, error) {
	var c model.Counters

	qRides := `
	SELECT
		COUNT(*) FILTER (WHERE status = 'requested') as requested,
		COUNT(*) FILTER (WHERE status = 'assigned') as assigned,
		COUNT(*) FILTER (WHERE status = 'arrived') as arrived,
		COUNT(*) FILTER (WHERE status = 'ongoing') as ongoing,
		COUNT(*) FILTER (WHERE status = 'completed') as completed,
		COUNT(*) FILTER (WHERE status = 'cancelled') as cancelled
	FROM rides`

	err := ar.db.pool.QueryRow(ctx, qRides).Scan(
		&c.RidesRequested, &c.RidesAssigned, &c.RidesArrived,
		&c.RidesOngoing, &c.RidesCompleted, &c.RidesCancelled)
	if err != nil {
		return model.Counters{}, fmt.Errorf("failed to get ride counters: %v", err)
	}

	qDrivers := `
	SELECT
		COUNT(*) FILTER (WHERE status = 'offline') as offline,
		COUNT(*) FILTER (WHERE status = 'online') as online,
		COUNT(*) FILTER (WHERE status = 'booked') as booked
	FROM drivers`

	err = ar.db.pool.QueryRow(ctx, qDrivers).Scan(&c.DriversOffline, &c.DriversOnline, &c.DriversBooked)
	if err != nil {
		return model.Counters{}, fmt.Errorf("failed to get driver counters: %v", err)
	}

	qCars := `
	SELECT
		COUNT(*) FILTER (WHERE status = 'idle') as idle,
		COUNT(*) FILTER (WHERE status = 'booked') as booked
	FROM cars`

	err = ar.db.pool.QueryRow(ctx, qCars).Scan(&c.CarsIdle, &c.CarsBooked)
	if err != nil {
		return model.Counters{}, fmt.Errorf("failed to get car counters: %v", err)
	}

	return c, nil
}
