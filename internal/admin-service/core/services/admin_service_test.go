package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"safri360/internal/admin-service/core/domain/model"
	"safri360/internal/admin-service/core/ports"
	"safri360/internal/mylogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	rides    []model.ActiveRide
	counters model.Counters

	lastLimit  int
	lastOffset int
}

func (f *fakeAdminRepo) ActiveRides(_ context.Context, limit, offset int) (int, []model.ActiveRide, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	if offset >= len(f.rides) {
		return len(f.rides), nil, nil
	}
	end := offset + limit
	if end > len(f.rides) {
		end = len(f.rides)
	}
	return len(f.rides), f.rides[offset:end], nil
}

func (f *fakeAdminRepo) Counters(_ context.Context) (model.Counters, error) {
	return f.counters, nil
}

type fakePresenceCounter struct {
	online int64
	err    error
}

func (f *fakePresenceCounter) CountOnline(_ context.Context) (int64, error) {
	return f.online, f.err
}

func (f *fakePresenceCounter) Close() error { return nil }

func newAdminService(t *testing.T, repo *fakeAdminRepo, presence *fakePresenceCounter) ports.IAdminService {
	t.Helper()
	log, err := mylogger.New("admin-test", "error")
	require.NoError(t, err)
	return NewAdminService(context.Background(), log, repo, presence)
}

func someRides(n int) []model.ActiveRide {
	out := make([]model.ActiveRide, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.ActiveRide{
			RideID:      fmt.Sprintf("ride-%d", i),
			CustomerID:  "customer-1",
			Status:      "requested",
			RequestedAt: time.Now().UTC(),
		})
	}
	return out
}

func TestActiveRides_Pagination(t *testing.T) {
	repo := &fakeAdminRepo{rides: someRides(45)}
	svc := newAdminService(t, repo, &fakePresenceCounter{})

	res, err := svc.ActiveRides(2, 20)
	require.NoError(t, err)
	assert.Equal(t, 45, res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 20, res.PageSize)
	assert.Len(t, res.Rides, 20)
	assert.Equal(t, "ride-20", res.Rides[0].RideID)
	assert.Equal(t, 20, repo.lastOffset)
}

func TestActiveRides_ClampsPageArguments(t *testing.T) {
	repo := &fakeAdminRepo{rides: someRides(5)}
	svc := newAdminService(t, repo, &fakePresenceCounter{})

	res, err := svc.ActiveRides(0, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, defaultPageSize, res.PageSize)
	assert.Equal(t, 0, repo.lastOffset)

	res, err = svc.ActiveRides(1, maxPageSize+1)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, res.PageSize)
}

func TestOverview(t *testing.T) {
	repo := &fakeAdminRepo{counters: model.Counters{
		RidesRequested: 3,
		RidesOngoing:   2,
		RidesCompleted: 40,
		DriversOnline:  7,
		DriversBooked:  2,
		CarsIdle:       5,
		CarsBooked:     2,
	}}
	svc := newAdminService(t, repo, &fakePresenceCounter{online: 12})

	res, err := svc.Overview()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rides.Requested)
	assert.Equal(t, 2, res.Rides.Ongoing)
	assert.Equal(t, 40, res.Rides.Completed)
	assert.Equal(t, 7, res.Drivers.Online)
	assert.Equal(t, 5, res.Cars.Idle)
	assert.Equal(t, int64(12), res.OnlineUsers)
	assert.NotEmpty(t, res.Timestamp)
}

func TestOverview_PresenceFailureIsNotFatal(t *testing.T) {
	repo := &fakeAdminRepo{counters: model.Counters{RidesRequested: 1}}
	svc := newAdminService(t, repo, &fakePresenceCounter{err: errors.New("redis unreachable")})

	res, err := svc.Overview()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rides.Requested)
	assert.Zero(t, res.OnlineUsers)
}
