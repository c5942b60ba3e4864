package services

import (
	"testing"
	"time"

	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/mylogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	log, err := mylogger.New("matcher-test", "error")
	require.NoError(t, err)
	return NewMatcher(log)
}

func openRide(rideID, reg string, requestedAt time.Time) model.Ride {
	return model.Ride{
		RideID:      rideID,
		CustomerID:  "customer-1",
		SelectedCar: model.CarInfo{RegistrationNumber: reg},
		Status:      model.StatusRequested,
		RequestedAt: requestedAt,
	}
}

func TestMatcher_RideVisibleToOwnerOfSelectedCar(t *testing.T) {
	m := testMatcher(t)

	m.OnCarAvailable("owner-a", "ABC-1234")
	m.OnCarAvailable("owner-b", "XYZ-99")
	m.OnRideRequested(openRide("ride-1", "ABC-1234", time.Now()))

	got := m.CandidatesFor("owner-a")
	require.Len(t, got, 1)
	assert.Equal(t, "ride-1", got[0].RideID)

	assert.Empty(t, m.CandidatesFor("owner-b"))
	assert.Empty(t, m.CandidatesFor("owner-unknown"))
}

func TestMatcher_CandidatesOrderedByRequestTime(t *testing.T) {
	m := testMatcher(t)
	base := time.Now()

	m.OnCarAvailable("owner-a", "ABC-1234")
	m.OnCarAvailable("owner-a", "DEF-5")
	m.OnRideRequested(openRide("ride-late", "ABC-1234", base.Add(time.Minute)))
	m.OnRideRequested(openRide("ride-early", "DEF-5", base))

	got := m.CandidatesFor("owner-a")
	require.Len(t, got, 2)
	assert.Equal(t, "ride-early", got[0].RideID)
	assert.Equal(t, "ride-late", got[1].RideID)
}

func TestMatcher_ClosedRideLeavesEveryList(t *testing.T) {
	m := testMatcher(t)

	m.OnCarAvailable("owner-a", "ABC-1234")
	m.OnRideRequested(openRide("ride-1", "ABC-1234", time.Now()))
	require.Len(t, m.CandidatesFor("owner-a"), 1)

	m.OnRideClosed("ride-1")

	assert.Empty(t, m.CandidatesFor("owner-a"))
	_, open := m.OpenRide("ride-1")
	assert.False(t, open)

	// closing twice is harmless
	m.OnRideClosed("ride-1")
}

func TestMatcher_IgnoreIsOwnerLocal(t *testing.T) {
	m := testMatcher(t)

	// both owners can serve the same registration window
	m.OnCarAvailable("owner-a", "ABC-1234")
	m.OnCarAvailable("owner-b", "ABC-1234")
	m.OnRideRequested(openRide("ride-1", "ABC-1234", time.Now()))

	m.Ignore("owner-a", "ride-1")

	assert.Empty(t, m.CandidatesFor("owner-a"))
	require.Len(t, m.CandidatesFor("owner-b"), 1)

	// the ride itself is still open
	_, open := m.OpenRide("ride-1")
	assert.True(t, open)
}

func TestMatcher_BookedCarDropsFromOwnerWindow(t *testing.T) {
	m := testMatcher(t)

	m.OnCarAvailable("owner-a", "ABC-1234")
	m.OnRideRequested(openRide("ride-1", "ABC-1234", time.Now()))
	require.Len(t, m.CandidatesFor("owner-a"), 1)

	m.OnCarUnavailable("owner-a", "ABC-1234")
	assert.Empty(t, m.CandidatesFor("owner-a"))

	// releasing the car restores visibility of still-open rides
	m.OnCarAvailable("owner-a", "ABC-1234")
	assert.Len(t, m.CandidatesFor("owner-a"), 1)
}

func TestMatcher_MatchingOwners(t *testing.T) {
	m := testMatcher(t)

	m.OnCarAvailable("owner-b", "ABC-1234")
	m.OnCarAvailable("owner-a", "ABC-1234")

	assert.Equal(t, []string{"owner-a", "owner-b"}, m.MatchingOwners("ABC-1234"))
	assert.Empty(t, m.MatchingOwners("XYZ-99"))
}

func TestMatcher_SeedSkipsClosedRidesAndBookedCars(t *testing.T) {
	m := testMatcher(t)

	cars := []model.Car{
		{RegistrationNumber: "ABC-1234", OwnerUID: "owner-a", Status: model.CarIdle},
		{RegistrationNumber: "DEF-5", OwnerUID: "owner-a", Status: model.CarBooked},
	}
	rides := []model.Ride{
		openRide("ride-open", "ABC-1234", time.Now()),
		{RideID: "ride-done", SelectedCar: model.CarInfo{RegistrationNumber: "ABC-1234"}, Status: model.StatusCompleted},
	}

	m.Seed(rides, cars)

	got := m.CandidatesFor("owner-a")
	require.Len(t, got, 1)
	assert.Equal(t, "ride-open", got[0].RideID)
}
