package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/domain/websocketdto"
	"safri360/internal/dispatch-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner = "owner-1"
	testPin   = "1234"
	testReg   = "ABC-1234"
	testRide  = "ride-1"
)

// seedAssignment puts one requested ride, one online driver and one idle car
// into the fixture, all belonging to testOwner.
func seedAssignment(t *testing.T, f *fixture) {
	t.Helper()

	f.fleet.drivers[testPin] = model.Driver{
		PinCode:     testPin,
		OwnerUID:    testOwner,
		PhoneNumber: "+923001234567",
		FirstName:   "Ali",
		LastName:    "Khan",
		Status:      model.DriverOnline,
	}
	f.fleet.cars[testReg] = model.Car{
		RegistrationNumber: testReg,
		OwnerUID:           testOwner,
		Status:             model.CarIdle,
	}
	f.rides.rides[testRide] = model.Ride{
		RideID:      testRide,
		CustomerID:  "customer-1",
		Origin:      model.Location{LocationName: "Mall Road", Latitude: 31.5, Longitude: 74.3},
		Destination: model.Location{LocationName: "Airport", Latitude: 31.52, Longitude: 74.4},
		SelectedCar: model.CarInfo{RegistrationNumber: testReg},
		Fare:        760,
		Status:      model.StatusRequested,
		RequestedAt: time.Now().UTC(),
	}
	f.matcher.OnCarAvailable(testOwner, testReg)
	f.matcher.OnRideRequested(f.rides.rides[testRide])
}

func newAssignmentService(f *fixture) *AssignmentService {
	svc := NewAssignmentService(context.Background(), f.log,
		f.rides, f.fleet, f.broker, f.ws, f.sms, f.matcher)
	return svc.(*AssignmentService)
}

func TestAssignDriver_HappyPath(t *testing.T) {
	f := newFixture(t)
	seedAssignment(t, f)
	svc := newAssignmentService(f)

	res, err := svc.AssignDriver(testOwner, testRide, testPin)
	require.NoError(t, err)
	assert.Equal(t, testRide, res.RideID)
	assert.Equal(t, "assigned", res.Status)
	assert.Equal(t, testPin, res.DriverPin)

	ride := f.rides.rides[testRide]
	assert.Equal(t, model.StatusAssigned, ride.Status)
	require.NotNil(t, ride.Driver)
	assert.Equal(t, testPin, ride.Driver.PinCode)
	assert.Equal(t, testOwner, ride.RentACarUID)

	assert.Equal(t, model.DriverBooked, f.fleet.drivers[testPin].Status)
	assert.Equal(t, model.CarBooked, f.fleet.cars[testReg].Status)

	// driver got the SMS, the driver service got the broker event
	require.Len(t, f.sms.messages, 1)
	assert.Contains(t, f.sms.messages[0], testPin)
	require.Len(t, f.broker.assigned, 1)
	assert.Equal(t, testRide, f.broker.assigned[0].RideID)
	assert.Equal(t, testReg, f.broker.assigned[0].Registration)

	// rider sees the status push
	riderEvents := f.ws.riderEvents["customer-1"]
	require.Len(t, riderEvents, 1)
	assert.Equal(t, websocketdto.TypeRideStatusUpdate, riderEvents[0].Type)

	// the owner window closes and the ride leaves the index
	ownerEvents := f.ws.ownerEvents[testOwner]
	require.Len(t, ownerEvents, 1)
	assert.Equal(t, websocketdto.TypeRideRequestClosed, ownerEvents[0].Type)
	assert.Empty(t, f.matcher.CandidatesFor(testOwner))
}

func TestAssignDriver_SmsFailureLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	seedAssignment(t, f)
	f.sms.err = errors.New("gateway down")
	svc := newAssignmentService(f)

	_, err := svc.AssignDriver(testOwner, testRide, testPin)
	require.Error(t, err)

	assert.Equal(t, model.StatusRequested, f.rides.rides[testRide].Status)
	assert.Equal(t, model.DriverOnline, f.fleet.drivers[testPin].Status)
	assert.Equal(t, model.CarIdle, f.fleet.cars[testReg].Status)
	assert.Empty(t, f.broker.assigned)
	assert.Empty(t, f.rides.reverted)
	assert.Len(t, f.matcher.CandidatesFor(testOwner), 1)
}

func TestAssignDriver_BookDriverFailureRevertsRide(t *testing.T) {
	f := newFixture(t)
	seedAssignment(t, f)
	f.fleet.bookDriverErr = errors.New("driver row locked")
	svc := newAssignmentService(f)

	_, err := svc.AssignDriver(testOwner, testRide, testPin)
	require.Error(t, err)

	assert.Equal(t, []string{testRide}, f.rides.reverted)
	assert.Equal(t, model.StatusRequested, f.rides.rides[testRide].Status)
	assert.Equal(t, model.CarIdle, f.fleet.cars[testReg].Status)
	assert.Empty(t, f.broker.assigned)
}

func TestAssignDriver_BookCarFailureRevertsDriverAndRide(t *testing.T) {
	f := newFixture(t)
	seedAssignment(t, f)
	f.fleet.bookCarErr = myerrors.ErrCarUnavailable
	svc := newAssignmentService(f)

	_, err := svc.AssignDriver(testOwner, testRide, testPin)
	require.ErrorIs(t, err, myerrors.ErrCarUnavailable)

	assert.Equal(t, []string{testPin}, f.fleet.releasedDrivers)
	assert.Equal(t, []string{testRide}, f.rides.reverted)
	assert.Equal(t, model.StatusRequested, f.rides.rides[testRide].Status)
	assert.Empty(t, f.broker.assigned)
}

func TestAssignDriver_RideAlreadyTaken(t *testing.T) {
	f := newFixture(t)
	seedAssignment(t, f)
	f.rides.markAssignedErr = myerrors.ErrRideUnavailable
	svc := newAssignmentService(f)

	_, err := svc.AssignDriver(testOwner, testRide, testPin)
	require.ErrorIs(t, err, myerrors.ErrRideUnavailable)

	assert.Equal(t, model.DriverOnline, f.fleet.drivers[testPin].Status)
	assert.Empty(t, f.rides.reverted)
}

func TestAssignDriver_PreconditionChecks(t *testing.T) {
	t.Run("driver of another owner", func(t *testing.T) {
		f := newFixture(t)
		seedAssignment(t, f)
		svc := newAssignmentService(f)

		_, err := svc.AssignDriver("owner-other", testRide, testPin)
		require.ErrorIs(t, err, myerrors.ErrDriverNotOwned)
	})

	t.Run("driver not online", func(t *testing.T) {
		f := newFixture(t)
		seedAssignment(t, f)
		d := f.fleet.drivers[testPin]
		d.Status = model.DriverOffline
		f.fleet.drivers[testPin] = d
		svc := newAssignmentService(f)

		_, err := svc.AssignDriver(testOwner, testRide, testPin)
		require.ErrorIs(t, err, myerrors.ErrDriverUnavailable)
		assert.Empty(t, f.sms.messages)
	})

	t.Run("ride not requested", func(t *testing.T) {
		f := newFixture(t)
		seedAssignment(t, f)
		r := f.rides.rides[testRide]
		r.Status = model.StatusCancelled
		f.rides.rides[testRide] = r
		svc := newAssignmentService(f)

		_, err := svc.AssignDriver(testOwner, testRide, testPin)
		require.ErrorIs(t, err, myerrors.ErrRideUnavailable)
		assert.Empty(t, f.sms.messages)
	})

	t.Run("unknown driver", func(t *testing.T) {
		f := newFixture(t)
		seedAssignment(t, f)
		svc := newAssignmentService(f)

		_, err := svc.AssignDriver(testOwner, testRide, "9999")
		require.ErrorIs(t, err, myerrors.ErrDriverNotFound)
	})
}
