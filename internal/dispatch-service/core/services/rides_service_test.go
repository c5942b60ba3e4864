package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/domain/websocketdto"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRidesService(f *fixture) ports.IRidesService {
	return NewRidesService(context.Background(), f.log,
		f.rides, f.customers, f.broker, f.ws, f.matcher)
}

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func validRideRequest() dto.RideRequestDto {
	return dto.RideRequestDto{
		Origin: &dto.LocationDto{
			LocationName: strPtr("Mall Road"),
			Latitude:     f64Ptr(31.5497),
			Longitude:    f64Ptr(74.3436),
		},
		Destination: &dto.LocationDto{
			LocationName: strPtr("Allama Iqbal Airport"),
			Latitude:     f64Ptr(31.5216),
			Longitude:    f64Ptr(74.4036),
		},
		SelectedCar: &dto.SelectedCarDto{
			RegistrationNumber: strPtr("LEB-1234"),
			Manufacturer:       strPtr("Toyota"),
			Model:              strPtr("Corolla"),
			Year:               strPtr("2020"),
			Color:              strPtr("White"),
		},
		DistanceKm:      f64Ptr(12.4),
		DurationMinutes: f64Ptr(28),
	}
}

func TestCreateRide_HappyPath(t *testing.T) {
	f := newFixture(t)
	f.matcher.OnCarAvailable("owner-1", "LEB-1234")
	svc := newRidesService(f)

	res, err := svc.CreateRide("customer-1", validRideRequest())
	require.NoError(t, err)

	// 200 + 12.4*55 + 28*10 = 1162
	assert.Equal(t, float64(1162), res.Fare)
	assert.Equal(t, "requested", res.Status)
	assert.NotEmpty(t, res.RideID)

	stored, ok := f.rides.rides[res.RideID]
	require.True(t, ok)
	assert.Equal(t, "customer-1", stored.CustomerID)
	assert.Equal(t, model.StatusRequested, stored.Status)
	assert.Contains(t, f.rides.events, res.RideID+":ride_requested")

	require.Len(t, f.broker.requested, 1)
	assert.Equal(t, "LEB-1234", f.broker.requested[0].Registration)

	// owner of the selected car is notified and sees the candidate
	ownerEvents := f.ws.ownerEvents["owner-1"]
	require.Len(t, ownerEvents, 1)
	assert.Equal(t, websocketdto.TypeRideRequest, ownerEvents[0].Type)

	candidates := f.matcher.CandidatesFor("owner-1")
	require.Len(t, candidates, 1)
	assert.Equal(t, res.RideID, candidates[0].RideID)
}

func TestCreateRide_BrokerFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.matcher.OnCarAvailable("owner-1", "LEB-1234")
	f.broker.publishRequestedErr = errors.New("connection refused")
	svc := newRidesService(f)

	_, err := svc.CreateRide("customer-1", validRideRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot send message to broker")

	// no ride reaches the matcher or the owners
	assert.Empty(t, f.matcher.CandidatesFor("owner-1"))
	assert.Empty(t, f.ws.ownerEvents)
}

func TestCreateRide_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.RideRequestDto)
	}{
		{"missing origin", func(r *dto.RideRequestDto) { r.Origin = nil }},
		{"missing destination", func(r *dto.RideRequestDto) { r.Destination = nil }},
		{"missing car", func(r *dto.RideRequestDto) { r.SelectedCar = nil }},
		{"empty location name", func(r *dto.RideRequestDto) { r.Origin.LocationName = strPtr("") }},
		{"latitude out of range", func(r *dto.RideRequestDto) { r.Origin.Latitude = f64Ptr(91) }},
		{"longitude out of range", func(r *dto.RideRequestDto) { r.Destination.Longitude = f64Ptr(-181) }},
		{"lowercase registration", func(r *dto.RideRequestDto) { r.SelectedCar.RegistrationNumber = strPtr("leb-1234") }},
		{"registration without dash", func(r *dto.RideRequestDto) { r.SelectedCar.RegistrationNumber = strPtr("LEB1234") }},
		{"zero distance", func(r *dto.RideRequestDto) { r.DistanceKm = f64Ptr(0) }},
		{"negative duration", func(r *dto.RideRequestDto) { r.DurationMinutes = f64Ptr(-5) }},
		{"missing duration", func(r *dto.RideRequestDto) { r.DurationMinutes = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			svc := newRidesService(f)

			req := validRideRequest()
			tc.mutate(&req)

			_, err := svc.CreateRide("customer-1", req)
			require.Error(t, err)
			assert.Empty(t, f.rides.rides)
			assert.Empty(t, f.broker.requested)
		})
	}
}

func TestCancelRide(t *testing.T) {
	f := newFixture(t)
	f.matcher.OnCarAvailable("owner-1", "LEB-1234")
	svc := newRidesService(f)

	res, err := svc.CreateRide("customer-1", validRideRequest())
	require.NoError(t, err)

	cancelRes, err := svc.CancelRide("customer-1", res.RideID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelRes.Status)
	assert.Equal(t, "Ride cancelled successfully", cancelRes.Message)

	assert.Equal(t, model.StatusCancelled, f.rides.rides[res.RideID].Status)
	assert.Contains(t, f.rides.events, res.RideID+":ride_cancelled")
	require.Len(t, f.broker.cancelled, 1)
	assert.Equal(t, res.RideID, f.broker.cancelled[0].RideID)

	// the owner window closes
	ownerEvents := f.ws.ownerEvents["owner-1"]
	require.Len(t, ownerEvents, 2) // request push, then closed push
	assert.Equal(t, websocketdto.TypeRideRequestClosed, ownerEvents[1].Type)
	assert.Empty(t, f.matcher.CandidatesFor("owner-1"))
}

func TestCancelRide_OnlyTheRequesterMayCancel(t *testing.T) {
	f := newFixture(t)
	svc := newRidesService(f)

	res, err := svc.CreateRide("customer-1", validRideRequest())
	require.NoError(t, err)

	_, err = svc.CancelRide("customer-2", res.RideID)
	require.ErrorIs(t, err, myerrors.ErrNotRequested)
	assert.Equal(t, model.StatusRequested, f.rides.rides[res.RideID].Status)
}

func TestCancelRide_UnknownRide(t *testing.T) {
	f := newFixture(t)
	svc := newRidesService(f)

	_, err := svc.CancelRide("customer-1", "no-such-ride")
	require.ErrorIs(t, err, myerrors.ErrRideNotFound)
}

func TestCandidatesFor_EnrichesCustomerProfile(t *testing.T) {
	f := newFixture(t)
	f.matcher.OnCarAvailable("owner-1", "LEB-1234")
	f.customers.names["customer-1"] = "Sara Ahmed"
	f.customers.phones["customer-1"] = "+923009998877"
	svc := newRidesService(f)

	res, err := svc.CreateRide("customer-1", validRideRequest())
	require.NoError(t, err)

	got, err := svc.CandidatesFor("owner-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, res.RideID, got[0].RideID)
	assert.Equal(t, "Sara Ahmed", got[0].CustomerName)
	assert.Equal(t, "+923009998877", got[0].CustomerPhone)
	assert.Equal(t, "Toyota Corolla - 2020 - White", got[0].Car)
}

func TestCandidatesFor_ProfileLookupFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.matcher.OnCarAvailable("owner-1", "LEB-1234")
	f.customers.err = errors.New("users table unreachable")
	svc := newRidesService(f)

	_, err := svc.CreateRide("customer-1", validRideRequest())
	require.NoError(t, err)

	got, err := svc.CandidatesFor("owner-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].CustomerName)
}

func TestIgnore_HidesRideForThatOwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.matcher.OnCarAvailable("owner-1", "LEB-1234")
	f.matcher.OnCarAvailable("owner-2", "LEB-1234")
	svc := newRidesService(f)

	res, err := svc.CreateRide("customer-1", validRideRequest())
	require.NoError(t, err)

	svc.Ignore("owner-1", res.RideID)

	got1, err := svc.CandidatesFor("owner-1")
	require.NoError(t, err)
	assert.Empty(t, got1)

	got2, err := svc.CandidatesFor("owner-2")
	require.NoError(t, err)
	assert.Len(t, got2, 1)
}

func TestHandleDriverStatus_PushesToRider(t *testing.T) {
	f := newFixture(t)
	f.rides.rides["ride-9"] = model.Ride{
		RideID:     "ride-9",
		CustomerID: "customer-1",
		Status:     model.StatusAssigned,
		Driver: &model.DriverInfo{
			PinCode:     "4321",
			FirstName:   "Ali",
			LastName:    "Khan",
			PhoneNumber: "+923001112233",
		},
	}
	svc := newRidesService(f)

	err := svc.HandleDriverStatus(brokerdto.DriverStatusUpdate{
		RideID:    "ride-9",
		PinCode:   "4321",
		Status:    "arrived",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)

	assert.Contains(t, f.rides.events, "ride-9:driver_status_arrived")
	riderEvents := f.ws.riderEvents["customer-1"]
	require.Len(t, riderEvents, 1)
	assert.Equal(t, websocketdto.TypeRideStatusUpdate, riderEvents[0].Type)
	assert.Contains(t, string(riderEvents[0].Data), "Ali Khan")
}

func TestHandleDriverStatus_UnknownRide(t *testing.T) {
	f := newFixture(t)
	svc := newRidesService(f)

	err := svc.HandleDriverStatus(brokerdto.DriverStatusUpdate{RideID: "missing", Status: "arrived"})
	require.ErrorIs(t, err, myerrors.ErrRideNotFound)
}
