package services

import (
	"context"
	"testing"

	"safri360/internal/driver-service/core/domain/brokerdto"
	"safri360/internal/driver-service/core/domain/model"
	"safri360/internal/driver-service/core/domain/websocketdto"
	"safri360/internal/driver-service/core/myerrors"
	"safri360/internal/driver-service/core/ports"
	"safri360/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriverRepo struct {
	driver model.Driver
	ride   *model.ActiveRide // nil means no active ride

	// zeroRows makes the next Mark* call report no rows changed; raceTo,
	// when set, is the status the ride flips to behind the caller's back.
	zeroRows bool
	raceTo   string

	markCalls       int
	events          []string
	releasedDrivers []string
	releasedCars    []string
}

func (f *fakeDriverRepo) GetDriver(_ context.Context, pinCode string) (model.Driver, error) {
	if f.driver.PinCode != pinCode {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	return f.driver, nil
}

func (f *fakeDriverRepo) SetOnline(_ context.Context, _ string) error {
	f.driver.Status = model.DriverOnline
	return nil
}

func (f *fakeDriverRepo) SetOffline(_ context.Context, _ string) error {
	f.driver.Status = model.DriverOffline
	return nil
}

func (f *fakeDriverRepo) GetActiveRide(_ context.Context, _ string) (model.ActiveRide, error) {
	if f.ride == nil || model.StageOf(f.ride.Status) == model.StageIdle {
		return model.ActiveRide{}, myerrors.ErrNoActiveRide
	}
	return *f.ride, nil
}

func (f *fakeDriverRepo) mark(from, to string) (int64, error) {
	f.markCalls++
	if f.zeroRows {
		f.zeroRows = false
		if f.raceTo != "" {
			f.ride.Status = f.raceTo
		}
		return 0, nil
	}
	if f.ride == nil || f.ride.Status != from {
		return 0, nil
	}
	f.ride.Status = to
	return 1, nil
}

func (f *fakeDriverRepo) MarkArrived(_ context.Context, _ string) (int64, error) {
	return f.mark(model.RideAssigned, model.RideArrived)
}

func (f *fakeDriverRepo) MarkOngoing(_ context.Context, _ string) (int64, error) {
	return f.mark(model.RideArrived, model.RideOngoing)
}

func (f *fakeDriverRepo) MarkCompleted(_ context.Context, _ string) (int64, error) {
	return f.mark(model.RideOngoing, model.RideCompleted)
}

func (f *fakeDriverRepo) ReleaseDriver(_ context.Context, pinCode string) error {
	f.releasedDrivers = append(f.releasedDrivers, pinCode)
	f.driver.Status = model.DriverOnline
	return nil
}

func (f *fakeDriverRepo) ReleaseCar(_ context.Context, registration string) error {
	f.releasedCars = append(f.releasedCars, registration)
	return nil
}

func (f *fakeDriverRepo) AppendEvent(_ context.Context, rideID, eventType string, _ any) error {
	f.events = append(f.events, rideID+":"+eventType)
	return nil
}

type fakeDriverBroker struct {
	published []brokerdto.DriverStatusUpdate
}

func (f *fakeDriverBroker) Close() error { return nil }

func (f *fakeDriverBroker) PublishDriverStatus(_ context.Context, msg brokerdto.DriverStatusUpdate) error {
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeDriverBroker) ConsumeRideAssigned(_ context.Context) (<-chan amqp.Delivery, error) {
	ch := make(chan amqp.Delivery)
	close(ch)
	return ch, nil
}

type fakeDriverWS struct {
	pushed map[string][]websocketdto.Event
}

func (f *fakeDriverWS) WriteToDriver(pinCode string, msg websocketdto.Event) {
	if f.pushed == nil {
		f.pushed = make(map[string][]websocketdto.Event)
	}
	f.pushed[pinCode] = append(f.pushed[pinCode], msg)
}

func newTestService(t *testing.T, repo *fakeDriverRepo) (ports.IDriverService, *fakeDriverBroker, *fakeDriverWS) {
	t.Helper()
	log, err := mylogger.New("driver-test", "error")
	require.NoError(t, err)
	broker := &fakeDriverBroker{}
	ws := &fakeDriverWS{}
	return NewDriverService(context.Background(), log, repo, broker, ws), broker, ws
}

func onlineDriver() model.Driver {
	return model.Driver{PinCode: "1234", OwnerUID: "owner-1", PhoneNumber: "+923001234567", Status: model.DriverOnline}
}

func activeRide(status string) *model.ActiveRide {
	return &model.ActiveRide{
		RideID:          "ride-1",
		CustomerID:      "customer-1",
		CarRegistration: "LEB-1234",
		Fare:            760,
		Status:          status,
	}
}

func TestGoOnlineGoOffline(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver()}
	repo.driver.Status = model.DriverOffline
	svc, _, _ := newTestService(t, repo)

	res, err := svc.GoOnline("1234")
	require.NoError(t, err)
	assert.Equal(t, model.DriverOnline, res.Status)
	assert.Equal(t, model.DriverOnline, repo.driver.Status)

	res, err = svc.GoOffline("1234")
	require.NoError(t, err)
	assert.Equal(t, model.DriverOffline, res.Status)
	assert.Equal(t, model.DriverOffline, repo.driver.Status)
}

func TestGoOnline_BookedDriverCannotToggle(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver()}
	repo.driver.Status = model.DriverBooked
	svc, _, _ := newTestService(t, repo)

	_, err := svc.GoOnline("1234")
	require.ErrorIs(t, err, myerrors.ErrDriverBooked)

	_, err = svc.GoOffline("1234")
	require.ErrorIs(t, err, myerrors.ErrDriverBooked)
	assert.Equal(t, model.DriverBooked, repo.driver.Status)
}

func TestGoOnline_UnknownPin(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver()}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.GoOnline("0000")
	require.ErrorIs(t, err, myerrors.ErrDriverNotFound)
}

func TestArrived_AdvancesAndPublishes(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideAssigned)}
	svc, broker, _ := newTestService(t, repo)

	res, err := svc.Arrived("1234")
	require.NoError(t, err)
	assert.Equal(t, "ride-1", res.RideID)
	assert.Equal(t, "arrived", res.Stage)

	assert.Equal(t, model.RideArrived, repo.ride.Status)
	assert.Contains(t, repo.events, "ride-1:driver_arrived")
	require.Len(t, broker.published, 1)
	assert.Equal(t, model.RideArrived, broker.published[0].Status)
	assert.Equal(t, "1234", broker.published[0].PinCode)
}

func TestArrived_RepeatIsIdempotent(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideArrived)}
	svc, broker, _ := newTestService(t, repo)

	res, err := svc.Arrived("1234")
	require.NoError(t, err)
	assert.Equal(t, "arrived", res.Stage)

	// no write, no event, no publish on a repeat
	assert.Zero(t, repo.markCalls)
	assert.Empty(t, repo.events)
	assert.Empty(t, broker.published)
}

func TestStartRide_OutOfOrderIsRefused(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideAssigned)}
	svc, broker, _ := newTestService(t, repo)

	_, err := svc.StartRide("1234")
	require.ErrorIs(t, err, myerrors.ErrStageConflict)
	assert.Equal(t, model.RideAssigned, repo.ride.Status)
	assert.Empty(t, broker.published)
}

func TestStartRide_Advances(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideArrived)}
	svc, broker, _ := newTestService(t, repo)

	res, err := svc.StartRide("1234")
	require.NoError(t, err)
	assert.Equal(t, "ongoing", res.Stage)
	assert.Equal(t, model.RideOngoing, repo.ride.Status)
	require.Len(t, broker.published, 1)
	assert.Equal(t, model.RideOngoing, broker.published[0].Status)
}

func TestArrived_LostRaceToSameTargetIsAccepted(t *testing.T) {
	// another request already moved the ride to arrived: zero rows
	// changed, but the re-read shows the target stage.
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideAssigned)}
	repo.zeroRows = true
	repo.raceTo = model.RideArrived
	svc, _, _ := newTestService(t, repo)

	res, err := svc.Arrived("1234")
	require.NoError(t, err)
	assert.Equal(t, "arrived", res.Stage)
}

func TestArrived_LostRaceToOtherStatusConflicts(t *testing.T) {
	// the ride was cancelled between the read and the update
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideAssigned)}
	repo.zeroRows = true
	repo.raceTo = model.RideCancelled
	svc, broker, _ := newTestService(t, repo)

	_, err := svc.Arrived("1234")
	require.ErrorIs(t, err, myerrors.ErrStageConflict)
	assert.Empty(t, broker.published)
}

func TestCompleteRide_ReleasesDriverAndCar(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideOngoing)}
	svc, broker, _ := newTestService(t, repo)

	res, err := svc.CompleteRide("1234")
	require.NoError(t, err)
	assert.Equal(t, "idle", res.Stage)

	assert.Equal(t, model.RideCompleted, repo.ride.Status)
	assert.Equal(t, []string{"1234"}, repo.releasedDrivers)
	assert.Equal(t, []string{"LEB-1234"}, repo.releasedCars)
	assert.Contains(t, repo.events, "ride-1:ride_completed")
	require.Len(t, broker.published, 1)
	assert.Equal(t, model.RideCompleted, broker.published[0].Status)
}

func TestCompleteRide_BeforeStartIsRefused(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideArrived)}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.CompleteRide("1234")
	require.ErrorIs(t, err, myerrors.ErrStageConflict)
	assert.Empty(t, repo.releasedDrivers)
	assert.Empty(t, repo.releasedCars)
}

func TestActiveRide(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver(), ride: activeRide(model.RideAssigned)}
	svc, _, _ := newTestService(t, repo)

	res, err := svc.ActiveRide("1234")
	require.NoError(t, err)
	assert.Equal(t, "ride-1", res.RideID)
	assert.Equal(t, "awaiting_arrival", res.Stage)
}

func TestActiveRide_NoneAssigned(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver()}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.ActiveRide("1234")
	require.ErrorIs(t, err, myerrors.ErrNoActiveRide)
}

func TestHandleRideAssigned_PushesToDriverSocket(t *testing.T) {
	repo := &fakeDriverRepo{driver: onlineDriver()}
	svc, _, ws := newTestService(t, repo)

	svc.HandleRideAssigned(brokerdto.RideAssigned{
		RideID:       "ride-1",
		PinCode:      "1234",
		Registration: "LEB-1234",
		Pickup:       brokerdto.Location{Name: "Mall Road"},
		Destination:  brokerdto.Location{Name: "Airport"},
		Fare:         760,
		AssignedAt:   "2026-08-29T10:00:00Z",
	})

	events := ws.pushed["1234"]
	require.Len(t, events, 1)
	assert.Equal(t, websocketdto.TypeRideAssigned, events[0].Type)
	assert.Contains(t, string(events[0].Data), "LEB-1234")
	assert.Contains(t, string(events[0].Data), "Mall Road")
}
