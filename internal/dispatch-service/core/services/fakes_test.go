package services

import (
	"context"
	"sync"
	"testing"

	"safri360/internal/dispatch-service/core/domain/brokerdto"
	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/dispatch-service/core/domain/websocketdto"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

// In-memory doubles for the driven ports. Error fields inject a failure into
// the matching method; call slices record what the service under test did.

type fakeRidesRepo struct {
	mu    sync.Mutex
	rides map[string]model.Ride

	createErr       error
	markAssignedErr error

	events    []string // "<ride-id>:<event-type>"
	reverted  []string
	cancelled []string
}

func newFakeRidesRepo() *fakeRidesRepo {
	return &fakeRidesRepo{rides: make(map[string]model.Ride)}
}

func (f *fakeRidesRepo) CreateRide(_ context.Context, m model.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rides[m.RideID] = m
	return nil
}

func (f *fakeRidesRepo) GetRide(_ context.Context, rideID string) (model.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[rideID]
	if !ok {
		return model.Ride{}, myerrors.ErrRideNotFound
	}
	return r, nil
}

func (f *fakeRidesRepo) ListRequested(_ context.Context) ([]model.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Ride, 0)
	for _, r := range f.rides {
		if r.Status == model.StatusRequested {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRidesRepo) MarkAssigned(_ context.Context, rideID string, d model.DriverInfo, rentACarUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markAssignedErr != nil {
		return f.markAssignedErr
	}
	r, ok := f.rides[rideID]
	if !ok || r.Status != model.StatusRequested {
		return myerrors.ErrRideUnavailable
	}
	r.Status = model.StatusAssigned
	r.Driver = &d
	r.RentACarUID = rentACarUID
	f.rides[rideID] = r
	return nil
}

func (f *fakeRidesRepo) RevertAssigned(_ context.Context, rideID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverted = append(f.reverted, rideID)
	r, ok := f.rides[rideID]
	if !ok {
		return myerrors.ErrRideNotFound
	}
	r.Status = model.StatusRequested
	r.Driver = nil
	r.RentACarUID = ""
	f.rides[rideID] = r
	return nil
}

func (f *fakeRidesRepo) MarkCancelled(_ context.Context, rideID, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[rideID]
	if !ok {
		return myerrors.ErrRideNotFound
	}
	if r.CustomerID != customerID || r.Status != model.StatusRequested {
		return myerrors.ErrNotRequested
	}
	r.Status = model.StatusCancelled
	f.rides[rideID] = r
	f.cancelled = append(f.cancelled, rideID)
	return nil
}

func (f *fakeRidesRepo) AppendEvent(_ context.Context, rideID, eventType string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, rideID+":"+eventType)
	return nil
}

type fakeFleetRepo struct {
	mu      sync.Mutex
	drivers map[string]model.Driver
	cars    map[string]model.Car

	addDriverErrs []error // popped per AddDriver call; nil entry means success
	bookDriverErr error
	bookCarErr    error

	addedDrivers    []model.Driver
	releasedDrivers []string
	releasedCars    []string
}

func newFakeFleetRepo() *fakeFleetRepo {
	return &fakeFleetRepo{
		drivers: make(map[string]model.Driver),
		cars:    make(map[string]model.Car),
	}
}

func (f *fakeFleetRepo) AddCar(_ context.Context, c model.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cars[c.RegistrationNumber] = c
	return nil
}

func (f *fakeFleetRepo) RemoveCar(_ context.Context, ownerUID, registration string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cars[registration]
	if !ok || c.OwnerUID != ownerUID {
		return myerrors.ErrCarNotFound
	}
	delete(f.cars, registration)
	return nil
}

func (f *fakeFleetRepo) ListCars(_ context.Context, ownerUID string) ([]model.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Car, 0)
	for _, c := range f.cars {
		if c.OwnerUID == ownerUID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeFleetRepo) ListIdleCars(_ context.Context) ([]model.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Car, 0)
	for _, c := range f.cars {
		if c.Status == model.CarIdle {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeFleetRepo) BookCar(_ context.Context, registration string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookCarErr != nil {
		return f.bookCarErr
	}
	c, ok := f.cars[registration]
	if !ok || c.Status != model.CarIdle {
		return myerrors.ErrCarUnavailable
	}
	c.Status = model.CarBooked
	f.cars[registration] = c
	return nil
}

func (f *fakeFleetRepo) ReleaseCar(_ context.Context, registration string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releasedCars = append(f.releasedCars, registration)
	if c, ok := f.cars[registration]; ok {
		c.Status = model.CarIdle
		f.cars[registration] = c
	}
	return nil
}

func (f *fakeFleetRepo) AddDriver(_ context.Context, d model.Driver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.addDriverErrs) > 0 {
		err := f.addDriverErrs[0]
		f.addDriverErrs = f.addDriverErrs[1:]
		if err != nil {
			return err
		}
	}
	f.drivers[d.PinCode] = d
	f.addedDrivers = append(f.addedDrivers, d)
	return nil
}

func (f *fakeFleetRepo) RemoveDriver(_ context.Context, ownerUID, pinCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drivers[pinCode]
	if !ok || d.OwnerUID != ownerUID {
		return myerrors.ErrDriverNotFound
	}
	delete(f.drivers, pinCode)
	return nil
}

func (f *fakeFleetRepo) GetDriver(_ context.Context, pinCode string) (model.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drivers[pinCode]
	if !ok {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	return d, nil
}

func (f *fakeFleetRepo) ListDrivers(_ context.Context, ownerUID string) ([]model.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Driver, 0)
	for _, d := range f.drivers {
		if d.OwnerUID == ownerUID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeFleetRepo) ListAvailableDrivers(_ context.Context, ownerUID string) ([]model.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Driver, 0)
	for _, d := range f.drivers {
		if d.OwnerUID == ownerUID && d.Status == model.DriverOnline {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeFleetRepo) BookDriver(_ context.Context, pinCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookDriverErr != nil {
		return f.bookDriverErr
	}
	d, ok := f.drivers[pinCode]
	if !ok || d.Status != model.DriverOnline {
		return myerrors.ErrDriverUnavailable
	}
	d.Status = model.DriverBooked
	f.drivers[pinCode] = d
	return nil
}

func (f *fakeFleetRepo) ReleaseDriver(_ context.Context, pinCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releasedDrivers = append(f.releasedDrivers, pinCode)
	if d, ok := f.drivers[pinCode]; ok {
		d.Status = model.DriverOnline
		f.drivers[pinCode] = d
	}
	return nil
}

type fakeCustomerRepo struct {
	names  map[string]string
	phones map[string]string
	err    error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{names: make(map[string]string), phones: make(map[string]string)}
}

func (f *fakeCustomerRepo) GetProfile(_ context.Context, customerID string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.names[customerID], f.phones[customerID], nil
}

type fakeBroker struct {
	mu sync.Mutex

	publishRequestedErr error

	requested []brokerdto.RideRequested
	cancelled []brokerdto.RideCancelled
	assigned  []brokerdto.RideAssigned
}

func (f *fakeBroker) Close() error { return nil }

func (f *fakeBroker) PublishRideRequested(_ context.Context, msg brokerdto.RideRequested) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishRequestedErr != nil {
		return f.publishRequestedErr
	}
	f.requested = append(f.requested, msg)
	return nil
}

func (f *fakeBroker) PublishRideCancelled(_ context.Context, msg brokerdto.RideCancelled) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, msg)
	return nil
}

func (f *fakeBroker) PublishRideAssigned(_ context.Context, msg brokerdto.RideAssigned) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, msg)
	return nil
}

func (f *fakeBroker) ConsumeDriverStatus(_ context.Context) (<-chan amqp.Delivery, error) {
	ch := make(chan amqp.Delivery)
	close(ch)
	return ch, nil
}

type fakeWS struct {
	mu          sync.Mutex
	ownerEvents map[string][]websocketdto.Event
	riderEvents map[string][]websocketdto.Event
}

func newFakeWS() *fakeWS {
	return &fakeWS{
		ownerEvents: make(map[string][]websocketdto.Event),
		riderEvents: make(map[string][]websocketdto.Event),
	}
}

func (f *fakeWS) WriteToOwner(ownerUID string, msg websocketdto.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerEvents[ownerUID] = append(f.ownerEvents[ownerUID], msg)
}

func (f *fakeWS) WriteToRider(customerID string, msg websocketdto.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.riderEvents[customerID] = append(f.riderEvents[customerID], msg)
}

type fakeSms struct {
	mu       sync.Mutex
	err      error
	messages []string // "<phone>|<body>"
}

func (f *fakeSms) Send(_ context.Context, phoneNumber, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, phoneNumber+"|"+message)
	return nil
}

type fixture struct {
	rides     *fakeRidesRepo
	fleet     *fakeFleetRepo
	customers *fakeCustomerRepo
	broker    *fakeBroker
	ws        *fakeWS
	sms       *fakeSms
	matcher   *Matcher
	log       mylogger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := mylogger.New("services-test", "error")
	require.NoError(t, err)
	return &fixture{
		rides:     newFakeRidesRepo(),
		fleet:     newFakeFleetRepo(),
		customers: newFakeCustomerRepo(),
		broker:    &fakeBroker{},
		ws:        newFakeWS(),
		sms:       &fakeSms{},
		matcher:   NewMatcher(log),
		log:       log,
	}
}
