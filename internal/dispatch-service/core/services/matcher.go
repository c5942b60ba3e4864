package services

import (
	"sort"
	"sync"

	"safri360/internal/dispatch-service/core/domain/model"
	"safri360/internal/mylogger"
)

// Matcher keeps the owner-facing candidate lists. Instead of rescanning the
// whole ride set on every change, it maintains two indexes that are updated
// by typed events: rides keyed by the registration of the car they selected,
// and each owner's set of idle registrations. A ride is a candidate for an
// owner exactly when its selected registration is one of the owner's idle
// cars and the ride is still open.
//
// "Ignore" is owner-local: the ride is hidden from that owner's list but
// remains open and visible to every other owner.
type Matcher struct {
	mu  sync.RWMutex
	log mylogger.Logger

	ridesByReg  map[string]map[string]model.Ride // registration -> rideID -> ride
	rides       map[string]string                // rideID -> registration
	regsByOwner map[string]map[string]bool       // ownerUID -> registration set
	ownersByReg map[string]map[string]bool       // registration -> ownerUID set
	ignored     map[string]map[string]bool       // ownerUID -> rideID set
}

func NewMatcher(log mylogger.Logger) *Matcher {
	return &Matcher{
		log:         log,
		ridesByReg:  make(map[string]map[string]model.Ride),
		rides:       make(map[string]string),
		regsByOwner: make(map[string]map[string]bool),
		ownersByReg: make(map[string]map[string]bool),
		ignored:     make(map[string]map[string]bool),
	}
}

// Seed loads the current open rides and idle cars, typically once at boot.
func (m *Matcher) Seed(rides []model.Ride, cars []model.Car) {
	for _, c := range cars {
		if c.Status == model.CarIdle {
			m.OnCarAvailable(c.OwnerUID, c.RegistrationNumber)
		}
	}
	for _, r := range rides {
		if r.Status == model.StatusRequested {
			m.OnRideRequested(r)
		}
	}
}

func (m *Matcher) OnRideRequested(r model.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg := r.SelectedCar.RegistrationNumber
	if _, ok := m.ridesByReg[reg]; !ok {
		m.ridesByReg[reg] = make(map[string]model.Ride)
	}
	m.ridesByReg[reg][r.RideID] = r
	m.rides[r.RideID] = reg
}

// OnRideClosed drops a ride from every index, whether it was assigned or
// cancelled.
func (m *Matcher) OnRideClosed(rideID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.rides[rideID]
	if !ok {
		return
	}
	delete(m.rides, rideID)
	if byID, ok := m.ridesByReg[reg]; ok {
		delete(byID, rideID)
		if len(byID) == 0 {
			delete(m.ridesByReg, reg)
		}
	}
	for _, set := range m.ignored {
		delete(set, rideID)
	}
}

// OnCarAvailable registers a registration as servable by an owner: a car was
// added, or a booked car was released.
func (m *Matcher) OnCarAvailable(ownerUID, registration string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.regsByOwner[ownerUID]; !ok {
		m.regsByOwner[ownerUID] = make(map[string]bool)
	}
	m.regsByOwner[ownerUID][registration] = true

	if _, ok := m.ownersByReg[registration]; !ok {
		m.ownersByReg[registration] = make(map[string]bool)
	}
	m.ownersByReg[registration][ownerUID] = true
}

// OnCarUnavailable removes a registration from the owner's servable set: the
// car was removed from the fleet or booked onto a ride.
func (m *Matcher) OnCarUnavailable(ownerUID, registration string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if regs, ok := m.regsByOwner[ownerUID]; ok {
		delete(regs, registration)
		if len(regs) == 0 {
			delete(m.regsByOwner, ownerUID)
		}
	}
	if owners, ok := m.ownersByReg[registration]; ok {
		delete(owners, ownerUID)
		if len(owners) == 0 {
			delete(m.ownersByReg, registration)
		}
	}
}

// Ignore hides a ride from one owner's candidate list. Nothing is written
// back to the store, so other owners keep seeing the request.
func (m *Matcher) Ignore(ownerUID, rideID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ignored[ownerUID]; !ok {
		m.ignored[ownerUID] = make(map[string]bool)
	}
	m.ignored[ownerUID][rideID] = true
}

// CandidatesFor returns the open rides whose selected car belongs to the
// owner, minus the rides the owner ignored, ordered by request recency via
// RideID for a stable listing.
func (m *Matcher) CandidatesFor(ownerUID string) []model.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()

	regs, ok := m.regsByOwner[ownerUID]
	if !ok {
		return nil
	}

	var out []model.Ride
	for reg := range regs {
		for rideID, ride := range m.ridesByReg[reg] {
			if m.ignored[ownerUID][rideID] {
				continue
			}
			out = append(out, ride)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].RideID < out[j].RideID
	})
	return out
}

// MatchingOwners returns the owners whose servable set contains the
// registration, used to decide who gets a push for a new or closed request.
func (m *Matcher) MatchingOwners(registration string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owners := m.ownersByReg[registration]
	out := make([]string, 0, len(owners))
	for uid := range owners {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// OpenRide returns the indexed ride if it is still open.
func (m *Matcher) OpenRide(rideID string) (model.Ride, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reg, ok := m.rides[rideID]
	if !ok {
		return model.Ride{}, false
	}
	r, ok := m.ridesByReg[reg][rideID]
	return r, ok
}
