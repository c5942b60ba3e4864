package model

import "time"

// Ride statuses as stored by the dispatch side.
const (
	RideRequested = "requested"
	RideAssigned  = "assigned"
	RideArrived   = "arrived"
	RideOngoing   = "ongoing"
	RideCompleted = "completed"
	RideCancelled = "cancelled"
)

// Driver statuses.
const (
	DriverOffline = "offline"
	DriverOnline  = "online"
	DriverBooked  = "booked"
)

type Driver struct {
	PinCode     string
	OwnerUID    string
	PhoneNumber string
	Cnic        string
	FirstName   string
	LastName    string
	Status      string
}

type Location struct {
	Name string
	Lat  float64
	Lng  float64
}

// ActiveRide is the ride the driver is currently assigned to, as read
// from the rides table.
type ActiveRide struct {
	RideID          string
	CustomerID      string
	Origin          Location
	Destination     Location
	CarRegistration string
	DistanceKm      float64
	DurationMinutes float64
	Fare            float64
	Status          string
	AssignedAt      *time.Time
	ArrivedAt       *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}
