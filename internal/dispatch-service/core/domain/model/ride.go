package model

import "time"

type RideStatus string

const (
	StatusRequested RideStatus = "requested"
	StatusAssigned  RideStatus = "assigned"
	StatusArrived   RideStatus = "arrived"
	StatusOngoing   RideStatus = "ongoing"
	StatusCompleted RideStatus = "completed"
	StatusCancelled RideStatus = "cancelled"
)

// Terminal reports whether no further transition may leave the status.
func (s RideStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Location struct {
	LocationName string
	Latitude     float64
	Longitude    float64
}

// CarInfo is the snapshot of the rent-a-car vehicle the rider picked, copied
// onto the ride at request time so the ride record stays readable after the
// car itself changes or is removed.
type CarInfo struct {
	RegistrationNumber string
	Manufacturer       string
	Model              string
	Year               string
	Color              string
}

type DriverInfo struct {
	PinCode     string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type Ride struct {
	RideID          string // uuid
	CustomerID      string // uuid
	Origin          Location
	Destination     Location
	SelectedCar     CarInfo
	DistanceKm      float64
	DurationMinutes float64
	Fare            float64
	Status          RideStatus
	Driver          *DriverInfo // set once by the assignment workflow
	RentACarUID     string
	RequestedAt     time.Time
	AssignedAt      time.Time
	ArrivedAt       time.Time
	StartedAt       time.Time
	CompletedAt     time.Time
	CancelledAt     time.Time
}
