package model

import "time"

type ActiveRide struct {
	RideID          string
	CustomerID      string
	OriginName      string
	DestinationName string
	Registration    string
	Fare            float64
	Status          string
	DriverPin       string
	RentACarUID     string
	RequestedAt     time.Time
}

// Counters holds the per-status tallies the overview endpoint reports.
type Counters struct {
	RidesRequested int
	RidesAssigned  int
	RidesArrived   int
	RidesOngoing   int
	RidesCompleted int
	RidesCancelled int

	DriversOffline int
	DriversOnline  int
	DriversBooked  int

	CarsIdle   int
	CarsBooked int
}
