package model

import "time"

type CarStatus string

const (
	CarIdle   CarStatus = "idle"
	CarBooked CarStatus = "booked"
)

type DriverStatus string

const (
	DriverOffline DriverStatus = "offline"
	DriverOnline  DriverStatus = "online"
	DriverBooked  DriverStatus = "booked"
)

type Car struct {
	RegistrationNumber string // primary key
	OwnerUID           string
	Manufacturer       string
	Model              string
	Year               string
	Color              string
	AverageKmpl        float64
	Status             CarStatus
	CreatedAt          time.Time
}

// Driver is keyed by its 4-digit login PIN. Personal details are filled in
// on the driver's first login, so CNIC and names may be empty.
type Driver struct {
	PinCode     string // primary key
	OwnerUID    string
	PhoneNumber string
	CNIC        string
	FirstName   string
	LastName    string
	Status      DriverStatus
	CreatedAt   time.Time
}
