package model

import "time"

// Account roles. Drivers are not users; they authenticate by PIN against
// the drivers table.
const (
	RoleRider    = "RIDER"
	RoleRentACar = "RENT_A_CAR"
	RoleFreight  = "FREIGHT_RIDER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	UID          string
	Role         string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	PhoneNumber  string
	PhotoURL     string
	CreatedAt    time.Time
}

type Driver struct {
	PinCode     string
	OwnerUID    string
	PhoneNumber string
	Cnic        string
	FirstName   string
	LastName    string
	Status      string
}
