package websocketdto

import "encoding/json"

// Event types pushed to subscribed clients.
const (
	TypeRideRequest       = "ride_request"
	TypeRideRequestClosed = "ride_request_closed"
	TypeRideStatusUpdate  = "ride_status_update"
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RideRequestPush is what a rent-a-car owner sees when a rider requests one
// of the owner's cars.
type RideRequestPush struct {
	RideID          string  `json:"ride_id"`
	CustomerID      string  `json:"customer_id"`
	Registration    string  `json:"registration_number"`
	PickupName      string  `json:"pickup_name"`
	DestinationName string  `json:"destination_name"`
	Fare            float64 `json:"fare"`
	DistanceKm      float64 `json:"distance_km"`
}

type RideRequestClosedPush struct {
	RideID string `json:"ride_id"`
	Reason string `json:"reason"` // "assigned" or "cancelled"
}

type RideStatusUpdatePush struct {
	RideID     string      `json:"ride_id"`
	Status     string      `json:"status"`
	DriverInfo *DriverInfo `json:"driver_info,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

type DriverInfo struct {
	PinCode     string `json:"pin_code"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}
