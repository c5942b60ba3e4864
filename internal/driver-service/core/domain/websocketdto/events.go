package websocketdto

import "encoding/json"

const TypeRideAssigned = "ride_assigned"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RideAssignedPush tells a connected driver they have a ride waiting.
type RideAssignedPush struct {
	RideID          string  `json:"ride_id"`
	Registration    string  `json:"registration_number"`
	PickupName      string  `json:"pickup_name"`
	DestinationName string  `json:"destination_name"`
	Fare            float64 `json:"fare"`
	AssignedAt      string  `json:"assigned_at"`
}
