package brokerdto

// Routed through the safri_topic exchange. Keys follow the
// <aggregate>.<event> convention so consumers can bind with wildcards.
const (
	KeyRideRequested = "ride.request.created"
	KeyRideCancelled = "ride.request.cancelled"
	KeyRideAssigned  = "ride.assigned"
)

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type RideRequested struct {
	RideID       string   `json:"ride_id"`
	CustomerID   string   `json:"customer_id"`
	Registration string   `json:"registration_number"`
	Pickup       Location `json:"pickup"`
	Destination  Location `json:"destination"`
	Fare         float64  `json:"fare"`
	DistanceKm   float64  `json:"distance_km"`
}

type RideCancelled struct {
	RideID    string `json:"ride_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

type RideAssigned struct {
	RideID       string   `json:"ride_id"`
	PinCode      string   `json:"pin_code"`
	RentACarUID  string   `json:"rent_a_car_uid"`
	Registration string   `json:"registration_number"`
	CustomerID   string   `json:"customer_id"`
	Pickup       Location `json:"pickup"`
	Destination  Location `json:"destination"`
	Fare         float64  `json:"fare"`
	AssignedAt   string   `json:"assigned_at"`
}

// DriverStatusUpdate is published by the driver service on every stage
// transition and consumed here to fan the change out to the rider.
type DriverStatusUpdate struct {
	RideID    string `json:"ride_id"`
	PinCode   string `json:"pin_code"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
