package brokerdto

// Keys on the safri_topic exchange this service touches. Assignment
// events come in from dispatch; stage transitions go back out under
// driver.status.<status> so dispatch can bind driver.status.*.
const (
	KeyRideAssigned    = "ride.assigned"
	KeyDriverStatusFmt = "driver.status.%s"
)

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RideAssigned is the dispatch-side assignment event, addressed to a
// driver by PIN.
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

type DriverStatusUpdate struct {
	RideID    string `json:"ride_id"`
	PinCode   string `json:"pin_code"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
