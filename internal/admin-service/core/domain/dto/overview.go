package dto

type OverviewDto struct {
	Timestamp   string     `json:"timestamp"`
	Rides       RideCounts `json:"rides"`
	Drivers     FleetCount `json:"drivers"`
	Cars        CarCounts  `json:"cars"`
	OnlineUsers int64      `json:"online_users"`
}

type RideCounts struct {
	Requested int `json:"requested"`
	Assigned  int `json:"assigned"`
	Arrived   int `json:"arrived"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type FleetCount struct {
	Offline int `json:"offline"`
	Online  int `json:"online"`
	Booked  int `json:"booked"`
}

type CarCounts struct {
	Idle   int `json:"idle"`
	Booked int `json:"booked"`
}

type ActiveRideDto struct {
	RideID          string  `json:"ride_id"`
	CustomerID      string  `json:"customer_id"`
	OriginName      string  `json:"origin_name"`
	DestinationName string  `json:"destination_name"`
	Registration    string  `json:"registration_number"`
	Fare            float64 `json:"fare"`
	Status          string  `json:"status"`
	DriverPin       string  `json:"driver_pin,omitempty"`
	RentACarUID     string  `json:"rent_a_car_uid,omitempty"`
	RequestedAt     string  `json:"requested_at"`
}

type ActiveRidesResponseDto struct {
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Rides    []ActiveRideDto `json:"rides"`
}
