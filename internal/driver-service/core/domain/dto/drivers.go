package dto

type StatusResponseDto struct {
	PinCode string `json:"pin_code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type StageResponseDto struct {
	RideID    string `json:"ride_id"`
	Stage     string `json:"stage"`
	Timestamp string `json:"timestamp"`
}

type LocationDto struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type ActiveRideResponseDto struct {
	RideID          string      `json:"ride_id"`
	Origin          LocationDto `json:"origin"`
	Destination     LocationDto `json:"destination"`
	Registration    string      `json:"registration_number"`
	DistanceKm      float64     `json:"distance_km"`
	DurationMinutes float64     `json:"duration_minutes"`
	Fare            float64     `json:"fare"`
	Status          string      `json:"status"`
	Stage           string      `json:"stage"`
}
