package dto

type LocationDto struct {
	LocationName *string  `json:"location_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type SelectedCarDto struct {
	RegistrationNumber *string `json:"registration_number"`
	Manufacturer       *string `json:"manufacturer"`
	Model              *string `json:"model"`
	Year               *string `json:"year"`
	Color              *string `json:"color"`
}

type RideRequestDto struct {
	Origin          *LocationDto    `json:"origin"`
	Destination     *LocationDto    `json:"destination"`
	SelectedCar     *SelectedCarDto `json:"selected_car"`
	DistanceKm      *float64        `json:"distance_km"`
	DurationMinutes *float64        `json:"duration_minutes"`
}

type RideResponseDto struct {
	RideID          string  `json:"ride_id"`
	Status          string  `json:"status"`
	Fare            float64 `json:"fare"`
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	RequestedAt     string  `json:"requested_at"`
}

type RideCancelResponseDto struct {
	RideID      string `json:"ride_id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelled_at"`
	Message     string `json:"message"`
}

type CandidateRideDto struct {
	RideID          string   `json:"ride_id"`
	CustomerID      string   `json:"customer_id"`
	CustomerName    string   `json:"customer_name,omitempty"`
	CustomerPhone   string   `json:"customer_phone,omitempty"`
	PickupName      string   `json:"pickup_name"`
	DestinationName string   `json:"destination_name"`
	Car             string   `json:"car"`
	Registration    string   `json:"registration_number"`
	Fare            float64  `json:"fare"`
	DistanceKm      float64  `json:"distance_km"`
}

type AssignRequestDto struct {
	PinCode *string `json:"pin_code"`
}

type AssignResponseDto struct {
	RideID     string `json:"ride_id"`
	Status     string `json:"status"`
	DriverPin  string `json:"driver_pin"`
	AssignedAt string `json:"assigned_at"`
	Message    string `json:"message"`
}
