package dto

type CarDto struct {
	RegistrationNumber *string  `json:"registration_number"`
	Manufacturer       *string  `json:"manufacturer"`
	Model              *string  `json:"model"`
	Year               *string  `json:"year"`
	Color              *string  `json:"color"`
	AverageKmpl        *float64 `json:"average_kmpl"`
}

type CarResponseDto struct {
	RegistrationNumber string  `json:"registration_number"`
	Manufacturer       string  `json:"manufacturer"`
	Model              string  `json:"model"`
	Year               string  `json:"year"`
	Color              string  `json:"color"`
	AverageKmpl        float64 `json:"average_kmpl"`
	Status             string  `json:"status"`
}

type AddDriverRequestDto struct {
	PhoneNumber *string `json:"phone_number"`
}

type DriverResponseDto struct {
	PinCode     string `json:"pin_code"`
	PhoneNumber string `json:"phone_number"`
	CNIC        string `json:"cnic,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Status      string `json:"status"`
}

type PresenceResponseDto struct {
	UID     string `json:"uid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
