package dto

type RegisterRequestDto struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

type LoginRequestDto struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponseDto struct {
	UID         string `json:"uid"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

// DriverLoginRequestDto carries optional profile fields; the first login
// persists them to the driver record.
type DriverLoginRequestDto struct {
	PinCode   string `json:"pin_code"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Cnic      string `json:"cnic,omitempty"`
}

type DriverLoginResponseDto struct {
	PinCode     string `json:"pin_code"`
	OwnerUID    string `json:"owner_uid"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Status      string `json:"status"`
	AccessToken string `json:"access_token"`
}
