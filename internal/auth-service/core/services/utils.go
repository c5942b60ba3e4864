package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"safri360/internal/auth-service/core/domain/dto"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinEmailLen = 5
	MaxEmailLen = 100

	MinPasswordLen = 6
	MaxPasswordLen = 50

	HashFactor = 10
)

var allowedRoles = map[string]bool{
	"RIDER":         true,
	"RENT_A_CAR":    true,
	"FREIGHT_RIDER": true,
	"ADMIN":         true,
}

var (
	ErrFieldIsEmpty       = errors.New("field is empty")
	ErrRoleNotAllowed     = errors.New("role is not allowed")
	ErrInvalidPhoneNumber = errors.New("invalid phone number (should be +XXXXXXXXXXX)")
	ErrInvalidPin         = errors.New("pin must be 4 digits")
)

var (
	phonePattern = regexp.MustCompile(`^\+\d{10,14}$`)
	pinPattern   = regexp.MustCompile(`^\d{4}$`)
)

func validateRegistration(req dto.RegisterRequestDto) error {
	if err := validateEmail(req.Email); err != nil {
		return fmt.Errorf("invalid email: %v", err)
	}
	if err := validatePassword(req.Password); err != nil {
		return fmt.Errorf("invalid password: %v", err)
	}
	if !allowedRoles[req.Role] {
		return ErrRoleNotAllowed
	}
	if req.PhoneNumber != "" && !phonePattern.MatchString(req.PhoneNumber) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

func validateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %v", err)
	}
	if err := validatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %v", err)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrFieldIsEmpty
	}

	emailLen := len(email)
	if emailLen < MinEmailLen || emailLen > MaxEmailLen {
		return fmt.Errorf("must be in range [%d, %d]", MinEmailLen, MaxEmailLen)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("must contain only one @: %s", email)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrFieldIsEmpty
	}

	passwordLen := len(password)
	if passwordLen < MinPasswordLen || passwordLen > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func validatePin(pinCode string) error {
	if pinCode == "" {
		return ErrFieldIsEmpty
	}
	if !pinPattern.MatchString(pinCode) {
		return ErrInvalidPin
	}
	return nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), HashFactor)
}

func checkPassword(hashed []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}
