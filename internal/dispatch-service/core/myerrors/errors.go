package myerrors

import "errors"

var (
	ErrRideNotFound      = errors.New("ride not found")
	ErrRideUnavailable   = errors.New("ride is no longer available for assignment")
	ErrDriverNotFound    = errors.New("driver not found")
	ErrDriverNotOwned    = errors.New("driver belongs to another rent-a-car")
	ErrDriverUnavailable = errors.New("driver is not online")
	ErrCarNotFound       = errors.New("car not found")
	ErrCarUnavailable    = errors.New("car is not idle")
	ErrPinTaken          = errors.New("pin code already in use")
	ErrSmsDisabled       = errors.New("sms sending is disabled")
	ErrNotRequested      = errors.New("ride is not in requested status")
)
