package myerrors

import "errors"

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrDriverBooked   = errors.New("driver is on a ride and cannot change availability")
	ErrNoActiveRide   = errors.New("driver has no active ride")
	ErrStageConflict  = errors.New("ride is not in a stage that allows this transition")
)
