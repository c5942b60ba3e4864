package model

// Stage is the driver's position in the ride lifecycle. It only moves
// forward: Idle -> AwaitingArrival -> Arrived -> Ongoing -> back to Idle
// once the ride completes.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingArrival
	StageArrived
	StageOngoing
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingArrival:
		return "awaiting_arrival"
	case StageArrived:
		return "arrived"
	case StageOngoing:
		return "ongoing"
	default:
		return "idle"
	}
}

// StageOf derives the driver's stage from the status of their active ride.
// Terminal ride statuses put the driver back at idle.
func StageOf(rideStatus string) Stage {
	switch rideStatus {
	case RideAssigned:
		return StageAwaitingArrival
	case RideArrived:
		return StageArrived
	case RideOngoing:
		return StageOngoing
	default:
		return StageIdle
	}
}

// Next reports the stage a transition leads to, and whether the
// transition is allowed from s. Repeating the current stage is allowed
// (an idempotent no-op) so a retried request does not fail.
func (s Stage) Next(target Stage) (Stage, bool) {
	if target == s {
		return s, true
	}
	switch {
	case s == StageAwaitingArrival && target == StageArrived:
		return StageArrived, true
	case s == StageArrived && target == StageOngoing:
		return StageOngoing, true
	case s == StageOngoing && target == StageIdle:
		return StageIdle, true
	default:
		return s, false
	}
}
