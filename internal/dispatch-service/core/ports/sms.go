package ports

import "context"

// ISmsSender is fire-and-forget from the caller's point of view: a nil error
// means the gateway accepted the message, not that it was delivered.
type ISmsSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}
