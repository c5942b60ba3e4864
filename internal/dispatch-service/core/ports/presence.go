package ports

import "context"

// IPresenceStore keeps the per-actor online flag. Flags carry no TTL and no
// disconnect hook, so a killed client stays "Online" until it toggles again.
type IPresenceStore interface {
	SetOnline(ctx context.Context, uid string) error
	SetOffline(ctx context.Context, uid string) error
	IsOnline(ctx context.Context, uid string) (bool, error)
	CountOnline(ctx context.Context) (int64, error)
	Close() error
}
