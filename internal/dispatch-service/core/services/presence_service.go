package services

import (
	"context"

	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"
)

// PresenceService flips the per-actor online flag. The flag is written once
// per toggle with no heartbeat behind it; a client killed while online stays
// online until it comes back and toggles again.
type PresenceService struct {
	mylog    mylogger.Logger
	presence ports.IPresenceStore
}

func NewPresenceService(log mylogger.Logger, presence ports.IPresenceStore) ports.IPresenceService {
	return &PresenceService{mylog: log, presence: presence}
}

func (ps *PresenceService) GoOnline(ctx context.Context, uid string) (dto.PresenceResponseDto, error) {
	if err := ps.presence.SetOnline(ctx, uid); err != nil {
		ps.mylog.Action("GoOnline").Error("cannot set presence", err, "uid", uid)
		return dto.PresenceResponseDto{}, err
	}
	return dto.PresenceResponseDto{UID: uid, Status: "Online", Message: "You are now online"}, nil
}

func (ps *PresenceService) GoOffline(ctx context.Context, uid string) (dto.PresenceResponseDto, error) {
	if err := ps.presence.SetOffline(ctx, uid); err != nil {
		ps.mylog.Action("GoOffline").Error("cannot set presence", err, "uid", uid)
		return dto.PresenceResponseDto{}, err
	}
	return dto.PresenceResponseDto{UID: uid, Status: "Offline", Message: "You are now offline"}, nil
}
