package handle

import (
	"net/http"

	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"
)

type PresenceHandler struct {
	presenceService ports.IPresenceService
	log             mylogger.Logger
}

func NewPresenceHandler(ps ports.IPresenceService, log mylogger.Logger) *PresenceHandler {
	return &PresenceHandler{
		presenceService: ps,
		log:             log,
	}
}

func (ph *PresenceHandler) GoOnline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get(UserIDHeader)

		res, err := ph.presenceService.GoOnline(r.Context(), uid)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (ph *PresenceHandler) GoOffline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get(UserIDHeader)

		res, err := ph.presenceService.GoOffline(r.Context(), uid)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
