package handle

import (
	"errors"
	"net/http"

	"safri360/internal/driver-service/core/domain/dto"
	"safri360/internal/driver-service/core/myerrors"
	"safri360/internal/driver-service/core/ports"
	"safri360/internal/mylogger"
)

// UserIDHeader is set by the auth middleware from the verified token. For
// drivers the uid claim carries the PIN.
const UserIDHeader = "X-UserId"

type DriverHandler struct {
	driverService ports.IDriverService
	log           mylogger.Logger
}

func NewDriverHandler(ds ports.IDriverService, log mylogger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: ds,
		log:           log,
	}
}

// pin extracts the path PIN and rejects a token that belongs to a
// different driver.
func pin(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := r.PathValue("pin_code")
	if p == "" {
		JsonError(w, http.StatusBadRequest, errors.New("pin_code is required"))
		return "", false
	}
	if tokenPin := r.Header.Get(UserIDHeader); tokenPin != "" && tokenPin != p {
		JsonError(w, http.StatusForbidden, errors.New("token does not match driver"))
		return "", false
	}
	return p, true
}

func (dh *DriverHandler) GoOnline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pin(w, r)
		if !ok {
			return
		}
		res, err := dh.driverService.GoOnline(p)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriverHandler) GoOffline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pin(w, r)
		if !ok {
			return
		}
		res, err := dh.driverService.GoOffline(p)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriverHandler) ActiveRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pin(w, r)
		if !ok {
			return
		}
		res, err := dh.driverService.ActiveRide(p)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriverHandler) Arrived() http.HandlerFunc {
	return dh.stage(dh.driverService.Arrived)
}

func (dh *DriverHandler) StartRide() http.HandlerFunc {
	return dh.stage(dh.driverService.StartRide)
}

func (dh *DriverHandler) CompleteRide() http.HandlerFunc {
	return dh.stage(dh.driverService.CompleteRide)
}

func (dh *DriverHandler) stage(do func(pinCode string) (dto.StageResponseDto, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pin(w, r)
		if !ok {
			return
		}
		res, err := do(p)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrDriverNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrNoActiveRide):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrDriverBooked),
		errors.Is(err, myerrors.ErrStageConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
