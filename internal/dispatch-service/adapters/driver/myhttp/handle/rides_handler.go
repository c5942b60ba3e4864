package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/dispatch-service/core/services"
	"safri360/internal/mylogger"
)

// UserIDHeader is set by the auth middleware from the verified token.
const UserIDHeader = "X-UserId"

type RidesHandler struct {
	ridesService      ports.IRidesService
	assignmentService ports.IAssignmentService
	log               mylogger.Logger
}

func NewRidesHandler(rs ports.IRidesService, as ports.IAssignmentService, log mylogger.Logger) *RidesHandler {
	return &RidesHandler{
		ridesService:      rs,
		assignmentService: as,
		log:               log,
	}
}

func (rh *RidesHandler) CreateRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.Header.Get(UserIDHeader)

		req := dto.RideRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := rh.ridesService.CreateRide(customerID, req)
		if err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RidesHandler) CancelRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.Header.Get(UserIDHeader)
		rideID := r.PathValue("ride_id")

		res, err := rh.ridesService.CancelRide(customerID, rideID)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) ListCandidates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)

		res, err := rh.ridesService.CandidatesFor(ownerUID)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) IgnoreRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)
		rideID := r.PathValue("ride_id")

		rh.ridesService.Ignore(ownerUID, rideID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (rh *RidesHandler) AssignDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)
		rideID := r.PathValue("ride_id")

		req := dto.AssignRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.PinCode == nil || *req.PinCode == "" {
			JsonError(w, http.StatusBadRequest, errors.New("pin_code is required"))
			return
		}

		res, err := rh.assignmentService.AssignDriver(ownerUID, rideID, *req.PinCode)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrRideNotFound),
		errors.Is(err, myerrors.ErrDriverNotFound),
		errors.Is(err, myerrors.ErrCarNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrDriverNotOwned):
		return http.StatusForbidden
	case services.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
