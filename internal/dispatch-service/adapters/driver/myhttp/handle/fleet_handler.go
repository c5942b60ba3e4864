package handle

import (
	"encoding/json"
	"net/http"

	"safri360/internal/dispatch-service/core/domain/dto"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"
)

type FleetHandler struct {
	fleetService ports.IFleetService
	log          mylogger.Logger
}

func NewFleetHandler(fs ports.IFleetService, log mylogger.Logger) *FleetHandler {
	return &FleetHandler{
		fleetService: fs,
		log:          log,
	}
}

func (fh *FleetHandler) AddCar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)

		req := dto.CarDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := fh.fleetService.AddCar(ownerUID, req)
		if err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (fh *FleetHandler) ListCars() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)

		res, err := fh.fleetService.ListCars(ownerUID)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) RemoveCar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)
		registration := r.PathValue("registration_number")

		if err := fh.fleetService.RemoveCar(ownerUID, registration); err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (fh *FleetHandler) AddDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)

		req := dto.AddDriverRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := fh.fleetService.AddDriver(ownerUID, req)
		if err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (fh *FleetHandler) ListDrivers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)

		res, err := fh.fleetService.ListDrivers(ownerUID)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) ListAvailableDrivers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)

		res, err := fh.fleetService.ListAvailableDrivers(ownerUID)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) RemoveDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerUID := r.Header.Get(UserIDHeader)
		pinCode := r.PathValue("pin_code")

		if err := fh.fleetService.RemoveDriver(ownerUID, pinCode); err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
