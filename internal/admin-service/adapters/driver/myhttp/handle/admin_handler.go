package handle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"safri360/internal/admin-service/core/ports"
	"safri360/internal/mylogger"
)

type AdminHandler struct {
	adminService ports.IAdminService
	log          mylogger.Logger
}

func NewAdminHandler(as ports.IAdminService, log mylogger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: as,
		log:          log,
	}
}

func (ah *AdminHandler) ActiveRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

		res, err := ah.adminService.ActiveRides(page, pageSize)
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AdminHandler) Overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ah.adminService.Overview()
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func JsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, errorResponse{Error: err.Error()})
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
