package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"safri360/internal/auth-service/core/domain/dto"
	"safri360/internal/auth-service/core/myerrors"
	"safri360/internal/auth-service/core/ports"
	"safri360/internal/mylogger"
)

type AuthHandler struct {
	authService ports.IAuthService
	log         mylogger.Logger
}

func NewAuthHandler(as ports.IAuthService, log mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: as,
		log:         log,
	}
}

func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.RegisterRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.Register(req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LoginRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.Login(req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) DriverLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.DriverLoginRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.DriverLogin(req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrEmailRegistered):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrUnknownEmail),
		errors.Is(err, myerrors.ErrUnknownPin):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrWrongPassword):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
