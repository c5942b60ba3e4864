package ports

import "safri360/internal/auth-service/core/domain/dto"

type IAuthService interface {
	Register(req dto.RegisterRequestDto) (dto.AuthResponseDto, error)
	Login(req dto.LoginRequestDto) (dto.AuthResponseDto, error)
	DriverLogin(req dto.DriverLoginRequestDto) (dto.DriverLoginResponseDto, error)
}
