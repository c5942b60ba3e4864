package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"safri360/internal/auth-service/core/domain/dto"
	"safri360/internal/auth-service/core/domain/model"
	"safri360/internal/auth-service/core/myerrors"
	"safri360/internal/auth-service/core/ports"
	"safri360/internal/config"
	"safri360/internal/mylogger"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const repoTimeout = time.Second * 15

type AuthService struct {
	ctx        context.Context
	cfg        *config.Config
	mylog      mylogger.Logger
	userRepo   ports.IUserRepo
	driverRepo ports.IDriverRepo
}

func NewAuthService(ctx context.Context,
	cfg *config.Config,
	log mylogger.Logger,
	userRepo ports.IUserRepo,
	driverRepo ports.IDriverRepo,
) ports.IAuthService {
	return &AuthService{
		ctx:        ctx,
		cfg:        cfg,
		mylog:      log,
		userRepo:   userRepo,
		driverRepo: driverRepo,
	}
}

func (as *AuthService) Register(req dto.RegisterRequestDto) (dto.AuthResponseDto, error) {
	log := as.mylog.Action("Register")

	if err := validateRegistration(req); err != nil {
		return dto.AuthResponseDto{}, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return dto.AuthResponseDto{}, fmt.Errorf("failed to hash password: %v", err)
	}

	u := model.User{
		UID:          uuid.NewString(),
		Role:         req.Role,
		Email:        req.Email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		PhotoURL:     req.PhotoURL,
	}

	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()

	if err := as.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) {
			log.Warn("Failed to register, email already registered")
			return dto.AuthResponseDto{}, err
		}
		log.Error("Failed to save user in db", err)
		return dto.AuthResponseDto{}, fmt.Errorf("cannot save user in db: %w", err)
	}

	token, err := as.signToken(u.UID, u.Role)
	if err != nil {
		log.Error("cannot create jwt token", err)
		return dto.AuthResponseDto{}, err
	}

	log.Info("User registered successfully")
	return dto.AuthResponseDto{UID: u.UID, Role: u.Role, AccessToken: token}, nil
}

func (as *AuthService) Login(req dto.LoginRequestDto) (dto.AuthResponseDto, error) {
	log := as.mylog.Action("Login")

	if err := validateLogin(req.Email, req.Password); err != nil {
		return dto.AuthResponseDto{}, err
	}

	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()

	user, err := as.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, myerrors.ErrUnknownEmail) {
			log.Warn("Failed to login, unknown email")
			return dto.AuthResponseDto{}, err
		}
		log.Error("Failed to load user from db", err)
		return dto.AuthResponseDto{}, fmt.Errorf("cannot load user from db: %w", err)
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		log.Debug("Failed to login, wrong password")
		return dto.AuthResponseDto{}, myerrors.ErrWrongPassword
	}

	token, err := as.signToken(user.UID, user.Role)
	if err != nil {
		log.Error("cannot create jwt token", err)
		return dto.AuthResponseDto{}, err
	}

	log.Info("User login successfully")
	return dto.AuthResponseDto{UID: user.UID, Role: user.Role, AccessToken: token}, nil
}

// DriverLogin authenticates against the drivers table by PIN. The first
// login may carry the driver's name and CNIC, which are persisted.
func (as *AuthService) DriverLogin(req dto.DriverLoginRequestDto) (dto.DriverLoginResponseDto, error) {
	log := as.mylog.Action("DriverLogin").With("pin", req.PinCode)

	if err := validatePin(req.PinCode); err != nil {
		return dto.DriverLoginResponseDto{}, err
	}

	ctx, cancel := context.WithTimeout(as.ctx, repoTimeout)
	defer cancel()

	driver, err := as.driverRepo.GetByPin(ctx, req.PinCode)
	if err != nil {
		if errors.Is(err, myerrors.ErrUnknownPin) {
			log.Warn("Failed to login, unknown pin")
			return dto.DriverLoginResponseDto{}, err
		}
		log.Error("Failed to load driver from db", err)
		return dto.DriverLoginResponseDto{}, fmt.Errorf("cannot load driver from db: %w", err)
	}

	if driver.FirstName == "" && req.FirstName != "" {
		if err := as.driverRepo.CompleteProfile(ctx, req.PinCode, req.FirstName, req.LastName, req.Cnic); err != nil {
			log.Error("cannot persist driver profile", err)
			return dto.DriverLoginResponseDto{}, err
		}
		driver.FirstName = req.FirstName
		driver.LastName = req.LastName
		driver.Cnic = req.Cnic
	}

	token, err := as.signToken(driver.PinCode, "DRIVER")
	if err != nil {
		log.Error("cannot create jwt token", err)
		return dto.DriverLoginResponseDto{}, err
	}

	log.Info("Driver login successfully")
	return dto.DriverLoginResponseDto{
		PinCode:     driver.PinCode,
		OwnerUID:    driver.OwnerUID,
		FirstName:   driver.FirstName,
		LastName:    driver.LastName,
		Status:      driver.Status,
		AccessToken: token,
	}, nil
}

func (as *AuthService) signToken(uid, role string) (string, error) {
	ttl := time.Duration(as.cfg.App.TokenTTL) * time.Hour
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uid,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(as.cfg.App.JwtSecret))
}
