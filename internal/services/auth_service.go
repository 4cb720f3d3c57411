package services

import (
	"context"
	"strings"

	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
}

type authService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	IsOwner         bool   `json:"is_owner"`
	IsTransporter   bool   `json:"is_transporter"`
	CompanyName     string `json:"company_name" validate:"max=100"`
	PhoneNo         string `json:"phone_no" validate:"max=15"`
	Address         string `json:"address" validate:"max=300"`
	State           string `json:"state" validate:"max=100"`
	Country         string `json:"country" validate:"max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	CompanyName *string `json:"company_name" validate:"omitempty,max=100"`
	PhoneNo     *string `json:"phone_no" validate:"omitempty,max=15"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	State       *string `json:"state" validate:"omitempty,max=100"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}
	if !request.IsOwner && !request.IsTransporter {
		return nil, utils.NewValidationError("account must be an owner, a transporter, or both")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(request.Username),
		Email:        request.Email,
		Password:     string(hashed),
		Capabilities: models.NewCapabilities(request.IsOwner, request.IsTransporter),
		IsActive:     true,
		CompanyName:  request.CompanyName,
		PhoneNo:      request.PhoneNo,
		Address:      request.Address,
		State:        request.State,
		Country:      request.Country,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).WithField("username", user.Username).Info("User registered")

	return s.issueTokens(user)
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, request.Username)
	if err != nil {
		// Same error whether the user is missing or the password is wrong.
		return nil, utils.NewAuthenticationError(utils.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, utils.NewAuthenticationError(utils.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, utils.NewAuthenticationError(utils.ErrAccountDisabled)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to record last login")
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return s.issueTokens(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	pair, claims, err := utils.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, utils.NewAuthenticationError(utils.ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, utils.NewAuthenticationError(utils.ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, utils.NewAuthenticationError(utils.ErrAccountDisabled)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	updates := make(map[string]interface{})
	if request.CompanyName != nil {
		updates["company_name"] = *request.CompanyName
	}
	if request.PhoneNo != nil {
		updates["phone_no"] = *request.PhoneNo
	}
	if request.Address != nil {
		updates["address"] = *request.Address
	}
	if request.State != nil {
		updates["state"] = *request.State
	}
	if request.Country != nil {
		updates["country"] = *request.Country
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return utils.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.CurrentPassword)); err != nil {
		return utils.NewAuthenticationError(utils.ErrInvalidCredentials)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewInternalError(err)
	}

	return s.userRepo.Update(ctx, userID, map[string]interface{}{"password": string(hashed)})
}

func (s *authService) issueTokens(user *models.User) (*AuthResponse, error) {
	pair, err := utils.GenerateTokenPair(user, s.jwtSecret)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
