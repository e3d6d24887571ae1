package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/TQS-Project-OLS/backend-sub001/internal/domain/user"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/auth"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// RegisterRequest is the request DTO for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the request DTO for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued tokens and the user profile.
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// UserDTO is the API representation of a user account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthService implements account registration and login.
type AuthService struct {
	repo       userDomain.UserRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo userDomain.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, jwtManager: jwtManager, logger: logger}
}

// Register creates a renter or owner account and issues tokens. The admin
// role cannot be self-assigned.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Role != auth.RoleRenter && req.Role != auth.RoleOwner {
		return nil, domain.NewValidationError("role must be renter or owner")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.NewConflictError("an account with this email already exists")
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	usr, err := userDomain.NewUser(req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", usr.ID().String()),
		zap.String("role", usr.Role()),
	)
	return s.issueTokens(usr)
}

// Login verifies credentials and issues tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	usr, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}

	if !usr.CheckPassword(req.Password) {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}

	return s.issueTokens(usr)
}

func (s *AuthService) issueTokens(usr *userDomain.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(usr.ID(), usr.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(usr.ID(), usr.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserDTO{
			ID:        usr.ID(),
			Email:     usr.Email(),
			Name:      usr.Name(),
			Role:      usr.Role(),
			CreatedAt: usr.CreatedAt(),
		},
	}, nil
}
