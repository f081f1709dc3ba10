package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleancart/internal/config"
	"cleancart/internal/domain"
	"cleancart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserService defines the interface for account business logic
type UserService interface {
	Signup(ctx context.Context, fullName, userName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// LoginResult carries the issued token. User is nil for admin logins.
type LoginResult struct {
	Token   string
	IsAdmin bool
	User    *domain.User
}

// Claims represents the JWT claims issued by either signing key.
type Claims struct {
	UserID  uuid.UUID `json:"userId,omitempty"`
	IsAdmin bool      `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	admin    config.AdminConfig
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, admin config.AdminConfig) UserService {
	return &userService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		admin:    admin,
	}
}

// Signup creates a new account with a hashed password. A duplicate email
// is rejected before any write.
func (s *userService) Signup(ctx context.Context, fullName, userName, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && err != repository.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		FullName:     fullName,
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates either the configured admin credential pair or a
// stored account. Admin tokens are signed with the admin secret, user
// tokens with the user secret.
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.admin.Email != "" && email == s.admin.Email {
		if password != s.admin.Password {
			return nil, ErrInvalidCredentials
		}

		token, err := s.signToken(&Claims{IsAdmin: true}, s.jwtCfg.AdminSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to sign admin token: %w", err)
		}

		return &LoginResult{Token: token, IsAdmin: true}, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(&Claims{UserID: user.ID}, s.jwtCfg.UserSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// GetProfile retrieves a user by ID.
func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user; carts and wishlists cascade, orders
// survive with a null user reference.
func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, userID)
}

func (s *userService) signToken(claims *Claims, secret string) (string, error) {
	expiry := time.Duration(s.jwtCfg.ExpiryHours) * time.Hour
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
