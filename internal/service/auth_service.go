package service

import (
	"context"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"chitchat/internal/domain"
	"chitchat/internal/logger"
	"chitchat/internal/security"
)

// AuthService handles signup and login. It plays the identity-provider role:
// the opaque participant identifier it issues at signup is the token every
// other component addresses the user by.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService
	hash   *security.PasswordHasher
}

func NewAuthService(users domain.UserRepository, tokens *security.TokenService, hash *security.PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   hash,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	// Image is an optional avatar URL already resolved by the upload pipeline.
	Image string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenResponse struct {
	AccessToken string
	TokenType   string
	User        *domain.User
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.NewAuthError(domain.AuthMissingFields)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail)
	}
	if len(in.Password) < 6 {
		return nil, domain.NewAuthError(domain.AuthWeakPassword)
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.NewAuthError(domain.AuthPasswordMismatch)
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, domain.NewAuthError(domain.AuthEmailInUse)
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:           in.Name,
		Email:          in.Email,
		Image:          in.Image,
		HashedPassword: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == domain.ErrConflict {
			return nil, domain.NewAuthError(domain.AuthEmailInUse)
		}
		return nil, err
	}

	logger.Log.Info("user signed up", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.NewAuthError(domain.AuthMissingFields)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewAuthError(domain.AuthInvalidCredential)
	}
	if err := s.hash.Verify(in.Password, user.HashedPassword); err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidCredential)
	}

	token, err := s.tokens.CreateForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	logger.Log.Info("user logged in", zap.String("user_id", user.ID))
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}
