package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the body of POST /api/auth/signup.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService implements [AuthAPI] over HTTP.
type AuthService struct {
	client *Client
}

// NewAuthService creates an [AuthService] sharing client.
func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// SignIn calls POST /api/auth/signin.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (models.User, error) {
	return s.authenticate(ctx, shared.ErrAuthFailed, "/api/auth/signin", SignInRequest{Email: email, Password: password})
}

// SignUp calls POST /api/auth/signup.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (models.User, error) {
	return s.authenticate(ctx, shared.ErrSignUpFailed, "/api/auth/signup", SignUpRequest{Name: name, Email: email, Password: password})
}

func (s *AuthService) authenticate(ctx context.Context, op error, endpoint string, body any) (models.User, error) {
	var user models.User
	if err := s.client.doRequest(ctx, op, http.MethodPost, endpoint, body, &user); err != nil {
		return models.User{}, err
	}
	if err := user.Validate(); err != nil {
		return models.User{}, fmt.Errorf("%w: %w: %w", op, shared.ErrInvalidIdentity, err)
	}
	return user, nil
}
