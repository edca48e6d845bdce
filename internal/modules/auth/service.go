package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pierres.shop/app/internal/modules/users"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
)

type Service struct {
	users  *users.Repo
	tokens *Tokens
}

func NewService(repo *users.Repo, tokens *Tokens) *Service {
	return &Service{users: repo, tokens: tokens}
}

// Login checks credentials and returns a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, users.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", users.User{}, ErrInvalidCredentials
		}
		return "", users.User{}, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", users.User{}, ErrInvalidCredentials
	}
	if u.EmailVerifiedAt == nil {
		return "", users.User{}, ErrEmailNotVerified
	}

	tok, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return "", users.User{}, err
	}
	return tok, u, nil
}
