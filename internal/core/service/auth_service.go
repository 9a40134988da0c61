package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
	"github.com/abelov/technical-records/internal/pkg/password"
	"github.com/abelov/technical-records/pkg/sessiontoken"
)

// AuthService implements sign-up, login, and token-based authentication.
type AuthService struct {
	repo     ports.AuthRepository
	tokens   *sessiontoken.Codec
	tokenTTL time.Duration
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens *sessiontoken.Codec, tokenTTL time.Duration, activity ports.ActivityRecorder, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{repo: repo, tokens: tokens, tokenTTL: tokenTTL, activity: activity, log: log}
}

func (s *AuthService) SignUp(ctx context.Context, email, pw, role string) (*domain.User, error) {
	if email == "" || pw == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	salt, hash, err := password.Hash(pw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Roles:        []string{role},
		IsActive:     true,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(created.ID, "sign_up", nil)
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// Login verifies the credential and issues a session token. Every failure
// mode — unknown email, deactivated principal, wrong password — collapses
// to ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, pw string) (string, *domain.User, error) {
	if email == "" || pw == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(pw, user.PasswordSalt, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(sessiontoken.Claims{"sub": user.ID, "email": user.Email}, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	s.record(user.ID, "sign_in", nil)
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Authenticate resolves a token back to its principal. Token verification
// never errors: any malformed, tampered, or expired token yields nil
// claims, and everything downstream surfaces uniformly as unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims := s.tokens.Verify(token)
	if claims == nil {
		return nil, domain.ErrInvalidCredentials
	}
	sub := claims.Subject()
	if sub == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) record(userID, action string, metadata map[string]string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.ActivityEntry{
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	})
}
