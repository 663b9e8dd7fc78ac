package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"short-link/internal/credential"
	"short-link/internal/entities"
	"short-link/internal/logger"
	"short-link/internal/oauth"
	"short-link/internal/repository"
)

// UserService defines the interface for account business logic
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*entities.User, error)
	OAuthCallback(ctx context.Context, provider, code string) (*entities.User, error)
	AuthorizeURL(provider, redirectURI, state string) (string, error)
}

type userService struct {
	repo      repository.UserRepository
	providers *oauth.Registry
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, providers *oauth.Registry) UserService {
	return newUserService(repo, providers)
}

func newUserService(repo repository.UserRepository, providers *oauth.Registry) *userService {
	return &userService{
		repo:      repo,
		providers: providers,
		now:       time.Now,
	}
}

// Register creates a password account and marks it as just logged in
func (s *userService) Register(ctx context.Context, username, email, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, newError(KindValidation, "username, email and password are required", nil)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, newError(KindConflict, "email already registered", nil)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindUpstream, "registration failed", err)
	}

	hashed, err := credential.Hash(password, "")
	if err != nil {
		return nil, newError(KindUpstream, "registration failed", err)
	}
	stored := hashed.Encode()
	now := s.now().UTC()

	user, err := s.repo.Create(ctx, &entities.User{
		Username:     username,
		Email:        &email,
		PasswordHash: &stored,
		LastLogin:    &now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, newError(KindConflict, "email already registered", err)
	}
	if err != nil {
		return nil, newError(KindUpstream, "registration failed", err)
	}

	logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login checks a password account's credentials. Each failure carries its
// own message so clients can tell them apart.
func (s *userService) Login(ctx context.Context, email, password string) (*entities.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, newError(KindValidation, "email and password are required", nil)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindUnauthorized, "user not found", nil)
	}
	if err != nil {
		return nil, newError(KindUpstream, "login failed", err)
	}

	if !user.HasPassword() {
		return nil, newError(KindUnauthorized, "password not set, use third-party login", nil)
	}

	ok, err := credential.VerifyStored(password, *user.PasswordHash)
	if err != nil {
		logger.Warn("Stored password hash is malformed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	if !ok {
		return nil, newError(KindUnauthorized, "incorrect password", nil)
	}

	s.touchLastLogin(ctx, user)
	return user, nil
}

// OAuthCallback completes a third-party login. The external identity is
// matched to an existing account through its provider link, or a new
// account and link are created for it.
func (s *userService) OAuthCallback(ctx context.Context, provider, code string) (*entities.User, error) {
	if code == "" {
		return nil, newError(KindValidation, "authorization code is missing", nil)
	}

	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, newError(KindValidation, "unsupported login provider", err)
	}

	ident, err := p.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrInDevelopment) {
			return nil, newError(KindUnimplemented, err.Error(), err)
		}
		return nil, newError(KindUpstream, fmt.Sprintf("failed to get %s user info", provider), err)
	}
	if ident == nil || ident.ProviderUserID == "" {
		return nil, newError(KindUpstream, fmt.Sprintf("failed to get %s user info", provider), nil)
	}

	userID, err := s.linkedUserID(ctx, provider, ident)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, newError(KindUpstream, "third-party login failed", err)
	}

	s.touchLastLogin(ctx, user)
	return user, nil
}

func (s *userService) linkedUserID(ctx context.Context, provider string, ident *oauth.Identity) (int64, error) {
	link, err := s.repo.FindOAuthLink(ctx, provider, ident.ProviderUserID)
	if err == nil {
		return link.UserID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, newError(KindUpstream, "third-party login failed", err)
	}

	now := s.now().UTC()
	username := ident.Username
	if username == "" {
		username = fmt.Sprintf("%s_user_%d", provider, now.UnixMilli())
	}
	var email *string
	if ident.Email != "" {
		email = &ident.Email
	}

	user, err := s.repo.Create(ctx, &entities.User{
		Username:  username,
		Email:     email,
		LastLogin: &now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, newError(KindConflict, "email already registered", err)
	}
	if err != nil {
		return 0, newError(KindUpstream, "third-party login failed", err)
	}

	_, err = s.repo.CreateOAuthLink(ctx, &entities.OAuthProvider{
		UserID:         user.ID,
		Provider:       provider,
		ProviderUserID: ident.ProviderUserID,
	})
	if err != nil {
		return 0, newError(KindUpstream, "third-party login failed", err)
	}

	logger.Info("User created from third-party login",
		zap.Int64("user_id", user.ID),
		zap.String("provider", provider),
	)
	return user.ID, nil
}

func (s *userService) touchLastLogin(ctx context.Context, user *entities.User) {
	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("Failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	user.LastLogin = &now
}

// AuthorizeURL returns where to send the browser to start a provider login
func (s *userService) AuthorizeURL(provider, redirectURI, state string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", newError(KindValidation, "unsupported login provider", err)
	}
	return p.AuthorizeURL(redirectURI, state), nil
}
