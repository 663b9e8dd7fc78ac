package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"short-link/internal/entities"
)

//go:generate mockgen -source=user_repository.go -destination=mocks/user_repository_mock.go -package=mocks

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	FindOAuthLink(ctx context.Context, provider, providerUserID string) (*entities.OAuthProvider, error)
	CreateOAuthLink(ctx context.Context, link *entities.OAuthProvider) (*entities.OAuthProvider, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, last_login, created_at`

func scanUser(row rowScanner) (*entities.User, error) {
	var (
		user         entities.User
		email        sql.NullString
		passwordHash sql.NullString
		lastLogin    sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&email,
		&passwordHash,
		&lastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		user.Email = &email.String
	}
	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		user.LastLogin = &t
	}
	return &user, nil
}

// Create inserts a new user. A taken email yields ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, last_login)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var lastLogin interface{}
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.UTC()
	}

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, lastLogin))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOAuthLink looks up the local account bound to an external identity
func (r *userRepository) FindOAuthLink(ctx context.Context, provider, providerUserID string) (*entities.OAuthProvider, error) {
	query := `
		SELECT id, user_id, provider, provider_user_id, created_at
		FROM user_oauth_providers
		WHERE provider = $1 AND provider_user_id = $2
	`

	var link entities.OAuthProvider
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).Scan(
		&link.ID,
		&link.UserID,
		&link.Provider,
		&link.ProviderUserID,
		&link.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth provider: %w", err)
	}
	return &link, nil
}

// CreateOAuthLink binds an external identity to a user
func (r *userRepository) CreateOAuthLink(ctx context.Context, link *entities.OAuthProvider) (*entities.OAuthProvider, error) {
	query := `
		INSERT INTO user_oauth_providers (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, provider, provider_user_id, created_at
	`

	var created entities.OAuthProvider
	err := r.db.QueryRowContext(ctx, query, link.UserID, link.Provider, link.ProviderUserID).Scan(
		&created.ID,
		&created.UserID,
		&created.Provider,
		&created.ProviderUserID,
		&created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create oauth provider: %w", err)
	}
	return &created, nil
}
