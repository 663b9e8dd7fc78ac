package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"short-link/internal/entities"
)

//go:generate mockgen -source=link_repository.go -destination=mocks/link_repository_mock.go -package=mocks

// LinkRepository defines the interface for link database operations
type LinkRepository interface {
	FindByShort(ctx context.Context, short string) (*entities.Link, error)
	Insert(ctx context.Context, link *entities.Link) (*entities.Link, error)
	InsertAccessLog(ctx context.Context, entry *entities.AccessLog) error
	IncrementAccessCount(ctx context.Context, linkID int64) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.Link, error)
	ListPublic(ctx context.Context) ([]*entities.Link, error)
	ListAccessLogs(ctx context.Context, linkID int64) ([]*entities.AccessLog, error)
	ListExpirationOptions(ctx context.Context) ([]*entities.ExpirationOption, error)
}

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = `id, link, short, user_id, expires_at, is_public, access_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*entities.Link, error) {
	var (
		link      entities.Link
		userID    sql.NullInt64
		expiresAt sql.NullTime
	)
	err := row.Scan(
		&link.ID,
		&link.Link,
		&link.Short,
		&userID,
		&expiresAt,
		&link.IsPublic,
		&link.AccessCount,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		link.UserID = &userID.Int64
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		link.ExpiresAt = &t
	}
	return &link, nil
}

// FindByShort finds a link by its short code, expired or not
func (r *linkRepository) FindByShort(ctx context.Context, short string) (*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short = $1`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, short))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

// Insert creates a link row. A taken short code yields ErrDuplicate.
func (r *linkRepository) Insert(ctx context.Context, link *entities.Link) (*entities.Link, error) {
	var expiresAt interface{}
	if link.ExpiresAt != nil {
		expiresAt = link.ExpiresAt.UTC()
	}

	query := `
		INSERT INTO links (link, short, user_id, expires_at, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + linkColumns

	created, err := scanLink(r.db.QueryRowContext(ctx, query,
		link.Link, link.Short, link.UserID, expiresAt, link.IsPublic))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return created, nil
}

// InsertAccessLog appends one access record
func (r *linkRepository) InsertAccessLog(ctx context.Context, entry *entities.AccessLog) error {
	query := `
		INSERT INTO link_access_logs (link_id, ip_address, user_agent, referrer)
		VALUES ($1, $2, $3, $4)
		RETURNING id, accessed_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.LinkID, entry.IPAddress, entry.UserAgent, entry.Referrer,
	).Scan(&entry.ID, &entry.AccessedAt)
	if err != nil {
		return fmt.Errorf("failed to insert access log: %w", err)
	}
	return nil
}

// IncrementAccessCount bumps access_count through the increment_access_count
// database function, which performs a single UPDATE.
func (r *linkRepository) IncrementAccessCount(ctx context.Context, linkID int64) error {
	if _, err := r.db.ExecContext(ctx, `SELECT increment_access_count($1)`, linkID); err != nil {
		return fmt.Errorf("failed to increment access count: %w", err)
	}
	return nil
}

// ListByUser returns a user's links, newest first
func (r *linkRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.queryLinks(ctx, query, userID)
}

// ListPublic returns links flagged public, newest first
func (r *linkRepository) ListPublic(ctx context.Context) ([]*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE is_public = TRUE ORDER BY created_at DESC, id DESC`
	return r.queryLinks(ctx, query)
}

func (r *linkRepository) queryLinks(ctx context.Context, query string, args ...any) ([]*entities.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	links := make([]*entities.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}
	return links, nil
}

// ListAccessLogs returns the access history of a link, most recent first
func (r *linkRepository) ListAccessLogs(ctx context.Context, linkID int64) ([]*entities.AccessLog, error) {
	query := `
		SELECT id, link_id, ip_address, user_agent, referrer, accessed_at
		FROM link_access_logs
		WHERE link_id = $1
		ORDER BY accessed_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get access logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*entities.AccessLog, 0)
	for rows.Next() {
		var entry entities.AccessLog
		var accessedAt time.Time
		if err := rows.Scan(
			&entry.ID,
			&entry.LinkID,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Referrer,
			&accessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan access log: %w", err)
		}
		entry.AccessedAt = accessedAt.UTC()
		logs = append(logs, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access logs: %w", err)
	}
	return logs, nil
}

// ListExpirationOptions returns the expiry presets ordered by id
func (r *linkRepository) ListExpirationOptions(ctx context.Context) ([]*entities.ExpirationOption, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, seconds FROM expiration_options ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get expiration options: %w", err)
	}
	defer rows.Close()

	options := make([]*entities.ExpirationOption, 0)
	for rows.Next() {
		var opt entities.ExpirationOption
		var seconds sql.NullInt64
		if err := rows.Scan(&opt.ID, &opt.Label, &seconds); err != nil {
			return nil, fmt.Errorf("failed to scan expiration option: %w", err)
		}
		if seconds.Valid {
			opt.Seconds = &seconds.Int64
		}
		options = append(options, &opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expiration options: %w", err)
	}
	return options, nil
}
