package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"short-link/internal/entities"
)

var linkRowColumns = []string{"id", "link", "short", "user_id", "expires_at", "is_public", "access_count", "created_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
		db.Close()
	})
	return db, mock
}

func TestFindByShortScansNullableColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLinkRepository(db)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	query := regexp.QuoteMeta(`SELECT ` + linkColumns + ` FROM links WHERE short = $1`)
	mock.ExpectQuery(query).WithArgs("anon").
		WillReturnRows(sqlmock.NewRows(linkRowColumns).
			AddRow(1, "https://example.com", "anon", nil, nil, false, 0, created))
	mock.ExpectQuery(query).WithArgs("owned").
		WillReturnRows(sqlmock.NewRows(linkRowColumns).
			AddRow(2, "https://example.com/o", "owned", 7, expires, true, 3, created))

	anon, err := repo.FindByShort(context.Background(), "anon")
	if err != nil {
		t.Fatal(err)
	}
	if anon.UserID != nil || anon.ExpiresAt != nil {
		t.Errorf("NULL columns should scan to nil: %+v", anon)
	}

	owned, err := repo.FindByShort(context.Background(), "owned")
	if err != nil {
		t.Fatal(err)
	}
	if owned.UserID == nil || *owned.UserID != 7 {
		t.Errorf("got user_id %v", owned.UserID)
	}
	if owned.ExpiresAt == nil || !owned.ExpiresAt.Equal(expires) {
		t.Errorf("got expires_at %v", owned.ExpiresAt)
	}
	if !owned.IsPublic || owned.AccessCount != 3 {
		t.Errorf("unexpected row %+v", owned)
	}
}

func TestFindByShortNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLinkRepository(db)

	mock.ExpectQuery(`FROM links WHERE short = \$1`).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(linkRowColumns))

	if _, err := repo.FindByShort(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestInsertLink(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"created", nil, nil},
		{"unique violation", &pq.Error{Code: "23505", Constraint: "links_short_key"}, ErrDuplicate},
		{"other failure", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewLinkRepository(db)

			exp := mock.ExpectQuery(`INSERT INTO links`).
				WithArgs("https://example.com", "f91888a33317e3b8", nil, nil, false)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows(linkRowColumns).
					AddRow(5, "https://example.com", "f91888a33317e3b8", nil, nil, false, 0, created))
			}

			link, err := repo.Insert(context.Background(), &entities.Link{Link: "https://example.com", Short: "f91888a33317e3b8"})
			switch {
			case tt.dbErr == nil:
				if err != nil || link.ID != 5 {
					t.Errorf("got %+v, %v", link, err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got %v, want %v", err, tt.wantErr)
				}
			default:
				if err == nil || errors.Is(err, ErrDuplicate) {
					t.Errorf("got %v, want a wrapped db error", err)
				}
			}
		})
	}
}

func TestInsertAccessLogAndIncrement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLinkRepository(db)
	accessed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO link_access_logs`).
		WithArgs(int64(4), "203.0.113.9", "curl/8", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "accessed_at"}).AddRow(11, accessed))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT increment_access_count($1)`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &entities.AccessLog{LinkID: 4, IPAddress: "203.0.113.9", UserAgent: "curl/8"}
	if err := repo.InsertAccessLog(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	if entry.ID != 11 || !entry.AccessedAt.Equal(accessed) {
		t.Errorf("returned columns not scanned: %+v", entry)
	}
	if err := repo.IncrementAccessCount(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
}

func TestListQueriesKeepOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	t1 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	mock.ExpectQuery(`WHERE user_id = \$1 ORDER BY created_at DESC, id DESC`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(linkRowColumns).
			AddRow(2, "https://b", "b", 7, nil, false, 0, t1).
			AddRow(1, "https://a", "a", 7, nil, false, 0, t0))
	mock.ExpectQuery(`WHERE is_public = TRUE ORDER BY created_at DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows(linkRowColumns))
	mock.ExpectQuery(`FROM link_access_logs\s+WHERE link_id = \$1\s+ORDER BY accessed_at DESC, id DESC`).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "link_id", "ip_address", "user_agent", "referrer", "accessed_at"}).
			AddRow(9, 2, "1.2.3.4", "ua", "", t1))
	mock.ExpectQuery(`FROM expiration_options ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "seconds"}).
			AddRow(1, "1 hour", 3600).
			AddRow(5, "never", nil))

	links, err := repo.ListByUser(ctx, 7)
	if err != nil || len(links) != 2 || links[0].Short != "b" {
		t.Errorf("ListByUser: %v %v", links, err)
	}
	public, err := repo.ListPublic(ctx)
	if err != nil || public == nil || len(public) != 0 {
		t.Errorf("ListPublic should return an empty non-nil slice: %v %v", public, err)
	}
	logs, err := repo.ListAccessLogs(ctx, 2)
	if err != nil || len(logs) != 1 || logs[0].IPAddress != "1.2.3.4" {
		t.Errorf("ListAccessLogs: %v %v", logs, err)
	}
	options, err := repo.ListExpirationOptions(ctx)
	if err != nil || len(options) != 2 {
		t.Fatalf("ListExpirationOptions: %v %v", options, err)
	}
	if options[0].Seconds == nil || *options[0].Seconds != 3600 || options[1].Seconds != nil {
		t.Errorf("seconds not scanned: %v %v", options[0].Seconds, options[1].Seconds)
	}
}
