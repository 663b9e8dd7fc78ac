package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"short-link/internal/credential"
	"short-link/internal/entities"
	"short-link/internal/oauth"
	"short-link/internal/repository"
	"short-link/internal/repository/mocks"
	"short-link/internal/shortcode"
)

var errDB = errors.New("pq: connection refused")

func TestAddURLLookupFailureSkipsInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLinkRepository(ctrl)
	svc := newLinkService(repo, nil, 0)

	repo.EXPECT().FindByShort(gomock.Any(), shortcode.Generate("https://example.com")).Return(nil, errDB)

	_, err := svc.AddURL(context.Background(), AddURLInput{URL: "https://example.com"})
	if KindOf(err) != KindUpstream || !errors.Is(err, errDB) {
		t.Fatalf("got %v, want upstream error wrapping the db error", err)
	}
}

func TestAddURLDuplicateInsertReturnsWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLinkRepository(ctrl)
	svc := newLinkService(repo, nil, 0)

	short := shortcode.Generate("https://example.com/race")
	winner := &entities.Link{ID: 9, Link: "https://example.com/race", Short: short}

	gomock.InOrder(
		repo.EXPECT().FindByShort(gomock.Any(), short).Return(nil, repository.ErrNotFound),
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, repository.ErrDuplicate),
		repo.EXPECT().FindByShort(gomock.Any(), short).Return(winner, nil),
	)

	got, err := svc.AddURL(context.Background(), AddURLInput{URL: "https://example.com/race"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 9 {
		t.Errorf("got link %d, want the concurrently inserted row", got.ID)
	}
}

func TestRecordAccessFailures(t *testing.T) {
	tests := []struct {
		name   string
		expect func(repo *mocks.MockLinkRepository)
	}{
		{
			name: "log insert fails, counter untouched",
			expect: func(repo *mocks.MockLinkRepository) {
				repo.EXPECT().InsertAccessLog(gomock.Any(), gomock.Any()).Return(errDB)
			},
		},
		{
			name: "counter fails",
			expect: func(repo *mocks.MockLinkRepository) {
				repo.EXPECT().InsertAccessLog(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().IncrementAccessCount(gomock.Any(), int64(4)).Return(errDB)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockLinkRepository(ctrl)
			tt.expect(repo)

			err := newLinkService(repo, nil, 0).RecordAccess(context.Background(), 4, AccessMeta{})
			if KindOf(err) != KindUpstream {
				t.Errorf("got %v, want upstream error", err)
			}
		})
	}
}

func TestLinkListingFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLinkRepository(ctrl)
	svc := newLinkService(repo, nil, 0)
	ctx := context.Background()

	repo.EXPECT().ListByUser(gomock.Any(), int64(1)).Return(nil, errDB)
	repo.EXPECT().ListPublic(gomock.Any()).Return(nil, errDB)
	repo.EXPECT().ListAccessLogs(gomock.Any(), int64(1)).Return(nil, errDB)
	repo.EXPECT().ListExpirationOptions(gomock.Any()).Return(nil, errDB)

	if _, err := svc.GetUserLinks(ctx, 1); KindOf(err) != KindUpstream {
		t.Errorf("GetUserLinks: %v", err)
	}
	if _, err := svc.GetPublicLinks(ctx); KindOf(err) != KindUpstream {
		t.Errorf("GetPublicLinks: %v", err)
	}
	if _, err := svc.GetLinkStats(ctx, 1); KindOf(err) != KindUpstream {
		t.Errorf("GetLinkStats: %v", err)
	}
	if _, err := svc.GetExpirationOptions(ctx); KindOf(err) != KindUpstream {
		t.Errorf("GetExpirationOptions: %v", err)
	}
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := newUserService(repo, oauth.NewRegistry())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	hashed, err := credential.Hash("secret", "")
	if err != nil {
		t.Fatal(err)
	}
	stored := hashed.Encode()
	email := "ada@example.com"

	repo.EXPECT().FindByEmail(gomock.Any(), email).
		Return(&entities.User{ID: 5, Username: "ada", Email: &email, PasswordHash: &stored}, nil)
	repo.EXPECT().UpdateLastLogin(gomock.Any(), int64(5), now).Return(errDB)

	user, err := svc.Login(context.Background(), email, "secret")
	if err != nil {
		t.Fatalf("login should not fail on last_login update: %v", err)
	}
	if user.LastLogin != nil {
		t.Errorf("last_login set despite failed update: %v", user.LastLogin)
	}
}

func TestOAuthCallbackProviderLinkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	provider := &fakeProvider{name: "gitlab", ident: &oauth.Identity{ProviderUserID: "77"}}
	svc := newUserService(repo, oauth.NewRegistry(provider))

	gomock.InOrder(
		repo.EXPECT().FindOAuthLink(gomock.Any(), "gitlab", "77").Return(nil, repository.ErrNotFound),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&entities.User{ID: 3, Username: "gitlab_user_1"}, nil),
		repo.EXPECT().CreateOAuthLink(gomock.Any(), &entities.OAuthProvider{
			UserID:         3,
			Provider:       "gitlab",
			ProviderUserID: "77",
		}).Return(nil, errDB),
	)

	_, err := svc.OAuthCallback(context.Background(), "gitlab", "code")
	if KindOf(err) != KindUpstream {
		t.Errorf("got %v, want upstream error", err)
	}
}
