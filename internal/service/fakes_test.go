package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"short-link/internal/entities"
	"short-link/internal/oauth"
	"short-link/internal/repository"
)

// fakeLinkRepo mimics the database: unique short codes and an atomic counter.
type fakeLinkRepo struct {
	mu      sync.Mutex
	nextID  int64
	links   map[string]*entities.Link
	logs    []*entities.AccessLog
	options []*entities.ExpirationOption
	clock   time.Time

	err         error // returned by every call when set
	findCalls   int
	insertCalls int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{
		links: make(map[string]*entities.Link),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeLinkRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeLinkRepo) FindByShort(_ context.Context, short string) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.err != nil {
		return nil, r.err
	}
	l, ok := r.links[short]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLinkRepo) Insert(_ context.Context, link *entities.Link) (*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.links[link.Short]; ok {
		return nil, repository.ErrDuplicate
	}
	r.nextID++
	stored := *link
	stored.ID = r.nextID
	stored.CreatedAt = r.tick()
	r.links[link.Short] = &stored
	cp := stored
	return &cp, nil
}

func (r *fakeLinkRepo) InsertAccessLog(_ context.Context, entry *entities.AccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	entry.ID = int64(len(r.logs) + 1)
	entry.AccessedAt = r.tick()
	cp := *entry
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *fakeLinkRepo) IncrementAccessCount(_ context.Context, linkID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, l := range r.links {
		if l.ID == linkID {
			l.AccessCount++
		}
	}
	return nil
}

func (r *fakeLinkRepo) sorted(keep func(*entities.Link) bool) []*entities.Link {
	out := make([]*entities.Link, 0)
	for _, l := range r.links {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeLinkRepo) ListByUser(_ context.Context, userID int64) ([]*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(l *entities.Link) bool { return l.UserID != nil && *l.UserID == userID }), nil
}

func (r *fakeLinkRepo) ListPublic(context.Context) ([]*entities.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(l *entities.Link) bool { return l.IsPublic }), nil
}

func (r *fakeLinkRepo) ListAccessLogs(_ context.Context, linkID int64) ([]*entities.AccessLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*entities.AccessLog, 0)
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].LinkID == linkID {
			cp := *r.logs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) ListExpirationOptions(context.Context) ([]*entities.ExpirationOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.options, nil
}

func (r *fakeLinkRepo) accessCount(short string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.links[short].AccessCount
}

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[int64]*entities.User
	oauth     []*entities.OAuthProvider
	nextID    int64
	err       error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entities.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.createErr != nil {
		return nil, r.createErr
	}
	if user.Email != nil {
		for _, u := range r.users {
			if u.Email != nil && *u.Email == *user.Email {
				return nil, repository.ErrDuplicate
			}
		}
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.users[stored.ID] = &stored
	cp := stored
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *fakeUserRepo) FindOAuthLink(_ context.Context, provider, providerUserID string) (*entities.OAuthProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, l := range r.oauth {
		if l.Provider == provider && l.ProviderUserID == providerUserID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) CreateOAuthLink(_ context.Context, link *entities.OAuthProvider) (*entities.OAuthProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	stored := *link
	stored.ID = int64(len(r.oauth) + 1)
	r.oauth = append(r.oauth, &stored)
	cp := stored
	return &cp, nil
}

// fakeProvider returns a fixed identity for any code.
type fakeProvider struct {
	name  string
	ident *oauth.Identity
	err   error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthorizeURL(redirectURI, state string) string {
	return "https://idp.example/authorize?state=" + state
}

func (p *fakeProvider) Exchange(context.Context, string) (*oauth.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	cp := *p.ident
	return &cp, nil
}
