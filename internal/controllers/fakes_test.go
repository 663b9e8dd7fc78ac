package controllers

import (
	"context"
	"sync"
	"time"

	"short-link/internal/entities"
	"short-link/internal/service"
)

type fakeLinkService struct {
	mu       sync.Mutex
	links    map[string]*entities.Link
	accesses []service.AccessMeta
	lastAdd  service.AddURLInput
	options  []*entities.ExpirationOption
	stats    map[int64][]*entities.AccessLog
	err      error
	now      time.Time
}

func newFakeLinkService() *fakeLinkService {
	return &fakeLinkService{
		links: make(map[string]*entities.Link),
		stats: make(map[int64][]*entities.AccessLog),
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeLinkService) AddURL(_ context.Context, in service.AddURLInput) (*entities.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAdd = in
	if s.err != nil {
		return nil, s.err
	}
	link := &entities.Link{ID: int64(len(s.links) + 1), Link: in.URL, Short: "f91888a33317e3b8", UserID: in.UserID}
	s.links[link.Short] = link
	return link, nil
}

func (s *fakeLinkService) GetURL(_ context.Context, short string) (*entities.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	link, ok := s.links[short]
	if !ok {
		return nil, &service.Error{Kind: service.KindNotFound, Msg: "short link not found"}
	}
	return link, nil
}

func (s *fakeLinkService) Resolve(ctx context.Context, short string) (*entities.Link, error) {
	link, err := s.GetURL(ctx, short)
	if err != nil {
		return nil, err
	}
	if link.Expired(s.now) {
		return nil, &service.Error{Kind: service.KindExpired, Msg: "short link has expired"}
	}
	return link, nil
}

func (s *fakeLinkService) RecordAccess(_ context.Context, _ int64, meta service.AccessMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accesses = append(s.accesses, meta)
	return nil
}

func (s *fakeLinkService) GetUserLinks(_ context.Context, userID int64) ([]*entities.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*entities.Link, 0)
	for _, l := range s.links {
		if l.UserID != nil && *l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLinkService) GetPublicLinks(context.Context) ([]*entities.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*entities.Link, 0)
	for _, l := range s.links {
		if l.IsPublic {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLinkService) GetLinkStats(_ context.Context, linkID int64) ([]*entities.AccessLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	logs, ok := s.stats[linkID]
	if !ok {
		return []*entities.AccessLog{}, nil
	}
	return logs, nil
}

func (s *fakeLinkService) GetExpirationOptions(context.Context) ([]*entities.ExpirationOption, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.options, nil
}

type fakeUserService struct {
	users       map[string]*entities.User // by email
	passwords   map[string]string
	oauthUser   *entities.User
	oauthErr    error
	lastCode    string
	authorizeFn func(provider, redirectURI, state string) (string, error)
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		users:     make(map[string]*entities.User),
		passwords: make(map[string]string),
	}
}

func (s *fakeUserService) Register(_ context.Context, username, email, password string) (*entities.User, error) {
	if _, exists := s.users[email]; exists {
		return nil, &service.Error{Kind: service.KindConflict, Msg: "email already registered"}
	}
	e := email
	user := &entities.User{ID: int64(len(s.users) + 1), Username: username, Email: &e}
	s.users[email] = user
	s.passwords[email] = password
	return user, nil
}

func (s *fakeUserService) Login(_ context.Context, email, password string) (*entities.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, &service.Error{Kind: service.KindUnauthorized, Msg: "user not found"}
	}
	if s.passwords[email] != password {
		return nil, &service.Error{Kind: service.KindUnauthorized, Msg: "incorrect password"}
	}
	return user, nil
}

func (s *fakeUserService) OAuthCallback(_ context.Context, provider, code string) (*entities.User, error) {
	s.lastCode = code
	if s.oauthErr != nil {
		return nil, s.oauthErr
	}
	return s.oauthUser, nil
}

func (s *fakeUserService) AuthorizeURL(provider, redirectURI, state string) (string, error) {
	if s.authorizeFn != nil {
		return s.authorizeFn(provider, redirectURI, state)
	}
	return "https://idp.example/authorize?redirect_uri=" + redirectURI + "&state=" + state, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
