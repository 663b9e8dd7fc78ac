package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"short-link/internal/cache"
	"short-link/internal/entities"
	"short-link/internal/logger"
	"short-link/internal/repository"
	"short-link/internal/shortcode"
)

// Placeholder values stored when a request carries no such metadata.
const (
	UnknownIP        = "unknown"
	UnknownUserAgent = "unknown"
)

var urlPattern = regexp.MustCompile(`^(https?://|#小程序://|#miniprogram://).+`)

// ValidURL reports whether raw is a link target the service accepts.
func ValidURL(raw string) bool {
	return urlPattern.MatchString(raw)
}

// AddURLInput carries the fields of a new link. Only URL is required.
type AddURLInput struct {
	URL       string
	UserID    *int64
	ExpiresAt *time.Time
	IsPublic  bool
}

// AccessMeta is the request metadata captured for one redirect.
type AccessMeta struct {
	ForwardedFor string
	RemoteIP     string
	UserAgent    string
	Referrer     string
}

// LinkService defines the interface for link business logic
type LinkService interface {
	AddURL(ctx context.Context, in AddURLInput) (*entities.Link, error)
	GetURL(ctx context.Context, short string) (*entities.Link, error)
	Resolve(ctx context.Context, short string) (*entities.Link, error)
	RecordAccess(ctx context.Context, linkID int64, meta AccessMeta) error
	GetUserLinks(ctx context.Context, userID int64) ([]*entities.Link, error)
	GetPublicLinks(ctx context.Context) ([]*entities.Link, error)
	GetLinkStats(ctx context.Context, linkID int64) ([]*entities.AccessLog, error)
	GetExpirationOptions(ctx context.Context) ([]*entities.ExpirationOption, error)
}

type linkService struct {
	repo     repository.LinkRepository
	cache    cache.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewLinkService creates a new link service. cacheClient may be nil, and a
// cacheTTL of 0 also disables caching.
func NewLinkService(repo repository.LinkRepository, cacheClient cache.Cache, cacheTTL time.Duration) LinkService {
	return newLinkService(repo, cacheClient, cacheTTL)
}

func newLinkService(repo repository.LinkRepository, cacheClient cache.Cache, cacheTTL time.Duration) *linkService {
	svc := &linkService{
		repo:     repo,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
	if cacheClient != nil && cacheTTL > 0 {
		svc.cache = cacheClient
	}
	return svc
}

func linkCacheKey(short string) string {
	return "link:" + short
}

// AddURL returns the link for in.URL, creating it on first use. An existing
// row is returned unchanged, whatever owner, expiry or visibility in asks for.
func (s *linkService) AddURL(ctx context.Context, in AddURLInput) (*entities.Link, error) {
	target := in.URL
	if target == "" {
		return nil, newError(KindValidation, "url is required", nil)
	}
	if !ValidURL(target) {
		return nil, newError(KindValidation, "url must start with http://, https:// or #小程序://", nil)
	}

	short := shortcode.Generate(target)

	existing, err := s.repo.FindByShort(ctx, short)
	switch {
	case err == nil:
		s.warnOnCollision(existing, target)
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, newError(KindUpstream, "failed to create short link", err)
	}

	created, err := s.repo.Insert(ctx, &entities.Link{
		Link:      target,
		Short:     short,
		UserID:    in.UserID,
		ExpiresAt: in.ExpiresAt,
		IsPublic:  in.IsPublic,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race against a concurrent insert of the same code.
		created, err = s.repo.FindByShort(ctx, short)
		if err == nil {
			s.warnOnCollision(created, target)
		}
	}
	if err != nil {
		return nil, newError(KindUpstream, "failed to create short link", err)
	}

	s.cacheLink(ctx, created)
	logger.Info("Short link created",
		zap.String("short", created.Short),
		zap.Int64("link_id", created.ID),
	)
	return created, nil
}

func (s *linkService) warnOnCollision(existing *entities.Link, target string) {
	if existing.Link != target {
		logger.Warn("Short code collision, returning existing link",
			zap.String("short", existing.Short),
			zap.String("existing_url", existing.Link),
			zap.String("requested_url", target),
		)
	}
}

// GetURL looks a link up by short code without checking expiry
func (s *linkService) GetURL(ctx context.Context, short string) (*entities.Link, error) {
	if short == "" {
		return nil, newError(KindNotFound, "short link not found", nil)
	}

	if s.cache != nil {
		var cached entities.Link
		err := s.cache.GetJSON(ctx, linkCacheKey(short), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Link cache read failed", zap.String("short", short), zap.Error(err))
		}
	}

	link, err := s.repo.FindByShort(ctx, short)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, "short link not found", err)
	}
	if err != nil {
		return nil, newError(KindUpstream, "failed to get short link", err)
	}

	s.cacheLink(ctx, link)
	return link, nil
}

// Resolve applies the redirect policy: missing codes are KindNotFound and
// links whose expiry has passed are KindExpired.
func (s *linkService) Resolve(ctx context.Context, short string) (*entities.Link, error) {
	link, err := s.GetURL(ctx, short)
	if err != nil {
		return nil, err
	}
	if link.Expired(s.now()) {
		return nil, newError(KindExpired, "short link has expired", nil)
	}
	return link, nil
}

func (s *linkService) cacheLink(ctx context.Context, link *entities.Link) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, linkCacheKey(link.Short), link, s.cacheTTL); err != nil {
		logger.Warn("Link cache write failed", zap.String("short", link.Short), zap.Error(err))
	}
}

// RecordAccess appends an access log row and bumps the link's counter
func (s *linkService) RecordAccess(ctx context.Context, linkID int64, meta AccessMeta) error {
	entry := &entities.AccessLog{
		LinkID:    linkID,
		IPAddress: firstNonEmpty(meta.ForwardedFor, meta.RemoteIP, UnknownIP),
		UserAgent: firstNonEmpty(meta.UserAgent, UnknownUserAgent),
		Referrer:  meta.Referrer,
	}

	if err := s.repo.InsertAccessLog(ctx, entry); err != nil {
		return newError(KindUpstream, "failed to record access", err)
	}
	if err := s.repo.IncrementAccessCount(ctx, linkID); err != nil {
		return newError(KindUpstream, "failed to record access", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// GetUserLinks lists links owned by userID, newest first
func (s *linkService) GetUserLinks(ctx context.Context, userID int64) ([]*entities.Link, error) {
	links, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, newError(KindUpstream, "failed to get link list", err)
	}
	return links, nil
}

// GetPublicLinks lists public links, newest first
func (s *linkService) GetPublicLinks(ctx context.Context) ([]*entities.Link, error) {
	links, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, newError(KindUpstream, "failed to get public link list", err)
	}
	return links, nil
}

// GetLinkStats lists the access logs of a link, most recent first
func (s *linkService) GetLinkStats(ctx context.Context, linkID int64) ([]*entities.AccessLog, error) {
	logs, err := s.repo.ListAccessLogs(ctx, linkID)
	if err != nil {
		return nil, newError(KindUpstream, "failed to get access statistics", err)
	}
	return logs, nil
}

func (s *linkService) GetExpirationOptions(ctx context.Context) ([]*entities.ExpirationOption, error) {
	options, err := s.repo.ListExpirationOptions(ctx)
	if err != nil {
		return nil, newError(KindUpstream, "failed to get expiration options", err)
	}
	return options, nil
}
