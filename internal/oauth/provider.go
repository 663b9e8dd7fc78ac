// Package oauth holds third-party login providers and the signed state
// parameter used during the authorization round trip.
package oauth

import (
	"context"
	"errors"
	"net/url"
	"sort"
)

var (
	// ErrInDevelopment marks providers whose code exchange is not built yet
	ErrInDevelopment = errors.New("login provider is in development")
	// ErrUnsupportedProvider is returned for provider names with no registration
	ErrUnsupportedProvider = errors.New("unsupported login provider")
)

// DevelopmentError is returned by Exchange on providers that are stubs.
// It matches ErrInDevelopment with errors.Is.
type DevelopmentError struct {
	Provider string
}

func (e *DevelopmentError) Error() string {
	return e.Provider + " login is in development"
}

func (e *DevelopmentError) Is(target error) bool {
	return target == ErrInDevelopment
}

// Identity is what a provider reports about the signed-in account.
// Username and Email may be empty.
type Identity struct {
	ProviderUserID string
	Username       string
	Email          string
}

// Provider exchanges an authorization code for an external identity.
type Provider interface {
	Name() string
	AuthorizeURL(redirectURI, state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Registry looks providers up by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the provider registered under name or ErrUnsupportedProvider.
func (r *Registry) Get(name string) (Provider, error) {
	if r == nil {
		return nil, ErrUnsupportedProvider
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stubProvider builds real authorize URLs but cannot exchange codes yet.
type stubProvider struct {
	name        string
	displayName string
	endpoint    string
	clientParam string
	clientID    string
	extra       url.Values
	fragment    string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) AuthorizeURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set(p.clientParam, p.clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	for k, vs := range p.extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	u := p.endpoint + "?" + q.Encode()
	if p.fragment != "" {
		u += "#" + p.fragment
	}
	return u
}

func (p *stubProvider) Exchange(context.Context, string) (*Identity, error) {
	return nil, &DevelopmentError{Provider: p.displayName}
}

// NewGitHub returns the GitHub provider.
func NewGitHub(clientID string) Provider {
	return &stubProvider{
		name:        "github",
		displayName: "GitHub",
		endpoint:    "https://github.com/login/oauth/authorize",
		clientParam: "client_id",
		clientID:    clientID,
		extra:       url.Values{"scope": {"read:user user:email"}},
	}
}

// NewWeChat returns the WeChat website-login provider, registered as "wx".
func NewWeChat(appID string) Provider {
	return &stubProvider{
		name:        "wx",
		displayName: "WeChat",
		endpoint:    "https://open.weixin.qq.com/connect/qrconnect",
		clientParam: "appid",
		clientID:    appID,
		extra: url.Values{
			"response_type": {"code"},
			"scope":         {"snsapi_login"},
		},
		fragment: "wechat_redirect",
	}
}
