// Package router assembles the gin engine and the outer HTTP handler
// chain.
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"short-link/internal/config"
	"short-link/internal/controllers"
	"short-link/internal/middleware"
	"short-link/internal/models"
	"short-link/internal/session"
	"short-link/internal/telemetry"
	"short-link/internal/validation"
)

// Dependencies are the collaborators the routes are bound to.
type Dependencies struct {
	Sessions session.Store
	Links    *controllers.LinkController
	Auth     *controllers.AuthController
	QRCode   *controllers.QRCodeController
	Health   *controllers.HealthController
}

// Router is the assembled HTTP handler plus the limiters it owns.
type Router struct {
	http.Handler
	limiters []*middleware.RateLimiter
}

// Close stops the background work of the rate limiters.
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

var spanNames = map[string]string{
	"GET /health":                        "health",
	"GET /metrics":                       "metrics",
	"GET /u/:hash":                       "links.redirect",
	"POST /api/addUrl":                   "links.create",
	"GET /api/links/:id/stats":           "links.stats",
	"GET /api/oauth/callback/:provider":  "oauth.callback",
	"GET /api/oauth/authorize/:provider": "oauth.authorize",
}

// New builds the gin engine with every route and wraps it with CORS and
// OpenTelemetry.
func New(cfg *config.Config, deps Dependencies) (*Router, error) {
	if err := validation.RegisterGin(); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	general := middleware.NewRateLimiter("general", rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	auth := middleware.NewRateLimiter("auth", rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)
	shorten := middleware.NewRateLimiter("shorten", rate.Limit(cfg.RateLimitShortenRPS), cfg.RateLimitShortenBurst)
	redirect := middleware.NewRateLimiter("redirect", rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Response{Code: http.StatusNotFound, Msg: "not found"})
	})

	// Health and metrics endpoints (no rate limiting)
	engine.GET("/health", deps.Health.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.GET("/u/:hash", redirect.LimitMiddleware(), deps.Links.Redirect)

	api := engine.Group("/api")
	api.Use(general.LimitMiddleware(), middleware.Session(deps.Sessions))
	{
		api.GET("/expiration-options", deps.Links.GetExpirationOptions)
		api.POST("/addUrl", shorten.LimitMiddleware(), deps.Links.AddURL)
		api.GET("/public/links", deps.Links.GetPublicLinks)
		api.GET("/qrcode/:hash", deps.QRCode.GenerateQRCode)

		accounts := api.Group("")
		accounts.Use(auth.LimitMiddleware())
		{
			accounts.POST("/register", deps.Auth.Register)
			accounts.POST("/login", deps.Auth.Login)
			accounts.GET("/oauth/authorize/:provider", deps.Auth.OAuthAuthorize)
			accounts.GET("/oauth/callback/:provider", deps.Auth.OAuthCallback)
		}

		api.POST("/logout", deps.Auth.Logout)

		protected := api.Group("")
		protected.Use(middleware.RequireUser())
		{
			protected.GET("/user", deps.Auth.Me)
			protected.GET("/user/links", deps.Links.GetUserLinks)
			protected.GET("/links/:id/stats", deps.Links.GetLinkStats)
		}
	}

	var handler http.Handler = engine
	handler = corsHandler(cfg.CORSOrigins).Handler(handler)

	otelOptions := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return spanName(engine, r)
		}),
	}
	if telemetry.TracerProvider != nil {
		otelOptions = append(otelOptions, otelhttp.WithTracerProvider(telemetry.TracerProvider))
	}
	handler = otelhttp.NewHandler(handler, cfg.AppName, otelOptions...)

	return &Router{
		Handler:  handler,
		limiters: []*middleware.RateLimiter{general, auth, shorten, redirect},
	}, nil
}

func corsHandler(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
			http.MethodHead,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"Accept",
			"Origin",
			"X-Requested-With",
			middleware.RequestIDHeader,
			"traceparent",
			"tracestate",
			"baggage",
		},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts)
}

// spanName maps a request to a stable span name using the gin route
// template, so raw short codes never become span names.
func spanName(engine *gin.Engine, r *http.Request) string {
	for _, route := range engine.Routes() {
		if route.Method != r.Method || !matchRoute(route.Path, r.URL.Path) {
			continue
		}
		key := r.Method + " " + route.Path
		if name, ok := spanNames[key]; ok {
			return name
		}
		return key
	}
	return r.Method + " unmatched"
}

// matchRoute reports whether path fits a gin route template with :params.
func matchRoute(template, path string) bool {
	tParts := strings.Split(strings.Trim(template, "/"), "/")
	pParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(tParts) != len(pParts) {
		return false
	}
	for i, part := range tParts {
		if strings.HasPrefix(part, ":") {
			if pParts[i] == "" {
				return false
			}
			continue
		}
		if part != pParts[i] {
			return false
		}
	}
	return true
}
