package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"short-link/internal/entities"
	"short-link/internal/logger"
	"short-link/internal/middleware"
	"short-link/internal/models"
	"short-link/internal/oauth"
	"short-link/internal/service"
	"short-link/internal/session"
)

type AuthController struct {
	userService service.UserService
	sessions    session.Store
	states      *oauth.StateSigner
	baseURL     string
	frontendURL string
}

// NewAuthController wires the account endpoints. baseURL builds OAuth
// redirect URIs; frontendURL is where the OAuth callback sends the browser.
func NewAuthController(userService service.UserService, sessions session.Store, states *oauth.StateSigner, baseURL, frontendURL string) *AuthController {
	return &AuthController{
		userService: userService,
		sessions:    sessions,
		states:      states,
		baseURL:     baseURL,
		frontendURL: frontendURL,
	}
}

// Register handles POST /api/register
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := ac.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "registration failed")
		return
	}

	ac.startSession(c, user, "registered successfully")
}

// Login handles POST /api/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := ac.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "login failed")
		return
	}

	ac.startSession(c, user, "logged in successfully")
}

func (ac *AuthController) startSession(c *gin.Context, user *entities.User, msg string) {
	token, err := ac.sessions.Create(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to create session", zap.Int64("user_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Response: models.Response{Code: http.StatusOK, Msg: msg},
		Token:    token,
		User:     models.NewUserInfo(user),
	})
}

// Me handles GET /api/user
func (ac *AuthController) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	c.JSON(http.StatusOK, models.UserResponse{
		Response: models.Response{Code: http.StatusOK, Msg: msgSuccess},
		User:     models.NewUserInfo(user),
	})
}

// Logout handles POST /api/logout. It succeeds whether or not the token
// was valid.
func (ac *AuthController) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := ac.sessions.Destroy(c.Request.Context(), token); err != nil {
			logger.Warn("Failed to destroy session", zap.Error(err))
		}
	}
	respondOK(c, "logged out successfully", nil)
}

// OAuthAuthorize handles GET /api/oauth/authorize/:provider
func (ac *AuthController) OAuthAuthorize(c *gin.Context) {
	provider := c.Param("provider")

	state, err := ac.states.Sign(provider)
	if err != nil {
		logger.Error("Failed to sign oauth state", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to start third-party login")
		return
	}

	authorizeURL, err := ac.userService.AuthorizeURL(provider, ac.callbackURL(provider), state)
	if err != nil {
		respondServiceError(c, err, "failed to start third-party login")
		return
	}

	c.JSON(http.StatusOK, models.AuthorizeResponse{
		Response: models.Response{Code: http.StatusOK, Msg: msgSuccess},
		URL:      authorizeURL,
		State:    state,
	})
}

func (ac *AuthController) callbackURL(provider string) string {
	return ac.baseURL + "/api/oauth/callback/" + url.PathEscape(provider)
}

// OAuthCallback handles GET /api/oauth/callback/:provider. On success the
// browser is redirected to the frontend with the session token.
func (ac *AuthController) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "authorization code is missing")
		return
	}

	if state := c.Query("state"); state != "" {
		if err := ac.states.Verify(state, provider); err != nil {
			logger.Warn("Rejected oauth state", zap.String("provider", provider), zap.Error(err))
			respondError(c, http.StatusBadRequest, "invalid login state, please try again")
			return
		}
	}

	user, err := ac.userService.OAuthCallback(c.Request.Context(), provider, code)
	if err != nil {
		respondServiceError(c, err, "third-party login failed")
		return
	}

	token, err := ac.sessions.Create(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to create session", zap.Int64("user_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	c.Redirect(http.StatusFound, ac.frontendURL+"/?token="+url.QueryEscape(token))
}
