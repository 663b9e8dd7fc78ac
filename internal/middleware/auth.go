package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"short-link/internal/entities"
	"short-link/internal/logger"
	"short-link/internal/models"
	"short-link/internal/session"
)

const (
	contextUserKey  = "session_user"
	contextTokenKey = "session_token"
)

// Session resolves the raw token in the Authorization header and stores
// the user on the context. Requests without a valid session pass through
// anonymously.
func Session(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Next()
			return
		}

		user, err := store.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
		case !errors.Is(err, session.ErrNotFound):
			logger.Error("Session lookup failed", zap.Error(err))
		}

		c.Next()
	}
}

// RequireUser aborts with HTTP 401 unless Session found a user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Code: http.StatusUnauthorized,
				Msg:  "not logged in or session expired",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// SessionToken returns the token that authenticated the request, if any
func SessionToken(c *gin.Context) string {
	return c.GetString(contextTokenKey)
}
