package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"short-link/internal/logger"
	"short-link/internal/models"
	"short-link/internal/service"
)

const msgSuccess = "success"

// respondOK writes a success envelope. The HTTP status is always 200.
func respondOK(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Msg: msg, Data: data})
}

// respondError writes an error envelope with HTTP 200.
func respondError(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, models.Response{Code: code, Msg: msg})
}

// respondServiceError maps a service error to the envelope. Causes are
// logged, never sent to the client.
func respondServiceError(c *gin.Context, err error, fallback string) {
	kind := service.KindOf(err)
	if kind == service.KindUpstream {
		logger.Error(fallback,
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	respondError(c, kind.Code(), service.Message(err, fallback))
}
