package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"short-link/internal/logger"
	"short-link/internal/shortcode"
)

const qrCodeSize = 256

type QRCodeController struct {
	baseURL string
}

func NewQRCodeController(baseURL string) *QRCodeController {
	return &QRCodeController{
		baseURL: baseURL,
	}
}

// GenerateQRCode handles GET /api/qrcode/:hash and returns a PNG of the
// absolute short URL
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	hash := c.Param("hash")
	if !shortcode.Valid(hash) {
		respondError(c, http.StatusBadRequest, "invalid short code")
		return
	}

	pngData, err := qrcode.Encode(qc.baseURL+"/u/"+hash, qrcode.Medium, qrCodeSize)
	if err != nil {
		logger.Error("Failed to generate QR code", zap.String("short", hash), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", pngData)
}
