package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"short-link/internal/logger"
	"short-link/internal/middleware"
	"short-link/internal/models"
	"short-link/internal/service"
	"short-link/internal/validation"
)

type LinkController struct {
	linkService service.LinkService
}

func NewLinkController(linkService service.LinkService) *LinkController {
	return &LinkController{linkService: linkService}
}

// GetExpirationOptions handles GET /api/expiration-options
func (lc *LinkController) GetExpirationOptions(c *gin.Context) {
	options, err := lc.linkService.GetExpirationOptions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "failed to get expiration options")
		return
	}
	respondOK(c, msgSuccess, options)
}

// AddURL handles POST /api/addUrl. A logged-in caller becomes the owner of
// a newly created link.
func (lc *LinkController) AddURL(c *gin.Context) {
	var req models.AddURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		switch validation.FailedTag(err) {
		case "required":
			respondError(c, http.StatusBadRequest, "url is required")
		case "shorturl":
			respondError(c, http.StatusBadRequest, "url must start with http://, https:// or #小程序://")
		default:
			respondError(c, http.StatusBadRequest, "invalid request body")
		}
		return
	}

	in := service.AddURLInput{
		URL:       req.URL,
		ExpiresAt: req.ExpiresAt,
		IsPublic:  req.IsPublic,
	}
	if user, found := middleware.CurrentUser(c); found {
		in.UserID = &user.ID
	}

	link, err := lc.linkService.AddURL(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "failed to create short link")
		return
	}

	c.JSON(http.StatusOK, models.AddURLResponse{
		Response: models.Response{Code: http.StatusOK, Msg: msgSuccess, Data: link},
		URL:      "/u/" + link.Short,
	})
}

// Redirect handles GET /u/:hash. Only a successful lookup leaves the
// envelope convention and answers with a real 302.
func (lc *LinkController) Redirect(c *gin.Context) {
	ctx := c.Request.Context()

	link, err := lc.linkService.Resolve(ctx, c.Param("hash"))
	if err != nil {
		switch service.KindOf(err) {
		case service.KindNotFound:
			middleware.RedirectsTotal.WithLabelValues("not_found").Inc()
		case service.KindExpired:
			middleware.RedirectsTotal.WithLabelValues("expired").Inc()
		default:
			middleware.RedirectsTotal.WithLabelValues("error").Inc()
		}
		respondServiceError(c, err, "failed to resolve short link")
		return
	}

	meta := service.AccessMeta{
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		RemoteIP:     c.RemoteIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		Referrer:     c.GetHeader("Referer"),
	}
	if err := lc.linkService.RecordAccess(ctx, link.ID, meta); err != nil {
		logger.Warn("Failed to record access",
			zap.Int64("link_id", link.ID),
			zap.Error(err),
		)
	}

	middleware.RedirectsTotal.WithLabelValues("redirected").Inc()
	c.Redirect(http.StatusFound, link.Link)
}

// GetUserLinks handles GET /api/user/links
func (lc *LinkController) GetUserLinks(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	links, err := lc.linkService.GetUserLinks(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err, "failed to get link list")
		return
	}
	respondOK(c, msgSuccess, links)
}

// GetPublicLinks handles GET /api/public/links
func (lc *LinkController) GetPublicLinks(c *gin.Context) {
	links, err := lc.linkService.GetPublicLinks(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "failed to get public link list")
		return
	}
	respondOK(c, msgSuccess, links)
}

// GetLinkStats handles GET /api/links/:id/stats. Any logged-in user may
// read the stats of any link.
func (lc *LinkController) GetLinkStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid link id")
		return
	}

	logs, err := lc.linkService.GetLinkStats(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "failed to get access statistics")
		return
	}
	respondOK(c, msgSuccess, logs)
}
