package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomdesk-backend/models"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

const publicSiteKey = "publicSite"

// ResolveSite maps the :extension path segment to its site and stores the
// row in the context. Unknown or deactivated sites end the request with 404.
func ResolveSite(sites *services.SiteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		extension := c.Param("extension")
		siteID, err := sites.ResolveExtension(c.Request.Context(), extension)
		if err == nil {
			var site *models.SiteConfig
			if site, err = sites.GetActiveSite(siteID); err == nil {
				c.Set(publicSiteKey, site)
				c.Next()
				return
			}
		}
		if errors.Is(err, services.ErrSiteNotFound) {
			utils.JSONError(c, http.StatusNotFound, "site_not_found", "no site under this address")
		} else {
			_ = c.Error(err)
			utils.JSONError(c, http.StatusInternalServerError, "internal_error", "failed to resolve site")
		}
		c.Abort()
	}
}

// PublicSite returns the site resolved by ResolveSite.
func PublicSite(c *gin.Context) (*models.SiteConfig, bool) {
	v, ok := c.Get(publicSiteKey)
	if !ok {
		return nil, false
	}
	site, ok := v.(*models.SiteConfig)
	return site, ok
}

// TrackVisitor records a public page hit. Tracking failures are logged and
// never block the request.
func TrackVisitor(visitors *services.VisitorService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if site, ok := PublicSite(c); ok {
			err := visitors.Track(site.ID, c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path)
			if err != nil {
				logger.Warn("visitor tracking failed", zap.Error(err))
			}
		}
		c.Next()
	}
}
