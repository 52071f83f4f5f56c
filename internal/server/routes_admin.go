package server

import (
	"net/http"
	"strings"

	"transmate/internal/apperrors"
	"transmate/internal/config"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const managementKeyHeader = "X-Management-Key"

// managementGuard rejects requests without a valid management key. When no
// key is configured at all the endpoints stay closed.
func managementGuard(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := deps.Config.Get()
		presented := strings.TrimSpace(c.GetHeader(managementKeyHeader))
		if !config.CheckManagementKey(cfg, presented) {
			log.WithField("path", c.Request.URL.Path).Warn("management auth rejected")
			apperrors.Abort(c, apperrors.Unauthorized("missing or invalid management key"))
			return
		}
		c.Next()
	}
}

func registerAdminRoutes(api *gin.RouterGroup, deps Dependencies) {
	admin := api.Group("/admin", managementGuard(deps))

	admin.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Config.Get().Redacted())
	})

	admin.PATCH("/config", func(c *gin.Context) {
		var updates map[string]any
		if err := c.ShouldBindJSON(&updates); err != nil {
			apperrors.Abort(c, apperrors.InvalidArgument("invalid request body: "+err.Error()))
			return
		}
		if len(updates) == 0 {
			apperrors.Abort(c, apperrors.InvalidArgument("no fields to update"))
			return
		}
		if err := deps.Config.Update(updates); err != nil {
			apperrors.Abort(c, apperrors.InvalidArgument(err.Error()))
			return
		}
		c.JSON(http.StatusOK, deps.Config.Get().Redacted())
	})
}
