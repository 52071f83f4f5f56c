// Package server wires the HTTP surface: translation endpoints, session
// history and vocabulary, WebSocket streams and the management API.
package server

import (
	"context"
	"net/http"

	"transmate/internal/config"
	"transmate/internal/logging"
	mw "transmate/internal/middleware"
	"transmate/internal/progress"
	"transmate/internal/session"
	"github.com/gin-gonic/gin"
)

// ModelClient is the upstream model surface the handlers call. The gemini
// client implements it; tests substitute a stub.
type ModelClient interface {
	GenerateText(ctx context.Context, model, promptText string) (string, error)
	GenerateImage(ctx context.Context, model, promptText string, image []byte, mimeType string) (string, error)
}

// Dependencies carries the runtime services the engine is built from.
type Dependencies struct {
	Config   *config.Manager
	Model    ModelClient
	Sessions *session.Store
	Progress *progress.Hub
}

// BuildEngine constructs the Gin engine with all routes mounted.
func BuildEngine(deps Dependencies) *gin.Engine {
	cfg := deps.Config.Get()
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20
	engine.Use(
		mw.RequestID(),
		mw.RequestLogger(),
		mw.Recovery(),
		mw.CORS(cfg.CORSOrigins),
	)
	if cfg.RateLimitEnabled {
		engine.Use(mw.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	logging.InstallWebSocketLogging()

	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	registerWebUI(engine)

	api := engine.Group("/api")
	registerTranslateRoutes(api, deps)
	registerSessionRoutes(api, deps)
	registerMetaRoutes(api, deps)
	registerAdminRoutes(api, deps)

	registerStreams(engine, deps)

	return engine
}
