package server

import (
	"net/http"

	"transmate/internal/prompt"
	"transmate/internal/version"
	"github.com/gin-gonic/gin"
)

// registerMetaRoutes exposes the settings the UI needs to render its
// selectors without hardcoding them client-side.
func registerMetaRoutes(api *gin.RouterGroup, deps Dependencies) {
	api.GET("/models", func(c *gin.Context) {
		cfg := deps.Config.Get()
		c.JSON(http.StatusOK, gin.H{
			"models":              cfg.Models,
			"default_model":       cfg.DefaultModel,
			"target_langs":        cfg.TargetLangs,
			"default_target_lang": cfg.DefaultTargetLang,
			"default_tone":        cfg.DefaultTone,
			"modes":               []prompt.Mode{prompt.ModeTranslate, prompt.ModeInterpret},
			"version":             version.Version,
		})
	})
}
