package server

import (
	"net/http"
	"strings"
	"time"

	"transmate/internal/apperrors"
	"github.com/gin-gonic/gin"
)

type vocabRequest struct {
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
	Note    string `json:"note"`
}

func registerSessionRoutes(api *gin.RouterGroup, deps Dependencies) {
	api.GET("/history", func(c *gin.Context) {
		sess := currentSession(c, deps)
		c.JSON(http.StatusOK, gin.H{"entries": sess.History()})
	})

	api.GET("/vocab", func(c *gin.Context) {
		sess := currentSession(c, deps)
		c.JSON(http.StatusOK, gin.H{"entries": sess.Vocab(c.Query("q"))})
	})

	api.POST("/vocab", func(c *gin.Context) {
		var req vocabRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Abort(c, apperrors.InvalidArgument("invalid request body: "+err.Error()))
			return
		}
		sess := currentSession(c, deps)
		if !sess.AddVocab(req.Term, req.Meaning, req.Note) {
			apperrors.Abort(c, apperrors.InvalidArgument("term is required"))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"entries": sess.Vocab("")})
	})

	api.DELETE("/vocab", func(c *gin.Context) {
		sess := currentSession(c, deps)
		c.JSON(http.StatusOK, gin.H{"removed": sess.ClearVocab()})
	})

	api.GET("/vocab/export", func(c *gin.Context) {
		sess := currentSession(c, deps)
		filename := "vocab-" + time.Now().Format("20060102-150405") + ".json"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		entries := sess.Vocab(strings.TrimSpace(c.Query("q")))
		c.JSON(http.StatusOK, entries)
	})
}
