package server

import (
	"net/http"

	webui "transmate/web"
	"github.com/gin-gonic/gin"
)

func registerWebUI(engine *gin.Engine) {
	engine.GET("/", serveIndexHTML)
	engine.GET("/index.html", serveIndexHTML)
}

func serveIndexHTML(c *gin.Context) {
	data, err := webui.AssetsFS.ReadFile("index.html")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}
