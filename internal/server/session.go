package server

import (
	"net/http"

	"transmate/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionCookie = "tm_session"

// currentSession resolves the browser session from the cookie, creating a
// fresh session (and setting the cookie) when there is none.
func currentSession(c *gin.Context, deps Dependencies) *session.Session {
	id, _ := c.Cookie(sessionCookie)
	sess, created := deps.Sessions.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	}
	return sess
}
