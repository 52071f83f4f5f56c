package apperrors

import (
	"github.com/gin-gonic/gin"
)

// Abort serializes err as the standard error envelope and aborts the request.
func Abort(c *gin.Context, err *APIError) {
	if err == nil {
		err = Internal("unknown error")
	}
	c.AbortWithStatusJSON(err.HTTPStatus, gin.H{"error": err})
}

// AbortWith is a shorthand for aborting with an ad-hoc error.
func AbortWith(c *gin.Context, status int, typ, message string) {
	Abort(c, New(status, typ, typ, message))
}

// AbortErr coerces err and aborts; convenient at handler tail positions.
func AbortErr(c *gin.Context, err error) {
	Abort(c, From(err))
}
