package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context, msg string) { Error(c, http.StatusUnauthorized, msg) }
func BadRequest(c *gin.Context, msg string)   { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)     { Error(c, http.StatusNotFound, msg) }
func Internal(c *gin.Context, msg string)     { Error(c, http.StatusInternalServerError, msg) }

// NotFoundOrForbidden answers a lookup that failed either because the row
// does not exist or because the caller does not own it. The two cases are
// deliberately indistinguishable so non-owners learn nothing about what
// exists.
func NotFoundOrForbidden(c *gin.Context, entity, verb, article string) {
	NotFound(c, entity+" id not found or you have no permission to "+verb+" this "+article)
}
