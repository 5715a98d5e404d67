package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
	"resumehub/internal/errcode"
)

// UserHandler exposes the authenticated user's own projection.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler builds the handler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// Me returns the caller's private projection with all owned entities
// resolved recursively.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	user, err := database.LoadUserTree(c.Request.Context(), h.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A live session pointing at a deleted account.
			AbortUnauthorized(c)
			return
		}
		middleware.LoggerFromContext(c).Error("load user tree failed",
			slog.Any("error", err),
			slog.Int("code", errcode.SystemError),
		)
		Internal(c, "failed to query user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.PrivateDetails()})
}
