package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
	"resumehub/internal/errcode"
)

// ResumeHandler handles CRUD for the resume aggregate root.
type ResumeHandler struct {
	db *gorm.DB
}

// NewResumeHandler builds the handler.
func NewResumeHandler(db *gorm.DB) *ResumeHandler {
	return &ResumeHandler{db: db}
}

type createResumeRequest struct {
	Name string `json:"name" binding:"required,max=500"`
}

// CreateResume saves a new empty resume for the caller.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume := database.Resume{
		Name:   req.Name,
		UserID: userID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&resume).Error; err != nil {
		h.logError(c, "create resume failed", err)
		Internal(c, "failed to create resume")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resume": resume.Details()})
}

// GetResume returns the detail projection of one resume. Plain reads carry
// no ownership check; only the id has to resolve.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	resumeID, ok := queryID(c, "resume_id")
	if !ok {
		return
	}

	resume, err := database.LoadResumeTree(c.Request.Context(), h.db, resumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Resume id not found")
			return
		}
		h.logError(c, "load resume failed", err)
		Internal(c, "failed to query resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": resume.Details()})
}

type updateResumeRequest struct {
	ResumeID uint   `json:"resume_id" binding:"required"`
	Name     string `json:"name" binding:"omitempty,max=500"`
}

// UpdateResume applies a partial update. Only supplied non-empty fields
// overwrite; an empty update set performs no write and does not error.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	resume, err := h.getResumeForUser(ctx, req.ResumeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Resume", "update", "resume")
			return
		}
		h.logError(c, "load resume failed", err)
		Internal(c, "failed to query resume")
		return
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(resume).Updates(updates).Error; err != nil {
			h.logError(c, "update resume failed", err)
			Internal(c, "failed to update resume")
			return
		}
	}

	loaded, err := database.LoadResumeTree(ctx, h.db, resume.ID)
	if err != nil {
		h.logError(c, "reload resume failed", err)
		Internal(c, "failed to reload resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": loaded.Details()})
}

// DeleteResume removes the caller's resume together with its sections.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	resumeID, ok := queryID(c, "resume_id")
	if !ok {
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	resume, err := h.getResumeForUser(ctx, resumeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Resume", "delete", "resume")
			return
		}
		h.logError(c, "load resume failed", err)
		Internal(c, "failed to query resume")
		return
	}

	if err := database.DeleteResumeCascade(ctx, h.db, resume.ID); err != nil {
		h.logError(c, "delete resume failed", err)
		Internal(c, "failed to delete resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted successfully"})
}

// getResumeForUser fetches a resume only if the caller owns it. A miss and
// a foreign row both come back as ErrRecordNotFound.
func (h *ResumeHandler) getResumeForUser(ctx context.Context, resumeID, userID uint) (*database.Resume, error) {
	var resume database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", resumeID, userID).
		First(&resume).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

func (h *ResumeHandler) logError(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg,
		slog.Any("error", err),
		slog.Int("code", errcode.SystemError),
	)
}

// queryID parses a required uint id from the query string, answering 400
// itself when the parameter is missing or malformed.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		BadRequest(c, name+" is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
