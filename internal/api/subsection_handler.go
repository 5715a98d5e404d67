package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
	"resumehub/internal/errcode"
)

// SubSectionHandler handles CRUD for sub-sections. Sub-sections are owned
// by the user directly and reach resumes only through section associations.
type SubSectionHandler struct {
	db *gorm.DB
}

// NewSubSectionHandler builds the handler.
func NewSubSectionHandler(db *gorm.DB) *SubSectionHandler {
	return &SubSectionHandler{db: db}
}

type createSubSectionRequest struct {
	Title       string `json:"title" binding:"required,max=500"`
	SectionID   uint   `json:"section_id" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	TimeRange   string `json:"time_range" binding:"omitempty,max=100"`
}

// CreateSubSection creates a sub-section owned by the caller and associates
// it with the given section, all in one transaction.
func (h *SubSectionHandler) CreateSubSection(c *gin.Context) {
	var req createSubSectionRequest
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
	var sub database.SubSection
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section database.Section
		if err := tx.First(&section, req.SectionID).Error; err != nil {
			return err
		}
		sub = database.SubSection{
			Title:       req.Title,
			Description: req.Description,
			TimeRange:   req.TimeRange,
			UserID:      userID,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Model(&section).Association("SubSections").Append(&sub)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Section id not found")
			return
		}
		h.logError(c, "create sub section failed", err)
		Internal(c, "failed to create sub section")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sub_section": sub.Details()})
}

type updateSubSectionRequest struct {
	SubSectionID uint   `json:"sub_section_id" binding:"required"`
	Title        string `json:"title" binding:"omitempty,max=500"`
	Description  string `json:"description" binding:"omitempty,max=1000"`
	TimeRange    string `json:"time_range" binding:"omitempty,max=100"`
}

// UpdateSubSection applies a partial update to a sub-section the caller
// owns.
func (h *SubSectionHandler) UpdateSubSection(c *gin.Context) {
	var req updateSubSectionRequest
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
	sub, err := h.getSubSectionForUser(ctx, req.SubSectionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Sub section", "update", "sub section")
			return
		}
		h.logError(c, "load sub section failed", err)
		Internal(c, "failed to query sub section")
		return
	}

	updates := map[string]any{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.TimeRange != "" {
		updates["time_range"] = req.TimeRange
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(sub).Updates(updates).Error; err != nil {
			h.logError(c, "update sub section failed", err)
			Internal(c, "failed to update sub section")
			return
		}
	}

	loaded, err := database.LoadSubSectionTree(ctx, h.db, sub.ID)
	if err != nil {
		h.logError(c, "reload sub section failed", err)
		Internal(c, "failed to reload sub section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sub_section": loaded.Details()})
}

// DeleteSubSection removes a sub-section the caller owns along with its
// association rows on both sides.
func (h *SubSectionHandler) DeleteSubSection(c *gin.Context) {
	subSectionID, ok := queryID(c, "sub_section_id")
	if !ok {
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	sub, err := h.getSubSectionForUser(ctx, subSectionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Sub section", "delete", "sub section")
			return
		}
		h.logError(c, "load sub section failed", err)
		Internal(c, "failed to query sub section")
		return
	}

	if err := database.DeleteSubSectionCascade(ctx, h.db, sub.ID); err != nil {
		h.logError(c, "delete sub section failed", err)
		Internal(c, "failed to delete sub section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subsection deleted successfully"})
}

func (h *SubSectionHandler) getSubSectionForUser(ctx context.Context, subSectionID, userID uint) (*database.SubSection, error) {
	var sub database.SubSection
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", subSectionID, userID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (h *SubSectionHandler) logError(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg,
		slog.Any("error", err),
		slog.Int("code", errcode.SystemError),
	)
}
