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

// SectionHandler handles CRUD for sections. Sections carry no owner column;
// every ownership check joins through the parent resume.
type SectionHandler struct {
	db *gorm.DB
}

// NewSectionHandler builds the handler.
func NewSectionHandler(db *gorm.DB) *SectionHandler {
	return &SectionHandler{db: db}
}

type createSectionRequest struct {
	Title    string `json:"title" binding:"required,max=500"`
	ResumeID uint   `json:"resume_id" binding:"required"`
}

// CreateSection adds a section to a resume. Parent resolution and insert
// run in one transaction so a failed insert never observes a resume that
// was deleted in between.
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	var section database.Section
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resume database.Resume
		if err := tx.First(&resume, req.ResumeID).Error; err != nil {
			return err
		}
		section = database.Section{
			Title:    req.Title,
			ResumeID: resume.ID,
		}
		return tx.Create(&section).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "Resume id not found")
			return
		}
		h.logError(c, "create section failed", err)
		Internal(c, "failed to create section")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section.Details()})
}

// ListSections returns a resume's sections in creation order. As with
// resume reads, no ownership check applies.
func (h *SectionHandler) ListSections(c *gin.Context) {
	resumeID, ok := queryID(c, "resume_id")
	if !ok {
		return
	}

	sections, err := database.LoadSectionsByResume(c.Request.Context(), h.db, resumeID)
	if err != nil {
		h.logError(c, "list sections failed", err)
		Internal(c, "failed to list sections")
		return
	}

	details := make([]database.SectionDetail, 0, len(sections))
	for _, s := range sections {
		details = append(details, s.Details().(database.SectionDetail))
	}
	c.JSON(http.StatusOK, gin.H{"sections": details})
}

type updateSectionRequest struct {
	SectionID uint   `json:"section_id" binding:"required"`
	ResumeID  uint   `json:"resume_id" binding:"required"`
	Title     string `json:"title" binding:"omitempty,max=500"`
}

// UpdateSection applies a partial update to a section the caller owns
// through its resume.
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	var req updateSectionRequest
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
	section, err := h.getSectionForUser(ctx, req.SectionID, req.ResumeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Section", "update", "section")
			return
		}
		h.logError(c, "load section failed", err)
		Internal(c, "failed to query section")
		return
	}

	if req.Title != "" {
		if err := h.db.WithContext(ctx).Model(section).Update("title", req.Title).Error; err != nil {
			h.logError(c, "update section failed", err)
			Internal(c, "failed to update section")
			return
		}
	}

	loaded, err := database.LoadSectionTree(ctx, h.db, section.ID)
	if err != nil {
		h.logError(c, "reload section failed", err)
		Internal(c, "failed to reload section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": loaded.Details()})
}

// DeleteSection removes a section and its association rows. Associated
// sub-sections and bullet points stay: the relation is association-only.
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	resumeID, ok := queryID(c, "resume_id")
	if !ok {
		return
	}
	sectionID, ok := queryID(c, "section_id")
	if !ok {
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	section, err := h.getSectionForUser(ctx, sectionID, resumeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Section", "delete", "section")
			return
		}
		h.logError(c, "load section failed", err)
		Internal(c, "failed to query section")
		return
	}

	if err := database.DeleteSectionCascade(ctx, h.db, section.ID); err != nil {
		h.logError(c, "delete section failed", err)
		Internal(c, "failed to delete section")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Section deleted successfully"})
}

// getSectionForUser fetches a section only when the caller owns the parent
// resume. Missing row and foreign owner both surface as ErrRecordNotFound.
func (h *SectionHandler) getSectionForUser(ctx context.Context, sectionID, resumeID, userID uint) (*database.Section, error) {
	var section database.Section
	err := h.db.WithContext(ctx).
		Joins("JOIN resumes ON resumes.id = sections.resume_id").
		Where("sections.id = ? AND sections.resume_id = ? AND resumes.user_id = ?", sectionID, resumeID, userID).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (h *SectionHandler) logError(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg,
		slog.Any("error", err),
		slog.Int("code", errcode.SystemError),
	)
}
