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

// BulletPointHandler handles CRUD for bullet points. A bullet point may be
// created unattached and later shared across sections and sub-sections.
type BulletPointHandler struct {
	db *gorm.DB
}

// NewBulletPointHandler builds the handler.
func NewBulletPointHandler(db *gorm.DB) *BulletPointHandler {
	return &BulletPointHandler{db: db}
}

type createBulletPointRequest struct {
	Data         string `json:"data" binding:"required,max=5000"`
	SectionID    uint   `json:"section_id"`
	SubSectionID uint   `json:"sub_section_id"`
}

var (
	errSectionParent    = errors.New("section parent not found")
	errSubSectionParent = errors.New("sub section parent not found")
)

// CreateBulletPoint creates a bullet point owned by the caller, optionally
// associated with a section and/or a sub-section. Parent resolution,
// insert and association run in one transaction.
func (h *BulletPointHandler) CreateBulletPoint(c *gin.Context) {
	var req createBulletPointRequest
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
	var point database.BulletPoint
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section *database.Section
		if req.SectionID != 0 {
			section = &database.Section{}
			if err := tx.First(section, req.SectionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errSectionParent
				}
				return err
			}
		}

		var sub *database.SubSection
		if req.SubSectionID != 0 {
			sub = &database.SubSection{}
			if err := tx.First(sub, req.SubSectionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errSubSectionParent
				}
				return err
			}
		}

		point = database.BulletPoint{
			Data:   req.Data,
			UserID: userID,
		}
		if err := tx.Create(&point).Error; err != nil {
			return err
		}
		if section != nil {
			if err := tx.Model(section).Association("BulletPoints").Append(&point); err != nil {
				return err
			}
		}
		if sub != nil {
			if err := tx.Model(sub).Association("BulletPoints").Append(&point); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errSectionParent):
			NotFound(c, "Section id not found")
		case errors.Is(err, errSubSectionParent):
			NotFound(c, "Subsection id not found")
		default:
			h.logError(c, "create bullet point failed", err)
			Internal(c, "failed to create bullet point")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bullet_point": point.Details()})
}

type updateBulletPointRequest struct {
	BulletPointID uint   `json:"bullet_point_id" binding:"required"`
	Data          string `json:"data" binding:"omitempty,max=5000"`
}

// UpdateBulletPoint applies a partial update to a bullet point the caller
// owns.
func (h *BulletPointHandler) UpdateBulletPoint(c *gin.Context) {
	var req updateBulletPointRequest
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
	point, err := h.getBulletPointForUser(ctx, req.BulletPointID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Bullet point", "update", "bullet point")
			return
		}
		h.logError(c, "load bullet point failed", err)
		Internal(c, "failed to query bullet point")
		return
	}

	if req.Data != "" {
		if err := h.db.WithContext(ctx).Model(point).Update("data", req.Data).Error; err != nil {
			h.logError(c, "update bullet point failed", err)
			Internal(c, "failed to update bullet point")
			return
		}
	}

	var loaded database.BulletPoint
	if err := h.db.WithContext(ctx).First(&loaded, point.ID).Error; err != nil {
		h.logError(c, "reload bullet point failed", err)
		Internal(c, "failed to reload bullet point")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bullet_point": loaded.Details()})
}

// DeleteBulletPoint removes a bullet point the caller owns together with
// its association rows.
func (h *BulletPointHandler) DeleteBulletPoint(c *gin.Context) {
	bulletPointID, ok := queryID(c, "bullet_point_id")
	if !ok {
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	point, err := h.getBulletPointForUser(ctx, bulletPointID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFoundOrForbidden(c, "Bullet point", "delete", "bullet point")
			return
		}
		h.logError(c, "load bullet point failed", err)
		Internal(c, "failed to query bullet point")
		return
	}

	if err := database.DeleteBulletPointCascade(ctx, h.db, point.ID); err != nil {
		h.logError(c, "delete bullet point failed", err)
		Internal(c, "failed to delete bullet point")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bulletpoint deleted successfully"})
}

func (h *BulletPointHandler) getBulletPointForUser(ctx context.Context, bulletPointID, userID uint) (*database.BulletPoint, error) {
	var point database.BulletPoint
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bulletPointID, userID).
		First(&point).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

func (h *BulletPointHandler) logError(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg,
		slog.Any("error", err),
		slog.Int("code", errcode.SystemError),
	)
}
