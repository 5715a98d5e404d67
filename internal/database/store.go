package database

import (
	"context"

	"gorm.io/gorm"
)

// Aggregate store helpers shared by the handlers: tree loading for the
// detail projections, and transactional cascade deletes so a multi-step
// write never leaves orphaned rows behind.

func sectionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sections.created_at ASC, sections.id ASC")
}

// LoadResumeTree fetches a resume with its full owned subtree preloaded:
// sections in creation order, their sub-sections, and every bullet point.
func LoadResumeTree(ctx context.Context, db *gorm.DB, id uint) (*Resume, error) {
	var resume Resume
	err := db.WithContext(ctx).
		Preload("Sections", sectionOrder).
		Preload("Sections.SubSections").
		Preload("Sections.SubSections.BulletPoints").
		Preload("Sections.BulletPoints").
		First(&resume, id).Error
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// LoadSectionTree fetches one section with its associated sub-sections and
// bullet points preloaded.
func LoadSectionTree(ctx context.Context, db *gorm.DB, id uint) (*Section, error) {
	var section Section
	err := db.WithContext(ctx).
		Preload("SubSections").
		Preload("SubSections.BulletPoints").
		Preload("BulletPoints").
		First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// LoadSectionsByResume lists a resume's sections in creation order, each
// with its associated children preloaded.
func LoadSectionsByResume(ctx context.Context, db *gorm.DB, resumeID uint) ([]Section, error) {
	var sections []Section
	err := db.WithContext(ctx).
		Preload("SubSections").
		Preload("SubSections.BulletPoints").
		Preload("BulletPoints").
		Where("resume_id = ?", resumeID).
		Order("sections.created_at ASC, sections.id ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// LoadSubSectionTree fetches one sub-section with its bullet points.
func LoadSubSectionTree(ctx context.Context, db *gorm.DB, id uint) (*SubSection, error) {
	var sub SubSection
	err := db.WithContext(ctx).
		Preload("BulletPoints").
		First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// LoadUserTree fetches a user with every owned collection resolved deep
// enough for the private projection.
func LoadUserTree(ctx context.Context, db *gorm.DB, id uint) (*User, error) {
	var user User
	err := db.WithContext(ctx).
		Preload("Resumes").
		Preload("Resumes.Sections", sectionOrder).
		Preload("Resumes.Sections.SubSections").
		Preload("Resumes.Sections.SubSections.BulletPoints").
		Preload("Resumes.Sections.BulletPoints").
		Preload("SubSections").
		Preload("SubSections.BulletPoints").
		Preload("BulletPoints").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteResumeCascade removes a resume, its sections, and the sections'
// association rows in one transaction. Sub-sections and bullet points
// survive: their link to the deleted sections is association-only.
func DeleteResumeCascade(ctx context.Context, db *gorm.DB, resumeID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sectionIDs []uint
		if err := tx.Model(&Section{}).
			Where("resume_id = ?", resumeID).
			Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}

		if len(sectionIDs) > 0 {
			if err := tx.Exec("DELETE FROM section_sub_sections WHERE section_id IN ?", sectionIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM section_bullet_points WHERE section_id IN ?", sectionIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("resume_id = ?", resumeID).Delete(&Section{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&Resume{}, resumeID).Error
	})
}

// DeleteSectionCascade removes a section and its association rows. The
// referenced sub-sections and bullet points are left in place.
func DeleteSectionCascade(ctx context.Context, db *gorm.DB, sectionID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM section_sub_sections WHERE section_id = ?", sectionID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM section_bullet_points WHERE section_id = ?", sectionID).Error; err != nil {
			return err
		}
		return tx.Delete(&Section{}, sectionID).Error
	})
}

// DeleteSubSectionCascade removes a sub-section and its association rows
// on both sides.
func DeleteSubSectionCascade(ctx context.Context, db *gorm.DB, subSectionID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM section_sub_sections WHERE sub_section_id = ?", subSectionID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM sub_section_bullet_points WHERE sub_section_id = ?", subSectionID).Error; err != nil {
			return err
		}
		return tx.Delete(&SubSection{}, subSectionID).Error
	})
}

// DeleteBulletPointCascade removes a bullet point and its association rows.
func DeleteBulletPointCascade(ctx context.Context, db *gorm.DB, bulletPointID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM section_bullet_points WHERE bullet_point_id = ?", bulletPointID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM sub_section_bullet_points WHERE bullet_point_id = ?", bulletPointID).Error; err != nil {
			return err
		}
		return tx.Delete(&BulletPoint{}, bulletPointID).Error
	})
}
