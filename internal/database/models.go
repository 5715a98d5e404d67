package database

import (
	"time"
)

// Model is the base of every persisted entity. Deletes are hard deletes,
// so there is no soft-delete column: removed rows are gone for good.
type Model struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detailable yields the JSON projection of an entity: its scalar fields
// plus the projections of its owned children. Projections never walk back
// to parents, which keeps the recursion finite despite the bidirectional
// many-to-many edges in the schema.
type Detailable interface {
	Details() any
}

// Ownable reports the user a row belongs to. Sections are not Ownable:
// their ownership resolves through the parent resume.
type Ownable interface {
	OwnerID() uint
}

// User is an account. Besides resumes, sub-sections and bullet points hang
// directly off the user so they can be shared between sections.
type User struct {
	Model
	Email        string `gorm:"uniqueIndex;size:255"`
	Username     string `gorm:"uniqueIndex;size:250"`
	PasswordHash string `gorm:"size:255"`

	Resumes      []Resume
	SubSections  []SubSection
	BulletPoints []BulletPoint
}

// Resume is the aggregate root. Deleting it takes its sections with it.
type Resume struct {
	Model
	Name   string `gorm:"size:500"`
	UserID uint   `gorm:"index"`

	Sections []Section
}

// Section belongs to exactly one resume and references sub-sections and
// bullet points through join tables, so those can appear in more than one
// section.
type Section struct {
	Model
	Title    string `gorm:"size:500"`
	ResumeID uint   `gorm:"index"`

	SubSections  []*SubSection  `gorm:"many2many:section_sub_sections"`
	BulletPoints []*BulletPoint `gorm:"many2many:section_bullet_points"`
}

// SubSection is a user-owned block (a job, a degree) attached to sections.
type SubSection struct {
	Model
	Title       string `gorm:"size:500"`
	Description string `gorm:"size:1000"`
	TimeRange   string `gorm:"size:100"`
	UserID      uint   `gorm:"index"`

	Sections     []*Section     `gorm:"many2many:section_sub_sections"`
	BulletPoints []*BulletPoint `gorm:"many2many:sub_section_bullet_points"`
}

// BulletPoint is a user-owned line of text, attachable to sections and
// sub-sections.
type BulletPoint struct {
	Model
	Data   string `gorm:"size:5000"`
	UserID uint   `gorm:"index"`

	Sections    []*Section    `gorm:"many2many:section_bullet_points"`
	SubSections []*SubSection `gorm:"many2many:sub_section_bullet_points"`
}

func (r Resume) OwnerID() uint      { return r.UserID }
func (s SubSection) OwnerID() uint  { return s.UserID }
func (b BulletPoint) OwnerID() uint { return b.UserID }

// AllModels lists every model for AutoMigrate.
func AllModels() []any {
	return []any{&User{}, &Resume{}, &Section{}, &SubSection{}, &BulletPoint{}}
}
