package database

import "time"

// Detail projections. Each entity expands its scalar fields plus the
// projections of its owned children, pre-order, with no ids-only lists and
// no parent back-references. Child slices are always non-nil so they
// marshal as [] rather than null.

type BulletPointDetail struct {
	ID   uint   `json:"id"`
	Data string `json:"data"`
}

type SubSectionDetail struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	TimeRange    string              `json:"time_range"`
	BulletPoints []BulletPointDetail `json:"bullet_points"`
}

type SectionDetail struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	SubSections  []SubSectionDetail  `json:"sub_sections"`
	BulletPoints []BulletPointDetail `json:"bullet_points"`
}

type ResumeDetail struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Sections  []SectionDetail `json:"sections"`
}

// PublicUserDetail is the projection safe to show to anyone.
type PublicUserDetail struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PrivateUserDetail embeds everything the user owns, each child resolved
// recursively.
type PrivateUserDetail struct {
	Username     string              `json:"username"`
	Email        string              `json:"email"`
	Resumes      []ResumeDetail      `json:"resumes"`
	SubSections  []SubSectionDetail  `json:"sub_sections"`
	BulletPoints []BulletPointDetail `json:"bullet_points"`
}

func (b BulletPoint) Details() any { return b.detail() }

func (b BulletPoint) detail() BulletPointDetail {
	return BulletPointDetail{ID: b.ID, Data: b.Data}
}

func (s SubSection) Details() any { return s.detail() }

func (s SubSection) detail() SubSectionDetail {
	points := make([]BulletPointDetail, 0, len(s.BulletPoints))
	for _, bp := range s.BulletPoints {
		points = append(points, bp.detail())
	}
	return SubSectionDetail{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		TimeRange:    s.TimeRange,
		BulletPoints: points,
	}
}

func (s Section) Details() any { return s.detail() }

func (s Section) detail() SectionDetail {
	subs := make([]SubSectionDetail, 0, len(s.SubSections))
	for _, sub := range s.SubSections {
		subs = append(subs, sub.detail())
	}
	points := make([]BulletPointDetail, 0, len(s.BulletPoints))
	for _, bp := range s.BulletPoints {
		points = append(points, bp.detail())
	}
	return SectionDetail{
		ID:           s.ID,
		Title:        s.Title,
		SubSections:  subs,
		BulletPoints: points,
	}
}

func (r Resume) Details() any { return r.detail() }

func (r Resume) detail() ResumeDetail {
	sections := make([]SectionDetail, 0, len(r.Sections))
	for _, s := range r.Sections {
		sections = append(sections, s.detail())
	}
	return ResumeDetail{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Sections:  sections,
	}
}

// PublicDetails projects the fields safe for unauthenticated viewers.
func (u User) PublicDetails() PublicUserDetail {
	return PublicUserDetail{Username: u.Username, Email: u.Email}
}

// PrivateDetails projects the user plus everything they own. The receiver
// must have been loaded with LoadUserTree for the children to be present.
func (u User) PrivateDetails() PrivateUserDetail {
	resumes := make([]ResumeDetail, 0, len(u.Resumes))
	for _, r := range u.Resumes {
		resumes = append(resumes, r.detail())
	}
	subs := make([]SubSectionDetail, 0, len(u.SubSections))
	for _, s := range u.SubSections {
		subs = append(subs, s.detail())
	}
	points := make([]BulletPointDetail, 0, len(u.BulletPoints))
	for _, bp := range u.BulletPoints {
		points = append(points, bp.detail())
	}
	return PrivateUserDetail{
		Username:     u.Username,
		Email:        u.Email,
		Resumes:      resumes,
		SubSections:  subs,
		BulletPoints: points,
	}
}
