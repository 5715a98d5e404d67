package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"resumehub/internal/database"
)

// Builds the full Resume→Section→SubSection→BulletPoint chain through the
// HTTP surface and checks the recursive projection contains every created
// descendant exactly once.
func TestDetailProjectionRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := registerUser(t, router, "alice")
	resumeID := createResume(t, router, cookie, "Engineer CV")
	sectionID := createSection(t, router, cookie, resumeID, "Experience")

	subResp := doJSON(t, router, http.MethodPost, "/v1/subsection", gin.H{
		"title":       "Acme Corp",
		"description": "Backend team",
		"time_range":  "2020-2022",
		"section_id":  sectionID,
	}, cookie)
	if subResp.Code != http.StatusCreated {
		t.Fatalf("create sub section: %d body=%s", subResp.Code, subResp.Body.String())
	}
	var subCreated struct {
		SubSection database.SubSectionDetail `json:"sub_section"`
	}
	decodeBody(t, subResp, &subCreated)

	pointResp := doJSON(t, router, http.MethodPost, "/v1/bulletpoint", gin.H{
		"data":           "Shipped the billing service",
		"sub_section_id": subCreated.SubSection.ID,
	}, cookie)
	if pointResp.Code != http.StatusCreated {
		t.Fatalf("create bullet point: %d body=%s", pointResp.Code, pointResp.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/v1/resume?resume_id=1", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("get resume: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Resume database.ResumeDetail `json:"resume"`
	}
	decodeBody(t, w, &resp)

	if len(resp.Resume.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(resp.Resume.Sections))
	}
	section := resp.Resume.Sections[0]
	if section.Title != "Experience" {
		t.Fatalf("unexpected section: %+v", section)
	}
	if len(section.SubSections) != 1 {
		t.Fatalf("expected 1 sub section, got %d", len(section.SubSections))
	}
	sub := section.SubSections[0]
	if sub.Title != "Acme Corp" || sub.Description != "Backend team" || sub.TimeRange != "2020-2022" {
		t.Fatalf("unexpected sub section scalars: %+v", sub)
	}
	if len(sub.BulletPoints) != 1 || sub.BulletPoints[0].Data != "Shipped the billing service" {
		t.Fatalf("unexpected bullet points: %+v", sub.BulletPoints)
	}

	// The bullet point hangs off the sub-section only: it must not also
	// appear directly under the section.
	if len(section.BulletPoints) != 0 {
		t.Fatalf("bullet point duplicated at section level: %+v", section.BulletPoints)
	}
}

func TestCreateSubSectionParentNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/v1/subsection", gin.H{
		"title":      "Acme Corp",
		"section_id": 99,
	}, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &resp)
	if resp.Error != "Section id not found" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestCreateBulletPointOptionalParents(t *testing.T) {
	router, db := newTestRouter(t)
	cookie := registerUser(t, router, "alice")

	// No parents at all is allowed.
	w := doJSON(t, router, http.MethodPost, "/v1/bulletpoint", gin.H{"data": "Free-floating point"}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("unattached create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	// A dangling parent id fails without leaving a row behind.
	w = doJSON(t, router, http.MethodPost, "/v1/bulletpoint", gin.H{"data": "Orphan", "section_id": 99}, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("dangling parent: expected 404 got %d body=%s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&database.BulletPoint{}).Count(&count).Error; err != nil {
		t.Fatalf("count bullet points: %v", err)
	}
	if count != 1 {
		t.Fatalf("failed create must not insert, got %d rows", count)
	}
}

func TestSubSectionCrossUserMutation(t *testing.T) {
	router, db := newTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")
	resumeID := createResume(t, router, alice, "Engineer CV")
	sectionID := createSection(t, router, alice, resumeID, "Experience")

	subResp := doJSON(t, router, http.MethodPost, "/v1/subsection", gin.H{
		"title":      "Acme Corp",
		"section_id": sectionID,
	}, alice)
	if subResp.Code != http.StatusCreated {
		t.Fatalf("create sub section: %d", subResp.Code)
	}
	var created struct {
		SubSection database.SubSectionDetail `json:"sub_section"`
	}
	decodeBody(t, subResp, &created)

	update := doJSON(t, router, http.MethodPut, "/v1/subsection", gin.H{
		"sub_section_id": created.SubSection.ID,
		"title":          "Hijacked",
	}, bob)
	if update.Code != http.StatusNotFound {
		t.Fatalf("non-owner update: expected 404 got %d", update.Code)
	}

	del := doJSON(t, router, http.MethodDelete, "/v1/subsection?sub_section_id=1", nil, bob)
	if del.Code != http.StatusNotFound {
		t.Fatalf("non-owner delete: expected 404 got %d", del.Code)
	}

	var sub database.SubSection
	if err := db.First(&sub, created.SubSection.ID).Error; err != nil {
		t.Fatalf("sub section disappeared: %v", err)
	}
	if sub.Title != "Acme Corp" {
		t.Fatalf("non-owner mutation changed the row: %q", sub.Title)
	}
}

func TestBulletPointPartialUpdate(t *testing.T) {
	router, db := newTestRouter(t)
	cookie := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/v1/bulletpoint", gin.H{"data": "Original"}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		BulletPoint database.BulletPointDetail `json:"bullet_point"`
	}
	decodeBody(t, w, &created)

	// Empty update set leaves the row untouched and succeeds.
	empty := doJSON(t, router, http.MethodPut, "/v1/bulletpoint", gin.H{
		"bullet_point_id": created.BulletPoint.ID,
	}, cookie)
	if empty.Code != http.StatusOK {
		t.Fatalf("empty update: expected 200 got %d body=%s", empty.Code, empty.Body.String())
	}

	var point database.BulletPoint
	if err := db.First(&point, created.BulletPoint.ID).Error; err != nil {
		t.Fatalf("load bullet point: %v", err)
	}
	if point.Data != "Original" {
		t.Fatalf("empty update changed data to %q", point.Data)
	}

	full := doJSON(t, router, http.MethodPut, "/v1/bulletpoint", gin.H{
		"bullet_point_id": created.BulletPoint.ID,
		"data":            "Rewritten",
	}, cookie)
	if full.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d body=%s", full.Code, full.Body.String())
	}
	if err := db.First(&point, created.BulletPoint.ID).Error; err != nil {
		t.Fatalf("reload bullet point: %v", err)
	}
	if point.Data != "Rewritten" {
		t.Fatalf("update did not apply: %q", point.Data)
	}
}
