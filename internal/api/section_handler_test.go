package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"resumehub/internal/database"
)

func TestCreateSectionRequiresParent(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/v1/section", gin.H{"title": "Experience", "resume_id": 99}, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &resp)
	if resp.Error != "Resume id not found" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestCreateSectionValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/v1/section", gin.H{"title": "Experience"}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing resume_id: expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestListSectionsInCreationOrder(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := registerUser(t, router, "alice")
	resumeID := createResume(t, router, cookie, "Engineer CV")
	createSection(t, router, cookie, resumeID, "Experience")
	createSection(t, router, cookie, resumeID, "Education")
	createSection(t, router, cookie, resumeID, "Skills")

	w := doJSON(t, router, http.MethodGet, "/v1/section?resume_id=1", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Sections []database.SectionDetail `json:"sections"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(resp.Sections))
	}
	want := []string{"Experience", "Education", "Skills"}
	for i, title := range want {
		if resp.Sections[i].Title != title {
			t.Fatalf("section %d: expected %q got %q", i, title, resp.Sections[i].Title)
		}
	}
}

func TestSectionUpdateByNonOwnerIsConflated404(t *testing.T) {
	router, _ := newTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")
	resumeID := createResume(t, router, alice, "Engineer CV")
	sectionID := createSection(t, router, alice, resumeID, "Experience")

	w := doJSON(t, router, http.MethodPut, "/v1/section", gin.H{
		"section_id": sectionID,
		"resume_id":  resumeID,
		"title":      "Hijacked",
	}, bob)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &resp)
	if resp.Error != "Section id not found or you have no permission to update this section" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}

	// The same message answers a genuinely missing section.
	missing := doJSON(t, router, http.MethodPut, "/v1/section", gin.H{
		"section_id": uint(99),
		"resume_id":  resumeID,
		"title":      "X",
	}, alice)
	if missing.Code != http.StatusNotFound || missing.Body.String() != w.Body.String() {
		t.Fatalf("missing and forbidden must be indistinguishable: %d %s",
			missing.Code, missing.Body.String())
	}
}

func TestDeleteSectionKeepsAssociatedEntities(t *testing.T) {
	router, db := newTestRouter(t)
	cookie := registerUser(t, router, "alice")
	resumeID := createResume(t, router, cookie, "Engineer CV")
	sectionID := createSection(t, router, cookie, resumeID, "Experience")

	sub := doJSON(t, router, http.MethodPost, "/v1/subsection", gin.H{
		"title":      "Acme Corp",
		"section_id": sectionID,
	}, cookie)
	if sub.Code != http.StatusCreated {
		t.Fatalf("create sub section: %d body=%s", sub.Code, sub.Body.String())
	}

	w := doJSON(t, router, http.MethodDelete, "/v1/section?resume_id=1&section_id=1", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("delete section: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	// Sub-section survives: the relation to sections is association-only.
	var subCount int64
	if err := db.Model(&database.SubSection{}).Count(&subCount).Error; err != nil {
		t.Fatalf("count sub sections: %v", err)
	}
	if subCount != 1 {
		t.Fatalf("section delete must not remove sub sections, got %d", subCount)
	}

	var joinCount int64
	if err := db.Table("section_sub_sections").Count(&joinCount).Error; err != nil {
		t.Fatalf("count join rows: %v", err)
	}
	if joinCount != 0 {
		t.Fatalf("association rows must be removed with the section, got %d", joinCount)
	}
}
