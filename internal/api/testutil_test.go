package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resumehub/internal/api/middleware"
	"resumehub/internal/auth"
	"resumehub/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	sessions := auth.NewMemorySessionStore(time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	RegisterRoutes(router, db, sessions, time.Hour, logger, "")
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerUser creates an account through the real endpoint and returns
// the session cookie it established.
func registerUser(t *testing.T, router *gin.Engine, username string) *http.Cookie {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/v1/auth/register", gin.H{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201 got %d body=%s", username, w.Code, w.Body.String())
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("register %s: no session cookie in response", username)
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

// createResume posts a resume and returns its id.
func createResume(t *testing.T, router *gin.Engine, cookie *http.Cookie, name string) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/v1/resume", gin.H{"name": name}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create resume: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Resume database.ResumeDetail `json:"resume"`
	}
	decodeBody(t, w, &resp)
	return resp.Resume.ID
}

// createSection posts a section under a resume and returns its id.
func createSection(t *testing.T, router *gin.Engine, cookie *http.Cookie, resumeID uint, title string) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/v1/section", gin.H{"title": title, "resume_id": resumeID}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create section: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Section database.SectionDetail `json:"section"`
	}
	decodeBody(t, w, &resp)
	return resp.Section.ID
}
