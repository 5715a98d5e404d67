package api

import (
	"errors"
	"log/slog"
	"net/http"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumehub/internal/api/middleware"
	"resumehub/internal/auth"
	"resumehub/internal/database"
	"resumehub/internal/errcode"
)

// AuthHandler handles register, login and logout. Register and login both
// establish a session immediately and answer with the caller's private
// projection.
type AuthHandler struct {
	db           *gorm.DB
	sessions     auth.SessionStore
	sessionTTL   time.Duration
	logger       *slog.Logger
	cookieDomain string
}

// NewAuthHandler builds the handler.
func NewAuthHandler(db *gorm.DB, sessions auth.SessionStore, sessionTTL time.Duration, logger *slog.Logger, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		db:           db,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		logger:       logger,
		cookieDomain: cookieDomain,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"required,min=3,max=250"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates a new account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(
		slog.String("username", req.Username),
	)

	var existing database.User
	err := h.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		logger.Info("register conflict: email already exists")
		BadRequest(c, "email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	err = h.db.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		logger.Info("register conflict: username already exists")
		BadRequest(c, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("register lookup failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("hash password failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	user := database.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		logger.Error("create user failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		logger.Error("issue session failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	logger.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusCreated, gin.H{"user": user.PrivateDetails()})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and establishes a session. Unknown usernames
// and wrong passwords produce the same generic rejection.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(
		slog.String("username", req.Username),
	)

	var user database.User
	if err := h.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("login failed: user not found")
			Unauthorized(c, "invalid username or password")
			return
		}
		logger.Error("login query failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		Unauthorized(c, "invalid username or password")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		logger.Error("issue session failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	loaded, err := database.LoadUserTree(ctx, h.db, user.ID)
	if err != nil {
		logger.Error("load user tree failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	logger.Info("user logged in", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, gin.H{"user": loaded.PrivateDetails()})
}

// Logout revokes the session the request authenticated with and clears the
// cookie. Runs behind the session middleware, so anonymous callers never
// get here.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.SessionTokenFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	logger := h.loggerFromContext(c)
	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		logger.Error("revoke session failed", slog.Any("error", err), slog.Int("code", errcode.SystemError))
		Internal(c, "internal error")
		return
	}

	stdhttp.SetCookie(c.Writer, &stdhttp.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
	})
	c.Status(http.StatusOK)
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint) error {
	token, err := h.sessions.Issue(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token)
	return nil
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.sessionTTL.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	stdhttp.SetCookie(c.Writer, &stdhttp.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: stdhttp.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
		Expires:  time.Now().Add(h.sessionTTL),
	})
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

func (h *AuthHandler) isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *AuthHandler) getCookieDomain() string { return strings.TrimSpace(h.cookieDomain) }
