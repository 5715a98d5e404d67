package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumehub/internal/api/middleware"
	"resumehub/internal/auth"
)

// RegisterRoutes wires the handlers under /v1. Everything except register,
// login and the public endpoints sits behind the session middleware.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	sessions auth.SessionStore,
	sessionTTL time.Duration,
	logger *slog.Logger,
	cookieDomain string,
) {
	authHandler := NewAuthHandler(db, sessions, sessionTTL, logger, cookieDomain)
	userHandler := NewUserHandler(db)
	resumeHandler := NewResumeHandler(db)
	sectionHandler := NewSectionHandler(db)
	subSectionHandler := NewSubSectionHandler(db)
	bulletPointHandler := NewBulletPointHandler(db)
	sessionMiddleware := middleware.SessionMiddleware(sessions)

	v1 := router.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", sessionMiddleware, authHandler.Logout)
		}

		userGroup := v1.Group("/user")
		userGroup.Use(sessionMiddleware)
		{
			userGroup.GET("/me", userHandler.Me)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(sessionMiddleware)
		{
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("", resumeHandler.GetResume)
			resumeGroup.PUT("", resumeHandler.UpdateResume)
			resumeGroup.DELETE("", resumeHandler.DeleteResume)
		}

		sectionGroup := v1.Group("/section")
		sectionGroup.Use(sessionMiddleware)
		{
			sectionGroup.POST("", sectionHandler.CreateSection)
			sectionGroup.GET("", sectionHandler.ListSections)
			sectionGroup.PUT("", sectionHandler.UpdateSection)
			sectionGroup.DELETE("", sectionHandler.DeleteSection)
		}

		subSectionGroup := v1.Group("/subsection")
		subSectionGroup.Use(sessionMiddleware)
		{
			subSectionGroup.POST("", subSectionHandler.CreateSubSection)
			subSectionGroup.PUT("", subSectionHandler.UpdateSubSection)
			subSectionGroup.DELETE("", subSectionHandler.DeleteSubSection)
		}

		bulletPointGroup := v1.Group("/bulletpoint")
		bulletPointGroup.Use(sessionMiddleware)
		{
			bulletPointGroup.POST("", bulletPointHandler.CreateBulletPoint)
			bulletPointGroup.PUT("", bulletPointHandler.UpdateBulletPoint)
			bulletPointGroup.DELETE("", bulletPointHandler.DeleteBulletPoint)
		}
	}
}
