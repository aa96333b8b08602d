package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cwiesse/horarios-api/internal/middleware"
	"github.com/cwiesse/horarios-api/internal/models"
	"github.com/cwiesse/horarios-api/internal/service"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth      *AuthHandler
	Sessions  *SessionHandler
	Teachers  *TeacherHandler
	Rooms     *RoomHandler
	Courses   *CourseHandler
	Exports   *ExportHandler
	Dashboard *DashboardHandler
	Metrics   *MetricsHandler

	AuthService *service.AuthService
}

// RegisterRoutes mounts the API under the given prefix. Reads require any
// authenticated user; writes and exports are restricted to admins.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(h.AuthService), h.Auth.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(h.AuthService))
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	sessions := authed.Group("/sessions")
	{
		sessions.GET("", h.Sessions.List)
		sessions.GET("/:id", h.Sessions.Get)
		sessions.POST("", adminOnly, h.Sessions.Create)
		sessions.PUT("/:id", adminOnly, h.Sessions.Update)
		sessions.DELETE("/:id", adminOnly, h.Sessions.Delete)
	}

	teachers := authed.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.GET("/:id/sessions", h.Sessions.ListByTeacher)
		teachers.POST("", adminOnly, h.Teachers.Create)
		teachers.PUT("/:id", adminOnly, h.Teachers.Update)
		teachers.DELETE("/:id", adminOnly, h.Teachers.Deactivate)
	}

	rooms := authed.Group("/rooms")
	{
		rooms.GET("", h.Rooms.List)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.GET("/:id/sessions", h.Sessions.ListByRoom)
		rooms.POST("", adminOnly, h.Rooms.Create)
		rooms.PUT("/:id", adminOnly, h.Rooms.Update)
		rooms.DELETE("/:id", adminOnly, h.Rooms.Deactivate)
	}

	courses := authed.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.GET("/:id/sessions", h.Sessions.ListByCourse)
		courses.POST("", adminOnly, h.Courses.Create)
		courses.PUT("/:id", adminOnly, h.Courses.Update)
		courses.DELETE("/:id", adminOnly, h.Courses.Deactivate)
	}

	exports := authed.Group("/exports")
	{
		exports.GET("/sessions", h.Exports.Sessions)
		exports.GET("/teachers", h.Exports.Teachers)
		exports.GET("/rooms", h.Exports.Rooms)
	}

	authed.GET("/dashboard/summary", h.Dashboard.Summary)
}
