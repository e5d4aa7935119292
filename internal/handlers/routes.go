package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/middleware"
)

// Handlers bundles every HTTP handler served by the API.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Team    *TeamHandler
	Task    *TaskHandler
	Tag     *TagHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed on r.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/health", h.Health.Check)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
		}

		// Invitation preview (public)
		api.GET("/invitations/:token", h.Team.ValidateInvitation)

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/me", h.User.GetProfile)
			users.PATCH("/me", h.User.UpdateProfile)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", h.Project.CreateProject)
			projects.GET("", h.Project.ListProjects)

			project := projects.Group("/:id", middleware.RequireProjectID())
			{
				project.GET("", h.Project.GetProject)
				project.PATCH("", h.Project.UpdateProject)
				project.DELETE("", h.Project.DeleteProject)

				project.GET("/members", h.Team.ListMembers)
				project.POST("/members", h.Project.AddMember)
				project.DELETE("/members/:user_id", h.Project.RemoveMember)

				project.GET("/invitations", h.Team.ListInvitations)
				project.POST("/invitations", h.Team.InviteMember)

				project.GET("/tasks", h.Task.ListProjectTasks)
				project.POST("/tasks", h.Task.CreateTask)
				project.POST("/tasks/generate", h.Task.GenerateTasks)
			}
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", h.Task.ListTasks)
			tasks.GET("/assigned", h.Task.ListAssignedTasks)
			tasks.GET("/:id", middleware.RequireTaskID(), h.Task.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskID(), h.Task.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), h.Task.DeleteTask)
		}

		tags := api.Group("/tags")
		tags.Use(middleware.RequireAuth())
		{
			tags.GET("", h.Tag.ListTags)
			tags.POST("", h.Tag.CreateTag)
			tags.GET("/:id", middleware.RequireTagID(), h.Tag.GetTag)
			tags.PATCH("/:id", middleware.RequireTagID(), h.Tag.UpdateTag)
			tags.DELETE("/:id", middleware.RequireTagID(), h.Tag.DeleteTag)
		}
	}
}
