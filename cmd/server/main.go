package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/handlers"
	"github.com/yukikurage/project-management-api/internal/logutils"
	"github.com/yukikurage/project-management-api/internal/mail"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/outbox"
	"github.com/yukikurage/project-management-api/internal/policy"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	isProduction := cfg.GinMode == gin.ReleaseMode
	logutils.Configure(cfg.GinMode, isProduction)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logutils.Log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logutils.Log.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		logutils.Log.Fatalf("Failed to create session store: %v", err)
	}
	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	// Repositories and domain services
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	authz := policy.NewAuthorizer(projectRepo)

	renderer, err := mail.NewRenderer()
	if err != nil {
		logutils.Log.Fatalf("Failed to load email templates: %v", err)
	}

	sender, err := mail.NewSender(ctx, cfg.Mail)
	if err != nil {
		logutils.Log.Fatalf("Failed to configure mail provider: %v", err)
	}
	dispatcher := outbox.NewDispatcher(outboxRepo, sender, cfg.Mail.From, cfg.Outbox)
	scheduler, err := dispatcher.Schedule(cfg.Outbox.Schedule)
	if err != nil {
		logutils.Log.Fatalf("Failed to schedule outbox dispatcher: %v", err)
	}

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	h := handlers.Handlers{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(userRepo, cfg.BootstrapStarterProject)),
		User:    handlers.NewUserHandler(services.NewUserService(userRepo)),
		Project: handlers.NewProjectHandler(services.NewProjectService(projectRepo, userRepo, authz)),
		Team:    handlers.NewTeamHandler(services.NewTeamService(projectRepo, userRepo, invitationRepo, authz, renderer, cfg.AppURL)),
		Task:    handlers.NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, tagRepo, authz, suggester)),
		Tag:     handlers.NewTagHandler(services.NewTagService(tagRepo, projectRepo)),
		Health:  handlers.NewHealthHandler(db),
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.CORS(cfg.AllowedOrigins),
		sessions.Sessions(constants.SessionCookieName, store),
	)
	r.GET("/metrics", metrics.Handler())
	handlers.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logutils.Log.Infof("Server starting on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutils.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logutils.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logutils.Log.WithError(err).Error("Server shutdown failed")
	}
	// Let an in-flight dispatch finish.
	<-scheduler.Stop().Done()
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore == "cookie" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
}
