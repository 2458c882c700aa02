package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/leocodeio/gitsprint-api/internal/auth"
	"github.com/leocodeio/gitsprint-api/internal/config"
	"github.com/leocodeio/gitsprint-api/internal/constants"
	"github.com/leocodeio/gitsprint-api/internal/database"
	"github.com/leocodeio/gitsprint-api/internal/handlers"
	"github.com/leocodeio/gitsprint-api/internal/logger"
	"github.com/leocodeio/gitsprint-api/internal/middleware"
	"github.com/leocodeio/gitsprint-api/internal/polar"
	"github.com/leocodeio/gitsprint-api/internal/repository"
	"github.com/leocodeio/gitsprint-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	zapLogger, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	billingRepo := repository.NewBillingRepository(db)

	// Services
	opts := auth.OptionsFromConfig(cfg)
	authService := services.NewAuthService(userRepo, sessionRepo, opts)
	billingService := services.NewBillingService(billingRepo, zapLogger)
	orgService := services.NewOrganizationService(orgRepo)
	teamService := services.NewTeamService(teamRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)

	polarClient := polar.NewClient(cfg.PolarAccessToken, cfg.PolarServer)
	stateCodec := auth.NewStateCodec(cfg.AuthSecret)
	providers := auth.Providers(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, billingService, providers, stateCodec, polarClient, cfg, zapLogger)
	paymentsHandler := handlers.NewPaymentsHandler(authService, polarClient, zapLogger)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	storyHandler := handlers.NewStoryHandler(projectService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.CORS(opts.TrustedOrigins))

	// Setup the OAuth flow cookie. It only carries the sign-in nonce, never
	// the session itself.
	store := cookie.NewStore([]byte(cfg.AuthSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.FlowCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "GitSprint API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.GET("/signin/:provider", authHandler.SignIn)
			authRoutes.GET("/callback/:provider", authHandler.Callback)
			authRoutes.GET("/get-session", authHandler.GetSession)
			authRoutes.POST("/sign-out", authHandler.SignOut)
			authRoutes.POST("/complete-profile", middleware.RequireAuth(authService), authHandler.CompleteProfile)
			authRoutes.GET("/reference", middleware.RequireSwaggerAuth(cfg.SwaggerUser, cfg.SwaggerPassword), authHandler.Reference)

			// Billing sub-routes
			authRoutes.GET("/checkout/:slug", authHandler.Checkout)
			authRoutes.GET("/portal", authHandler.Portal)
			authRoutes.POST("/polar/webhooks", authHandler.Webhooks)
		}

		// Checkout landing (public, the session is optional)
		api.GET("/payments/success", paymentsHandler.Success)

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth(authService))
		{
			orgs.POST("", orgHandler.Create)
			orgs.GET("", orgHandler.List)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(orgRepo), orgHandler.Get)
			orgs.PATCH("/:id", middleware.RequireOrganizationAccess(orgRepo), middleware.RequireOrganizationOwner(), orgHandler.Update)
			orgs.POST("/:id/members", middleware.RequireOrganizationAccess(orgRepo), middleware.RequireOrganizationOwner(), orgHandler.AddMember)
			orgs.DELETE("/:id/members/:user_id", middleware.RequireOrganizationAccess(orgRepo), middleware.RequireOrganizationOwner(), orgHandler.RemoveMember)
			orgs.POST("/:id/teams", middleware.RequireOrganizationAccess(orgRepo), teamHandler.Create)
			orgs.GET("/:id/teams", middleware.RequireOrganizationAccess(orgRepo), teamHandler.List)
			orgs.POST("/:id/projects", middleware.RequireOrganizationAccess(orgRepo), projectHandler.Create)
			orgs.GET("/:id/projects", middleware.RequireOrganizationAccess(orgRepo), projectHandler.List)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth(authService))
		teams.Use(middleware.RequireTeamAccess(teamRepo, orgRepo))
		{
			teams.GET("/:team_id", teamHandler.Get)
			teams.PATCH("/:team_id", teamHandler.Update)
			teams.POST("/:team_id/members", teamHandler.AddMember)
			teams.DELETE("/:team_id/members/:user_id", teamHandler.RemoveMember)
		}

		// Project and sprint routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(authService))
		projects.Use(middleware.RequireProjectAccess(projectRepo, orgRepo))
		{
			projects.GET("/:project_id", projectHandler.Get)
			projects.PATCH("/:project_id", projectHandler.Update)
			projects.PUT("/:project_id/repository", projectHandler.LinkRepository)
			projects.POST("/:project_id/sprints", projectHandler.CreateSprint)
			projects.GET("/:project_id/sprints", projectHandler.ListSprints)
		}

		sprints := api.Group("/sprints")
		sprints.Use(middleware.RequireAuth(authService))
		sprints.Use(middleware.RequireSprintAccess(projectRepo, orgRepo))
		{
			sprints.PATCH("/:sprint_id", projectHandler.UpdateSprint)
			sprints.POST("/:sprint_id/stories", storyHandler.Create)
			sprints.GET("/:sprint_id/stories", storyHandler.List)
		}

		stories := api.Group("/stories")
		stories.Use(middleware.RequireAuth(authService))
		stories.Use(middleware.RequireStoryAccess(projectRepo, orgRepo))
		{
			stories.PATCH("/:story_id", storyHandler.Update)
		}
	}

	// Expired sessions are swept in the background so resolution never has to
	// delete anything.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		purged, err := authService.PurgeExpiredSessions()
		if err != nil {
			zapLogger.Error("session purge failed", zap.Error(err))
			return
		}
		if purged > 0 {
			zapLogger.Info("purged expired sessions", zap.Int64("count", purged))
		}
	}); err != nil {
		zapLogger.Fatal("Failed to schedule session purge", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	zapLogger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
