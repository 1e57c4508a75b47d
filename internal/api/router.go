package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/citygram/citygram-api/internal/api/handler"
	"github.com/citygram/citygram-api/internal/api/middleware"
	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
	"github.com/citygram/citygram-api/internal/core/service"
	"github.com/citygram/citygram-api/internal/infrastructure/config"
	mongorepo "github.com/citygram/citygram-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/citygram/citygram-api/internal/infrastructure/db/redis"
	"github.com/citygram/citygram-api/pkg/logger"
)

// Dependencies carries the external resources the router wires together.
// The activity publisher is injected so the HTTP layer stays decoupled from
// the worker pool that drains it.
type Dependencies struct {
	Mongo      *mongo.Client
	DB         *mongo.Database
	Redis      *redis.Client
	Activities ports.ActivityService
	Publisher  ports.ActivityPublisher
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Dependencies) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("citygram"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(deps.Mongo, deps.DB)
	postRepo := mongorepo.NewPostRepository(deps.DB)
	presence := redisrepo.NewPresenceStore(deps.Redis)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, presence, deps.Publisher, log)
	postService := service.NewPostService(postRepo, userRepo, deps.Publisher, log)

	authHandler := handler.NewAuthHandler(authService, cfg.SecureCookies(), cfg.RememberTTL)
	userHandler := handler.NewUserHandler(userService, deps.Activities)
	postHandler := handler.NewPostHandler(postService)

	session := middleware.Session(cfg.JWTSecret, presence)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.DB, deps.Redis).Readiness)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, session)
	auth.GET("/me", authHandler.Me, session)

	// --- User routes ---
	users := e.Group("/api/users", session)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.Update)
	users.GET("/me/activity", userHandler.Activity)
	users.GET("/:id", userHandler.Get)
	users.PUT("/follow/:id", userHandler.Follow)
	users.PUT("/unfollow/:id", userHandler.Unfollow)

	// --- Post routes ---
	posts := e.Group("/api/posts", session)
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.List)
	posts.GET("/feed", postHandler.Feed)
	posts.DELETE("/:id", postHandler.Delete)
	posts.PUT("/like/:id", postHandler.Like)
	posts.POST("/comment/:id", postHandler.Comment)

	// --- Admin routes ---
	admin := e.Group("/api/admin", session, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", userHandler.AdminList)

	return e
}
