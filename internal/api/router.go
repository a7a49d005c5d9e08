package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/stansns/crud/docs"
	"github.com/stansns/crud/internal/api/handler"
	"github.com/stansns/crud/internal/core/ports"
	"github.com/stansns/crud/internal/core/service"
	mongostore "github.com/stansns/crud/internal/infrastructure/db/mongo"
	redisstore "github.com/stansns/crud/internal/infrastructure/db/redis"
	"github.com/stansns/crud/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// location may be nil, in which case registered users get no geolocation.
func NewRouter(db *mongo.Database, rdb *redis.Client, location ports.LocationProvider) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(echoprometheus.NewMiddleware("crud"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	mutationGuard := redisstore.NewMutationGuard(rdb)
	authService := service.NewAuthService(userRepo, location)
	homeService := service.NewHomeService(userRepo, mutationGuard)
	authHandler := handler.NewAuthHandler(authService)
	homeHandler := handler.NewHomeHandler(homeService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Directory routes: every verb on /home re-authenticates from the
	// email/password query parameters; there is no server-side session. ---
	e.GET("/home", homeHandler.GetUsers)
	e.DELETE("/home", homeHandler.DeleteUser)
	e.PATCH("/home", homeHandler.EditPhoneNumber)
	e.PUT("/home", homeHandler.EditUser)
	e.POST("/home", homeHandler.LogoutUser)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
