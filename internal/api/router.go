package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/benhaham/findscooter/internal/app"
	iauth "github.com/benhaham/findscooter/internal/auth"
	"github.com/benhaham/findscooter/internal/handlers"
	"github.com/benhaham/findscooter/internal/middleware"
	"github.com/benhaham/findscooter/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, accounts *services.AccountService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health(db))

	accountHandler := handlers.NewAccountHandler(accounts)

	scooterSvc, err := services.NewScooterService(db)
	if err != nil {
		return nil, err
	}
	scooterHandler := handlers.NewScooterHandler(scooterSvc)

	requireAuth := middleware.Auth(jwt)

	// Public account routes
	account := r.Group("/api/account")
	{
		account.POST("/signup", accountHandler.Signup)
		account.POST("/verify", accountHandler.Verify)
		account.POST("/login", accountHandler.Login)
	}

	// Authenticated account routes
	account.GET("/users", requireAuth, accountHandler.List)
	account.PUT("/updateAccount/:id", requireAuth, accountHandler.Update)
	account.DELETE("/deleteAccount/:id", requireAuth, accountHandler.Delete)

	// Scooters
	product := r.Group("/api/product")
	product.Use(requireAuth)
	{
		product.POST("/addProduct", scooterHandler.Add)
		product.POST("/getAllScooters", scooterHandler.ListNearby)
	}

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
