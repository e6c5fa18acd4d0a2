package routes

import (
	"log"

	"firetrack-backend/internal/api/handlers"
	"firetrack-backend/internal/api/middleware"
	"firetrack-backend/internal/repository"
	"firetrack-backend/internal/services"
	"firetrack-backend/pkg/cache"
	"firetrack-backend/pkg/clock"
	"firetrack-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database, redisClient *redis.Client) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, clock.System())
	equipmentService := services.NewEquipmentService(vehicleRepo, clock.System())

	// Wire the Redis-backed cache when available; services fall back to
	// direct repository reads when it is not.
	if redisClient != nil {
		fleetCache := cache.NewRedisFleetCache(redisClient.GetClient(), cache.DefaultCacheConfig())
		vehicleService.SetFleetCache(fleetCache)
		equipmentService.SetFleetCache(fleetCache)
		log.Println("Fleet cache enabled")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	router.GET("/health", healthHandler.HealthCheck)

	// API routes
	api := router.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		// Vehicles
		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vehicleHandler.GetVehicles)
			vehicles.POST("", vehicleHandler.CreateVehicle)
			vehicles.GET("/stats", vehicleHandler.GetFleetStats)
			vehicles.GET("/:id", vehicleHandler.GetVehicle)
			vehicles.PATCH("/:id/status", vehicleHandler.UpdateStatus)
			vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
			vehicles.GET("/:id/history", vehicleHandler.GetHistory)
			vehicles.POST("/:id/history", vehicleHandler.AddNote)

			// Equipment
			vehicles.GET("/:id/equipment", equipmentHandler.ListEquipment)
			vehicles.POST("/:id/equipment", equipmentHandler.AddEquipment)
			vehicles.DELETE("/:id/equipment/:eqId", equipmentHandler.RemoveEquipment)
			vehicles.POST("/:id/equipment/:eqId/verify", equipmentHandler.VerifyItem)
			vehicles.POST("/:id/equipment/:eqId/anomaly", equipmentHandler.ReportAnomaly)
			vehicles.POST("/:id/equipment/:eqId/resolve", equipmentHandler.QuickResolve)
			vehicles.PATCH("/:id/equipment/:eqId/notes", equipmentHandler.UpdateNotes)
		}

		// Users
		users := protected.Group("/users")
		{
			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}
}
