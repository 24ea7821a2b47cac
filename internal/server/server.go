package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"aoi-backend/internal/config"
	"aoi-backend/internal/database"
	"aoi-backend/internal/handlers"
	"aoi-backend/internal/middlewares"
	"aoi-backend/internal/repositories"
	"aoi-backend/internal/routes"
	"aoi-backend/internal/services"
)

func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	pool, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Dependency injection
	problemCodeRepo := repositories.NewProblemCodeRepository(pool)
	formRepo := repositories.NewFormRepository(pool)
	defectSource := services.NewDefectSource(config.Catalog(), logger)
	catalogService := services.NewCatalogService(defectSource, problemCodeRepo, logger)
	formService := services.NewFormService(formRepo, catalogService, logger)
	formHandler := handlers.NewFormHandler(formService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middlewares.RequestLogger(logger))
	routes.RegisterRoutes(router, formHandler, catalogHandler)

	// Create and configure the HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
