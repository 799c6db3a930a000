package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/config"
	"github.com/rileyblackwell/Imagi-sub001/internal/database"
	"github.com/rileyblackwell/Imagi-sub001/internal/handlers"
	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
	"github.com/rileyblackwell/Imagi-sub001/internal/routes"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
)

// Server bundles the HTTP server with the resources that need explicit
// teardown on shutdown.
type Server struct {
	HTTP    *http.Server
	Preview *services.PreviewService
	logger  *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	pool, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if err := database.RunMigrations(pool, logger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis at %s: %w", cfg.Redis.GetAddress(), err)
		}
		logger.Info("Connected to Redis successfully")
	}

	// Dependency injection
	userRepo := repositories.NewUserRepository(pool)
	sessionRepo := repositories.NewSessionRepository(pool)
	redisRepo := repositories.NewRedisRepository(rdb)
	projectRepo := repositories.NewProjectRepository(pool)
	fileRepo := repositories.NewProjectFileRepository(pool)

	locks := services.NewProjectLocks()
	registry := services.NewProcessRegistry()
	allocator := services.NewPortAllocator(logger)

	userService := services.NewUserService(userRepo, sessionRepo, redisRepo, logger)
	fileService := services.NewFileService(projectRepo, fileRepo, locks, logger)
	versionService := services.NewVersionControlService(projectRepo, locks, logger)
	previewService := services.NewPreviewService(projectRepo, registry, allocator, &cfg.Preview, cfg.Projects.Root, logger)
	scaffoldService := services.NewScaffoldService(logger)
	projectService := services.NewProjectService(projectRepo, scaffoldService, versionService, previewService, &cfg.Projects, logger)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	fileHandler := handlers.NewFileHandler(fileService, versionService)
	versionHandler := handlers.NewVersionHandler(versionService)
	previewHandler := handlers.NewPreviewHandler(previewService)

	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, authHandler, userHandler, projectHandler, fileHandler, versionHandler, previewHandler, userRepo)

	httpServer := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return &Server{
		HTTP:    httpServer,
		Preview: previewService,
		logger:  logger,
	}, nil
}

// Shutdown stops the HTTP listener, tears down every running dev server and
// closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)

	s.Preview.StopAll()
	database.Close()

	return err
}
