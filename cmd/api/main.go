package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/config"
	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/db/queries"
	"github.com/ASHISH26940/fablemaze-api/pkg/handlers"
	"github.com/ASHISH26940/fablemaze-api/pkg/predictor"
	"github.com/ASHISH26940/fablemaze-api/pkg/seed"
	"github.com/ASHISH26940/fablemaze-api/pkg/services"
	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetOutput(gin.DefaultWriter)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting Fablemaze API...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, keeping info", cfg.LogLevel)
	} else {
		log.SetLevel(level)
	}

	// Schema setup finishes before anything else touches the database.
	if err := db.PrepareSchema(cfg.DatabasePath, cfg.SchemaMode == config.SchemaModeReset); err != nil {
		log.Fatalf("Failed to prepare database schema: %v", err)
	}

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(conn)

	users := queries.NewUserDAO(conn)
	movies := queries.NewMovieDAO(conn)
	scenes := queries.NewSceneDAO(conn)
	variants := queries.NewSceneVariantDAO(conn)

	if cfg.SeedCatalog {
		if _, err := seed.LoadCatalogue(context.Background(), movies, scenes, variants); err != nil {
			log.Fatalf("Failed to seed demo catalogue: %v", err)
		}
	}

	apiHandlers := &handlers.Handlers{
		DB:        conn,
		Auth:      services.NewAuthService(users),
		Tokens:    services.NewTokenService(cfg.JwtSecret, cfg.TokenTTL),
		Profiles:  services.NewProfileService(users),
		Sequences: services.NewSequenceService(movies, scenes, variants),
		Viewing: services.NewViewingService(
			queries.NewViewingSessionDAO(conn),
			queries.NewSceneViewingDAO(conn),
			queries.NewDropOffDAO(conn),
			variants),
		Predictor: predictor.NewClient(cfg.PredictorURL, cfg.PredictorTimeout),
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	apiHandlers.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully.")
}
