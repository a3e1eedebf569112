package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/GuptaAyush04/Drug-Safety-Calculator/docs"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/config"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/handler"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/logger"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/schema"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/service"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/store"
	csvstore "github.com/GuptaAyush04/Drug-Safety-Calculator/internal/store/csv"
)

// @title Drug Safety Calculator Data API
// @version 1.0
// @description API for collecting clinical evaluation records and medication suggestions
// @host localhost:5001
// @BasePath /
// @schemes http https
func main() {
	// Environment variables win over .env entries; the file is optional.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables from OS")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServiceAPIPort),
		zap.String("data_dir", cfg.DataDir))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.ServiceHost

	ctx := context.Background()

	// Initialize record stores
	stores := map[schema.Kind]store.RecordStore{
		schema.KindEvaluation: csvstore.NewStore(
			filepath.Join(cfg.DataDir, schema.Evaluation.FileName),
			schema.Evaluation.Header(),
			log),
		schema.KindSuggestion: csvstore.NewStore(
			filepath.Join(cfg.DataDir, schema.Suggestion.FileName),
			schema.Suggestion.Header(),
			log),
	}

	// Stores are also ensured lazily on every submission; doing it here
	// surfaces storage problems at boot instead of on the first request.
	for kind, recordStore := range stores {
		if err := recordStore.Ensure(ctx); err != nil {
			log.Warn("Failed to initialize record store at startup",
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}

	// Initialize submission service
	submissionService := service.NewSubmissionService(stores, log)

	// Initialize handler
	h := handler.NewHandler(submissionService, log)

	addr := fmt.Sprintf(":%s", cfg.ServiceAPIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
