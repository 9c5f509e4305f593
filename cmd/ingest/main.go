// The ingest binary is the internal admin server: it browses the shared
// Google Drive folder and triggers analyses for clients that deliver
// their spreadsheets there instead of uploading through the API.
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/cache"
	"github.com/farmaindex/backend-go/internal/config"
	"github.com/farmaindex/backend-go/internal/drive"
	"github.com/farmaindex/backend-go/internal/repository/postgres"
	"github.com/farmaindex/backend-go/internal/service"
	"github.com/farmaindex/backend-go/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	curves, err := analysis.NewCurveConfig(cfg.Analysis.CurveAMin, cfg.Analysis.CurveBMin, cfg.Analysis.CurveCMin)
	if err != nil {
		log.Fatalf("Invalid curve thresholds: %v", err)
	}

	var store storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		store, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	}

	analysisService := service.NewAnalysisService(
		analysis.NewEngine(curves),
		postgres.NewRunRepository(db),
		postgres.NewClientRepository(db),
		store,
		cache.NewNoopRunCache(),
		cfg.Analysis.TopN,
	)
	ingestService := drive.NewIngestService(driveService, analysisService, cfg.Drive.FolderPath)

	r := mux.NewRouter()
	driveHandler := drive.NewHandler(driveService, ingestService)
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
