package main

import (
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"surveyscope/adapters/postgres"
	"surveyscope/adapters/storage"
	"surveyscope/ai"
	"surveyscope/app"
	"surveyscope/internal/config"
	"surveyscope/internal/errors"
	"surveyscope/report"
	"surveyscope/ui"
)

// initDatabase connects to PostgreSQL and ensures the schema exists.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.EnsureSchema(db); err != nil {
		return nil, errors.Wrap(err, "schema setup failed")
	}
	return db, nil
}

func main() {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Println("[Main] No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Configuration error: %v", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("[Main] Database error: %v", err)
	}
	defer db.Close()
	log.Println("[Main] Database ready")

	store, err := storage.NewLocalStore(cfg.Storage.DataDir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("[Main] Storage error: %v", err)
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		log.Fatalf("[Main] Template error: %v", err)
	}

	interpreter := ai.NewInterpretationEngine(&cfg.AI)
	images := ai.NewImageGenerator(&cfg.AI)

	schools := postgres.NewSchoolRepository(db)
	surveys := postgres.NewSurveyRepository(db)
	questions := postgres.NewQuestionRepository(db)
	responses := postgres.NewResponseRepository(db)
	analyses := postgres.NewAnalysisRepository(db)

	analyzer := app.NewAnalyzer(app.AnalyzerDeps{
		Schools:     schools,
		Surveys:     surveys,
		Questions:   questions,
		Responses:   responses,
		Analyses:    analyses,
		Interpreter: interpreter,
		Images:      images,
		Renderer:    renderer,
		Store:       store,
	}, cfg.Analysis.MinResponses, cfg.Analysis.Workers)

	pipeline := app.NewExcelPipeline(interpreter, renderer, store, cfg.Analysis.Workers)

	application := ui.NewApp(ui.Deps{
		Schools:     schools,
		Surveys:     surveys,
		Questions:   questions,
		Responses:   responses,
		Analyses:    analyses,
		Analyzer:    analyzer,
		Pipeline:    pipeline,
		ArtifactDir: store.Root(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[Main] Listening on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("[Main] Server error: %v", err)
	}
}
