package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"surveyscope/app"
	"surveyscope/ports"
)

// App is the HTTP application: JSON API plus artifact serving. There is no
// session or cookie handling here.
type App struct {
	router *chi.Mux

	schools   ports.SchoolRepository
	surveys   ports.SurveyRepository
	questions ports.QuestionRepository
	responses ports.ResponseRepository
	analyses  ports.AnalysisRepository

	analyzer *app.Analyzer
	pipeline *app.ExcelPipeline

	artifactDir string
}

// Deps bundles the application's collaborators.
type Deps struct {
	Schools   ports.SchoolRepository
	Surveys   ports.SurveyRepository
	Questions ports.QuestionRepository
	Responses ports.ResponseRepository
	Analyses  ports.AnalysisRepository

	Analyzer *app.Analyzer
	Pipeline *app.ExcelPipeline

	ArtifactDir string
}

// NewApp creates the HTTP application
func NewApp(deps Deps) *App {
	a := &App{
		router:      chi.NewRouter(),
		schools:     deps.Schools,
		surveys:     deps.Surveys,
		questions:   deps.Questions,
		responses:   deps.Responses,
		analyses:    deps.Analyses,
		analyzer:    deps.Analyzer,
		pipeline:    deps.Pipeline,
		artifactDir: deps.ArtifactDir,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router exposes the configured router
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	// Schools
	a.router.Post("/api/schools", a.handleCreateSchool)
	a.router.Get("/api/schools", a.handleListSchools)
	a.router.Get("/api/schools/{id}", a.handleGetSchool)
	a.router.Put("/api/schools/{id}", a.handleUpdateSchool)
	a.router.Get("/api/schools/{id}/surveys", a.handleListSurveys)

	// Surveys and questions
	a.router.Post("/api/surveys", a.handleCreateSurvey)
	a.router.Get("/api/surveys/{id}", a.handleGetSurvey)
	a.router.Post("/api/surveys/{id}/status", a.handleUpdateSurveyStatus)
	a.router.Post("/api/surveys/{id}/questions", a.handleCreateQuestions)
	a.router.Get("/api/surveys/{id}/questions", a.handleListQuestions)

	// Responses
	a.router.Post("/api/surveys/{id}/responses", a.handleSubmitResponses)

	// Analysis
	a.router.Get("/api/surveys/{id}/readiness", a.handleReadiness)
	a.router.Post("/api/surveys/{id}/analyze", a.handleAnalyze)
	a.router.Get("/api/surveys/{id}/analysis", a.handleGetAnalysis)

	// Freeform spreadsheet analysis
	a.router.Post("/api/excel/analyze", a.handleExcelAnalyze)

	// Generated artifacts
	fileServer := http.FileServer(http.Dir(a.artifactDir))
	a.router.Handle("/artifacts/*", http.StripPrefix("/artifacts/", fileServer))
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
