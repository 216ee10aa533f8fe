package ui

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"surveyscope/domain/core"
)

func (a *App) handleReadiness(w http.ResponseWriter, r *http.Request) {
	surveyID, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	readiness, err := a.analyzer.CheckReadiness(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readiness)
}

// handleAnalyze checks readiness synchronously and then runs the analysis in
// the background; clients poll GET /analysis for the result.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	surveyID, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	readiness, err := a.analyzer.CheckReadiness(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !readiness.Ready {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: readiness.Reason})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := a.analyzer.Run(ctx, surveyID); err != nil {
			log.Printf("[HTTP] Background analysis failed for survey %s: %v", surveyID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"surveyId": surveyID.String(),
		"status":   "processing",
	})
}

func (a *App) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	surveyID, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	record, err := a.analyses.GetBySurvey(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
