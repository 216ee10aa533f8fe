package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

type createSurveyRequest struct {
	SchoolID       string `json:"schoolId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Purpose        string `json:"purpose"`
	TargetAudience string `json:"targetAudience"`
}

func (a *App) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req createSurveyRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid survey payload")
		return
	}
	if req.Title == "" {
		badRequest(w, "survey title is required")
		return
	}
	schoolID, err := core.ParseSchoolID(req.SchoolID)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	// The school must exist before a survey can reference it.
	if _, err := a.schools.Get(r.Context(), schoolID); err != nil {
		writeError(w, err)
		return
	}

	sv := &survey.Survey{
		ID:             core.SurveyID(core.NewID()),
		SchoolID:       schoolID,
		Title:          req.Title,
		Description:    req.Description,
		Purpose:        req.Purpose,
		TargetAudience: req.TargetAudience,
		Status:         survey.StatusDraft,
	}
	if err := a.surveys.Create(r.Context(), sv); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sv)
}

func (a *App) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	sv, err := a.surveys.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (a *App) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	schoolID, err := core.ParseSchoolID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	surveys, err := a.surveys.ListBySchool(r.Context(), schoolID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

type statusRequest struct {
	Status survey.SurveyStatus `json:"status"`
}

func (a *App) handleUpdateSurveyStatus(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid status payload")
		return
	}
	switch req.Status {
	case survey.StatusDraft, survey.StatusActive, survey.StatusClosed, survey.StatusAnalyzed:
	default:
		badRequest(w, "unknown survey status")
		return
	}
	if err := a.surveys.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

type questionRequest struct {
	QuestionText string              `json:"questionText"`
	QuestionType survey.QuestionType `json:"questionType"`
	Options      []string            `json:"options"`
	IsRequired   bool                `json:"isRequired"`
}

type createQuestionsRequest struct {
	Questions []questionRequest `json:"questions"`
}

func (a *App) handleCreateQuestions(w http.ResponseWriter, r *http.Request) {
	surveyID, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req createQuestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid questions payload")
		return
	}
	if len(req.Questions) == 0 {
		badRequest(w, "at least one question is required")
		return
	}
	if _, err := a.surveys.Get(r.Context(), surveyID); err != nil {
		writeError(w, err)
		return
	}

	// Order continues after any existing questions.
	existing, err := a.questions.ListBySurvey(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	questions := make([]survey.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		if q.QuestionText == "" {
			badRequest(w, "question text is required")
			return
		}
		if !q.QuestionType.Valid() {
			badRequest(w, "unknown question type")
			return
		}
		if q.QuestionType.IsCategorical() && len(q.Options) == 0 {
			badRequest(w, "options are required for categorical questions")
			return
		}
		questions = append(questions, survey.Question{
			ID:         core.QuestionID(core.NewID()),
			SurveyID:   surveyID,
			Text:       q.QuestionText,
			Type:       q.QuestionType,
			Options:    q.Options,
			IsRequired: q.IsRequired,
			OrderIndex: len(existing) + i,
			CreatedAt:  now,
		})
	}
	if err := a.questions.CreateBatch(r.Context(), questions); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, questions)
}

func (a *App) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	surveyID, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	questions, err := a.questions.ListBySurvey(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}
