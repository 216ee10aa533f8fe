package ui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

type answerRequest struct {
	QuestionID   string   `json:"questionId"`
	AnswerText   *string  `json:"answerText,omitempty"`
	AnswerOption *string  `json:"answerOption,omitempty"`
	AnswerValue  *float64 `json:"answerValue,omitempty"`
}

type submitResponsesRequest struct {
	RespondentID string          `json:"respondentId"`
	Answers      []answerRequest `json:"answers"`
}

// handleSubmitResponses stores one respondent's answers to a survey. Closed
// and analyzed surveys no longer accept responses.
func (a *App) handleSubmitResponses(w http.ResponseWriter, r *http.Request) {
	surveyID, err := core.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req submitResponsesRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid responses payload")
		return
	}
	if len(req.Answers) == 0 {
		badRequest(w, "at least one answer is required")
		return
	}

	sv, err := a.surveys.Get(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if sv.Status == survey.StatusClosed || sv.Status == survey.StatusAnalyzed {
		writeError(w, core.ErrSurveyClosed)
		return
	}

	questions, err := a.questions.ListBySurvey(r.Context(), surveyID)
	if err != nil {
		writeError(w, err)
		return
	}
	known := make(map[core.QuestionID]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	respondentID := req.RespondentID
	if respondentID == "" {
		respondentID = core.NewID().String()
	}

	now := time.Now()
	responses := make([]survey.Response, 0, len(req.Answers))
	for _, ans := range req.Answers {
		questionID, err := core.ParseQuestionID(ans.QuestionID)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		if !known[questionID] {
			badRequest(w, fmt.Sprintf("question %s does not belong to this survey", questionID))
			return
		}
		responses = append(responses, survey.Response{
			ID:           core.ResponseID(core.NewID()),
			SurveyID:     surveyID,
			QuestionID:   questionID,
			RespondentID: respondentID,
			AnswerText:   ans.AnswerText,
			AnswerOption: ans.AnswerOption,
			AnswerValue:  ans.AnswerValue,
			CreatedAt:    now,
		})
	}
	if err := a.responses.CreateBatch(r.Context(), responses); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"respondentId": respondentID,
		"stored":       len(responses),
	})
}
