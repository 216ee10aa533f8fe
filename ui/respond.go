package ui

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"surveyscope/domain/core"
	apperrors "surveyscope/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps domain and application errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrSurveyNotReady),
		errors.Is(err, core.ErrSurveyClosed),
		errors.Is(err, core.ErrTooFewResponses),
		errors.Is(err, core.ErrEmptyWorkbook),
		errors.Is(err, core.ErrNoQuestionColumns),
		errors.Is(err, core.ErrUnsupportedFile):
		status = http.StatusUnprocessableEntity
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeNotFound:
			status = http.StatusNotFound
		case apperrors.CodeInvalidInput, apperrors.CodeValidationError, apperrors.CodeSpreadsheetInvalid:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, Code: apperrors.CodeInvalidInput})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
