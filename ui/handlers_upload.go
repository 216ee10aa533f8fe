package ui

import (
	"net/http"
)

// Uploaded spreadsheets are capped well above any realistic MS Forms export.
const maxUploadBytes = 32 << 20

// handleExcelAnalyze accepts a multipart form with a "file" field and runs
// the freeform spreadsheet pipeline, returning statistics, interpretations
// and artifact URLs in one response.
func (a *App) handleExcelAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file field")
		return
	}
	defer file.Close()

	schoolName := r.FormValue("schoolName")
	title := r.FormValue("title")

	result, err := a.pipeline.Analyze(r.Context(), header.Filename, file, schoolName, title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
