package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

type schoolRequest struct {
	Name                     string `json:"name"`
	PrincipalName            string `json:"principalName"`
	AcademicDeputyName       string `json:"academicDeputyName"`
	AdministrativeDeputyName string `json:"administrativeDeputyName"`
	AcademicYear             string `json:"academicYear"`
}

func (a *App) handleCreateSchool(w http.ResponseWriter, r *http.Request) {
	var req schoolRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid school payload")
		return
	}
	if req.Name == "" {
		badRequest(w, "school name is required")
		return
	}

	school := &survey.School{
		ID:                       core.SchoolID(core.NewID()),
		Name:                     req.Name,
		PrincipalName:            req.PrincipalName,
		AcademicDeputyName:       req.AcademicDeputyName,
		AdministrativeDeputyName: req.AdministrativeDeputyName,
		AcademicYear:             req.AcademicYear,
	}
	if err := a.schools.Create(r.Context(), school); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, school)
}

func (a *App) handleListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := a.schools.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schools)
}

func (a *App) handleGetSchool(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSchoolID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	school, err := a.schools.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, school)
}

func (a *App) handleUpdateSchool(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSchoolID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req schoolRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid school payload")
		return
	}

	school, err := a.schools.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Name != "" {
		school.Name = req.Name
	}
	if req.PrincipalName != "" {
		school.PrincipalName = req.PrincipalName
	}
	if req.AcademicDeputyName != "" {
		school.AcademicDeputyName = req.AcademicDeputyName
	}
	if req.AdministrativeDeputyName != "" {
		school.AdministrativeDeputyName = req.AdministrativeDeputyName
	}
	if req.AcademicYear != "" {
		school.AcademicYear = req.AcademicYear
	}
	if err := a.schools.Update(r.Context(), school); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, school)
}
