package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyscope/adapters/storage"
	"surveyscope/app"
	"surveyscope/domain/analysis"
	"surveyscope/domain/core"
	"surveyscope/domain/survey"
	"surveyscope/ports"
	"surveyscope/report"
)

type memSchoolRepo struct{ schools map[core.SchoolID]*survey.School }

func (r *memSchoolRepo) Create(ctx context.Context, s *survey.School) error {
	r.schools[s.ID] = s
	return nil
}

func (r *memSchoolRepo) Get(ctx context.Context, id core.SchoolID) (*survey.School, error) {
	s, ok := r.schools[id]
	if !ok {
		return nil, core.ErrSchoolNotFound
	}
	return s, nil
}

func (r *memSchoolRepo) List(ctx context.Context) ([]survey.School, error) {
	out := make([]survey.School, 0, len(r.schools))
	for _, s := range r.schools {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSchoolRepo) Update(ctx context.Context, s *survey.School) error {
	if _, ok := r.schools[s.ID]; !ok {
		return core.ErrSchoolNotFound
	}
	r.schools[s.ID] = s
	return nil
}

type memSurveyRepo struct{ surveys map[core.SurveyID]*survey.Survey }

func (r *memSurveyRepo) Create(ctx context.Context, s *survey.Survey) error {
	r.surveys[s.ID] = s
	return nil
}

func (r *memSurveyRepo) Get(ctx context.Context, id core.SurveyID) (*survey.Survey, error) {
	s, ok := r.surveys[id]
	if !ok {
		return nil, core.ErrSurveyNotFound
	}
	return s, nil
}

func (r *memSurveyRepo) ListBySchool(ctx context.Context, schoolID core.SchoolID) ([]survey.Survey, error) {
	var out []survey.Survey
	for _, s := range r.surveys {
		if s.SchoolID == schoolID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSurveyRepo) UpdateStatus(ctx context.Context, id core.SurveyID, status survey.SurveyStatus) error {
	s, ok := r.surveys[id]
	if !ok {
		return core.ErrSurveyNotFound
	}
	s.Status = status
	return nil
}

type memQuestionRepo struct{ questions []survey.Question }

func (r *memQuestionRepo) CreateBatch(ctx context.Context, qs []survey.Question) error {
	r.questions = append(r.questions, qs...)
	return nil
}

func (r *memQuestionRepo) ListBySurvey(ctx context.Context, surveyID core.SurveyID) ([]survey.Question, error) {
	var out []survey.Question
	for _, q := range r.questions {
		if q.SurveyID == surveyID {
			out = append(out, q)
		}
	}
	return out, nil
}

type memResponseRepo struct{ responses []survey.Response }

func (r *memResponseRepo) CreateBatch(ctx context.Context, rs []survey.Response) error {
	r.responses = append(r.responses, rs...)
	return nil
}

func (r *memResponseRepo) ListBySurvey(ctx context.Context, surveyID core.SurveyID) ([]survey.Response, error) {
	var out []survey.Response
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *memResponseRepo) CountBySurvey(ctx context.Context, surveyID core.SurveyID) (int, error) {
	n := 0
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			n++
		}
	}
	return n, nil
}

type memAnalysisRepo struct{ records map[core.SurveyID]*survey.Analysis }

func (r *memAnalysisRepo) Upsert(ctx context.Context, a *survey.Analysis) error {
	stored := *a
	r.records[a.SurveyID] = &stored
	return nil
}

func (r *memAnalysisRepo) GetBySurvey(ctx context.Context, surveyID core.SurveyID) (*survey.Analysis, error) {
	rec, ok := r.records[surveyID]
	if !ok {
		return nil, core.ErrAnalysisNotFound
	}
	return rec, nil
}

type stubInterpreter struct{}

func (stubInterpreter) InterpretQuestion(ctx context.Context, sc ports.SurveyContext, stat analysis.QuestionStatistics) (*ports.QuestionInterpretation, error) {
	return &ports.QuestionInterpretation{QuestionID: stat.QuestionID, Interpretation: "تفسير"}, nil
}

func (stubInterpreter) Summarize(ctx context.Context, sc ports.SurveyContext, stats []analysis.QuestionStatistics, interps []ports.QuestionInterpretation) (*ports.OverallAnalysis, error) {
	return &ports.OverallAnalysis{OverallSummary: "ملخص"}, nil
}

func newTestApp(t *testing.T) (*App, *memSurveyRepo, *memSchoolRepo) {
	t.Helper()

	schools := &memSchoolRepo{schools: map[core.SchoolID]*survey.School{}}
	surveys := &memSurveyRepo{surveys: map[core.SurveyID]*survey.Survey{}}
	questions := &memQuestionRepo{}
	responses := &memResponseRepo{}
	analyses := &memAnalysisRepo{records: map[core.SurveyID]*survey.Analysis{}}

	store, err := storage.NewLocalStore(t.TempDir(), "/artifacts")
	require.NoError(t, err)
	renderer, err := report.NewRenderer()
	require.NoError(t, err)

	analyzer := app.NewAnalyzer(app.AnalyzerDeps{
		Schools:     schools,
		Surveys:     surveys,
		Questions:   questions,
		Responses:   responses,
		Analyses:    analyses,
		Interpreter: stubInterpreter{},
		Renderer:    renderer,
		Store:       store,
	}, 5, 2)
	pipeline := app.NewExcelPipeline(stubInterpreter{}, renderer, store, 2)

	return NewApp(Deps{
		Schools:     schools,
		Surveys:     surveys,
		Questions:   questions,
		Responses:   responses,
		Analyses:    analyses,
		Analyzer:    analyzer,
		Pipeline:    pipeline,
		ArtifactDir: store.Root(),
	}), surveys, schools
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createSchool(t *testing.T, handler http.Handler) survey.School {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/schools", map[string]string{
		"name":         "مدرسة قطر الابتدائية",
		"academicYear": "2025-2026",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var s survey.School
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func createSurvey(t *testing.T, handler http.Handler, schoolID core.SchoolID) survey.Survey {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/surveys", map[string]string{
		"schoolId": schoolID.String(),
		"title":    "استبيان رضا أولياء الأمور",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var s survey.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestHealthEndpoint(t *testing.T) {
	a, _, _ := newTestApp(t)
	rec := doJSON(t, a.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSchoolLifecycle(t *testing.T) {
	a, _, _ := newTestApp(t)
	router := a.Router()

	school := createSchool(t, router)
	assert.NotEmpty(t, school.ID)

	rec := doJSON(t, router, http.MethodGet, "/api/schools/"+school.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/schools/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/schools", map[string]string{"academicYear": "2025"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSurveyAndQuestionFlow(t *testing.T) {
	a, _, _ := newTestApp(t)
	router := a.Router()

	school := createSchool(t, router)
	sv := createSurvey(t, router, school.ID)
	assert.Equal(t, survey.StatusDraft, sv.Status)

	// A survey for an unknown school is rejected.
	rec := doJSON(t, router, http.MethodPost, "/api/surveys", map[string]string{
		"schoolId": "missing", "title": "عنوان",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/questions", map[string]interface{}{
		"questions": []map[string]interface{}{
			{"questionText": "التقييم العام", "questionType": "rating"},
			{"questionText": "هل توصي بالمدرسة؟", "questionType": "yes_no", "options": []string{"نعم", "لا"}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created []survey.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 2)
	assert.Equal(t, 0, created[0].OrderIndex)
	assert.Equal(t, 1, created[1].OrderIndex)

	// Categorical questions require options.
	rec = doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/questions", map[string]interface{}{
		"questions": []map[string]interface{}{
			{"questionText": "سؤال ناقص", "questionType": "multiple_choice"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/surveys/"+sv.ID.String()+"/questions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseSubmission(t *testing.T) {
	a, surveys, _ := newTestApp(t)
	router := a.Router()

	school := createSchool(t, router)
	sv := createSurvey(t, router, school.ID)

	rec := doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/questions", map[string]interface{}{
		"questions": []map[string]interface{}{
			{"questionText": "التقييم العام", "questionType": "rating"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created []survey.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/responses", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"questionId": created[0].ID.String(), "answerValue": 5},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Answers to foreign questions are rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/responses", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"questionId": "other-question", "answerValue": 3},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Closed surveys no longer accept responses.
	surveys.surveys[sv.ID].Status = survey.StatusClosed
	rec = doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/responses", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"questionId": created[0].ID.String(), "answerValue": 4},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReadinessAndAnalyze(t *testing.T) {
	a, _, _ := newTestApp(t)
	router := a.Router()

	school := createSchool(t, router)
	sv := createSurvey(t, router, school.ID)

	rec := doJSON(t, router, http.MethodGet, "/api/surveys/"+sv.ID.String()+"/readiness", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var readiness app.Readiness
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readiness))
	assert.False(t, readiness.Ready)

	// Analysis refuses to start before the survey is ready.
	rec = doJSON(t, router, http.MethodPost, "/api/surveys/"+sv.ID.String()+"/analyze", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// No analysis stored yet.
	rec = doJSON(t, router, http.MethodGet, "/api/surveys/"+sv.ID.String()+"/analysis", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExcelAnalyzeEndpoint(t *testing.T) {
	a, _, _ := newTestApp(t)

	csvData := "التقييم العام,هل توصي بالمدرسة؟\n"
	ratings := []string{"5", "4", "3", "4", "5"}
	recommend := []string{"نعم", "نعم", "لا", "نعم", "احيانا"}
	for i := range ratings {
		csvData += fmt.Sprintf("%s,%s\n", ratings[i], recommend[i])
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvData))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("schoolName", "مدرسة قطر"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/excel/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Statistics is a tagged variant, so read back only the envelope fields.
	var result struct {
		TotalResponses int `json:"totalResponses"`
		Questions      []struct {
			QuestionType string `json:"questionType"`
		} `json:"questions"`
		PresentationURL string `json:"presentationUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 5, result.TotalResponses)
	assert.Len(t, result.Questions, 2)
	assert.Contains(t, result.PresentationURL, "/artifacts/")

	// Missing file field.
	req = httptest.NewRequest(http.MethodPost, "/api/excel/analyze", strings.NewReader("no file"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
