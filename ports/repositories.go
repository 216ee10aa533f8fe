package ports

import (
	"context"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

// SchoolRepository persists schools.
type SchoolRepository interface {
	Create(ctx context.Context, school *survey.School) error
	Get(ctx context.Context, id core.SchoolID) (*survey.School, error)
	List(ctx context.Context) ([]survey.School, error)
	Update(ctx context.Context, school *survey.School) error
}

// SurveyRepository persists survey metadata.
type SurveyRepository interface {
	Create(ctx context.Context, s *survey.Survey) error
	Get(ctx context.Context, id core.SurveyID) (*survey.Survey, error)
	ListBySchool(ctx context.Context, schoolID core.SchoolID) ([]survey.Survey, error)
	UpdateStatus(ctx context.Context, id core.SurveyID, status survey.SurveyStatus) error
}

// QuestionRepository persists survey questions.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []survey.Question) error
	ListBySurvey(ctx context.Context, surveyID core.SurveyID) ([]survey.Question, error)
}

// ResponseRepository persists survey responses.
type ResponseRepository interface {
	CreateBatch(ctx context.Context, responses []survey.Response) error
	ListBySurvey(ctx context.Context, surveyID core.SurveyID) ([]survey.Response, error)
	CountBySurvey(ctx context.Context, surveyID core.SurveyID) (int, error)
}

// AnalysisRepository persists analysis runs; one analysis per survey.
type AnalysisRepository interface {
	Upsert(ctx context.Context, a *survey.Analysis) error
	GetBySurvey(ctx context.Context, surveyID core.SurveyID) (*survey.Analysis, error)
}
