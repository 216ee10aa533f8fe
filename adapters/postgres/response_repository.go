package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
	"surveyscope/ports"
)

// ResponseRepositoryImpl implements ResponseRepository for PostgreSQL
type ResponseRepositoryImpl struct {
	db *sqlx.DB
}

// NewResponseRepository creates a new PostgreSQL response repository
func NewResponseRepository(db *sqlx.DB) ports.ResponseRepository {
	return &ResponseRepositoryImpl{db: db}
}

// CreateBatch inserts a batch of responses in one transaction
func (r *ResponseRepositoryImpl) CreateBatch(ctx context.Context, responses []survey.Response) error {
	if len(responses) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, resp := range responses {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO responses (id, survey_id, question_id, respondent_id, answer_text, answer_option, answer_value)
			VALUES (:id, :survey_id, :question_id, :respondent_id, :answer_text, :answer_option, :answer_value)`, resp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListBySurvey returns every response for a survey in submission order
func (r *ResponseRepositoryImpl) ListBySurvey(ctx context.Context, surveyID core.SurveyID) ([]survey.Response, error) {
	var responses []survey.Response
	err := r.db.SelectContext(ctx, &responses,
		`SELECT * FROM responses WHERE survey_id = $1 ORDER BY created_at ASC`, surveyID.String())
	return responses, err
}

// CountBySurvey counts a survey's stored responses
func (r *ResponseRepositoryImpl) CountBySurvey(ctx context.Context, surveyID core.SurveyID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM responses WHERE survey_id = $1`, surveyID.String())
	return count, err
}
