package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
	"surveyscope/ports"
)

// QuestionRepositoryImpl implements QuestionRepository for PostgreSQL
type QuestionRepositoryImpl struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new PostgreSQL question repository
func NewQuestionRepository(db *sqlx.DB) ports.QuestionRepository {
	return &QuestionRepositoryImpl{db: db}
}

// CreateBatch inserts a survey's questions in one transaction
func (r *QuestionRepositoryImpl) CreateBatch(ctx context.Context, questions []survey.Question) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range questions {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO questions (id, survey_id, question_text, question_type, options, is_required, order_index)
			VALUES (:id, :survey_id, :question_text, :question_type, :options, :is_required, :order_index)`, q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListBySurvey returns a survey's questions in display order
func (r *QuestionRepositoryImpl) ListBySurvey(ctx context.Context, surveyID core.SurveyID) ([]survey.Question, error) {
	var questions []survey.Question
	err := r.db.SelectContext(ctx, &questions,
		`SELECT * FROM questions WHERE survey_id = $1 ORDER BY order_index ASC`, surveyID.String())
	return questions, err
}
