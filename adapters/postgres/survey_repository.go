package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
	"surveyscope/ports"
)

// SurveyRepositoryImpl implements SurveyRepository for PostgreSQL
type SurveyRepositoryImpl struct {
	db *sqlx.DB
}

// NewSurveyRepository creates a new PostgreSQL survey repository
func NewSurveyRepository(db *sqlx.DB) ports.SurveyRepository {
	return &SurveyRepositoryImpl{db: db}
}

// Create inserts a new survey
func (r *SurveyRepositoryImpl) Create(ctx context.Context, s *survey.Survey) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO surveys (id, school_id, title, description, purpose, target_audience, status)
		VALUES (:id, :school_id, :title, :description, :purpose, :target_audience, :status)`, s)
	return err
}

// Get fetches one survey by id
func (r *SurveyRepositoryImpl) Get(ctx context.Context, id core.SurveyID) (*survey.Survey, error) {
	var s survey.Survey
	err := r.db.GetContext(ctx, &s, `SELECT * FROM surveys WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListBySchool returns a school's surveys, newest first
func (r *SurveyRepositoryImpl) ListBySchool(ctx context.Context, schoolID core.SchoolID) ([]survey.Survey, error) {
	var surveys []survey.Survey
	err := r.db.SelectContext(ctx, &surveys,
		`SELECT * FROM surveys WHERE school_id = $1 ORDER BY created_at DESC`, schoolID.String())
	return surveys, err
}

// UpdateStatus moves a survey through its lifecycle, stamping closed_at on close
func (r *SurveyRepositoryImpl) UpdateStatus(ctx context.Context, id core.SurveyID, status survey.SurveyStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE surveys SET
			status = $2,
			closed_at = CASE WHEN $2 = 'closed' THEN NOW() ELSE closed_at END,
			updated_at = NOW()
		WHERE id = $1`, id.String(), string(status))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrSurveyNotFound
	}
	return nil
}
