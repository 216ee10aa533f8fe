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

// AnalysisRepositoryImpl implements AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

// Upsert writes an analysis run. The survey_id unique constraint keeps one
// analysis per survey; a new run replaces the prior result in full.
func (r *AnalysisRepositoryImpl) Upsert(ctx context.Context, a *survey.Analysis) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO analyses (
			id, survey_id, statistical_data, interpretations, overall_summary,
			strengths, improvements, recommendations,
			presentation_url, report_url, status, error_message, completed_at
		) VALUES (
			:id, :survey_id, :statistical_data, :interpretations, :overall_summary,
			:strengths, :improvements, :recommendations,
			:presentation_url, :report_url, :status, :error_message, :completed_at
		)
		ON CONFLICT (survey_id) DO UPDATE SET
			statistical_data = EXCLUDED.statistical_data,
			interpretations = EXCLUDED.interpretations,
			overall_summary = EXCLUDED.overall_summary,
			strengths = EXCLUDED.strengths,
			improvements = EXCLUDED.improvements,
			recommendations = EXCLUDED.recommendations,
			presentation_url = EXCLUDED.presentation_url,
			report_url = EXCLUDED.report_url,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW()`, a)
	return err
}

// GetBySurvey fetches the analysis for a survey
func (r *AnalysisRepositoryImpl) GetBySurvey(ctx context.Context, surveyID core.SurveyID) (*survey.Analysis, error) {
	var a survey.Analysis
	err := r.db.GetContext(ctx, &a, `SELECT * FROM analyses WHERE survey_id = $1`, surveyID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
