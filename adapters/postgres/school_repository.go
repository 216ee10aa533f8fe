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

// SchoolRepositoryImpl implements SchoolRepository for PostgreSQL
type SchoolRepositoryImpl struct {
	db *sqlx.DB
}

// NewSchoolRepository creates a new PostgreSQL school repository
func NewSchoolRepository(db *sqlx.DB) ports.SchoolRepository {
	return &SchoolRepositoryImpl{db: db}
}

// Create inserts a new school
func (r *SchoolRepositoryImpl) Create(ctx context.Context, s *survey.School) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO schools (id, name, principal_name, academic_deputy_name, administrative_deputy_name, academic_year)
		VALUES (:id, :name, :principal_name, :academic_deputy_name, :administrative_deputy_name, :academic_year)`, s)
	return err
}

// Get fetches one school by id
func (r *SchoolRepositoryImpl) Get(ctx context.Context, id core.SchoolID) (*survey.School, error) {
	var s survey.School
	err := r.db.GetContext(ctx, &s, `SELECT * FROM schools WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSchoolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all schools, newest first
func (r *SchoolRepositoryImpl) List(ctx context.Context) ([]survey.School, error) {
	var schools []survey.School
	err := r.db.SelectContext(ctx, &schools, `SELECT * FROM schools ORDER BY created_at DESC`)
	return schools, err
}

// Update rewrites a school's mutable fields
func (r *SchoolRepositoryImpl) Update(ctx context.Context, s *survey.School) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE schools SET
			name = :name,
			principal_name = :principal_name,
			academic_deputy_name = :academic_deputy_name,
			administrative_deputy_name = :administrative_deputy_name,
			academic_year = :academic_year,
			updated_at = NOW()
		WHERE id = :id`, s)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrSchoolNotFound
	}
	return nil
}
