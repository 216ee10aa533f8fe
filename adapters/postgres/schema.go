package postgres

import (
	"log"

	"github.com/jmoiron/sqlx"

	"surveyscope/internal/errors"
)

// schema is applied at startup; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS schools (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	principal_name TEXT NOT NULL DEFAULT '',
	academic_deputy_name TEXT NOT NULL DEFAULT '',
	administrative_deputy_name TEXT NOT NULL DEFAULT '',
	academic_year VARCHAR(20) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS surveys (
	id UUID PRIMARY KEY,
	school_id UUID NOT NULL REFERENCES schools(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	purpose TEXT NOT NULL DEFAULT '',
	target_audience VARCHAR(100) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'draft',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	closed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS questions (
	id UUID PRIMARY KEY,
	survey_id UUID NOT NULL REFERENCES surveys(id),
	question_text TEXT NOT NULL,
	question_type VARCHAR(20) NOT NULL,
	options JSONB,
	is_required BOOLEAN NOT NULL DEFAULT TRUE,
	order_index INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS responses (
	id UUID PRIMARY KEY,
	survey_id UUID NOT NULL REFERENCES surveys(id),
	question_id UUID NOT NULL REFERENCES questions(id),
	respondent_id VARCHAR(100) NOT NULL DEFAULT '',
	answer_text TEXT,
	answer_option VARCHAR(255),
	answer_value DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_responses_survey ON responses(survey_id);
CREATE INDEX IF NOT EXISTS idx_responses_question ON responses(question_id);

CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	survey_id UUID NOT NULL UNIQUE REFERENCES surveys(id),
	statistical_data JSONB,
	interpretations JSONB,
	overall_summary TEXT NOT NULL DEFAULT '',
	strengths JSONB,
	improvements JSONB,
	recommendations JSONB,
	presentation_url TEXT NOT NULL DEFAULT '',
	report_url TEXT NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'processing',
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);
`

// EnsureSchema creates all tables if they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	log.Println("[Postgres] Ensuring schema")
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to ensure database schema")
	}
	return nil
}
