package ports

import (
	"context"

	"surveyscope/domain/analysis"
	"surveyscope/domain/core"
)

// QuestionInterpretation is the LLM-generated narrative for one question.
type QuestionInterpretation struct {
	QuestionID          core.QuestionID `json:"questionId,omitempty"`
	Interpretation      string          `json:"interpretation"`
	PedagogicalInsights string          `json:"pedagogicalInsights"`
	Impact              string          `json:"impact"`
}

// OverallAnalysis is the LLM-generated survey-level narrative.
type OverallAnalysis struct {
	OverallSummary  string   `json:"overallSummary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}

// SurveyContext carries the metadata interpolated into prompts.
type SurveyContext struct {
	SchoolName     string
	SurveyTitle    string
	Purpose        string
	TargetAudience string
	AcademicYear   string
}

// Interpreter produces educational narratives from computed statistics.
type Interpreter interface {
	InterpretQuestion(ctx context.Context, sc SurveyContext, stat analysis.QuestionStatistics) (*QuestionInterpretation, error)
	Summarize(ctx context.Context, sc SurveyContext, stats []analysis.QuestionStatistics, interps []QuestionInterpretation) (*OverallAnalysis, error)
}

// ImageGenerator produces themed illustration URLs for presentations.
// Implementations are best-effort; callers tolerate empty results.
type ImageGenerator interface {
	GenerateForThemes(ctx context.Context, themes []string) map[string]string
}

// ArtifactStore persists generated presentation and report documents and
// returns a URL clients can fetch them from.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Renderer builds the presentation and report documents for an analysis.
type Renderer interface {
	Presentation(sc SurveyContext, stats []analysis.QuestionStatistics, interps []QuestionInterpretation, overall *OverallAnalysis, images map[string]string) ([]byte, error)
	Report(sc SurveyContext, stats []analysis.QuestionStatistics, interps []QuestionInterpretation, overall *OverallAnalysis) ([]byte, error)
}
