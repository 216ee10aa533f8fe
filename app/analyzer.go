package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"surveyscope/ai"
	"surveyscope/domain/analysis"
	"surveyscope/domain/core"
	"surveyscope/domain/survey"
	"surveyscope/internal/errors"
	"surveyscope/ports"
)

// FallbackInterpretation substitutes for a question whose LLM call failed,
// so one bad question never aborts the whole analysis.
func FallbackInterpretation(questionID core.QuestionID) ports.QuestionInterpretation {
	return ports.QuestionInterpretation{
		QuestionID:          questionID,
		Interpretation:      "تعذر إنشاء التفسير التلقائي لهذا السؤال.",
		PedagogicalInsights: "يرجى مراجعة النتائج الإحصائية يدوياً.",
		Impact:              "غير متوفر",
	}
}

// Readiness describes whether a survey can be analyzed.
type Readiness struct {
	Ready         bool   `json:"ready"`
	QuestionCount int    `json:"questionCount"`
	ResponseCount int    `json:"responseCount"`
	Reason        string `json:"reason,omitempty"`
}

// Analyzer runs the complete analysis pipeline for a stored survey:
// statistics, interpretations, overall narrative, presentation and report.
type Analyzer struct {
	schools     ports.SchoolRepository
	surveys     ports.SurveyRepository
	questions   ports.QuestionRepository
	responses   ports.ResponseRepository
	analyses    ports.AnalysisRepository
	interpreter ports.Interpreter
	images      ports.ImageGenerator
	renderer    ports.Renderer
	store       ports.ArtifactStore

	minResponses int
	workers      int
}

// AnalyzerDeps bundles the analyzer's collaborators.
type AnalyzerDeps struct {
	Schools     ports.SchoolRepository
	Surveys     ports.SurveyRepository
	Questions   ports.QuestionRepository
	Responses   ports.ResponseRepository
	Analyses    ports.AnalysisRepository
	Interpreter ports.Interpreter
	Images      ports.ImageGenerator
	Renderer    ports.Renderer
	Store       ports.ArtifactStore
}

// NewAnalyzer creates an analyzer. minResponses gates the readiness check;
// workers caps concurrent per-question interpretation calls.
func NewAnalyzer(deps AnalyzerDeps, minResponses, workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		schools:      deps.Schools,
		surveys:      deps.Surveys,
		questions:    deps.Questions,
		responses:    deps.Responses,
		analyses:     deps.Analyses,
		interpreter:  deps.Interpreter,
		images:       deps.Images,
		renderer:     deps.Renderer,
		store:        deps.Store,
		minResponses: minResponses,
		workers:      workers,
	}
}

// CheckReadiness reports whether a survey has enough data to analyze.
func (a *Analyzer) CheckReadiness(ctx context.Context, surveyID core.SurveyID) (*Readiness, error) {
	questions, err := a.questions.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	count, err := a.responses.CountBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	r := &Readiness{QuestionCount: len(questions), ResponseCount: count}
	switch {
	case len(questions) == 0:
		r.Reason = "survey has no questions"
	case count < a.minResponses:
		r.Reason = fmt.Sprintf("need at least %d responses, have %d", a.minResponses, count)
	default:
		r.Ready = true
	}
	return r, nil
}

// Run executes a full analysis for the survey, replacing any prior result.
func (a *Analyzer) Run(ctx context.Context, surveyID core.SurveyID) error {
	log.Printf("[Analyzer] Starting analysis for survey %s", surveyID)

	sv, err := a.surveys.Get(ctx, surveyID)
	if err != nil {
		return err
	}
	school, err := a.schools.Get(ctx, sv.SchoolID)
	if err != nil {
		return err
	}

	readiness, err := a.CheckReadiness(ctx, surveyID)
	if err != nil {
		return err
	}
	if !readiness.Ready {
		return fmt.Errorf("%w: %s", core.ErrSurveyNotReady, readiness.Reason)
	}

	record := &survey.Analysis{
		ID:       core.AnalysisID(core.NewID()),
		SurveyID: surveyID,
		Status:   survey.AnalysisProcessing,
	}
	if err := a.analyses.Upsert(ctx, record); err != nil {
		return errors.Wrap(err, "failed to create analysis record")
	}

	if err := a.runPipeline(ctx, sv, school, record); err != nil {
		record.Status = survey.AnalysisFailed
		record.ErrorMessage = err.Error()
		if upsertErr := a.analyses.Upsert(ctx, record); upsertErr != nil {
			log.Printf("[Analyzer] ERROR: failed to mark analysis failed: %v", upsertErr)
		}
		return errors.AnalysisFailed(err)
	}

	log.Printf("[Analyzer] Analysis completed for survey %s", surveyID)
	return nil
}

func (a *Analyzer) runPipeline(ctx context.Context, sv *survey.Survey, school *survey.School, record *survey.Analysis) error {
	questions, err := a.questions.ListBySurvey(ctx, sv.ID)
	if err != nil {
		return err
	}
	responses, err := a.responses.ListBySurvey(ctx, sv.ID)
	if err != nil {
		return err
	}

	sc := ports.SurveyContext{
		SchoolName:     school.Name,
		SurveyTitle:    sv.Title,
		Purpose:        sv.Purpose,
		TargetAudience: sv.TargetAudience,
		AcademicYear:   school.AcademicYear,
	}

	// Statistics are cheap and pure; each question is independent, so the
	// expensive interpretation calls fan out across questions.
	stats := analysis.CalculateSurveyStatistics(questions, responses)

	interps := make([]ports.QuestionInterpretation, len(stats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range stats {
		g.Go(func() error {
			interp, err := a.interpreter.InterpretQuestion(gctx, sc, stats[i])
			if err != nil {
				log.Printf("[Analyzer] Interpretation failed for question %s: %v", stats[i].QuestionID, err)
				interps[i] = FallbackInterpretation(stats[i].QuestionID)
				return nil
			}
			interps[i] = *interp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	overall, err := a.interpreter.Summarize(ctx, sc, stats, interps)
	if err != nil {
		log.Printf("[Analyzer] Overall analysis failed, continuing without it: %v", err)
		overall = &ports.OverallAnalysis{OverallSummary: "تعذر إنشاء الملخص التلقائي"}
	}

	var images map[string]string
	if a.images != nil {
		images = a.images.GenerateForThemes(ctx, ai.PresentationThemes)
	}

	presentation, err := a.renderer.Presentation(sc, stats, interps, overall, images)
	if err != nil {
		return err
	}
	reportDoc, err := a.renderer.Report(sc, stats, interps, overall)
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("surveys/%s", sv.ID)
	presentationURL, err := a.store.Put(ctx, prefix+"/presentation.html", presentation, "text/html")
	if err != nil {
		return err
	}
	reportURL, err := a.store.Put(ctx, prefix+"/report.html", reportDoc, "text/html")
	if err != nil {
		return err
	}

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	interpsJSON, err := json.Marshal(interps)
	if err != nil {
		return err
	}

	now := time.Now()
	record.StatisticalData = survey.JSONDocument(statsJSON)
	record.Interpretations = survey.JSONDocument(interpsJSON)
	record.OverallSummary = overall.OverallSummary
	record.Strengths = overall.Strengths
	record.Improvements = overall.Improvements
	record.Recommendations = overall.Recommendations
	record.PresentationURL = presentationURL
	record.ReportURL = reportURL
	record.Status = survey.AnalysisCompleted
	record.ErrorMessage = ""
	record.CompletedAt = &now

	if err := a.analyses.Upsert(ctx, record); err != nil {
		return errors.Wrap(err, "failed to store analysis result")
	}
	return a.surveys.UpdateStatus(ctx, sv.ID, survey.StatusAnalyzed)
}
