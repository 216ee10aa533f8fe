package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"surveyscope/adapters/excel"
	"surveyscope/domain/analysis"
	"surveyscope/domain/core"
	"surveyscope/ports"
)

// ExcelResult is the outcome of a freeform spreadsheet analysis.
type ExcelResult struct {
	TotalResponses  int                            `json:"totalResponses"`
	Questions       []analysis.QuestionStatistics  `json:"questions"`
	Interpretations []ports.QuestionInterpretation `json:"interpretations"`
	Overall         *ports.OverallAnalysis         `json:"overall,omitempty"`
	PresentationURL string                         `json:"presentationUrl,omitempty"`
	ReportURL       string                         `json:"reportUrl,omitempty"`
}

// ExcelPipeline analyzes a raw MS Forms export without a stored survey:
// parse, infer each column's question type, compute statistics, interpret
// and render a presentation.
type ExcelPipeline struct {
	interpreter ports.Interpreter
	renderer    ports.Renderer
	store       ports.ArtifactStore
	workers     int
}

// NewExcelPipeline creates the freeform analysis pipeline.
func NewExcelPipeline(interpreter ports.Interpreter, renderer ports.Renderer, store ports.ArtifactStore, workers int) *ExcelPipeline {
	if workers < 1 {
		workers = 1
	}
	return &ExcelPipeline{interpreter: interpreter, renderer: renderer, store: store, workers: workers}
}

// Analyze runs the full pipeline over the uploaded file. schoolName and
// title only label the generated documents.
func (p *ExcelPipeline) Analyze(ctx context.Context, filename string, file io.Reader, schoolName, title string) (*ExcelResult, error) {
	log.Printf("[ExcelPipeline] Starting analysis of %s", filename)

	wb, err := excel.NewDataReader(filename).Read(file)
	if err != nil {
		return nil, err
	}
	if err := excel.Validate(wb); err != nil {
		return nil, err
	}
	parsed, err := excel.ParseQuestions(wb)
	if err != nil {
		return nil, err
	}
	log.Printf("[ExcelPipeline] Found %d questions and %d responses", len(parsed.Questions), parsed.TotalResponses)

	sc := ports.SurveyContext{SchoolName: schoolName, SurveyTitle: title}
	if sc.SurveyTitle == "" {
		sc.SurveyTitle = "تحليل استبيان"
	}

	stats := make([]analysis.QuestionStatistics, len(parsed.Questions))
	for i, q := range parsed.Questions {
		stat := analysis.Calculate(q.QuestionType, q.Responses, nil)
		stat.QuestionText = q.QuestionText
		// Columns have no stored identity; index them for interpretation pairing.
		stat.QuestionID = core.QuestionID(fmt.Sprintf("col-%d", i+1))
		stats[i] = stat
	}

	interps := make([]ports.QuestionInterpretation, len(stats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range stats {
		g.Go(func() error {
			interp, err := p.interpreter.InterpretQuestion(gctx, sc, stats[i])
			if err != nil {
				log.Printf("[ExcelPipeline] Interpretation failed for %q: %v", stats[i].QuestionText, err)
				interps[i] = FallbackInterpretation(stats[i].QuestionID)
				return nil
			}
			interps[i] = *interp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall, err := p.interpreter.Summarize(ctx, sc, stats, interps)
	if err != nil {
		log.Printf("[ExcelPipeline] Overall analysis failed, continuing without it: %v", err)
		overall = &ports.OverallAnalysis{OverallSummary: "تعذر إنشاء الملخص التلقائي"}
	}

	result := &ExcelResult{
		TotalResponses:  parsed.TotalResponses,
		Questions:       stats,
		Interpretations: interps,
		Overall:         overall,
	}

	presentation, err := p.renderer.Presentation(sc, stats, interps, overall, nil)
	if err != nil {
		return nil, err
	}
	reportDoc, err := p.renderer.Report(sc, stats, interps, overall)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("uploads/%s", time.Now().Format("20060102-150405"))
	if result.PresentationURL, err = p.store.Put(ctx, prefix+"/presentation.html", presentation, "text/html"); err != nil {
		return nil, err
	}
	if result.ReportURL, err = p.store.Put(ctx, prefix+"/report.html", reportDoc, "text/html"); err != nil {
		return nil, err
	}

	return result, nil
}
