package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"time"

	"surveyscope/domain/analysis"
	"surveyscope/ports"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Renderer builds the HTML presentation and the detailed report for an
// analysis run.
type Renderer struct {
	templates *template.Template
}

var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer parses the embedded presentation templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"pct":    analysis.FormatPercentage,
		"num2":   func(v float64) string { return analysis.FormatNumber(v, 2) },
		"add":    func(a, b int) int { return a + b },
		"barWidth": func(v float64) float64 {
			if v > 100 {
				return 100
			}
			if v < 0 {
				return 0
			}
			return v
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// ChartRow is one bar of a distribution chart.
type ChartRow struct {
	Label   string
	Count   int
	Percent float64
}

// NumericSummary is the numeric block of a rating question slide.
type NumericSummary struct {
	Average           float64
	StandardDeviation float64
	Median            float64
	Min               float64
	Max               float64
	Level             string
}

// QuestionSlide is the per-question view model for the presentation.
type QuestionSlide struct {
	Index          int
	Text           string
	Type           string
	TotalResponses int
	Rows           []ChartRow
	Numeric        *NumericSummary
	TextCount      int
	Interpretation *ports.QuestionInterpretation
}

// PresentationData is everything the presentation template needs.
type PresentationData struct {
	Context     ports.SurveyContext
	GeneratedAt string
	Questions   []QuestionSlide
	Overall     *ports.OverallAnalysis
	Images      map[string]string
}

// Presentation renders the RTL HTML presentation document.
func (r *Renderer) Presentation(sc ports.SurveyContext, stats []analysis.QuestionStatistics, interps []ports.QuestionInterpretation, overall *ports.OverallAnalysis, images map[string]string) ([]byte, error) {
	data := PresentationData{
		Context:     sc,
		GeneratedAt: time.Now().Format("2006-01-02"),
		Questions:   buildSlides(stats, interps),
		Overall:     overall,
		Images:      images,
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "presentation.html", data); err != nil {
		return nil, fmt.Errorf("failed to render presentation: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSlides(stats []analysis.QuestionStatistics, interps []ports.QuestionInterpretation) []QuestionSlide {
	interpByQuestion := make(map[string]*ports.QuestionInterpretation, len(interps))
	for i := range interps {
		interpByQuestion[interps[i].QuestionID.String()] = &interps[i]
	}

	slides := make([]QuestionSlide, 0, len(stats))
	for i, stat := range stats {
		slide := QuestionSlide{
			Index:          i + 1,
			Text:           stat.QuestionText,
			Type:           string(stat.QuestionType),
			TotalResponses: stat.TotalResponses,
			Interpretation: interpByQuestion[stat.QuestionID.String()],
		}

		switch s := stat.Statistics.(type) {
		case analysis.CategoricalStats:
			slide.Rows = chartRows(s.Frequencies, s.Percentages)
		case analysis.NumericStats:
			slide.Rows = chartRows(s.Frequencies, s.Percentages)
			slide.Numeric = &NumericSummary{
				Average:           s.Average,
				StandardDeviation: s.StandardDeviation,
				Median:            s.Median,
				Min:               s.Min,
				Max:               s.Max,
				Level:             ratingLevelArabic(analysis.ClassifyRating(s.Average)),
			}
		case analysis.TextStats:
			slide.TextCount = s.Frequencies[analysis.TextAnswersKey]
		}
		slides = append(slides, slide)
	}
	return slides
}

// chartRows orders distribution bars largest first, ties by label.
func chartRows(frequencies map[string]int, percentages map[string]float64) []ChartRow {
	rows := make([]ChartRow, 0, len(frequencies))
	for label, count := range frequencies {
		rows = append(rows, ChartRow{Label: label, Count: count, Percent: percentages[label]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Percent != rows[j].Percent {
			return rows[i].Percent > rows[j].Percent
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

func ratingLevelArabic(level analysis.RatingLevel) string {
	switch level {
	case analysis.RatingExcellent:
		return "ممتاز"
	case analysis.RatingGood:
		return "جيد"
	case analysis.RatingFair:
		return "مقبول"
	default:
		return "ضعيف"
	}
}
