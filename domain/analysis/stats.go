package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

// TextAnswersKey labels the single frequency entry reported for free-text
// questions. Text answers are counted, never evaluated further.
const TextAnswersKey = "إجمالي الإجابات النصية"

// Statistics is the type-dependent portion of a question's computed results.
// Exactly one concrete variant applies per question type, so a categorical
// result can never be read as a numeric one.
type Statistics interface {
	statisticsVariant()
}

// CategoricalStats holds results for multiple-choice, likert and yes/no
// questions. Every declared option appears in the maps even at zero count.
type CategoricalStats struct {
	Frequencies map[string]int     `json:"frequencies"`
	Percentages map[string]float64 `json:"percentages"`
	Mode        string             `json:"mode,omitempty"`
}

// NumericStats holds results for rating questions. Frequencies bucket the
// discrete numeric values observed, so a "5 = 40%" breakdown and the mean
// live in the same result.
type NumericStats struct {
	Average           float64              `json:"average"`
	StandardDeviation float64              `json:"standardDeviation"`
	Median            float64              `json:"median"`
	Min               float64              `json:"min"`
	Max               float64              `json:"max"`
	Frequencies       map[string]int       `json:"frequencies"`
	Percentages       map[string]float64   `json:"percentages"`
	Profile           *DistributionProfile `json:"profile,omitempty"`
}

// TextStats reports only a count of textual answers.
type TextStats struct {
	Frequencies map[string]int `json:"frequencies"`
}

// EmptyStats is returned for questions with no usable data or an unknown
// type. It marshals to {} so one malformed question never aborts a survey.
type EmptyStats struct{}

func (CategoricalStats) statisticsVariant() {}
func (NumericStats) statisticsVariant()     {}
func (TextStats) statisticsVariant()        {}
func (EmptyStats) statisticsVariant()       {}

// QuestionStatistics is the complete computed result for one question.
// TotalResponses counts every non-null answer; numeric statistics may cover
// fewer values when some answers do not coerce to numbers.
type QuestionStatistics struct {
	QuestionID     core.QuestionID     `json:"questionId,omitempty"`
	QuestionText   string              `json:"questionText"`
	QuestionType   survey.QuestionType `json:"questionType"`
	TotalResponses int                 `json:"totalResponses"`
	Statistics     Statistics          `json:"statistics"`
}

// Calculate computes descriptive statistics for one question's answers,
// branching strictly on the supplied question type. It is pure and
// deterministic, and degrades to EmptyStats for degenerate input rather
// than returning an error.
func Calculate(qt survey.QuestionType, answers []survey.Answer, options []string) QuestionStatistics {
	result := QuestionStatistics{
		QuestionType:   qt,
		TotalResponses: countAnswered(answers),
		Statistics:     EmptyStats{},
	}
	if len(answers) == 0 {
		return result
	}

	switch {
	case qt.IsCategorical():
		result.Statistics = categoricalStats(answers, options, result.TotalResponses)
	case qt == survey.Rating:
		result.Statistics = numericStats(answers)
	case qt == survey.Text:
		result.Statistics = textStats(answers)
	}
	// Unknown types keep EmptyStats.
	return result
}

// CalculateSurveyStatistics computes statistics for every question of a
// structured survey, pairing each question with its stored responses.
func CalculateSurveyStatistics(questions []survey.Question, responses []survey.Response) []QuestionStatistics {
	byQuestion := make(map[core.QuestionID][]survey.Answer, len(questions))
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r.Answer())
	}

	results := make([]QuestionStatistics, 0, len(questions))
	for _, q := range questions {
		stat := Calculate(q.Type, byQuestion[q.ID], q.Options)
		stat.QuestionID = q.ID
		stat.QuestionText = q.Text
		results = append(results, stat)
	}
	return results
}

func countAnswered(answers []survey.Answer) int {
	n := 0
	for _, a := range answers {
		if !a.IsNull() {
			n++
		}
	}
	return n
}

// frequencyTable counts answers per label while remembering insertion order,
// so the mode is stable under map iteration randomness.
type frequencyTable struct {
	counts map[string]int
	order  []string
}

func newFrequencyTable() *frequencyTable {
	return &frequencyTable{counts: make(map[string]int)}
}

func (t *frequencyTable) seed(key string) {
	if _, ok := t.counts[key]; !ok {
		t.counts[key] = 0
		t.order = append(t.order, key)
	}
}

func (t *frequencyTable) add(key string) {
	t.seed(key)
	t.counts[key]++
}

// mode returns the first-seen key with the highest non-zero count.
func (t *frequencyTable) mode() string {
	best, bestCount := "", 0
	for _, key := range t.order {
		if t.counts[key] > bestCount {
			best, bestCount = key, t.counts[key]
		}
	}
	return best
}

// percentages normalizes counts against total, short-circuiting to all
// zeroes when total is zero.
func (t *frequencyTable) percentages(total int) map[string]float64 {
	pct := make(map[string]float64, len(t.counts))
	for key, count := range t.counts {
		if total > 0 {
			pct[key] = float64(count) / float64(total) * 100
		} else {
			pct[key] = 0
		}
	}
	return pct
}

// categoricalStats counts answers per option label. Declared options are
// seeded at zero so unselected options stay visible; answers outside the
// declared list get their own buckets rather than being rejected.
func categoricalStats(answers []survey.Answer, options []string, total int) CategoricalStats {
	table := newFrequencyTable()
	for _, opt := range options {
		table.seed(opt)
	}
	for _, a := range answers {
		if a.IsNull() {
			continue
		}
		table.add(a.Label())
	}

	return CategoricalStats{
		Frequencies: table.counts,
		Percentages: table.percentages(total),
		Mode:        table.mode(),
	}
}

// numericStats computes mean, population standard deviation, median and
// range over the numeric-coercible answers, plus a discrete frequency
// breakdown. Non-numeric answers are silently dropped here while still
// counting toward the question's TotalResponses.
func numericStats(answers []survey.Answer) Statistics {
	values := make([]float64, 0, len(answers))
	table := newFrequencyTable()
	for _, a := range answers {
		if a.IsNull() {
			continue
		}
		n, ok := a.Numeric()
		if !ok {
			continue
		}
		values = append(values, n)
		table.add(survey.NumberAnswer(n).Label())
	}
	if len(values) == 0 {
		return EmptyStats{}
	}

	mean, _ := stats.Mean(values)
	// Population standard deviation: these are descriptive statistics over a
	// census of respondents, not a sample.
	stdDev, _ := stats.StandardDeviationPopulation(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	return NumericStats{
		Average:           round2(mean),
		StandardDeviation: round2(stdDev),
		Median:            median,
		Min:               min,
		Max:               max,
		Frequencies:       table.counts,
		Percentages:       table.percentages(len(values)),
		Profile:           profileDistribution(values),
	}
}

func textStats(answers []survey.Answer) TextStats {
	n := 0
	for _, a := range answers {
		if !a.IsNull() && a.Label() != "" {
			n++
		}
	}
	return TextStats{
		Frequencies: map[string]int{TextAnswersKey: n},
	}
}

// round2 rounds to 2 decimal places, the compute-time convention for
// averages and standard deviations embedded in reports and LLM prompts.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
