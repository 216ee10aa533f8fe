package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"surveyscope/domain/analysis"
	"surveyscope/internal/config"
	"surveyscope/ports"
)

// System contexts used for the educational narrative calls.
const (
	questionSystemContext = `أنت محلل تربوي متخصص في تحليل نتائج الاستبيانات التعليمية. مهمتك هي تقديم تفسير تربوي احترافي ومفيد للنتائج الإحصائية.

يجب أن يكون تحليلك:
- تربوياً ومهنياً
- واضحاً ومباشراً
- داعماً وإيجابياً
- يركز على التحسين المستمر
- يقدم رؤى قابلة للتطبيق

قدم إجابتك بصيغة JSON بالشكل التالي:
{"interpretation": "...", "pedagogicalInsights": "...", "impact": "..."}`

	overallSystemContext = `أنت محلل تربوي متخصص. لخص نتائج الاستبيان كاملاً وقدم إجابتك بصيغة JSON:
{"overallSummary": "...", "strengths": [...], "improvements": [...], "recommendations": [...]}`
)

// Default prompt templates, overridable via the prompts directory.
const (
	defaultQuestionPrompt = `معلومات الاستبيان:
المدرسة: {{school}}
عنوان الاستبيان: {{title}}
الفئة المستهدفة: {{audience}}
العام الدراسي: {{year}}

السؤال: {{question}}
نوع السؤال: {{type}}

النتائج الإحصائية:
{{statistics}}

قدم تفسيراً تربوياً للنتائج أعلاه.`

	defaultOverallPrompt = `معلومات الاستبيان:
المدرسة: {{school}}
عنوان الاستبيان: {{title}}
هدف الاستبيان: {{purpose}}

ملخص نتائج جميع الأسئلة:
{{summaries}}

قدم:
1. ملخصاً عاماً للنتائج
2. نقاط القوة
3. نقاط التحسين
4. توصيات عملية قابلة للتطبيق`
)

// InterpretationEngine turns computed statistics into educational
// narratives via structured LLM calls.
type InterpretationEngine struct {
	questionClient *StructuredClient[ports.QuestionInterpretation]
	overallClient  *StructuredClient[ports.OverallAnalysis]
	prompts        *PromptManager
}

var _ ports.Interpreter = (*InterpretationEngine)(nil)

// NewInterpretationEngine creates the interpretation engine
func NewInterpretationEngine(cfg *config.AIConfig) *InterpretationEngine {
	return &InterpretationEngine{
		questionClient: NewStructuredClient[ports.QuestionInterpretation](cfg),
		overallClient:  NewStructuredClient[ports.OverallAnalysis](cfg),
		prompts:        NewPromptManager(cfg.PromptsDir),
	}
}

// InterpretQuestion generates the narrative for one question's statistics.
func (e *InterpretationEngine) InterpretQuestion(ctx context.Context, sc ports.SurveyContext, stat analysis.QuestionStatistics) (*ports.QuestionInterpretation, error) {
	template := e.prompts.LoadPromptOrDefault("question_interpretation", defaultQuestionPrompt)
	prompt := e.prompts.FormatPrompt(template, map[string]string{
		"school":     sc.SchoolName,
		"title":      sc.SurveyTitle,
		"audience":   sc.TargetAudience,
		"year":       sc.AcademicYear,
		"question":   stat.QuestionText,
		"type":       string(stat.QuestionType),
		"statistics": FormatStatisticsSummary(stat),
	})

	result, err := e.questionClient.GetJSONResponse(ctx, prompt, questionSystemContext)
	if err != nil {
		return nil, fmt.Errorf("question interpretation failed: %w", err)
	}
	result.QuestionID = stat.QuestionID
	return result, nil
}

// Summarize generates the survey-level narrative from all question results.
func (e *InterpretationEngine) Summarize(ctx context.Context, sc ports.SurveyContext, stats []analysis.QuestionStatistics, interps []ports.QuestionInterpretation) (*ports.OverallAnalysis, error) {
	var summaries strings.Builder
	for i, stat := range stats {
		fmt.Fprintf(&summaries, "%d. %s\n%s\n", i+1, stat.QuestionText, FormatStatisticsSummary(stat))
		if i < len(interps) && interps[i].Interpretation != "" {
			fmt.Fprintf(&summaries, "التفسير: %s\n", interps[i].Interpretation)
		}
		summaries.WriteString("\n")
	}

	template := e.prompts.LoadPromptOrDefault("overall_analysis", defaultOverallPrompt)
	prompt := e.prompts.FormatPrompt(template, map[string]string{
		"school":    sc.SchoolName,
		"title":     sc.SurveyTitle,
		"purpose":   sc.Purpose,
		"summaries": summaries.String(),
	})

	result, err := e.overallClient.GetJSONResponse(ctx, prompt, overallSystemContext)
	if err != nil {
		return nil, fmt.Errorf("overall analysis failed: %w", err)
	}
	return result, nil
}

// FormatStatisticsSummary renders one question's statistics as the
// human-readable block interpolated into prompts. Percentages are rounded
// to 1 decimal and averages to 2 decimals, matching the report rendering.
func FormatStatisticsSummary(stat analysis.QuestionStatistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "عدد الاستجابات: %d\n", stat.TotalResponses)

	switch s := stat.Statistics.(type) {
	case analysis.CategoricalStats:
		b.WriteString("توزيع الإجابات:\n")
		for _, entry := range sortedByShare(s.Percentages) {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", entry.key, analysis.FormatPercentage(entry.value), levelArabic(analysis.ClassifyPercentage(entry.value)))
		}
		if s.Mode != "" {
			fmt.Fprintf(&b, "الإجابة الأكثر تكراراً: %s\n", s.Mode)
		}
	case analysis.NumericStats:
		fmt.Fprintf(&b, "المتوسط: %s (%s)\n", analysis.FormatNumber(s.Average, 2), ratingArabic(analysis.ClassifyRating(s.Average)))
		fmt.Fprintf(&b, "الانحراف المعياري: %s\n", analysis.FormatNumber(s.StandardDeviation, 2))
		fmt.Fprintf(&b, "الوسيط: %s\n", analysis.FormatNumber(s.Median, 2))
		fmt.Fprintf(&b, "أدنى قيمة: %s، أعلى قيمة: %s\n", analysis.FormatNumber(s.Min, 2), analysis.FormatNumber(s.Max, 2))
		b.WriteString("توزيع القيم:\n")
		for _, entry := range sortedByShare(s.Percentages) {
			fmt.Fprintf(&b, "- %s: %s\n", entry.key, analysis.FormatPercentage(entry.value))
		}
	case analysis.TextStats:
		fmt.Fprintf(&b, "%s: %d\n", analysis.TextAnswersKey, s.Frequencies[analysis.TextAnswersKey])
	}
	return b.String()
}

type shareEntry struct {
	key   string
	value float64
}

// sortedByShare orders percentage entries largest first, ties by key for
// deterministic prompt text.
func sortedByShare(percentages map[string]float64) []shareEntry {
	entries := make([]shareEntry, 0, len(percentages))
	for k, v := range percentages {
		entries = append(entries, shareEntry{key: k, value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

func levelArabic(level analysis.PercentageLevel) string {
	switch level {
	case analysis.LevelHigh:
		return "مرتفع"
	case analysis.LevelMedium:
		return "متوسط"
	default:
		return "منخفض"
	}
}

func ratingArabic(level analysis.RatingLevel) string {
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
