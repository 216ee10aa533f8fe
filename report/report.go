package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"surveyscope/domain/analysis"
	"surveyscope/ports"
)

// Report composes the detailed report as Markdown and renders it into an
// RTL HTML document.
func (r *Renderer) Report(sc ports.SurveyContext, stats []analysis.QuestionStatistics, interps []ports.QuestionInterpretation, overall *ports.OverallAnalysis) ([]byte, error) {
	md := BuildReportMarkdown(sc, stats, interps, overall)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML([]byte(md), p, renderer)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="UTF-8">
<title>%s - %s</title>
<style>
body { font-family: 'Cairo', sans-serif; line-height: 1.8; max-width: 900px; margin: 0 auto; padding: 40px 20px; color: #1a1a1a; }
h1, h2 { color: #1e40af; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #d1d5db; padding: 8px 12px; text-align: right; }
</style>
</head>
<body>
`, template.HTMLEscapeString(sc.SurveyTitle), template.HTMLEscapeString(sc.SchoolName))
	buf.Write(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes(), nil
}

// BuildReportMarkdown composes the detailed report text. Percentages render
// at 1 decimal and averages at 2, the stable convention consumers rely on.
func BuildReportMarkdown(sc ports.SurveyContext, stats []analysis.QuestionStatistics, interps []ports.QuestionInterpretation, overall *ports.OverallAnalysis) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# تقرير تحليل الاستبيان: %s\n\n", sc.SurveyTitle)
	fmt.Fprintf(&b, "**المدرسة:** %s  \n", sc.SchoolName)
	if sc.AcademicYear != "" {
		fmt.Fprintf(&b, "**العام الدراسي:** %s  \n", sc.AcademicYear)
	}
	if sc.TargetAudience != "" {
		fmt.Fprintf(&b, "**الفئة المستهدفة:** %s  \n", sc.TargetAudience)
	}
	fmt.Fprintf(&b, "**تاريخ التقرير:** %s\n\n", time.Now().Format("2006-01-02"))

	if overall != nil && overall.OverallSummary != "" {
		fmt.Fprintf(&b, "## الملخص العام\n\n%s\n\n", overall.OverallSummary)
	}

	interpByQuestion := make(map[string]ports.QuestionInterpretation, len(interps))
	for _, interp := range interps {
		interpByQuestion[interp.QuestionID.String()] = interp
	}

	fmt.Fprintf(&b, "## نتائج الأسئلة\n\n")
	for i, stat := range stats {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, stat.QuestionText)
		fmt.Fprintf(&b, "عدد الاستجابات: %d\n\n", stat.TotalResponses)

		switch s := stat.Statistics.(type) {
		case analysis.CategoricalStats:
			writeDistributionTable(&b, s.Frequencies, s.Percentages)
			if s.Mode != "" {
				fmt.Fprintf(&b, "الإجابة الأكثر تكراراً: **%s**\n\n", s.Mode)
			}
		case analysis.NumericStats:
			fmt.Fprintf(&b, "| المؤشر | القيمة |\n|---|---|\n")
			fmt.Fprintf(&b, "| المتوسط | %s |\n", analysis.FormatNumber(s.Average, 2))
			fmt.Fprintf(&b, "| الانحراف المعياري | %s |\n", analysis.FormatNumber(s.StandardDeviation, 2))
			fmt.Fprintf(&b, "| الوسيط | %s |\n", analysis.FormatNumber(s.Median, 2))
			fmt.Fprintf(&b, "| أدنى قيمة | %s |\n", analysis.FormatNumber(s.Min, 2))
			fmt.Fprintf(&b, "| أعلى قيمة | %s |\n\n", analysis.FormatNumber(s.Max, 2))
			writeDistributionTable(&b, s.Frequencies, s.Percentages)
		case analysis.TextStats:
			fmt.Fprintf(&b, "%s: %d\n\n", analysis.TextAnswersKey, s.Frequencies[analysis.TextAnswersKey])
		}

		if interp, ok := interpByQuestion[stat.QuestionID.String()]; ok {
			if interp.Interpretation != "" {
				fmt.Fprintf(&b, "**التفسير:** %s\n\n", interp.Interpretation)
			}
			if interp.PedagogicalInsights != "" {
				fmt.Fprintf(&b, "**الرؤى التربوية:** %s\n\n", interp.PedagogicalInsights)
			}
			if interp.Impact != "" {
				fmt.Fprintf(&b, "**الأثر:** %s\n\n", interp.Impact)
			}
		}
	}

	if overall != nil {
		writeListSection(&b, "نقاط القوة", overall.Strengths)
		writeListSection(&b, "نقاط التحسين", overall.Improvements)
		writeListSection(&b, "التوصيات", overall.Recommendations)
	}

	return b.String()
}

func writeDistributionTable(b *bytes.Buffer, frequencies map[string]int, percentages map[string]float64) {
	fmt.Fprintf(b, "| الإجابة | التكرار | النسبة |\n|---|---|---|\n")
	for _, row := range chartRows(frequencies, percentages) {
		fmt.Fprintf(b, "| %s | %d | %s |\n", row.Label, row.Count, analysis.FormatPercentage(row.Percent))
	}
	b.WriteString("\n")
}

func writeListSection(b *bytes.Buffer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
