package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyscope/adapters/storage"
	"surveyscope/domain/core"
	"surveyscope/domain/survey"
	"surveyscope/report"
)

const sampleCSV = `ID,Start time,التقييم العام,هل توصي بالمدرسة؟
1,2025-09-01,5,نعم
2,2025-09-01,4,نعم
3,2025-09-01,3,لا
4,2025-09-01,4,نعم
5,2025-09-01,5,احيانا
`

func newTestPipeline(t *testing.T) *ExcelPipeline {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/artifacts")
	require.NoError(t, err)
	renderer, err := report.NewRenderer()
	require.NoError(t, err)
	return NewExcelPipeline(&fakeInterpreter{}, renderer, store, 2)
}

func TestExcelPipelineAnalyze(t *testing.T) {
	pipeline := newTestPipeline(t)

	result, err := pipeline.Analyze(context.Background(), "export.csv", strings.NewReader(sampleCSV), "مدرسة قطر", "")
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalResponses)
	require.Len(t, result.Questions, 2)

	assert.Equal(t, survey.Rating, result.Questions[0].QuestionType)
	assert.Equal(t, survey.YesNo, result.Questions[1].QuestionType)
	assert.Equal(t, core.QuestionID("col-1"), result.Questions[0].QuestionID)

	require.Len(t, result.Interpretations, 2)
	require.NotNil(t, result.Overall)
	assert.Contains(t, result.PresentationURL, "/artifacts/uploads/")
	assert.Contains(t, result.ReportURL, "report.html")
}

func TestExcelPipelineRejectsSmallExports(t *testing.T) {
	pipeline := newTestPipeline(t)

	small := "التقييم العام\n5\n4\n"
	_, err := pipeline.Analyze(context.Background(), "export.csv", strings.NewReader(small), "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTooFewResponses))
}
