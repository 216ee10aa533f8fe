package analysis

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

func TestCalculateCategorical(t *testing.T) {
	options := []string{"ممتاز", "جيد", "مقبول"}
	answers := textAnswers("ممتاز", "ممتاز", "جيد", "ممتاز", "جيد")

	result := Calculate(survey.MultipleChoice, answers, options)

	if result.TotalResponses != 5 {
		t.Fatalf("TotalResponses = %d, want 5", result.TotalResponses)
	}
	cs, ok := result.Statistics.(CategoricalStats)
	if !ok {
		t.Fatalf("Statistics has type %T, want CategoricalStats", result.Statistics)
	}

	wantFreq := map[string]int{"ممتاز": 3, "جيد": 2, "مقبول": 0}
	if !reflect.DeepEqual(cs.Frequencies, wantFreq) {
		t.Errorf("Frequencies = %v, want %v", cs.Frequencies, wantFreq)
	}
	if cs.Percentages["ممتاز"] != 60 {
		t.Errorf("Percentages[ممتاز] = %v, want 60", cs.Percentages["ممتاز"])
	}
	if cs.Percentages["مقبول"] != 0 {
		t.Errorf("Percentages[مقبول] = %v, want 0", cs.Percentages["مقبول"])
	}
	if cs.Mode != "ممتاز" {
		t.Errorf("Mode = %q, want %q", cs.Mode, "ممتاز")
	}
}

func TestCalculateCategoricalPercentagesSumTo100(t *testing.T) {
	answers := textAnswers("أ", "ب", "ج", "أ", "ب", "أ", "ج")
	cs := Calculate(survey.MultipleChoice, answers, nil).Statistics.(CategoricalStats)

	sum := 0.0
	for _, p := range cs.Percentages {
		if p < 0 {
			t.Errorf("negative percentage %v", p)
		}
		sum += p
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

// Answers outside the declared option list still get counted in their own
// buckets instead of being rejected.
func TestCalculateCategoricalOutOfListAnswer(t *testing.T) {
	cs := Calculate(survey.YesNo, textAnswers("نعم", "ربما"), []string{"نعم", "لا"}).Statistics.(CategoricalStats)

	if cs.Frequencies["ربما"] != 1 {
		t.Errorf("Frequencies[ربما] = %d, want 1", cs.Frequencies["ربما"])
	}
	if cs.Frequencies["لا"] != 0 {
		t.Errorf("Frequencies[لا] = %d, want 0", cs.Frequencies["لا"])
	}
}

// The mode must not depend on map iteration order: with a tie, the
// first-seen answer wins, every run.
func TestCalculateModeIsDeterministic(t *testing.T) {
	answers := textAnswers("ب", "أ", "ب", "أ")
	want := Calculate(survey.MultipleChoice, answers, nil).Statistics.(CategoricalStats).Mode
	if want != "ب" {
		t.Fatalf("Mode = %q, want first-seen %q", want, "ب")
	}
	for i := 0; i < 50; i++ {
		got := Calculate(survey.MultipleChoice, answers, nil).Statistics.(CategoricalStats).Mode
		if got != want {
			t.Fatalf("Mode changed across runs: %q then %q", want, got)
		}
	}
}

func TestCalculateNumeric(t *testing.T) {
	answers := numberAnswers(5, 4, 3, 4, 5)
	result := Calculate(survey.Rating, answers, nil)

	ns, ok := result.Statistics.(NumericStats)
	if !ok {
		t.Fatalf("Statistics has type %T, want NumericStats", result.Statistics)
	}

	if ns.Average != 4.2 {
		t.Errorf("Average = %v, want 4.2", ns.Average)
	}
	// Population standard deviation of [5 4 3 4 5] is 0.7483..., rounded 0.75.
	if ns.StandardDeviation != 0.75 {
		t.Errorf("StandardDeviation = %v, want 0.75", ns.StandardDeviation)
	}
	if ns.Median != 4 {
		t.Errorf("Median = %v, want 4", ns.Median)
	}
	if ns.Min != 3 || ns.Max != 5 {
		t.Errorf("Min/Max = %v/%v, want 3/5", ns.Min, ns.Max)
	}
	if ns.Frequencies["5"] != 2 {
		t.Errorf("Frequencies[5] = %d, want 2", ns.Frequencies["5"])
	}
	if ns.Percentages["5"] != 40 {
		t.Errorf("Percentages[5] = %v, want 40", ns.Percentages["5"])
	}
}

func TestCalculateNumericInvariants(t *testing.T) {
	cases := [][]float64{
		{1},
		{1, 2, 3, 4, 5},
		{3, 3, 3},
		{2.5, 4.5, 1, 5},
	}
	for _, values := range cases {
		ns := Calculate(survey.Rating, numberAnswers(values...), nil).Statistics.(NumericStats)
		if ns.StandardDeviation < 0 {
			t.Errorf("%v: negative standard deviation %v", values, ns.StandardDeviation)
		}
		if ns.Min > ns.Median || ns.Median > ns.Max {
			t.Errorf("%v: want min <= median <= max, got %v/%v/%v", values, ns.Min, ns.Median, ns.Max)
		}
	}

	identical := Calculate(survey.Rating, numberAnswers(4, 4, 4, 4), nil).Statistics.(NumericStats)
	if identical.StandardDeviation != 0 {
		t.Errorf("identical values: StandardDeviation = %v, want 0", identical.StandardDeviation)
	}
}

// Numeric percentages normalize against the count of numeric-coercible
// answers, while TotalResponses still counts every non-null answer.
func TestCalculateNumericSkipsUnparseableAnswers(t *testing.T) {
	answers := []survey.Answer{
		survey.NumberAnswer(5),
		survey.NumberAnswer(5),
		survey.TextAnswer("لا أعرف"),
		survey.NumberAnswer(3),
		survey.NoAnswer(),
	}
	result := Calculate(survey.Rating, answers, nil)

	if result.TotalResponses != 4 {
		t.Fatalf("TotalResponses = %d, want 4", result.TotalResponses)
	}
	ns := result.Statistics.(NumericStats)
	if got := ns.Percentages["5"]; math.Abs(got-100.0*2/3) > 1e-9 {
		t.Errorf("Percentages[5] = %v, want 66.66...", got)
	}
}

func TestCalculateNumericAllUnparseable(t *testing.T) {
	result := Calculate(survey.Rating, textAnswers("لا أعرف", "ربما"), nil)
	if _, ok := result.Statistics.(EmptyStats); !ok {
		t.Fatalf("Statistics has type %T, want EmptyStats", result.Statistics)
	}
	if result.TotalResponses != 2 {
		t.Errorf("TotalResponses = %d, want 2", result.TotalResponses)
	}
}

func TestCalculateText(t *testing.T) {
	answers := []survey.Answer{
		survey.TextAnswer("رأي أول"),
		survey.TextAnswer("رأي ثانٍ"),
		survey.TextAnswer(""),
		survey.NoAnswer(),
	}
	result := Calculate(survey.Text, answers, nil)

	ts, ok := result.Statistics.(TextStats)
	if !ok {
		t.Fatalf("Statistics has type %T, want TextStats", result.Statistics)
	}
	if ts.Frequencies[TextAnswersKey] != 2 {
		t.Errorf("Frequencies[%s] = %d, want 2", TextAnswersKey, ts.Frequencies[TextAnswersKey])
	}
}

func TestCalculateDegenerateInput(t *testing.T) {
	if s := Calculate(survey.Rating, nil, nil); !reflect.DeepEqual(s.Statistics, EmptyStats{}) {
		t.Errorf("no answers: Statistics = %v, want EmptyStats", s.Statistics)
	}
	if s := Calculate(survey.QuestionType("unknown"), numberAnswers(1, 2), nil); !reflect.DeepEqual(s.Statistics, EmptyStats{}) {
		t.Errorf("unknown type: Statistics = %v, want EmptyStats", s.Statistics)
	}

	empty, err := json.Marshal(EmptyStats{})
	if err != nil || string(empty) != "{}" {
		t.Errorf("EmptyStats marshals to %s (%v), want {}", empty, err)
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	answers := numberAnswers(5, 4, 3, 4, 5, 1, 2)
	first := Calculate(survey.Rating, answers, nil)
	second := Calculate(survey.Rating, answers, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calculation differs:\n%+v\n%+v", first, second)
	}
}

func TestCalculateSurveyStatistics(t *testing.T) {
	surveyID := core.SurveyID(core.NewID())
	q1 := survey.Question{ID: "q1", SurveyID: surveyID, Text: "التقييم العام", Type: survey.Rating}
	q2 := survey.Question{ID: "q2", SurveyID: surveyID, Text: "هل توصي بالمدرسة؟", Type: survey.YesNo, Options: []string{"نعم", "لا"}}
	q3 := survey.Question{ID: "q3", SurveyID: surveyID, Text: "سؤال بلا إجابات", Type: survey.Text}

	five := 5.0
	yes := "نعم"
	responses := []survey.Response{
		{QuestionID: "q1", AnswerValue: &five},
		{QuestionID: "q2", AnswerOption: &yes},
	}

	results := CalculateSurveyStatistics([]survey.Question{q1, q2, q3}, responses)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].QuestionID != "q1" || results[0].QuestionText != "التقييم العام" {
		t.Errorf("result[0] not paired with q1: %+v", results[0])
	}
	if _, ok := results[0].Statistics.(NumericStats); !ok {
		t.Errorf("q1 Statistics has type %T, want NumericStats", results[0].Statistics)
	}
	if _, ok := results[1].Statistics.(CategoricalStats); !ok {
		t.Errorf("q2 Statistics has type %T, want CategoricalStats", results[1].Statistics)
	}
	// A question with zero responses still yields a (degraded) result.
	if _, ok := results[2].Statistics.(EmptyStats); !ok {
		t.Errorf("q3 Statistics has type %T, want EmptyStats", results[2].Statistics)
	}
}
