package analysis

import (
	"strings"

	"surveyscope/domain/survey"
)

// Vocabulary used to recognize answer sets from localized survey exports.
// Matching is case-insensitive substring, which tolerates punctuation and
// diacritic variants ("أحياناً" vs "احيانا").
var (
	yesNoVocabulary = []string{"نعم", "لا", "yes", "no", "احيانا", "أحياناً", "sometimes"}

	agreementVocabulary = []string{"موافق", "غير موافق", "محايد", "agree", "disagree", "neutral"}
)

// InferQuestionType classifies a column of raw spreadsheet values as one of
// the five question archetypes. It is a pure function of the value sequence:
// column names are filtered earlier and never consulted here.
//
// The rules run in precedence order and the first match wins. Numeric range
// checks run before the categorical vocabulary checks so a 1-5 numeric
// rating column is never misread as a small multiple-choice set. Columns
// that fit no rule fall through to text, even when they look categorical;
// that is a deliberate heuristic limit, not a defect.
func InferQuestionType(values []survey.Answer) survey.QuestionType {
	nonEmpty := make([]survey.Answer, 0, len(values))
	for _, v := range values {
		if !v.IsNull() {
			nonEmpty = append(nonEmpty, v)
		}
	}
	if len(nonEmpty) == 0 {
		return survey.Text
	}

	labels := uniqueLabels(nonEmpty)

	// Rating: every value numeric, within 1-5 or 1-10, with few distinct values.
	if nums, ok := allNumeric(nonEmpty); ok {
		min, max := nums[0], nums[0]
		for _, n := range nums[1:] {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		if min >= 1 && max <= 5 && len(labels) <= 5 {
			return survey.Rating
		}
		if min >= 1 && max <= 10 && len(labels) <= 10 {
			return survey.Rating
		}
	}

	// Yes/no: at most 3 distinct labels, every one from the yes/no vocabulary.
	if len(labels) <= 3 && allMatch(labels, yesNoVocabulary) {
		return survey.YesNo
	}

	// Likert: 3-7 distinct labels with at least one agreement term.
	if len(labels) >= 3 && len(labels) <= 7 && anyMatch(labels, agreementVocabulary) {
		return survey.LikertScale
	}

	// Multiple choice: a small label set of short answers.
	if len(labels) >= 2 && len(labels) <= 10 && averageLength(labels) < 50 {
		return survey.MultipleChoice
	}

	return survey.Text
}

// uniqueLabels returns the distinct trimmed string forms of the answers,
// in first-seen order.
func uniqueLabels(answers []survey.Answer) []string {
	seen := make(map[string]bool, len(answers))
	labels := make([]string, 0, len(answers))
	for _, a := range answers {
		l := a.Label()
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	return labels
}

// allNumeric coerces every answer to a number, reporting failure as soon as
// one value does not parse.
func allNumeric(answers []survey.Answer) ([]float64, bool) {
	nums := make([]float64, 0, len(answers))
	for _, a := range answers {
		n, ok := a.Numeric()
		if !ok {
			return nil, false
		}
		nums = append(nums, n)
	}
	return nums, true
}

func allMatch(labels []string, vocabulary []string) bool {
	for _, l := range labels {
		if !matchesAny(l, vocabulary) {
			return false
		}
	}
	return true
}

func anyMatch(labels []string, vocabulary []string) bool {
	for _, l := range labels {
		if matchesAny(l, vocabulary) {
			return true
		}
	}
	return false
}

func matchesAny(label string, vocabulary []string) bool {
	lower := strings.ToLower(label)
	for _, term := range vocabulary {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func averageLength(labels []string) float64 {
	if len(labels) == 0 {
		return 0
	}
	total := 0
	for _, l := range labels {
		total += len([]rune(l))
	}
	return float64(total) / float64(len(labels))
}
