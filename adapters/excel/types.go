package excel

import "surveyscope/domain/survey"

// Workbook is raw tabular data: a header row plus data rows keyed by header.
type Workbook struct {
	Headers []string
	Rows    []map[string]string
}

// ParsedQuestion is one spreadsheet column interpreted as a survey question.
type ParsedQuestion struct {
	ColumnName   string
	QuestionText string
	QuestionType survey.QuestionType
	Responses    []survey.Answer
	UniqueValues []string
}

// Metadata describes columns stripped from the export before analysis.
type Metadata struct {
	HasTimestamps bool
	HasEmails     bool
	Columns       []string
}

// ParsedSurvey is the complete result of parsing a freeform export.
type ParsedSurvey struct {
	TotalResponses int
	Questions      []ParsedQuestion
	Metadata       Metadata
}
