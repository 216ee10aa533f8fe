package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"surveyscope/domain/analysis"
	"surveyscope/domain/core"
	"surveyscope/domain/survey"
)

// MinResponses is the smallest row count accepted for analysis.
const MinResponses = 5

// ignoredColumns lists metadata columns from MS Forms exports that never
// represent questions. Matching is case-insensitive substring.
var ignoredColumns = []string{
	"ID",
	"Start time",
	"Completion time",
	"Email",
	"Name",
	"Last modified time",
	"الوقت",
	"البريد الإلكتروني",
	"الاسم",
}

// DataReader reads survey exports from Excel and CSV files.
type DataReader struct {
	name     string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given filename; the extension
// decides the format (.csv, anything else is treated as xlsx).
func NewDataReader(filename string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{name: filename, fileType: fileType}
}

// Read reads the raw workbook from r.
func (dr *DataReader) Read(r io.Reader) (*Workbook, error) {
	log.Printf("[DataReader] Reading %s export: %s", dr.fileType, dr.name)

	switch dr.fileType {
	case "csv":
		return dr.readCSV(r)
	case "xlsx":
		return dr.readExcel(r)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFile, dr.fileType)
	}
}

func (dr *DataReader) readExcel(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptyWorkbook
	}

	// MS Forms exports carry everything on the first sheet.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return buildWorkbook(rows)
}

func (dr *DataReader) readCSV(r io.Reader) (*Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return buildWorkbook(records)
}

func buildWorkbook(rows [][]string) (*Workbook, error) {
	if len(rows) < 2 {
		return nil, core.ErrEmptyWorkbook
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	dataRows := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(map[string]string, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] Export processed (%d columns, %d rows)", len(headers), len(dataRows))
	return &Workbook{Headers: headers, Rows: dataRows}, nil
}

// Validate rejects workbooks too small for meaningful analysis.
func Validate(wb *Workbook) error {
	if len(wb.Rows) == 0 {
		return core.ErrEmptyWorkbook
	}
	if len(wb.Rows) < MinResponses {
		return fmt.Errorf("%w: got %d, need at least %d", core.ErrTooFewResponses, len(wb.Rows), MinResponses)
	}
	return nil
}

// ParseQuestions turns each non-metadata column into a question with an
// inferred type and its raw answer column.
func ParseQuestions(wb *Workbook) (*ParsedSurvey, error) {
	questionColumns := make([]string, 0, len(wb.Headers))
	for _, h := range wb.Headers {
		if h != "" && !shouldIgnoreColumn(h) {
			questionColumns = append(questionColumns, h)
		}
	}
	if len(questionColumns) == 0 {
		return nil, core.ErrNoQuestionColumns
	}

	questions := make([]ParsedQuestion, 0, len(questionColumns))
	for _, col := range questionColumns {
		answers := columnAnswers(wb, col)
		questions = append(questions, ParsedQuestion{
			ColumnName:   col,
			QuestionText: col,
			QuestionType: analysis.InferQuestionType(answers),
			Responses:    answers,
			UniqueValues: uniqueValues(answers),
		})
	}

	return &ParsedSurvey{
		TotalResponses: len(wb.Rows),
		Questions:      questions,
		Metadata: Metadata{
			HasTimestamps: anyColumn(wb.Headers, "time", "وقت"),
			HasEmails:     anyColumn(wb.Headers, "email", "بريد"),
			Columns:       wb.Headers,
		},
	}, nil
}

func columnAnswers(wb *Workbook, column string) []survey.Answer {
	answers := make([]survey.Answer, 0, len(wb.Rows))
	for _, row := range wb.Rows {
		value := row[column]
		if value == "" {
			answers = append(answers, survey.NoAnswer())
			continue
		}
		answers = append(answers, survey.TextAnswer(value))
	}
	return answers
}

func uniqueValues(answers []survey.Answer) []string {
	seen := make(map[string]bool)
	var values []string
	for _, a := range answers {
		if a.IsNull() {
			continue
		}
		l := a.Label()
		if !seen[l] {
			seen[l] = true
			values = append(values, l)
		}
	}
	return values
}

func shouldIgnoreColumn(name string) bool {
	lower := strings.ToLower(name)
	for _, ignored := range ignoredColumns {
		if strings.Contains(lower, strings.ToLower(ignored)) {
			return true
		}
	}
	return false
}

func anyColumn(headers []string, needles ...string) bool {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}
