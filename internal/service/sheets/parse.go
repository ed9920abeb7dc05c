package sheets

import (
	"ProgJulia/entity"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	spreadsheetURLPrefix = "https://docs.google.com/spreadsheets/d/"
	documentURLPrefix    = "https://docs.google.com/document/d/"

	// NoAccessTitle replaces the title of a linked document the account cannot open.
	NoAccessTitle = "NO ACCESS TO LINK!"

	deadlineLayout = "02.01.2006"
)

var (
	ErrNoTestQuestions = errors.New("no test questions")
	ErrBadDeadline     = errors.New("bad deadline")
)

// ExtractSpreadsheetID returns the id part of a Google Sheets link or "" when
// the link is not a spreadsheet link.
func ExtractSpreadsheetID(link string) string {
	return extractID(link, spreadsheetURLPrefix)
}

func ExtractDocumentID(link string) string {
	return extractID(link, documentURLPrefix)
}

func extractID(link, prefix string) string {
	i := strings.Index(link, prefix)
	if i < 0 {
		return ""
	}
	rest := link[i+len(prefix):]
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// linkResolver fetches what the course sheet only links to.
type linkResolver interface {
	DocumentTitle(ctx context.Context, link string) (string, error)
	SpreadsheetTitle(ctx context.Context, link string) (string, error)
	Questions(ctx context.Context, link string, sheet int) ([]entity.TestQuestion, error)
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// markerIndex returns the position of the cell equal to marker or -1.
func markerIndex(row []string, marker string) int {
	for i, cell := range row {
		if strings.TrimSpace(cell) == marker {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(deadlineLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDeadline, s)
	}
	return &t, nil
}

// parseLessons reads the course sheet. Lessons are separated by empty rows;
// inside a block "Lesson", "Description" and "Video" rows fill the lesson and
// "Task"/"Test" rows attach work to it. A block without a "Video" row is not a lesson.
func parseLessons(ctx context.Context, rows [][]string, spreadsheetID string, sheet int, links linkResolver) ([]entity.Lesson, error) {
	var lessons []entity.Lesson

	lesson := entity.Lesson{SpreadsheetID: spreadsheetID, SheetNumber: sheet}
	complete := false

	flush := func() {
		if complete {
			lessons = append(lessons, lesson)
		}
		lesson = entity.Lesson{SpreadsheetID: spreadsheetID, SheetNumber: sheet}
		complete = false
	}

	for _, row := range rows {
		if emptyRow(row) {
			flush()
			continue
		}

		if i := markerIndex(row, "Lesson"); i >= 0 {
			lesson.Name = cell(row, i+1)
		} else if i := markerIndex(row, "Description"); i >= 0 {
			lesson.DescriptionURL = cell(row, i+1)
		} else if i := markerIndex(row, "Video"); i >= 0 {
			lesson.VideoURL = cell(row, i+1)
			complete = true
		} else if i := markerIndex(row, "Task"); i >= 0 {
			task, err := parseTask(ctx, row[i:], links)
			if err != nil {
				return nil, fmt.Errorf("lesson %q: %w", lesson.Name, err)
			}
			lesson.Tasks = append(lesson.Tasks, task)
		} else if i := markerIndex(row, "Test"); i >= 0 {
			test, err := parseTest(ctx, row[i:], sheet, links)
			if err != nil {
				return nil, fmt.Errorf("lesson %q: %w", lesson.Name, err)
			}
			lesson.Tests = append(lesson.Tests, test)
		}
	}
	flush()

	return lessons, nil
}

// parseTask reads "Task | url | LINK/FILE | dd.MM.yyyy".
func parseTask(ctx context.Context, row []string, links linkResolver) (entity.Task, error) {
	task := entity.Task{
		DescriptionURL: cell(row, 1),
		ExpectedResult: entity.ExpectedFile,
	}
	if strings.EqualFold(cell(row, 2), string(entity.ExpectedLink)) {
		task.ExpectedResult = entity.ExpectedLink
	}

	title, err := links.DocumentTitle(ctx, task.DescriptionURL)
	if err != nil {
		return task, err
	}
	task.Name = title

	if task.Deadline, err = parseDeadline(cell(row, 3)); err != nil {
		return task, err
	}
	return task, nil
}

// parseTest reads "Test | url | Mandatory | dd.MM.yyyy" and loads the questions.
func parseTest(ctx context.Context, row []string, sheet int, links linkResolver) (entity.Test, error) {
	test := entity.Test{
		URL:       cell(row, 1),
		Mandatory: cell(row, 2) == "Mandatory",
	}

	title, err := links.SpreadsheetTitle(ctx, test.URL)
	if err != nil {
		return test, err
	}
	test.Name = title

	if test.Deadline, err = parseDeadline(cell(row, 3)); err != nil {
		return test, err
	}

	if test.Questions, err = links.Questions(ctx, test.URL, sheet); err != nil {
		return test, err
	}
	return test, nil
}

// parseQuestions reads the answers sheet of a test: question in the first
// column, an option in the second and a correctness mark in the third. The
// first empty row ends the list.
func parseQuestions(rows [][]string) ([]entity.TestQuestion, error) {
	var questions []entity.TestQuestion

	for _, row := range rows {
		if emptyRow(row) {
			break
		}
		if q := cell(row, 0); q != "" {
			questions = append(questions, entity.TestQuestion{Question: q})
		}
		if len(questions) == 0 {
			continue
		}
		current := &questions[len(questions)-1]
		if opt := cell(row, 1); opt != "" {
			current.Options = append(current.Options, opt)
			if cell(row, 2) != "" {
				current.CorrectAnswers = append(current.CorrectAnswers, opt)
			}
		}
	}

	if len(questions) == 0 {
		return nil, ErrNoTestQuestions
	}
	return questions, nil
}

func toRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, v := range values {
		row := make([]string, len(v))
		for j, c := range v {
			row[j] = fmt.Sprint(c)
		}
		rows[i] = row
	}
	return rows
}
