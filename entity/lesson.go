package entity

import "time"

type ExpectedResult string

const (
	ExpectedLink ExpectedResult = "LINK"
	ExpectedFile ExpectedResult = "FILE"
)

type Lesson struct {
	ID             int64     `json:"id" bson:"id"`
	Name           string    `json:"name" bson:"name" validate:"max=255"`
	DescriptionURL string    `json:"description_url" bson:"description_url" validate:"max=1024"`
	VideoURL       string    `json:"video_url" bson:"video_url" validate:"max=1024"`
	SpreadsheetID  string    `json:"spreadsheet_id" bson:"spreadsheet_id"`
	SheetNumber    int       `json:"sheet_number" bson:"sheet_number"`
	Groups         []string  `json:"groups" bson:"groups"`
	Tasks          []Task    `json:"tasks" bson:"tasks" validate:"dive"`
	Tests          []Test    `json:"tests" bson:"tests" validate:"dive"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

type Task struct {
	Name           string         `json:"name" bson:"name" validate:"max=255"`
	DescriptionURL string         `json:"description_url" bson:"description_url" validate:"max=1024"`
	ExpectedResult ExpectedResult `json:"expected_result" bson:"expected_result"`
	Deadline       *time.Time     `json:"deadline,omitempty" bson:"deadline,omitempty"`
}

type Test struct {
	Name      string         `json:"name" bson:"name" validate:"max=255"`
	URL       string         `json:"url" bson:"url" validate:"max=1024"`
	Mandatory bool           `json:"mandatory" bson:"mandatory"`
	Deadline  *time.Time     `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Questions []TestQuestion `json:"questions" bson:"questions" validate:"dive"`
}

type TestQuestion struct {
	Question       string   `json:"question" bson:"question" validate:"max=2048"`
	Options        []string `json:"options" bson:"options" validate:"dive,max=1024"`
	CorrectAnswers []string `json:"correct_answers" bson:"correct_answers" validate:"dive,max=1024"`
}

// ImportReport summarises one spreadsheet import.
type ImportReport struct {
	Added   int
	Updated int
	Deleted int
	Lessons []string
}
