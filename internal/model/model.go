// Package model defines shared data structures.
package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Subject is one of the three fixed exam subjects.
type Subject string

// The full set of subjects. Reference data; never extended at runtime.
const (
	SubjectPhysics     Subject = "physics"
	SubjectChemistry   Subject = "chemistry"
	SubjectMathematics Subject = "mathematics"
)

// Subjects lists all valid subjects in display order.
var Subjects = []Subject{SubjectPhysics, SubjectChemistry, SubjectMathematics}

// TableData is a simple 2-D grid. Every row must have exactly as many
// cells as there are headers.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Concept is a titled block of explanatory text within a chapter.
type Concept struct {
	ID       string     `json:"id" validate:"required"`
	Title    string     `json:"title" validate:"required"`
	Content  string     `json:"content"`
	Diagrams []string   `json:"diagrams,omitempty"`
	Table    *TableData `json:"table,omitempty"`
}

// Formula is a named piece of mathematical notation with optional notes.
// LaTeX is stored verbatim; rendering is a client concern.
type Formula struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	LaTeX       string     `json:"latex"`
	Explanation string     `json:"explanation,omitempty"`
	Where       string     `json:"where,omitempty"`
	Diagrams    []string   `json:"diagrams,omitempty"`
	Table       *TableData `json:"table,omitempty"`
}

// Example is a worked question/solution pair.
type Example struct {
	ID            string   `json:"id" validate:"required"`
	Question      string   `json:"question"`
	Solution      string   `json:"solution"`
	IsJEEAdvanced bool     `json:"isJeeAdvanced"`
	Diagrams      []string `json:"diagrams,omitempty"`
}

// Chapter is the unit of content: it belongs to exactly one subject and
// owns its concepts, formulas and examples. Sub-records have no identity
// outside their parent chapter.
type Chapter struct {
	ID       string    `json:"id" validate:"required"`
	Title    string    `json:"title" validate:"required"`
	Subject  Subject   `json:"subject" validate:"required,oneof=physics chemistry mathematics"`
	Concepts []Concept `json:"concepts" validate:"dive"`
	Formulas []Formula `json:"formulas" validate:"dive"`
	Examples []Example `json:"examples" validate:"dive"`
	Order    int       `json:"order"`
}

// ChatMessage is a single message within a thread. Messages are immutable
// once appended; there is no edit or delete operation on them.
type ChatMessage struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	IsUser    bool   `json:"isUser"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// ChatThread is an ordered, append-only conversation log.
type ChatThread struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt int64         `json:"createdAt"` // unix milliseconds
	UpdatedAt int64         `json:"updatedAt"` // unix milliseconds
}

// TodoTask is a date-tagged study task. Date is a day-granularity key in
// YYYY-MM-DD form, compared by exact string equality.
type TodoTask struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required"`
	Completed bool   `json:"completed"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ValidationError reports a record that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

var validate = validator.New()

// ValidateChapter checks the chapter against the rules the repository
// enforces: required fields, subject enum membership, and rectangular
// tables. The first violation found is returned.
func ValidateChapter(ch Chapter) error {
	if err := validate.Struct(ch); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &ValidationError{
				Field:  verrs[0].Namespace(),
				Reason: fmt.Sprintf("failed %q rule", verrs[0].Tag()),
			}
		}
		return err
	}
	for _, c := range ch.Concepts {
		if err := validateTable(fmt.Sprintf("concept %s", c.ID), c.Table); err != nil {
			return err
		}
	}
	for _, f := range ch.Formulas {
		if err := validateTable(fmt.Sprintf("formula %s", f.ID), f.Table); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTodo checks a task's required text and day-granularity date key.
func ValidateTodo(t TodoTask) error {
	if err := validate.Struct(t); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return &ValidationError{
				Field:  verrs[0].Namespace(),
				Reason: fmt.Sprintf("failed %q rule", verrs[0].Tag()),
			}
		}
		return err
	}
	return nil
}

// validateTable enforces that every row has exactly one cell per header.
func validateTable(owner string, t *TableData) error {
	if t == nil {
		return nil
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return &ValidationError{
				Field:  fmt.Sprintf("%s table row %d", owner, i),
				Reason: fmt.Sprintf("has %d cells, want %d", len(row), len(t.Headers)),
			}
		}
	}
	return nil
}
