package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChapter() Chapter {
	return Chapter{
		ID:      "c1",
		Title:   "T",
		Subject: SubjectPhysics,
		Order:   1,
	}
}

func TestValidateChapterSubjectEnum(t *testing.T) {
	ch := validChapter()
	require.NoError(t, ValidateChapter(ch))

	ch.Subject = "biology"
	err := ValidateChapter(ch)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestValidateChapterRequiredFields(t *testing.T) {
	ch := validChapter()
	ch.ID = ""
	assert.Error(t, ValidateChapter(ch))

	ch = validChapter()
	ch.Title = ""
	assert.Error(t, ValidateChapter(ch))
}

func TestValidateChapterRectangularTables(t *testing.T) {
	ch := validChapter()
	ch.Concepts = []Concept{{
		ID:    "concept-1",
		Title: "Units",
		Table: &TableData{
			Headers: []string{"Quantity", "Unit"},
			Rows:    [][]string{{"Length", "metre"}, {"Mass", "kilogram"}},
		},
	}}
	require.NoError(t, ValidateChapter(ch))

	ch.Concepts[0].Table.Rows = append(ch.Concepts[0].Table.Rows, []string{"Time"})
	err := ValidateChapter(ch)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Field, "concept-1")
}

func TestValidateChapterFormulaTable(t *testing.T) {
	ch := validChapter()
	ch.Formulas = []Formula{{
		ID:    "formula-1",
		Title: "Constants",
		Table: &TableData{
			Headers: []string{"Symbol"},
			Rows:    [][]string{{"c", "g"}},
		},
	}}
	assert.Error(t, ValidateChapter(ch))
}

func TestValidateTodoDateFormat(t *testing.T) {
	ok := TodoTask{ID: "t1", Text: "revise", Date: "2024-01-05"}
	require.NoError(t, ValidateTodo(ok))

	for _, bad := range []string{"2024-1-5", "05-01-2024", "2024-01-05T00:00:00Z", ""} {
		task := TodoTask{ID: "t1", Text: "revise", Date: bad}
		assert.Error(t, ValidateTodo(task), "date %q should be rejected", bad)
	}

	missingText := TodoTask{ID: "t1", Date: "2024-01-05"}
	assert.Error(t, ValidateTodo(missingText))
}
