package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathmentor/internal/docstore"
)

func seed(t *testing.T, docs docstore.Store, student, id string, created time.Time, correct *bool) {
	t.Helper()
	rec, err := docstore.Encode(docstore.ProblemRecord{
		ID:              id,
		Statement:       "What is 3 x 4?",
		GradeLevel:      "3rd Grade",
		Topic:           "Multiplication",
		Difficulty:      "Basic",
		Answer:          "12",
		SubmittedAnswer: "12",
		IsCorrect:       correct,
		HintsRevealed:   2,
		CreatedAt:       created,
	})
	require.NoError(t, err)
	require.NoError(t, docs.Write(context.Background(), docstore.ProblemPath("g1", student, id), rec, docstore.WriteOptions{}))
}

func TestCollectOrdersByCreation(t *testing.T) {
	docs := docstore.NewMemoryStore()
	yes := true
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seed(t, docs, "amy", "b", base.Add(2*time.Minute), &yes)
	seed(t, docs, "amy", "a", base.Add(5*time.Minute), nil)
	seed(t, docs, "ben", "c", base, &yes)

	rows, err := Collect(context.Background(), docs, "g1", []string{"amy", "ben"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].Problem.ID)
	assert.Equal(t, "ben", rows[0].StudentID)
	assert.Equal(t, "b", rows[1].Problem.ID)
	assert.Equal(t, "a", rows[2].Problem.ID)
}

func TestCollectInvalidStudent(t *testing.T) {
	_, err := Collect(context.Background(), docstore.NewMemoryStore(), "g1", []string{"a/b"})
	assert.ErrorIs(t, err, docstore.ErrInvalidPath)
}

func TestWriteXLSX(t *testing.T) {
	no := false
	rows := []Row{{
		StudentID: "amy",
		Problem: docstore.ProblemRecord{
			Statement:       "What is 3 x 4?",
			GradeLevel:      "3rd Grade",
			Topic:           "Multiplication",
			Difficulty:      "Basic",
			Answer:          "12",
			SubmittedAnswer: "13",
			IsCorrect:       &no,
			HintsRevealed:   1,
			CreatedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Header, got[0])
	assert.Equal(t, []string{
		"amy", "2026-03-01 10:00", "3rd Grade", "Multiplication", "Basic",
		"What is 3 x 4?", "12", "13", "No", "1", "No",
	}, got[1])
}
