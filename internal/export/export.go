// Package export writes stored problem records to spreadsheets.
package export

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathmentor/internal/docstore"
)

// SheetName is the worksheet holding the problem rows.
const SheetName = "Problems"

// Header is the first row of the worksheet.
var Header = []string{
	"Student", "Created", "Grade Level", "Topic", "Difficulty",
	"Problem", "Answer", "Submitted", "Correct", "Hints Revealed", "Solution Viewed",
}

// Row is one exported problem.
type Row struct {
	StudentID string
	Problem   docstore.ProblemRecord
}

// Collect reads every problem record of the given students, oldest first.
func Collect(ctx context.Context, docs docstore.Store, guardianID string, studentIDs []string) ([]Row, error) {
	var rows []Row
	for _, sid := range studentIDs {
		col := docstore.ProblemsCollection(guardianID, sid)
		if err := docstore.CheckCollectionPath(col); err != nil {
			return nil, err
		}

		list, err := docs.List(ctx, col)
		if err != nil {
			return nil, fmt.Errorf("list problems of %s: %w", sid, err)
		}
		for _, d := range list {
			var p docstore.ProblemRecord
			if err := docstore.Decode(d.Data, &p); err != nil {
				return nil, fmt.Errorf("decode %s: %w", d.Path, err)
			}
			rows = append(rows, Row{StudentID: sid, Problem: p})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Problem.CreatedAt.Before(rows[j].Problem.CreatedAt)
	})
	return rows, nil
}

// WriteXLSX writes rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, toCells(Header)); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, rowCells(r)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func rowCells(r Row) []any {
	p := r.Problem
	correct := ""
	if p.IsCorrect != nil {
		correct = "No"
		if *p.IsCorrect {
			correct = "Yes"
		}
	}
	created := ""
	if !p.CreatedAt.IsZero() {
		created = p.CreatedAt.UTC().Format("2006-01-02 15:04")
	}
	solution := "No"
	if p.SolutionViewed {
		solution = "Yes"
	}
	return []any{
		r.StudentID, created, p.GradeLevel, p.Topic, p.Difficulty,
		p.Statement, p.Answer, p.SubmittedAnswer, correct, p.HintsRevealed, solution,
	}
}
