package sheets

import (
	"fmt"
	"strings"
)

// Column letters of the task sheet. The data range starts at sheet row 2,
// row 1 being the header.
const (
	colStatus   = "E"
	colNotified = "F"

	firstDataRow = 2
	columnCount  = 6
)

// Sentinel cell values. Reads tolerate any casing written by older clients;
// writes always use these canonical forms.
const (
	StatusPending = "Pending"
	StatusDone    = "Done"
	NotifiedYes   = "Yes"
)

// Task represents a single row of the task sheet. Row is the zero-based
// position within the data range and serves as the write-back address for
// the single-cell mutations.
type Task struct {
	Row         int
	ID          string
	OwnerChatID string
	Description string
	Due         string
	Status      string
	Notified    string
}

// IsDone reports whether the task is completed. Comparison is
// case-insensitive.
func (t Task) IsDone() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), StatusDone)
}

// IsNotified reports whether a reminder was already dispatched for this due
// occurrence. Comparison is case-insensitive to accept rows written by
// clients that used a lowercase sentinel.
func (t Task) IsNotified() bool {
	return strings.EqualFold(strings.TrimSpace(t.Notified), NotifiedYes)
}

// taskFromRow converts a raw sheet row to a Task, padding missing trailing
// cells with empty strings.
func taskFromRow(index int, row []any) Task {
	cells := make([]string, columnCount)
	for i := 0; i < columnCount && i < len(row); i++ {
		cells[i] = cellString(row[i])
	}

	return Task{
		Row:         index,
		ID:          cells[0],
		OwnerChatID: cells[1],
		Description: cells[2],
		Due:         cells[3],
		Status:      cells[4],
		Notified:    cells[5],
	}
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func cellRange(sheetName, col string, row int) string {
	return fmt.Sprintf("%s!%s%d", sheetName, col, row+firstDataRow)
}

func detailRange(sheetName string, row int) string {
	sheetRow := row + firstDataRow
	return fmt.Sprintf("%s!C%d:D%d", sheetName, sheetRow, sheetRow)
}
