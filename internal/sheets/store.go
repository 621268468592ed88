// Package sheets provides the Google Sheets-backed task row store.
// Each task occupies one row of the configured sheet, columns A..F holding
// id, owner chat id, description, due timestamp, status, and notified flag.
// All cell values are treated as opaque strings; date parsing is left to
// the consumers of the rows.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/taskguru/taskguru/internal/config"
)

// Store defines the operations the application needs against the task sheet.
// Row addresses refer to the zero-based position within the data range, so
// the address is only meaningful for the snapshot returned by FetchTasks.
type Store interface {
	// FetchTasks retrieves all task rows in sheet order.
	FetchTasks(ctx context.Context) ([]Task, error)

	// AppendTask adds a new task row after the existing rows.
	AppendTask(ctx context.Context, task Task) error

	// MarkNotified writes the notified sentinel to the addressed row.
	MarkNotified(ctx context.Context, row int) error

	// MarkDone writes the done status to the addressed row.
	MarkDone(ctx context.Context, row int) error

	// UpdateDetails overwrites the description and due cells of the
	// addressed row. The notified flag is left untouched.
	UpdateDetails(ctx context.Context, row int, description, due string) error
}

type sheetsStore struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewStore creates a Store backed by the Google Sheets API. Credentials are
// taken from the configured service account file, falling back to Application
// Default Credentials when none is set.
func NewStore(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(sheetsapi.SpreadsheetsScope))

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	log := logger.With("component", "sheets_store")
	log.Info("Sheets store initialized", "spreadsheet_id", cfg.SpreadsheetID, "sheet_name", cfg.SheetName)

	return &sheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        log,
	}, nil
}

// FetchTasks reads the full data range and converts each row to a Task,
// preserving sheet order. Short rows are padded with empty cells so that a
// row with no notified column still yields a complete Task.
func (s *sheetsStore) FetchTasks(ctx context.Context) ([]Task, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	tasks := make([]Task, 0, len(resp.Values))
	for i, row := range resp.Values {
		tasks = append(tasks, taskFromRow(i, row))
	}

	s.logger.DebugContext(ctx, "Fetched task rows", "count", len(tasks))
	return tasks, nil
}

// AppendTask appends the task as a new row. Empty status defaults to Pending
// and the notified cell always starts blank.
func (s *sheetsStore) AppendTask(ctx context.Context, task Task) error {
	status := task.Status
	if status == "" {
		status = StatusPending
	}

	vr := &sheetsapi.ValueRange{
		Values: [][]any{{task.ID, task.OwnerChatID, task.Description, task.Due, status, ""}},
	}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.dataRange(), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append task row: %w", err)
	}

	s.logger.InfoContext(ctx, "Appended task row", "task_id", task.ID)
	return nil
}

func (s *sheetsStore) MarkNotified(ctx context.Context, row int) error {
	if err := s.writeCell(ctx, s.cellRange(colNotified, row), NotifiedYes); err != nil {
		return fmt.Errorf("failed to mark row %d notified: %w", row, err)
	}
	s.logger.InfoContext(ctx, "Marked task row notified", "row", row)
	return nil
}

func (s *sheetsStore) MarkDone(ctx context.Context, row int) error {
	if err := s.writeCell(ctx, s.cellRange(colStatus, row), StatusDone); err != nil {
		return fmt.Errorf("failed to mark row %d done: %w", row, err)
	}
	s.logger.InfoContext(ctx, "Marked task row done", "row", row)
	return nil
}

func (s *sheetsStore) UpdateDetails(ctx context.Context, row int, description, due string) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{{description, due}}}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.detailRange(row), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d details: %w", row, err)
	}

	s.logger.InfoContext(ctx, "Updated task row details", "row", row)
	return nil
}

func (s *sheetsStore) writeCell(ctx context.Context, rng, value string) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{{value}}}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (s *sheetsStore) dataRange() string {
	return fmt.Sprintf("%s!A2:F", s.sheetName)
}

func (s *sheetsStore) cellRange(col string, row int) string {
	return cellRange(s.sheetName, col, row)
}

func (s *sheetsStore) detailRange(row int) string {
	return detailRange(s.sheetName, row)
}
