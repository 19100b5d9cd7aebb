// Package export appends monthly summaries to a Google Sheets spreadsheet so
// history can live next to whatever manual bookkeeping the user already does.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter builds a Sheets client from service account credentials.
// credentialsFile may be empty, in which case GOOGLE_APPLICATION_CREDENTIALS
// is consulted.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Summary"
	}

	if credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if credentialsFile == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_FILE or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendSummary adds one row per call:
// year, month, income, expenses, balance, planned, actual, overspend.
// Amounts are written as decimal dollars so spreadsheet formulas work on them.
func (e *SheetsExporter) AppendSummary(ctx context.Context, s core.MonthlySummary) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row := SummaryRow(s)
	rng := fmt.Sprintf("%s!A:H", e.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append summary to sheet %s: %w", e.sheetName, err)
	}
	return nil
}

// SummaryRow converts a summary to the spreadsheet row layout.
func SummaryRow(s core.MonthlySummary) []any {
	return []any{
		s.Window.Year,
		s.Window.Month.String(),
		s.IncomeTotal.Dollars(),
		s.ExpenseTotal.Dollars(),
		s.Balance.Dollars(),
		s.PlannedBudget.Dollars(),
		s.ActualBudget.Dollars(),
		s.Overspend.Dollars(),
	}
}
