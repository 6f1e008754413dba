// Package gsheets talks to the Google Sheets backend: a thin service wrapper
// plus the fixed-layout report writer.
package gsheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Worksheet identifies one tab of a spreadsheet.
type Worksheet struct {
	ID    int64
	Title string
}

// SheetAPI is the spreadsheet surface the layout writer and catalog need.
// *Service implements it against the Sheets API; tests use an in-memory fake.
// The formatting methods are cosmetic: callers treat their errors as
// best-effort.
type SheetAPI interface {
	ListWorksheets(ctx context.Context, spreadsheetID string) ([]Worksheet, error)
	DuplicateSheet(ctx context.Context, spreadsheetID string, sourceSheetID int64, newTitle string) (Worksheet, error)
	AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) (Worksheet, error)
	ClearRanges(ctx context.Context, spreadsheetID, sheetTitle string, a1Ranges []string) error
	UpdateRange(ctx context.Context, spreadsheetID, sheetTitle, a1Range string, values [][]interface{}) error
	InsertBlankRows(ctx context.Context, spreadsheetID string, sheetID int64, beforeRow, count int64) error

	FormatHeader(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error
	CenterRange(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error
	CurrencyRange(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error
	BoldCell(ctx context.Context, spreadsheetID string, sheetID int64, row, col int) error
	SetBasicFilter(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error
	FreezeRows(ctx context.Context, spreadsheetID string, sheetID int64, rows int64) error
	Unfreeze(ctx context.Context, spreadsheetID string, sheetID int64) error
}

// Service wraps the Sheets API with service-account auth.
type Service struct {
	api *sheets.Service
}

var _ SheetAPI = (*Service)(nil)

// NewService authenticates with a service-account JSON key file.
func NewService(ctx context.Context, credentialsPath string) (*Service, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	api, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, err
	}
	return &Service{api: api}, nil
}

func (s *Service) ListWorksheets(ctx context.Context, spreadsheetID string) ([]Worksheet, error) {
	resp, err := s.api.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	var out []Worksheet
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			out = append(out, Worksheet{ID: sh.Properties.SheetId, Title: sh.Properties.Title})
		}
	}
	return out, nil
}

func (s *Service) DuplicateSheet(ctx context.Context, spreadsheetID string, sourceSheetID int64, newTitle string) (Worksheet, error) {
	resp, err := s.batch(ctx, spreadsheetID, &sheets.Request{
		DuplicateSheet: &sheets.DuplicateSheetRequest{
			SourceSheetId: sourceSheetID,
			NewSheetName:  newTitle,
		},
	})
	if err != nil {
		return Worksheet{}, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].DuplicateSheet == nil || resp.Replies[0].DuplicateSheet.Properties == nil {
		return Worksheet{}, &LayoutError{Reason: "duplicated sheet not found in reply"}
	}
	p := resp.Replies[0].DuplicateSheet.Properties
	return Worksheet{ID: p.SheetId, Title: p.Title}, nil
}

func (s *Service) AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) (Worksheet, error) {
	resp, err := s.batch(ctx, spreadsheetID, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: title,
				GridProperties: &sheets.GridProperties{
					RowCount:    rows,
					ColumnCount: cols,
				},
			},
		},
	})
	if err != nil {
		return Worksheet{}, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return Worksheet{}, &LayoutError{Reason: "added sheet not found in reply"}
	}
	p := resp.Replies[0].AddSheet.Properties
	return Worksheet{ID: p.SheetId, Title: p.Title}, nil
}

func (s *Service) ClearRanges(ctx context.Context, spreadsheetID, sheetTitle string, a1Ranges []string) error {
	qualified := make([]string, len(a1Ranges))
	for i, r := range a1Ranges {
		qualified[i] = qualifyRange(sheetTitle, r)
	}
	_, err := s.api.Spreadsheets.Values.BatchClear(spreadsheetID, &sheets.BatchClearValuesRequest{
		Ranges: qualified,
	}).Context(ctx).Do()
	return err
}

func (s *Service) UpdateRange(ctx context.Context, spreadsheetID, sheetTitle, a1Range string, values [][]interface{}) error {
	_, err := s.api.Spreadsheets.Values.Update(spreadsheetID, qualifyRange(sheetTitle, a1Range), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// GetRange reads a qualified A1 range ("Tab!A2:C") as strings.
func (s *Service) GetRange(ctx context.Context, spreadsheetID, qualifiedRange string) ([][]string, error) {
	resp, err := s.api.Spreadsheets.Values.Get(spreadsheetID, qualifiedRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

// UpdateCell writes a single value into a qualified A1 cell.
func (s *Service) UpdateCell(ctx context.Context, spreadsheetID, qualifiedCell, value string) error {
	_, err := s.api.Spreadsheets.Values.Update(spreadsheetID, qualifiedCell, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// InsertBlankRows inserts count blank rows before the 1-based row index,
// shifting everything below down.
func (s *Service) InsertBlankRows(ctx context.Context, spreadsheetID string, sheetID int64, beforeRow, count int64) error {
	_, err := s.batch(ctx, spreadsheetID, &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: beforeRow - 1,
				EndIndex:   beforeRow - 1 + count,
			},
			InheritFromBefore: false,
		},
	})
	return err
}

func (s *Service) FormatHeader(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return s.repeatCell(ctx, spreadsheetID, sheetID, rect, &sheets.CellFormat{
		TextFormat:          &sheets.TextFormat{Bold: true},
		HorizontalAlignment: "CENTER",
		BackgroundColor:     &sheets.Color{Red: 0.90, Green: 0.95, Blue: 0.98},
	}, "userEnteredFormat(textFormat,horizontalAlignment,backgroundColor)")
}

func (s *Service) CenterRange(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return s.repeatCell(ctx, spreadsheetID, sheetID, rect, &sheets.CellFormat{
		HorizontalAlignment: "CENTER",
	}, "userEnteredFormat.horizontalAlignment")
}

func (s *Service) CurrencyRange(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return s.repeatCell(ctx, spreadsheetID, sheetID, rect, &sheets.CellFormat{
		NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: `"$"#,##0.00`},
	}, "userEnteredFormat.numberFormat")
}

func (s *Service) BoldCell(ctx context.Context, spreadsheetID string, sheetID int64, row, col int) error {
	return s.repeatCell(ctx, spreadsheetID, sheetID, GridRect{R1: row, C1: col, R2: row, C2: col}, &sheets.CellFormat{
		TextFormat:          &sheets.TextFormat{Bold: true, FontSize: 11},
		HorizontalAlignment: "LEFT",
	}, "userEnteredFormat(textFormat,horizontalAlignment)")
}

func (s *Service) SetBasicFilter(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	_, err := s.batch(ctx, spreadsheetID, &sheets.Request{
		SetBasicFilter: &sheets.SetBasicFilterRequest{
			Filter: &sheets.BasicFilter{Range: gridRange(sheetID, rect)},
		},
	})
	return err
}

func (s *Service) FreezeRows(ctx context.Context, spreadsheetID string, sheetID int64, rows int64) error {
	return s.updateGridProps(ctx, spreadsheetID, sheetID, rows, 0, "gridProperties.frozenRowCount")
}

func (s *Service) Unfreeze(ctx context.Context, spreadsheetID string, sheetID int64) error {
	return s.updateGridProps(ctx, spreadsheetID, sheetID, 0, 0,
		"gridProperties.frozenRowCount,gridProperties.frozenColumnCount")
}

func (s *Service) batch(ctx context.Context, spreadsheetID string, reqs ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return s.api.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
}

func (s *Service) repeatCell(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect, format *sheets.CellFormat, fields string) error {
	_, err := s.batch(ctx, spreadsheetID, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  gridRange(sheetID, rect),
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	})
	return err
}

func (s *Service) updateGridProps(ctx context.Context, spreadsheetID string, sheetID, frozenRows, frozenCols int64, fields string) error {
	_, err := s.batch(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheetID,
				GridProperties: &sheets.GridProperties{
					FrozenRowCount:    frozenRows,
					FrozenColumnCount: frozenCols,
				},
			},
			Fields: fields,
		},
	})
	return err
}

func gridRange(sheetID int64, rect GridRect) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(rect.R1 - 1),
		EndRowIndex:      int64(rect.R2),
		StartColumnIndex: int64(rect.C1 - 1),
		EndColumnIndex:   int64(rect.C2),
	}
}

func qualifyRange(sheetTitle, a1 string) string {
	return "'" + strings.ReplaceAll(sheetTitle, "'", "''") + "'!" + a1
}
