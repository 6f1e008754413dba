package gsheets

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Timur0895/Monthly-reports-bot/pkg/goal"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
	"github.com/Timur0895/Monthly-reports-bot/pkg/report"
)

type rangeUpdate struct {
	Range  string
	Values [][]interface{}
}

type rowInsert struct {
	Before int64
	Count  int64
}

// fakeSheetAPI records every call; formatting methods succeed silently.
// With a non-nil grid it also replays clears, updates and row inserts into
// a cell map so tests can inspect the resulting sheet contents.
type fakeSheetAPI struct {
	sheets []Worksheet
	nextID int64
	grid   map[string]interface{}

	updates    []rangeUpdate
	clears     []string
	inserts    []rowInsert
	bolds      []string
	unfreezes  int
	duplicated bool
	added      bool
	addedRows  int64
	addedCols  int64
}

func (f *fakeSheetAPI) ListWorksheets(ctx context.Context, spreadsheetID string) ([]Worksheet, error) {
	return f.sheets, nil
}

func (f *fakeSheetAPI) DuplicateSheet(ctx context.Context, spreadsheetID string, sourceSheetID int64, newTitle string) (Worksheet, error) {
	f.duplicated = true
	f.nextID++
	ws := Worksheet{ID: f.nextID, Title: newTitle}
	f.sheets = append(f.sheets, ws)
	return ws, nil
}

func (f *fakeSheetAPI) AddSheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) (Worksheet, error) {
	f.added = true
	f.addedRows, f.addedCols = rows, cols
	f.nextID++
	ws := Worksheet{ID: f.nextID, Title: title}
	f.sheets = append(f.sheets, ws)
	return ws, nil
}

func (f *fakeSheetAPI) ClearRanges(ctx context.Context, spreadsheetID, sheetTitle string, a1Ranges []string) error {
	f.clears = append(f.clears, a1Ranges...)
	if f.grid != nil {
		for _, rng := range a1Ranges {
			r1, c1, r2, c2 := splitRange(rng)
			for r := r1; r <= r2; r++ {
				for c := c1; c <= c2; c++ {
					delete(f.grid, cellA1(r, c))
				}
			}
		}
	}
	return nil
}

func (f *fakeSheetAPI) UpdateRange(ctx context.Context, spreadsheetID, sheetTitle, a1Range string, values [][]interface{}) error {
	f.updates = append(f.updates, rangeUpdate{Range: a1Range, Values: values})
	if f.grid != nil {
		r1, c1, _, _ := splitRange(a1Range)
		for i, row := range values {
			for j, v := range row {
				f.grid[cellA1(r1+i, c1+j)] = v
			}
		}
	}
	return nil
}

func (f *fakeSheetAPI) InsertBlankRows(ctx context.Context, spreadsheetID string, sheetID int64, beforeRow, count int64) error {
	f.inserts = append(f.inserts, rowInsert{Before: beforeRow, Count: count})
	if f.grid != nil {
		shifted := make(map[string]interface{}, len(f.grid))
		for key, v := range f.grid {
			r, c, _ := parseA1(key)
			if int64(r) >= beforeRow {
				r += int(count)
			}
			shifted[cellA1(r, c)] = v
		}
		f.grid = shifted
	}
	return nil
}

func splitRange(a1Range string) (r1, c1, r2, c2 int) {
	parts := strings.SplitN(a1Range, ":", 2)
	r1, c1, _ = parseA1(parts[0])
	r2, c2 = r1, c1
	if len(parts) == 2 {
		r2, c2, _ = parseA1(parts[1])
	}
	return r1, c1, r2, c2
}

func (f *fakeSheetAPI) FormatHeader(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return nil
}

func (f *fakeSheetAPI) CenterRange(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return nil
}

func (f *fakeSheetAPI) CurrencyRange(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return nil
}

func (f *fakeSheetAPI) BoldCell(ctx context.Context, spreadsheetID string, sheetID int64, row, col int) error {
	f.bolds = append(f.bolds, fmt.Sprintf("%d:%d", row, col))
	return nil
}

func (f *fakeSheetAPI) SetBasicFilter(ctx context.Context, spreadsheetID string, sheetID int64, rect GridRect) error {
	return nil
}

func (f *fakeSheetAPI) FreezeRows(ctx context.Context, spreadsheetID string, sheetID int64, rows int64) error {
	return nil
}

func (f *fakeSheetAPI) Unfreeze(ctx context.Context, spreadsheetID string, sheetID int64) error {
	f.unfreezes++
	return nil
}

func (f *fakeSheetAPI) updateFor(t *testing.T, a1Range string) [][]interface{} {
	t.Helper()
	for i := len(f.updates) - 1; i >= 0; i-- {
		if f.updates[i].Range == a1Range {
			return f.updates[i].Values
		}
	}
	t.Fatalf("no update recorded for range %s (got %v)", a1Range, f.updates)
	return nil
}

var octoberRange = period.DateRange{Since: "2025-10-01", Until: "2025-10-31"}

func octoberSheet() []Worksheet {
	return []Worksheet{{ID: 7, Title: octoberRange.SheetTitle()}}
}

func TestWriteReportOverviewOmitsZeroGoals(t *testing.T) {
	fake := &fakeSheetAPI{sheets: octoberSheet()}
	w := &Writer{API: fake}

	overall := report.OverallSummary{
		PeriodLabel: octoberRange.Label(),
		GoalTotals:  map[goal.Category]float64{goal.Leads: 0, goal.Sales: 120},
		TotalSpend:  340.5,
		HasData:     true,
	}

	sheetID, err := w.WriteReport(context.Background(), "ss", octoberRange, overall, nil)
	require.NoError(t, err)
	require.EqualValues(t, 7, sheetID)

	header := fake.updateFor(t, "A45:C45")
	require.Equal(t, [][]interface{}{{"Period", "Sales", "Spend"}}, header)

	values := fake.updateFor(t, "A46:C46")
	require.Equal(t, [][]interface{}{{octoberRange.Label(), 120.0, 340.5}}, values)

	// the clear always spans the widest possible overview block
	require.Contains(t, fake.clears, "A45:F46")
	require.Equal(t, 1, fake.unfreezes)
}

func TestWriteReportOverviewShrinksOnRerun(t *testing.T) {
	fake := &fakeSheetAPI{sheets: octoberSheet(), grid: map[string]interface{}{}}
	w := &Writer{API: fake}

	twoGoals := report.OverallSummary{
		PeriodLabel: octoberRange.Label(),
		GoalTotals:  map[goal.Category]float64{goal.Leads: 10, goal.Sales: 120},
		TotalSpend:  340.5,
		HasData:     true,
	}
	_, err := w.WriteReport(context.Background(), "ss", octoberRange, twoGoals, nil)
	require.NoError(t, err)
	require.Equal(t, "Spend", fake.grid["D45"])

	oneGoal := report.OverallSummary{
		PeriodLabel: octoberRange.Label(),
		GoalTotals:  map[goal.Category]float64{goal.Sales: 80},
		TotalSpend:  200.0,
		HasData:     true,
	}
	_, err = w.WriteReport(context.Background(), "ss", octoberRange, oneGoal, nil)
	require.NoError(t, err)

	require.Equal(t, "Period", fake.grid["A45"])
	require.Equal(t, "Sales", fake.grid["B45"])
	require.Equal(t, "Spend", fake.grid["C45"])
	require.Equal(t, 200.0, fake.grid["C46"])

	// nothing from the wider first run survives past the new header
	for _, cell := range []string{"D45", "D46", "E45", "E46"} {
		require.NotContains(t, fake.grid, cell)
	}
}

func TestWriteReportCampaignTable(t *testing.T) {
	fake := &fakeSheetAPI{sheets: octoberSheet()}
	w := &Writer{API: fake}

	rows := []report.CampaignRow{
		{Name: "Autumn sale", Goal: "Sales", StatusDisplay: report.StatusActive,
			ResultValue: 5, CostPerResult: 20, Reach: 1200,
			DailyBudgetDisplay: "15.00", Spend: 100, PreviewLink: "https://example.com/ad"},
		{Name: "Old promo", Goal: "Clicks", StatusDisplay: report.StatusInactive,
			ResultValue: 0, Reach: 0,
			DailyBudgetDisplay: report.NoBudgetDisplay, Spend: 3.5},
	}

	_, err := w.WriteReport(context.Background(), "ss", octoberRange, report.OverallSummary{}, rows)
	require.NoError(t, err)

	header := fake.updateFor(t, "A50:I50")
	require.Len(t, header[0], len(CampaignHeaders))
	require.Equal(t, "Campaign", header[0][0])
	require.Equal(t, "Ad link", header[0][8])

	data := fake.updateFor(t, "A51:I52")
	require.Len(t, data, 2)
	require.Equal(t, rows[0].Values(), data[0])
	require.Equal(t, rows[1].Values(), data[1])
	require.Contains(t, fake.clears, "A50:I52")

	// gap inserted right below the table, summary below the gap
	require.Equal(t, []rowInsert{{Before: 53, Count: 2}}, fake.inserts)
	summary := fake.updateFor(t, "A55:B56")
	require.Equal(t, "Final summary for the client", summary[0][0])
	require.Contains(t, fake.bolds, "55:1")
}

func TestWriteReportNoRowsKeepsBlankRegion(t *testing.T) {
	fake := &fakeSheetAPI{sheets: octoberSheet()}
	w := &Writer{API: fake}

	_, err := w.WriteReport(context.Background(), "ss", octoberRange, report.OverallSummary{}, nil)
	require.NoError(t, err)

	// one blank data row stays under the header
	require.Contains(t, fake.clears, "A50:I51")
	require.Equal(t, []rowInsert{{Before: 52, Count: 2}}, fake.inserts)
	fake.updateFor(t, "A54:B55")
}

func TestWriteReportIdempotentTableWrites(t *testing.T) {
	fake := &fakeSheetAPI{sheets: octoberSheet()}
	w := &Writer{API: fake}

	rows := []report.CampaignRow{{Name: "Autumn sale", Goal: "Sales", StatusDisplay: report.StatusActive, Spend: 10}}

	_, err := w.WriteReport(context.Background(), "ss", octoberRange, report.OverallSummary{}, rows)
	require.NoError(t, err)
	firstHeader := fake.updateFor(t, "A50:I50")
	firstData := fake.updateFor(t, "A51:I51")

	_, err = w.WriteReport(context.Background(), "ss", octoberRange, report.OverallSummary{}, rows)
	require.NoError(t, err)
	require.Equal(t, firstHeader, fake.updateFor(t, "A50:I50"))
	require.Equal(t, firstData, fake.updateFor(t, "A51:I51"))

	// the trailing gap is append-only and lands again on a re-run
	require.Len(t, fake.inserts, 2)
}

func TestWriteReportDuplicatesTemplate(t *testing.T) {
	fake := &fakeSheetAPI{sheets: []Worksheet{{ID: 1, Title: DefaultTemplateSheet}}, nextID: 1}
	w := &Writer{API: fake}

	sheetID, err := w.WriteReport(context.Background(), "ss", octoberRange, report.OverallSummary{}, nil)
	require.NoError(t, err)
	require.True(t, fake.duplicated)
	require.False(t, fake.added)
	require.EqualValues(t, 2, sheetID)
	require.Equal(t, octoberRange.SheetTitle(), fake.sheets[1].Title)
}

func TestWriteReportAddsBlankSheetWithoutTemplate(t *testing.T) {
	fake := &fakeSheetAPI{}
	w := &Writer{API: fake, TemplateSheet: "Missing_Template"}

	_, err := w.WriteReport(context.Background(), "ss", octoberRange, report.OverallSummary{}, nil)
	require.NoError(t, err)
	require.True(t, fake.added)
	require.EqualValues(t, newSheetRows, fake.addedRows)
	require.EqualValues(t, newSheetCols, fake.addedCols)
}
