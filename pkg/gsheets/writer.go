package gsheets

import (
	"context"
	"fmt"
	"sort"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
	"github.com/Timur0895/Monthly-reports-bot/pkg/report"
)

// Anchors of the fixed report layout. The overview anchor holds the
// "Period" header cell, the campaigns anchor holds the "Campaign" header
// cell. Both match the report template.
const (
	OverviewAnchor  = "A45"
	CampaignsAnchor = "A50"

	trailingGapRows = 2

	// Widest possible overview block: Period + one column per goal
	// category + Spend. Clears always span this width so a run with
	// fewer active goals leaves no stale columns behind.
	overviewMaxCols = 6

	DefaultTemplateSheet = "Report_Template"

	newSheetRows = 300
	newSheetCols = 40
)

// CampaignHeaders is the fixed 9-column campaign table header.
var CampaignHeaders = []string{
	"Campaign",
	"Goal",
	"Status",
	"Result",
	"Cost per result",
	"Reach",
	"Budget",
	"Spend",
	"Ad link",
}

// 0-based table columns that get centered / currency formatting.
var (
	centerCols   = []int{3, 4, 5, 6, 7} // Result..Spend
	currencyCols = []int{4, 6, 7}       // Cost per result, Budget, Spend
)

var summaryBlock = [][]interface{}{
	{"Final summary for the client", ""},
	{"Short paragraph (2–3 sentences):", ""},
}

// Writer lays a computed report out into a client spreadsheet.
type Writer struct {
	API SheetAPI
	// TemplateSheet is duplicated when the period worksheet does not exist
	// yet; empty means DefaultTemplateSheet.
	TemplateSheet string
}

// WriteReport writes the overview block and the campaign table into the
// period worksheet (creating it from the template if needed), inserts the
// trailing gap and summary placeholder, and unfreezes any leftover panes.
// Overview and table writes clear their target ranges first, so re-runs
// overwrite in place; the gap+summary insertion is append-only and will
// duplicate on a re-run against an already-finalized sheet.
func (w *Writer) WriteReport(ctx context.Context, spreadsheetID string, dr period.DateRange, overall report.OverallSummary, rows []report.CampaignRow) (int64, error) {
	ws, err := w.ensureWorksheet(ctx, spreadsheetID, dr.SheetTitle())
	if err != nil {
		return 0, err
	}

	if err := w.writeOverview(ctx, spreadsheetID, ws, overall); err != nil {
		return 0, err
	}

	lastRow, err := w.writeCampaignTable(ctx, spreadsheetID, ws, rows)
	if err != nil {
		return 0, err
	}

	if err := w.appendGapAndSummary(ctx, spreadsheetID, ws, lastRow); err != nil {
		return 0, err
	}

	w.cosmetic("unfreeze", w.API.Unfreeze(ctx, spreadsheetID, ws.ID))
	return ws.ID, nil
}

// ensureWorksheet finds the worksheet with the period title, or creates it
// by duplicating the template sheet, or adds a blank sheet when there is no
// template either.
func (w *Writer) ensureWorksheet(ctx context.Context, spreadsheetID, title string) (Worksheet, error) {
	sheetsList, err := w.API.ListWorksheets(ctx, spreadsheetID)
	if err != nil {
		return Worksheet{}, fmt.Errorf("list worksheets: %w", err)
	}
	for _, ws := range sheetsList {
		if ws.Title == title {
			return ws, nil
		}
	}

	template := w.TemplateSheet
	if template == "" {
		template = DefaultTemplateSheet
	}
	for _, ws := range sheetsList {
		if ws.Title == template {
			dup, err := w.API.DuplicateSheet(ctx, spreadsheetID, ws.ID, title)
			if err != nil {
				return Worksheet{}, fmt.Errorf("duplicate template %q: %w", template, err)
			}
			return dup, nil
		}
	}

	utils.Log.Debugf("no template sheet %q, creating blank %q", template, title)
	return w.API.AddSheet(ctx, spreadsheetID, title, newSheetRows, newSheetCols)
}

// writeOverview writes the dynamic-width overall-effectiveness block:
// header "Period | <goals with positive totals, sorted> | Spend" and the
// parallel value row. The full maximum-width block is cleared first so a
// re-run with fewer active goals shrinks the visible header correctly.
func (w *Writer) writeOverview(ctx context.Context, spreadsheetID string, ws Worksheet, overall report.OverallSummary) error {
	startRow, startCol, err := parseA1(OverviewAnchor)
	if err != nil {
		return err
	}

	type goalTotal struct {
		name  string
		total float64
	}
	var goals []goalTotal
	for cat, total := range overall.GoalTotals {
		if total > 0 {
			goals = append(goals, goalTotal{name: string(cat), total: total})
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].name < goals[j].name })

	headers := make([]interface{}, 0, len(goals)+2)
	values := make([]interface{}, 0, len(goals)+2)
	headers = append(headers, "Period")
	values = append(values, overall.PeriodLabel)
	for _, g := range goals {
		headers = append(headers, g.name)
		if g.total > 0 {
			values = append(values, g.total)
		} else {
			values = append(values, "—")
		}
	}
	headers = append(headers, "Spend")
	values = append(values, overall.TotalSpend)

	endCol := startCol + len(headers) - 1
	if err := w.API.ClearRanges(ctx, spreadsheetID, ws.Title, []string{
		rangeA1(startRow, startCol, startRow+1, startCol+overviewMaxCols-1),
	}); err != nil {
		return fmt.Errorf("clear overview: %w", err)
	}

	if err := w.API.UpdateRange(ctx, spreadsheetID, ws.Title,
		rangeA1(startRow, startCol, startRow, endCol), [][]interface{}{headers}); err != nil {
		return fmt.Errorf("write overview header: %w", err)
	}
	if err := w.API.UpdateRange(ctx, spreadsheetID, ws.Title,
		rangeA1(startRow+1, startCol, startRow+1, endCol), [][]interface{}{values}); err != nil {
		return fmt.Errorf("write overview values: %w", err)
	}

	w.cosmetic("overview header format",
		w.API.FormatHeader(ctx, spreadsheetID, ws.ID, GridRect{R1: startRow, C1: startCol, R2: startRow, C2: endCol}))
	if endCol > startCol {
		w.cosmetic("overview center",
			w.API.CenterRange(ctx, spreadsheetID, ws.ID, GridRect{R1: startRow + 1, C1: startCol + 1, R2: startRow + 1, C2: endCol}))
	}
	w.cosmetic("overview currency",
		w.API.CurrencyRange(ctx, spreadsheetID, ws.ID, GridRect{R1: startRow + 1, C1: endCol, R2: startRow + 1, C2: endCol}))
	return nil
}

// writeCampaignTable writes the fixed-width campaign table and returns the
// 1-based index of the last occupied row. With no rows it still clears and
// keeps a one-row-tall blank data region.
func (w *Writer) writeCampaignTable(ctx context.Context, spreadsheetID string, ws Worksheet, rows []report.CampaignRow) (int, error) {
	headerRow, startCol, err := parseA1(CampaignsAnchor)
	if err != nil {
		return 0, err
	}
	dataStart := headerRow + 1
	endCol := startCol + len(CampaignHeaders) - 1
	lastRow := dataStart
	if len(rows) > 0 {
		lastRow = dataStart + len(rows) - 1
	}

	if err := w.API.ClearRanges(ctx, spreadsheetID, ws.Title, []string{
		rangeA1(headerRow, startCol, lastRow, endCol),
	}); err != nil {
		return 0, fmt.Errorf("clear campaign table: %w", err)
	}

	header := make([]interface{}, len(CampaignHeaders))
	for i, h := range CampaignHeaders {
		header[i] = h
	}
	if err := w.API.UpdateRange(ctx, spreadsheetID, ws.Title,
		rangeA1(headerRow, startCol, headerRow, endCol), [][]interface{}{header}); err != nil {
		return 0, fmt.Errorf("write campaign header: %w", err)
	}

	if len(rows) > 0 {
		values := make([][]interface{}, len(rows))
		for i, r := range rows {
			values[i] = r.Values()
		}
		if err := w.API.UpdateRange(ctx, spreadsheetID, ws.Title,
			rangeA1(dataStart, startCol, lastRow, endCol), values); err != nil {
			return 0, fmt.Errorf("write campaign rows: %w", err)
		}
	}

	w.formatCampaignTable(ctx, spreadsheetID, ws, headerRow, startCol, lastRow, endCol)
	return lastRow, nil
}

func (w *Writer) formatCampaignTable(ctx context.Context, spreadsheetID string, ws Worksheet, headerRow, startCol, lastRow, endCol int) {
	w.cosmetic("campaign header format",
		w.API.FormatHeader(ctx, spreadsheetID, ws.ID, GridRect{R1: headerRow, C1: startCol, R2: headerRow, C2: endCol}))
	w.cosmetic("campaign freeze",
		w.API.FreezeRows(ctx, spreadsheetID, ws.ID, int64(headerRow)))
	w.cosmetic("campaign filter",
		w.API.SetBasicFilter(ctx, spreadsheetID, ws.ID, GridRect{R1: headerRow, C1: startCol, R2: lastRow, C2: endCol}))

	for _, idx := range centerCols {
		c := startCol + idx
		w.cosmetic("campaign center",
			w.API.CenterRange(ctx, spreadsheetID, ws.ID, GridRect{R1: headerRow + 1, C1: c, R2: lastRow, C2: c}))
	}
	for _, idx := range currencyCols {
		c := startCol + idx
		w.cosmetic("campaign currency",
			w.API.CurrencyRange(ctx, spreadsheetID, ws.ID, GridRect{R1: headerRow + 1, C1: c, R2: lastRow, C2: c}))
	}
}

// appendGapAndSummary inserts the trailing blank rows right after the table
// (pushing any template remainder down) and writes the summary placeholder
// below them with a bolded header cell.
func (w *Writer) appendGapAndSummary(ctx context.Context, spreadsheetID string, ws Worksheet, lastRow int) error {
	insertAt := lastRow + 1
	if err := w.API.InsertBlankRows(ctx, spreadsheetID, ws.ID, int64(insertAt), trailingGapRows); err != nil {
		return fmt.Errorf("insert trailing gap: %w", err)
	}

	summaryRow := insertAt + trailingGapRows
	if err := w.API.UpdateRange(ctx, spreadsheetID, ws.Title,
		rangeA1(summaryRow, 1, summaryRow+1, 2), summaryBlock); err != nil {
		return fmt.Errorf("write summary block: %w", err)
	}
	w.cosmetic("summary bold", w.API.BoldCell(ctx, spreadsheetID, ws.ID, summaryRow, 1))
	return nil
}

// cosmetic swallows formatting failures: they must never abort a write that
// already put the essential values in place.
func (w *Writer) cosmetic(what string, err error) {
	if err != nil {
		utils.Log.Debugf("formatting %s: %v", what, err)
	}
}
