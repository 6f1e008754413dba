package report

import (
	"context"
	"fmt"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
)

// InsightsSource fetches campaign data from the ads platform. Calls are
// blocking and may be slow or rate-limited upstream; errors propagate to the
// caller of Generate, no retrying happens here.
type InsightsSource interface {
	FetchCampaignInsights(ctx context.Context, accountID string, dr period.DateRange) ([]CampaignRecord, error)
	FetchCampaignStatuses(ctx context.Context, accountID string) (map[string]string, error)
}

// ExtrasSource supplies the per-campaign budget display and ad preview link.
// Both are cosmetic: implementations degrade to empty values on failure.
type ExtrasSource interface {
	DailyBudgetDisplay(ctx context.Context, campaignID string) string
	PreviewLink(ctx context.Context, campaignID string) string
}

// SheetWriter lays the finished report out into the client spreadsheet and
// returns the target worksheet ID.
type SheetWriter interface {
	WriteReport(ctx context.Context, spreadsheetID string, dr period.DateRange, overall OverallSummary, rows []CampaignRow) (int64, error)
}

// Deps bundles the collaborators of one report run.
type Deps struct {
	Insights InsightsSource
	Extras   ExtrasSource // optional
	Writer   SheetWriter
}

// Generate runs the full report pipeline for one client and returns the
// spreadsheet URL. The URL is the authoritative success signal: once it is
// returned the report data is in the sheet.
func (d Deps) Generate(ctx context.Context, adName, accountID, spreadsheetID string, dr period.DateRange) (string, error) {
	log := utils.Log.WithField("client", adName)
	log.Infof("generating report for %s..%s", dr.Since, dr.Until)

	records, err := d.Insights.FetchCampaignInsights(ctx, accountID, dr)
	if err != nil {
		return "", fmt.Errorf("fetch insights for %s: %w", accountID, err)
	}

	statuses, err := d.Insights.FetchCampaignStatuses(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("fetch statuses for %s: %w", accountID, err)
	}
	for i := range records {
		records[i].EffectiveStatus = statuses[records[i].ID]
	}
	log.Debugf("insights: campaigns=%d statuses=%d", len(records), len(statuses))

	overall := Aggregate(records, dr)
	log.Debugf("overall: has_data=%v goals=%d spend=%.2f period=%q",
		overall.HasData, len(overall.GoalTotals), overall.TotalSpend, overall.PeriodLabel)

	rows := make([]CampaignRow, 0, len(records))
	for _, rec := range records {
		budget, preview := "", ""
		if d.Extras != nil {
			budget = d.Extras.DailyBudgetDisplay(ctx, rec.ID)
			preview = d.Extras.PreviewLink(ctx, rec.ID)
		}
		rows = append(rows, BuildRow(rec, budget, preview))
	}
	SortRows(rows)

	sheetID, err := d.Writer.WriteReport(ctx, spreadsheetID, dr, overall, rows)
	if err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s#gid=%d", spreadsheetID, sheetID)
	log.Infof("report ready: %s", url)
	return url, nil
}
