package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Timur0895/Monthly-reports-bot/pkg/goal"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
)

type fakeInsights struct {
	records  []CampaignRecord
	statuses map[string]string
	err      error
}

func (f *fakeInsights) FetchCampaignInsights(ctx context.Context, accountID string, dr period.DateRange) ([]CampaignRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeInsights) FetchCampaignStatuses(ctx context.Context, accountID string) (map[string]string, error) {
	return f.statuses, nil
}

type fakeWriter struct {
	overall OverallSummary
	rows    []CampaignRow
	sheetID int64
	err     error
}

func (f *fakeWriter) WriteReport(ctx context.Context, spreadsheetID string, dr period.DateRange, overall OverallSummary, rows []CampaignRow) (int64, error) {
	f.overall = overall
	f.rows = rows
	return f.sheetID, f.err
}

func TestGenerate(t *testing.T) {
	insights := &fakeInsights{
		records: []CampaignRecord{
			{ID: "c2", Name: "Paused promo", Objective: "OUTCOME_LEADS", Spend: 10,
				Actions: []goal.Counter{{Type: "lead", Value: 2}}},
			{ID: "c1", Name: "Autumn sale", Objective: "OUTCOME_SALES", Spend: 100,
				Actions: []goal.Counter{{Type: "purchase", Value: 5}}},
		},
		statuses: map[string]string{"c1": "ACTIVE"},
	}
	writer := &fakeWriter{sheetID: 77}
	deps := Deps{Insights: insights, Writer: writer}

	url, err := deps.Generate(context.Background(), "Bakery", "123", "sheet-id", octRange)
	require.NoError(t, err)
	require.Equal(t, "https://docs.google.com/spreadsheets/d/sheet-id#gid=77", url)

	// statuses merged, rows sorted active-first
	require.Len(t, writer.rows, 2)
	require.Equal(t, "Autumn sale", writer.rows[0].Name)
	require.Equal(t, StatusActive, writer.rows[0].StatusDisplay)
	require.Equal(t, StatusInactive, writer.rows[1].StatusDisplay)

	// no ExtrasSource: budget dash, empty preview
	require.Equal(t, NoBudgetDisplay, writer.rows[0].DailyBudgetDisplay)
	require.Empty(t, writer.rows[0].PreviewLink)

	require.True(t, writer.overall.HasData)
	require.Equal(t, 110.0, writer.overall.TotalSpend)
	require.Equal(t, 5.0, writer.overall.GoalTotals[goal.Sales])
	require.Equal(t, 2.0, writer.overall.GoalTotals[goal.Leads])
}

func TestGenerateFetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("rate limited")
	deps := Deps{
		Insights: &fakeInsights{err: fetchErr},
		Writer:   &fakeWriter{},
	}

	_, err := deps.Generate(context.Background(), "Bakery", "123", "sheet-id", octRange)
	require.ErrorIs(t, err, fetchErr)
}

func TestGenerateWriterErrorPropagates(t *testing.T) {
	writeErr := errors.New("layout broken")
	deps := Deps{
		Insights: &fakeInsights{},
		Writer:   &fakeWriter{err: writeErr},
	}

	_, err := deps.Generate(context.Background(), "Bakery", "123", "sheet-id", octRange)
	require.ErrorIs(t, err, writeErr)
}
