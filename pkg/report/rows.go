package report

import (
	"math"
	"sort"
	"strings"

	"github.com/Timur0895/Monthly-reports-bot/pkg/goal"
)

// NoBudgetDisplay is shown when a campaign has no ad-set daily budget.
const NoBudgetDisplay = "—"

// BuildRow combines one campaign record with its looked-up budget display
// and preview link into a table row. Goal and result follow the same strict
// mapping the overall aggregation uses.
func BuildRow(rec CampaignRecord, budgetDisplay, previewLink string) CampaignRow {
	cat := goal.Classify(rec.Objective)
	result := goal.ResultValue(cat, rec.Actions, rec.Clicks)

	var cost float64
	if result > 0 {
		cost = math.Round(rec.Spend/result*100) / 100
	}

	status := StatusInactive
	if strings.Contains(strings.ToUpper(rec.EffectiveStatus), "ACTIVE") {
		status = StatusActive
	}

	if budgetDisplay == "" {
		budgetDisplay = NoBudgetDisplay
	}

	return CampaignRow{
		Name:               rec.Name,
		Goal:               cat,
		StatusDisplay:      status,
		ResultValue:        result,
		CostPerResult:      cost,
		Reach:              int(rec.Reach),
		DailyBudgetDisplay: budgetDisplay,
		Spend:              rec.Spend,
		PreviewLink:        previewLink,
	}
}

// SortRows orders rows active-first, then by name ascending, case-insensitive.
func SortRows(rows []CampaignRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ai := rows[i].StatusDisplay == StatusActive
		aj := rows[j].StatusDisplay == StatusActive
		if ai != aj {
			return ai
		}
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
}
