package report

import (
	"github.com/Timur0895/Monthly-reports-bot/pkg/goal"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
)

// Aggregate builds the overall-effectiveness summary across all records.
// It classifies and extracts with the same rules as BuildRow, so the goal
// totals always equal the sum of the individual row results.
func Aggregate(records []CampaignRecord, dr period.DateRange) OverallSummary {
	totals := make(map[goal.Category]float64)
	var spend float64

	for _, rec := range records {
		spend += rec.Spend

		cat := goal.Classify(rec.Objective)
		if v := goal.ResultValue(cat, rec.Actions, rec.Clicks); v > 0 {
			totals[cat] += v
		}
	}

	return OverallSummary{
		PeriodLabel: dr.Label(),
		GoalTotals:  totals,
		TotalSpend:  spend,
		HasData:     len(totals) > 0 || spend > 0,
	}
}
