package report

import "github.com/Timur0895/Monthly-reports-bot/pkg/goal"

// CampaignRecord is one campaign's insights for the requested period, merged
// with the account-level status map. It lives only for the duration of one
// report run.
type CampaignRecord struct {
	ID              string
	Name            string
	Objective       string
	Spend           float64
	Reach           float64
	Clicks          float64
	Actions         []goal.Counter
	EffectiveStatus string
}

// CampaignRow is one line of the campaign table, in sheet column order.
type CampaignRow struct {
	Name               string
	Goal               goal.Category
	StatusDisplay      string
	ResultValue        float64
	CostPerResult      float64 // rounded to 2 decimals; rendered empty when no result
	Reach              int
	DailyBudgetDisplay string
	Spend              float64
	PreviewLink        string
}

// OverallSummary is the overview block above the campaign table.
type OverallSummary struct {
	PeriodLabel string
	GoalTotals  map[goal.Category]float64 // only categories with a positive total
	TotalSpend  float64
	HasData     bool
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Values renders the row in the fixed 9-column table order. Cost per result
// stays a number in the sheet so currency formatting and sorting work on the
// column; it is empty only when there is no result.
func (r CampaignRow) Values() []interface{} {
	var cost interface{} = ""
	if r.ResultValue > 0 {
		cost = r.CostPerResult
	}
	return []interface{}{
		r.Name,
		string(r.Goal),
		r.StatusDisplay,
		r.ResultValue,
		cost,
		r.Reach,
		r.DailyBudgetDisplay,
		r.Spend,
		r.PreviewLink,
	}
}
