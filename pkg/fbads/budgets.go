package fbads

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/Timur0895/Monthly-reports-bot/internal/utils"
	"github.com/Timur0895/Monthly-reports-bot/pkg/report"
)

// FetchAdsetDailyBudgets lists the daily budgets (in minor currency units)
// of a campaign's ad sets.
func (c *Client) FetchAdsetDailyBudgets(ctx context.Context, campaignID string) ([]int64, error) {
	params := url.Values{}
	params.Set("fields", "id,name,daily_budget,status")
	params.Set("limit", pageLimit)

	body, err := c.get(ctx, campaignID+"/adsets", params)
	if err != nil {
		return nil, err
	}

	var budgets []int64
	for _, adset := range gjson.Get(body, "data").Array() {
		// zero is a real budget; only ad sets without the field are skipped
		if b := adset.Get("daily_budget"); b.Exists() {
			budgets = append(budgets, b.Int())
		}
	}
	return budgets, nil
}

// DisplayDailyBudget picks the budget shown in the report: the first ad-set
// daily budget converted to major units, or the no-budget dash.
func DisplayDailyBudget(budgetsMinorUnits []int64) string {
	if len(budgetsMinorUnits) == 0 {
		return report.NoBudgetDisplay
	}
	return fmt.Sprintf("%.2f", float64(budgetsMinorUnits[0])/100)
}

// DailyBudgetDisplay implements report.ExtrasSource. Lookup failures degrade
// to the no-budget dash; they never fail a report run.
func (c *Client) DailyBudgetDisplay(ctx context.Context, campaignID string) string {
	budgets, err := c.FetchAdsetDailyBudgets(ctx, campaignID)
	if err != nil {
		utils.Log.Debugf("adset budgets for %s: %v", campaignID, err)
		return report.NoBudgetDisplay
	}
	return DisplayDailyBudget(budgets)
}
