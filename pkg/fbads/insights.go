package fbads

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Timur0895/Monthly-reports-bot/pkg/goal"
	"github.com/Timur0895/Monthly-reports-bot/pkg/period"
	"github.com/Timur0895/Monthly-reports-bot/pkg/report"
)

const pageLimit = "5000"

var insightsFields = "campaign_id,campaign_name,objective,spend,impressions,reach,clicks,actions"

// FetchCampaignInsights returns one record per campaign for the given range.
// The range is sanitized first (reversed endpoints swapped, end clamped to
// today) and serialized as a compact JSON time_range, which the API requires.
func (c *Client) FetchCampaignInsights(ctx context.Context, accountID string, dr period.DateRange) ([]report.CampaignRecord, error) {
	dr = period.Sanitize(dr.Since, dr.Until, time.Now())

	params := url.Values{}
	params.Set("level", "campaign")
	params.Set("time_range", fmt.Sprintf(`{"since":%q,"until":%q}`, dr.Since, dr.Until))
	params.Set("fields", insightsFields)
	params.Set("limit", pageLimit)

	body, err := c.get(ctx, sanitizeAccountID(accountID)+"/insights", params)
	if err != nil {
		return nil, err
	}

	var records []report.CampaignRecord
	for {
		for _, row := range gjson.Get(body, "data").Array() {
			records = append(records, parseInsightsRow(row))
		}
		next := gjson.Get(body, "paging.next").Str
		if next == "" {
			return records, nil
		}
		if body, err = c.getURL(ctx, next); err != nil {
			return nil, err
		}
	}
}

// FetchCampaignStatuses returns a campaign id -> effective_status map for
// the whole account.
func (c *Client) FetchCampaignStatuses(ctx context.Context, accountID string) (map[string]string, error) {
	params := url.Values{}
	params.Set("fields", "id,name,status,effective_status")
	params.Set("limit", pageLimit)

	body, err := c.get(ctx, sanitizeAccountID(accountID)+"/campaigns", params)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]string)
	for {
		for _, row := range gjson.Get(body, "data").Array() {
			statuses[row.Get("id").Str] = row.Get("effective_status").Str
		}
		next := gjson.Get(body, "paging.next").Str
		if next == "" {
			return statuses, nil
		}
		if body, err = c.getURL(ctx, next); err != nil {
			return nil, err
		}
	}
}

func parseInsightsRow(row gjson.Result) report.CampaignRecord {
	rec := report.CampaignRecord{
		ID:        row.Get("campaign_id").Str,
		Name:      row.Get("campaign_name").Str,
		Objective: row.Get("objective").Str,
		Spend:     goal.ParseValue(row.Get("spend").String()),
		Reach:     goal.ParseValue(row.Get("reach").String()),
		Clicks:    goal.ParseValue(row.Get("clicks").String()),
	}
	for _, a := range row.Get("actions").Array() {
		rec.Actions = append(rec.Actions, goal.Counter{
			Type:  a.Get("action_type").Str,
			Value: goal.ParseValue(a.Get("value").String()),
		})
	}
	return rec
}
