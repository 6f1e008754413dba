// Package goal maps campaign objectives to goal categories and picks the
// matching result metric out of a campaign's action counters.
package goal

import (
	"strconv"
	"strings"
)

// Category is the classification bucket for a campaign objective.
type Category string

const (
	Messaging Category = "Messaging"
	Leads     Category = "Leads"
	Clicks    Category = "Clicks"
	Sales     Category = "Sales"
)

// Counter is one named action count reported for a campaign, e.g. a
// "purchase" event total. Value arrives as a string upstream; malformed
// numbers parse to 0.
type Counter struct {
	Type  string
	Value float64
}

// objectiveTokens is evaluated in order; the first set containing a
// substring of the uppercased objective wins. An objective matching both a
// Messaging and a Sales token therefore resolves to Messaging.
var objectiveTokens = []struct {
	category Category
	tokens   []string
}{
	{Messaging, []string{"OUTCOME_MESSAGING", "MESSAGES", "MESSAGE", "CLICK_TO_MESSAGE", "OUTCOME_ENGAGEMENT"}},
	{Leads, []string{"OUTCOME_LEADS", "LEAD", "LEADS", "LEAD_GEN", "LEAD_GENERATION"}},
	{Clicks, []string{"OUTCOME_TRAFFIC", "TRAFFIC", "LINK_CLICKS", "CLICKS", "ENGAGEMENT"}},
	{Sales, []string{"OUTCOME_SALES", "OUTCOME_CONVERSIONS", "SALES", "SALE", "PURCHASE", "CONVERSIONS"}},
}

// resultRules drives metric extraction per category. Aliases are probed in
// order; adding a new upstream counter name is a data change here, not new
// branching.
var resultRules = map[Category]struct {
	aliases []string
	// firstPositive skips zero-valued aliases instead of stopping at the
	// first type match (purchase events arrive under several names at once).
	firstPositive bool
	// clicksFallback falls back to the record-level clicks field when the
	// counter list yields nothing.
	clicksFallback bool
}{
	Messaging: {aliases: []string{"onsite_conversion.messaging_conversation_started_7d"}},
	Leads:     {aliases: []string{"lead"}},
	Clicks:    {aliases: []string{"link_click"}, clicksFallback: true},
	Sales: {
		aliases: []string{
			"purchase",
			"onsite_conversion.purchase",
			"offsite_conversion.fb_pixel_purchase",
			"offsite_conversion.purchase",
		},
		firstPositive: true,
	},
}

// Classify maps a free-form objective string to exactly one Category.
// Clicks is the safe default when nothing matches.
func Classify(objective string) Category {
	o := strings.ToUpper(strings.TrimSpace(objective))
	for _, set := range objectiveTokens {
		for _, tok := range set.tokens {
			if strings.Contains(o, tok) {
				return set.category
			}
		}
	}
	return Clicks
}

// ResultValue extracts the single result metric for a category from a
// campaign's counters. fallbackClicks is the record-level clicks field, used
// only for the Clicks category when no link_click counter is present.
// It never fails: absent or malformed counters count as 0.
func ResultValue(cat Category, counters []Counter, fallbackClicks float64) float64 {
	rule, ok := resultRules[cat]
	if !ok {
		rule = resultRules[Clicks]
	}
	var v float64
	for _, alias := range rule.aliases {
		v = Lookup(counters, alias)
		if !rule.firstPositive || v > 0 {
			break
		}
	}
	if v <= 0 && rule.clicksFallback {
		return fallbackClicks
	}
	if v < 0 {
		return 0
	}
	return v
}

// Lookup returns the value of the first counter with the given type, or 0.
// Later counters sharing the same type are ignored.
func Lookup(counters []Counter, counterType string) float64 {
	for _, c := range counters {
		if c.Type == counterType {
			return c.Value
		}
	}
	return 0
}

// ParseValue converts an upstream counter value to a float, treating
// malformed input as 0.
func ParseValue(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
