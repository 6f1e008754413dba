// Package period normalizes the free-text report periods accepted on the
// command line into canonical YYYY-MM-DD date ranges.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is a canonical, inclusive [Since, Until] pair of YYYY-MM-DD dates.
// Since <= Until always holds for ranges produced by this package.
type DateRange struct {
	Since string
	Until string
}

// ParseError reports a period string that matched none of the known grammars.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse period: %q", e.Input)
}

var (
	lastDaysRe = regexp.MustCompile(`^last\s+(\d{1,3})\s+days?`)
	dayMonthRe = regexp.MustCompile(`^(\d{1,2})[.\-/](\d{1,2})\s*[–\-—]\s*(\d{1,2})[.\-/](\d{1,2})$`)
	isoPairRe  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*\.\.\s*(\d{4}-\d{2}-\d{2})$`)
	yearRe     = regexp.MustCompile(`(20\d{2})`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Parse turns a free-text period into a DateRange. Grammars are tried in
// order, first match wins:
//
//	"last N days"              N=1..999, ending today
//	"DD.MM–DD.MM"              current year implied, endpoints swapped if reversed
//	"YYYY-MM-DD..YYYY-MM-DD"   explicit pair, endpoints swapped if reversed
//	"<month name> [YYYY]"      whole calendar month
func Parse(text string, now time.Time) (DateRange, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	today := midnight(now)

	if m := lastDaysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 1 {
			return DateRange{}, &ParseError{Input: text}
		}
		start := today.AddDate(0, 0, -(n - 1))
		return rangeOf(start, today), nil
	}

	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		a, err1 := dayMonthDate(m[1], m[2], now.Year())
		b, err2 := dayMonthDate(m[3], m[4], now.Year())
		if err1 != nil || err2 != nil {
			return DateRange{}, &ParseError{Input: text}
		}
		if a.After(b) {
			a, b = b, a
		}
		return rangeOf(a, b), nil
	}

	if m := isoPairRe.FindStringSubmatch(s); m != nil {
		a, err1 := time.Parse(dateLayout, m[1])
		b, err2 := time.Parse(dateLayout, m[2])
		if err1 != nil || err2 != nil {
			return DateRange{}, &ParseError{Input: text}
		}
		if a.After(b) {
			a, b = b, a
		}
		return rangeOf(a, b), nil
	}

	for idx, name := range monthNames {
		if !strings.Contains(s, name[:3]) {
			continue
		}
		year := now.Year()
		if y := yearRe.FindString(s); y != "" {
			year, _ = strconv.Atoi(y)
		}
		first := time.Date(year, time.Month(idx+1), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return rangeOf(first, last), nil
	}

	return DateRange{}, &ParseError{Input: text}
}

// ParseDayMonth is the strict "DD.MM–DD.MM" variant used by direct report
// invocation. Unlike Parse it never swaps endpoints: an end that falls before
// the start rolls over to the next year (e.g. "15.12–15.01").
func ParseDayMonth(text string, now time.Time) (DateRange, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	m := dayMonthRe.FindStringSubmatch(s)
	if m == nil {
		return DateRange{}, &ParseError{Input: text}
	}
	year := now.Year()
	a, err1 := dayMonthDate(m[1], m[2], year)
	b, err2 := dayMonthDate(m[3], m[4], year)
	if err1 != nil || err2 != nil {
		return DateRange{}, &ParseError{Input: text}
	}
	if b.Before(a) {
		b, err2 = dayMonthDate(m[3], m[4], year+1)
		if err2 != nil {
			return DateRange{}, &ParseError{Input: text}
		}
	}
	return rangeOf(a, b), nil
}

// Sanitize makes an arbitrary (since, until) pair safe to use as a fetch
// range: empty or malformed dates fall back sensibly, reversed endpoints are
// swapped and the end is clamped so it never exceeds today.
func Sanitize(since, until string, now time.Time) DateRange {
	today := midnight(now)
	s, err := time.Parse(dateLayout, since)
	if err != nil {
		s = today
	}
	u, err := time.Parse(dateLayout, until)
	if err != nil {
		u = s
	}
	if u.After(today) {
		u = today
	}
	if s.After(u) {
		s, u = u, s
	}
	return rangeOf(s, u)
}

// Label renders the range as "DD.MM–DD.MM" for display next to the overview
// block.
func (dr DateRange) Label() string {
	return fmtDayMonth(dr.Since) + "–" + fmtDayMonth(dr.Until)
}

// SheetTitle derives the worksheet title for the range:
//
//	"2025-10"              full month (starts on the 1st)
//	"2025-10 (05–20)"      partial range within one month
//	"2025-09_2025-10"      range spanning months
func (dr DateRange) SheetTitle() string {
	a, err1 := time.Parse(dateLayout, dr.Since)
	b, err2 := time.Parse(dateLayout, dr.Until)
	if err1 != nil || err2 != nil {
		return dr.Since + ".." + dr.Until
	}
	base := a.Format("2006-01")
	if a.Year() == b.Year() && a.Month() == b.Month() {
		if a.Day() == 1 {
			return base
		}
		return fmt.Sprintf("%s (%02d–%02d)", base, a.Day(), b.Day())
	}
	return base + "_" + b.Format("2006-01")
}

func fmtDayMonth(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02.01")
}

func dayMonthDate(day, month string, year int) (time.Time, error) {
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("day or month out of range: %s.%s", day, month)
	}
	t := time.Date(year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		// time.Date normalized an impossible date like 31.02
		return time.Time{}, fmt.Errorf("no such date: %s.%s", day, month)
	}
	return t, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func rangeOf(a, b time.Time) DateRange {
	return DateRange{Since: a.Format(dateLayout), Until: b.Format(dateLayout)}
}
