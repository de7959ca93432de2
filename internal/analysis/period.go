package analysis

import (
	"sort"
	"strconv"
	"strings"
)

// Period is a reporting period shortcut.
type Period struct {
	Label  string
	Months int
}

// Periods are the reporting periods the backend reports history for.
var Periods = []Period{
	{Label: "1M", Months: 1},
	{Label: "3M", Months: 3},
	{Label: "6M", Months: 6},
	{Label: "1Y", Months: 12},
	{Label: "3Y", Months: 36},
	{Label: "5Y", Months: 60},
}

// DefaultPeriodMonths is the reporting period selected at startup.
const DefaultPeriodMonths = 12

// PeriodMonths extracts the month count from a historical data key.
// Both "12" and "12_month" yield 12.
func PeriodMonths(key string) (int, bool) {
	digits := key
	if i := strings.IndexFunc(key, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = key[:i]
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PeriodKey returns the historical data key for a month count ("12").
func PeriodKey(months int) string {
	return strconv.Itoa(months)
}

// PeriodName renders a month count as a short label (1M, 1Y, 3Y).
func PeriodName(months int) string {
	if months >= 12 && months%12 == 0 {
		return strconv.Itoa(months/12) + "Y"
	}
	return strconv.Itoa(months) + "M"
}

// SeriesForPeriod finds the series for the given month count, whatever key style the backend used.
func SeriesForPeriod(data map[string]Series, months int) (Series, bool) {
	if s, ok := data[PeriodKey(months)]; ok {
		return s, true
	}
	for key, s := range data {
		if m, ok := PeriodMonths(key); ok && m == months {
			return s, true
		}
	}
	return Series{}, false
}

// SortedPeriodKeys returns the keys of data ordered by period length.
// Keys without a month count sort last, alphabetically.
func SortedPeriodKeys(data map[string]Series) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, okI := PeriodMonths(keys[i])
		mj, okJ := PeriodMonths(keys[j])
		switch {
		case okI && okJ && mi != mj:
			return mi < mj
		case okI != okJ:
			return okI
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
