package view

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NotAvailable is shown for metrics the backend could not compute.
const NotAvailable = "N/A"

var returnMetrics = map[string]bool{
	"absolute_returns": true,
	"rolling_returns":  true,
	"cagr":             true,
	"xirr":             true,
}

var ratioMetrics = map[string]bool{
	"sharpe_ratio":  true,
	"sortino_ratio": true,
	"beta":          true,
	"alpha":         true,
	"volatility":    true,
}

// acronyms stay upper case in labels.
var acronyms = map[string]string{
	"Cagr": "CAGR",
	"Xirr": "XIRR",
	"Nav":  "NAV",
	"Amc":  "AMC",
}

var titleCaser = cases.Title(language.English)

// IsReturnMetric reports whether a metric is a percentage return.
func IsReturnMetric(name string) bool {
	return returnMetrics[name] || strings.HasSuffix(name, "_return") || strings.HasSuffix(name, "_returns")
}

// IsRatioMetric reports whether a metric is a plain ratio.
func IsRatioMetric(name string) bool {
	return ratioMetrics[name] || strings.HasSuffix(name, "_ratio")
}

// FormatMetricValue renders a metric for display:
//
//	returns  12.3    -> "12.30%"
//	ratios   1.23456 -> "1.23"
//	other    42      -> "42"
//	nil              -> "N/A"
func FormatMetricValue(name string, v *float64) string {
	if v == nil {
		return NotAvailable
	}
	switch {
	case IsReturnMetric(name):
		return fmt.Sprintf("%.2f%%", *v)
	case IsRatioMetric(name):
		return fmt.Sprintf("%.2f", *v)
	default:
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
}

// MetricLabel turns a backend metric name into a display label ("sharpe_ratio" -> "Sharpe Ratio").
func MetricLabel(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		w = titleCaser.String(w)
		if a, ok := acronyms[w]; ok {
			w = a
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

// MetricSuffix is the unit appended to a metric's chart axis.
func MetricSuffix(name string) string {
	if IsReturnMetric(name) {
		return "%"
	}
	return ""
}

func formatPercent(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", *v)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "/10"
}
