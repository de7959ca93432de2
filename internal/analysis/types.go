// internal/analysis/types.go
package analysis

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bounds for the user-selectable analysis periods.
const (
	MinRollingWindowMonths = 1
	MaxRollingWindowMonths = 60
	MinCAGRPeriodYears     = 1
	MaxCAGRPeriodYears     = 10
	MinSharpePeriodYears   = 1
	MaxSharpePeriodYears   = 10
)

// AnalysisParameters is everything the backend needs to run one analysis.
type AnalysisParameters struct {
	StartDate           time.Time
	EndDate             time.Time
	RollingWindowMonths int
	CAGRPeriodYears     int
	SharpePeriodYears   int
	AdditionalFlows     []CashflowEntry
}

// CashflowEntry is a supplemental cashflow. Deposits are positive, withdrawals negative.
type CashflowEntry struct {
	Date   time.Time
	Amount decimal.Decimal
}

// AnalysisRequest is the JSON body of POST /analyze.
type AnalysisRequest struct {
	StartDate       Date          `json:"startDate"`
	EndDate         Date          `json:"endDate"`
	RollingWindow   int           `json:"rollingWindow"`
	CAGRPeriod      int           `json:"cagrPeriod"`
	SharpePeriod    int           `json:"sharpePeriod"`
	AdditionalFlows []FlowPayload `json:"additionalFlows"`
}

// FlowPayload is the wire form of a CashflowEntry.
type FlowPayload struct {
	Date   Date    `json:"date"`
	Amount float64 `json:"amount"`
}

// Request converts the parameters to their wire representation.
func (p AnalysisParameters) Request() AnalysisRequest {
	flows := make([]FlowPayload, 0, len(p.AdditionalFlows))
	for _, f := range p.AdditionalFlows {
		flows = append(flows, FlowPayload{
			Date:   NewDate(f.Date),
			Amount: f.Amount.InexactFloat64(),
		})
	}

	return AnalysisRequest{
		StartDate:       NewDate(p.StartDate),
		EndDate:         NewDate(p.EndDate),
		RollingWindow:   p.RollingWindowMonths,
		CAGRPeriod:      p.CAGRPeriodYears,
		SharpePeriod:    p.SharpePeriodYears,
		AdditionalFlows: flows,
	}
}

// AnalysisResult is the decoded response of POST /analyze.
type AnalysisResult struct {
	Metrics        map[string]*float64 `json:"metrics"`
	HistoricalData map[string]Series   `json:"historical_data"`
	Recommendation Recommendation      `json:"recommendation"`
	Comparative    *Comparative        `json:"comparative,omitempty"`
	Trends         *Trends             `json:"trends,omitempty"`
}

// Series is a dated sequence of values, e.g. NAV over a reporting period.
type Series struct {
	Dates  []Date    `json:"dates"`
	Values []float64 `json:"values"`
}

// Len returns the number of usable points (dates and values paired).
func (s Series) Len() int {
	if len(s.Dates) < len(s.Values) {
		return len(s.Dates)
	}
	return len(s.Values)
}

// Recommendation is the backend's verdict on the fund.
type Recommendation struct {
	Label       string   `json:"recommendation"`
	Score       float64  `json:"score"`
	Reasons     []string `json:"reasons"`
	ActionItems []string `json:"action_items"`
}

// Comparative holds the optional category and benchmark comparison blocks.
type Comparative struct {
	Category  *Comparison `json:"category,omitempty"`
	Benchmark *Comparison `json:"benchmark,omitempty"`
}

// Comparison compares the fund against one reference (peer category or index).
type Comparison struct {
	Name           string   `json:"name"`
	FundReturn     *float64 `json:"fund_return"`
	PeerReturn     *float64 `json:"peer_return"`
	Outperformance *float64 `json:"outperformance"`
}

// Trends holds the optional historical trend series.
type Trends struct {
	NAV     *Series `json:"nav,omitempty"`
	Returns *Series `json:"returns,omitempty"`
	Risk    *Series `json:"risk,omitempty"`
}

// FundInfo is the fund identity served by GET /fund-data.json.
type FundInfo struct {
	SchemeName string `json:"scheme_name"`
	AMCName    string `json:"amc_name"`
	ISIN       string `json:"isin"`
}

// Params converts a decoded request back into parameters, e.g. to validate it server side.
func (r AnalysisRequest) Params() AnalysisParameters {
	flows := make([]CashflowEntry, 0, len(r.AdditionalFlows))
	for _, f := range r.AdditionalFlows {
		flows = append(flows, CashflowEntry{Date: f.Date.Time, Amount: decimal.NewFromFloat(f.Amount)})
	}
	return AnalysisParameters{
		StartDate:           r.StartDate.Time,
		EndDate:             r.EndDate.Time,
		RollingWindowMonths: r.RollingWindow,
		CAGRPeriodYears:     r.CAGRPeriod,
		SharpePeriodYears:   r.SharpePeriod,
		AdditionalFlows:     flows,
	}
}
