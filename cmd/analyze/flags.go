package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/rovshanmuradov/fund-analyzer/internal/ledger"
	"github.com/shopspring/decimal"
)

// flow is one -flow date:amount argument. Negative amounts are withdrawals.
type flow struct {
	Date      string
	Amount    string
	Direction ledger.Direction
}

// flowList collects repeated -flow flags.
type flowList []flow

func (f *flowList) String() string {
	parts := make([]string, 0, len(*f))
	for _, fl := range *f {
		sign := ""
		if fl.Direction == ledger.Withdraw {
			sign = "-"
		}
		parts = append(parts, fl.Date+":"+sign+fl.Amount)
	}
	return strings.Join(parts, ",")
}

func (f *flowList) Set(value string) error {
	i := strings.LastIndex(value, ":")
	if i <= 0 || i == len(value)-1 {
		return fmt.Errorf("expected date:amount, got %q", value)
	}
	date := strings.TrimSpace(value[:i])
	if _, err := analysis.ParseDate(date); err != nil {
		return fmt.Errorf("invalid flow date %q: %w", date, err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(value[i+1:]))
	if err != nil {
		return fmt.Errorf("invalid flow amount %q: %w", value[i+1:], err)
	}

	direction := ledger.Deposit
	if amount.IsNegative() {
		direction = ledger.Withdraw
	}
	*f = append(*f, flow{Date: date, Amount: amount.Abs().String(), Direction: direction})
	return nil
}

// parsePeriod accepts a shortcut label ("3M", "1y") or a month count ("36").
func parsePeriod(value string) (int, error) {
	value = strings.TrimSpace(value)
	for _, p := range analysis.Periods {
		if strings.EqualFold(p.Label, value) {
			return p.Months, nil
		}
	}
	months, err := strconv.Atoi(value)
	if err != nil || months <= 0 {
		return 0, fmt.Errorf("unknown period %q", value)
	}
	return months, nil
}
