package analysis

import (
	"fmt"
	"strings"
)

// Validation messages shown to the user.
const (
	ErrMsgDateOrder     = "Start date must be before end date"
	ErrMsgRollingWindow = "Rolling window must be between 1 and 60 months"
	ErrMsgCAGRPeriod    = "CAGR period must be between 1 and 10 years"
	ErrMsgSharpePeriod  = "Sharpe ratio period must be between 1 and 10 years"
)

// ValidationResult lists every rule the parameters violate.
type ValidationResult struct {
	OK     bool
	Errors []string
}

// ValidationError is returned when parameters fail validation. It never reaches the network layer.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid analysis parameters: %s", strings.Join(e.Messages, "; "))
}

// Err returns a *ValidationError, or nil when the result is OK.
func (r ValidationResult) Err() error {
	if r.OK {
		return nil
	}
	return &ValidationError{Messages: append([]string(nil), r.Errors...)}
}

// Validate checks the parameters. Rules are evaluated independently and all
// violations are collected.
func Validate(p AnalysisParameters) ValidationResult {
	errs := make([]string, 0, 4)

	if p.StartDate.IsZero() || p.EndDate.IsZero() || !p.StartDate.Before(p.EndDate) {
		errs = append(errs, ErrMsgDateOrder)
	}
	if !inRange(p.RollingWindowMonths, MinRollingWindowMonths, MaxRollingWindowMonths) {
		errs = append(errs, ErrMsgRollingWindow)
	}
	if !inRange(p.CAGRPeriodYears, MinCAGRPeriodYears, MaxCAGRPeriodYears) {
		errs = append(errs, ErrMsgCAGRPeriod)
	}
	if !inRange(p.SharpePeriodYears, MinSharpePeriodYears, MaxSharpePeriodYears) {
		errs = append(errs, ErrMsgSharpePeriod)
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

func inRange(v, min, max int) bool {
	return v >= min && v <= max
}
