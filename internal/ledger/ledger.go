// internal/ledger/ledger.go
package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"github.com/shopspring/decimal"
)

// Direction tells whether a cashflow adds money to or takes money out of the fund.
type Direction string

const (
	Deposit  Direction = "deposit"
	Withdraw Direction = "withdraw"
)

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Withdraw {
		return Deposit
	}
	return Withdraw
}

// Entry is one cashflow row exactly as the user typed it.
type Entry struct {
	ID        string
	Date      string
	Amount    string
	Direction Direction
}

// Ledger is the authoritative list of user-entered cashflow rows.
// The effective cashflow list is never stored; Snapshot derives it on every call.
type Ledger struct {
	entries []Entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make([]Entry, 0)}
}

// Add appends a blank deposit row. It has no effect on Snapshot until populated.
func (l *Ledger) Add() Entry {
	e := Entry{
		ID:        uuid.New().String(),
		Direction: Deposit,
	}
	l.entries = append(l.entries, e)
	return e
}

// Update replaces the raw values of one row. Returns false if the row does not exist.
func (l *Ledger) Update(id, date, amount string, direction Direction) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Date = date
			l.entries[i].Amount = amount
			l.entries[i].Direction = direction
			return true
		}
	}
	return false
}

// Remove deletes one row. Returns false if the row does not exist.
func (l *Ledger) Remove(id string) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entry returns a copy of one row.
func (l *Ledger) Entry(id string) (Entry, bool) {
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the raw rows in insertion order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of raw rows, valid or not.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Snapshot derives the effective ledger from the current rows: rows with a
// missing date or a non-numeric amount are dropped, withdrawals are negated.
// Insertion order is preserved and duplicates are kept.
func (l *Ledger) Snapshot() []analysis.CashflowEntry {
	flows := make([]analysis.CashflowEntry, 0, len(l.entries))
	for _, e := range l.entries {
		flow, ok := e.effective()
		if !ok {
			continue
		}
		flows = append(flows, flow)
	}
	return flows
}

// Total sums the effective ledger.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, f := range l.Snapshot() {
		total = total.Add(f.Amount)
	}
	return total
}

// Valid reports whether the row contributes to Snapshot.
func (e Entry) Valid() bool {
	_, ok := e.effective()
	return ok
}

func (e Entry) effective() (analysis.CashflowEntry, bool) {
	dateText := strings.TrimSpace(e.Date)
	if dateText == "" {
		return analysis.CashflowEntry{}, false
	}
	date, err := analysis.ParseDate(dateText)
	if err != nil {
		return analysis.CashflowEntry{}, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(e.Amount))
	if err != nil {
		return analysis.CashflowEntry{}, false
	}
	if e.Direction == Withdraw {
		amount = amount.Neg()
	}

	return analysis.CashflowEntry{Date: date, Amount: amount}, true
}
