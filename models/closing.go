package models

import (
	"fmt"
	"time"
)

// Denominations lists the KRW face values the cashier counts at closing,
// largest first (four notes, four coins).
var Denominations = []int{50000, 10000, 5000, 1000, 500, 100, 50, 10}

// VoucherCategories is the fixed set of gift-voucher types accepted at the
// register.
var VoucherCategories = []string{"culture", "book", "department", "online", "other"}

// Discrepancy thresholds in won. Up to BalancedLimit the drawer counts as
// balanced; above HardBlockLimit closing is refused and the operator has to
// recount. Fixed constants, the register never made these configurable.
const (
	BalancedLimit  = 100
	HardBlockLimit = 1000
)

// ExpenseEntry is one cash outflow taken from the drawer during the day
// (change runs, COD parcels, emergency purchases). The list is append-only
// until the session completes.
type ExpenseEntry struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	LoggedAt    time.Time `json:"logged_at"`
}

// DenominationCount maps a face value to how many of that note or coin were
// counted.
type DenominationCount map[int]int

// Total is the physically counted cash: sum of count times face value.
func (dc DenominationCount) Total() float64 {
	var sum float64
	for face, count := range dc {
		sum += float64(face * count)
	}
	return sum
}

// VoucherTally maps a voucher category to the amount taken in that category.
type VoucherTally map[string]float64

func (vt VoucherTally) Total() float64 {
	var sum float64
	for _, amount := range vt {
		sum += amount
	}
	return sum
}

// ClosingSession is the once-per-business-day reconciliation record. The
// cashier mutates it freely until Completed flips to true; after that every
// field is read-only.
type ClosingSession struct {
	BusinessDate  time.Time         `json:"business_date"`
	OpeningFloat  float64           `json:"opening_float"`
	Denominations DenominationCount `json:"denominations"`
	Vouchers      VoucherTally      `json:"vouchers"`
	Expenses      []ExpenseEntry    `json:"expenses"`
	Completed     bool              `json:"completed"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`

	nextExpenseID uint
}

// DefaultOpeningFloat is the drawer float the register is stocked with each
// morning.
const DefaultOpeningFloat = 200000

// NewClosingSession starts a fresh session for the given business day with
// all counts zeroed.
func NewClosingSession(day time.Time) *ClosingSession {
	denoms := make(DenominationCount, len(Denominations))
	for _, face := range Denominations {
		denoms[face] = 0
	}
	vouchers := make(VoucherTally, len(VoucherCategories))
	for _, cat := range VoucherCategories {
		vouchers[cat] = 0
	}
	y, m, d := day.Date()
	return &ClosingSession{
		BusinessDate:  time.Date(y, m, d, 0, 0, 0, 0, day.Location()),
		OpeningFloat:  DefaultOpeningFloat,
		Denominations: denoms,
		Vouchers:      vouchers,
		nextExpenseID: 1,
	}
}

// AppendExpense validates and records an expense, returning the stored entry.
func (cs *ClosingSession) AppendExpense(description string, amount float64, now time.Time) (ExpenseEntry, error) {
	if description == "" {
		return ExpenseEntry{}, fmt.Errorf("%w: expense description is required", ErrValidation)
	}
	if amount <= 0 {
		return ExpenseEntry{}, fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}
	entry := ExpenseEntry{
		ID:          cs.nextExpenseID,
		Description: description,
		Amount:      amount,
		LoggedAt:    now,
	}
	cs.nextExpenseID++
	cs.Expenses = append(cs.Expenses, entry)
	return entry, nil
}

// TotalExpenses sums all recorded outflows.
func (cs *ClosingSession) TotalExpenses() float64 {
	var sum float64
	for _, e := range cs.Expenses {
		sum += e.Amount
	}
	return sum
}

// ValidFace reports whether face is one of the counted denominations.
func ValidFace(face int) bool {
	for _, f := range Denominations {
		if f == face {
			return true
		}
	}
	return false
}

// ValidVoucherCategory reports whether cat is an accepted voucher type.
func ValidVoucherCategory(cat string) bool {
	for _, c := range VoucherCategories {
		if c == cat {
			return true
		}
	}
	return false
}
