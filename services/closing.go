package services

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/loopwhile/firstppt-sub000/models"
)

// DayTotalsSource is the slice of the ledger the closing engine reads:
// tender totals for one business day, nothing else.
type DayTotalsSource interface {
	CashTotalsForDay(day time.Time) models.DayTotals
}

// ClosingService owns the day's ClosingSession and computes the cash
// position. Every derived figure is a pure function of the session and the
// ledger's day totals, recomputed on read.
type ClosingService struct {
	mu      sync.Mutex
	ledger  DayTotalsSource
	session *models.ClosingSession
	now     func() time.Time
}

func NewClosingService(ledger DayTotalsSource) *ClosingService {
	return &ClosingService{ledger: ledger, now: time.Now}
}

// NewClosingServiceAt pins the clock; tests use it to cross day boundaries.
func NewClosingServiceAt(ledger DayTotalsSource, now func() time.Time) *ClosingService {
	return &ClosingService{ledger: ledger, now: now}
}

// sessionLocked returns today's session, starting a fresh one when the
// business day has rolled over since the last call.
func (s *ClosingService) sessionLocked() *models.ClosingSession {
	today := s.now()
	if s.session == nil || !sameDay(s.session.BusinessDate, today) {
		s.session = models.NewClosingSession(today)
	}
	return s.session
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SetOpeningFloat records the manually entered drawer float.
func (s *ClosingService) SetOpeningFloat(amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	if sess.Completed {
		return models.ErrSessionClosed
	}
	if amount < 0 {
		return fmt.Errorf("%w: opening float must not be negative", models.ErrValidation)
	}
	sess.OpeningFloat = amount
	return nil
}

// SetDenominationCount records how many of one face value were counted.
func (s *ClosingService) SetDenominationCount(face, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	if sess.Completed {
		return models.ErrSessionClosed
	}
	if !models.ValidFace(face) {
		return fmt.Errorf("%w: unknown denomination %d", models.ErrValidation, face)
	}
	if count < 0 {
		return fmt.Errorf("%w: denomination count must not be negative", models.ErrValidation)
	}
	sess.Denominations[face] = count
	return nil
}

// SetVoucherAmount records the amount taken in one voucher category.
func (s *ClosingService) SetVoucherAmount(category string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	if sess.Completed {
		return models.ErrSessionClosed
	}
	if !models.ValidVoucherCategory(category) {
		return fmt.Errorf("%w: unknown voucher category %q", models.ErrValidation, category)
	}
	if amount < 0 {
		return fmt.Errorf("%w: voucher amount must not be negative", models.ErrValidation)
	}
	sess.Vouchers[category] = amount
	return nil
}

// CountsPatch is one partial update of the manually entered figures. Nil or
// empty fields are left untouched.
type CountsPatch struct {
	OpeningFloat  *float64
	Denominations map[int]int
	Vouchers      map[string]float64
}

// ApplyCounts applies a whole patch as one critical section. The entire
// payload is validated before anything is written, so a patch with one bad
// entry changes nothing.
func (s *ClosingService) ApplyCounts(p CountsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	if sess.Completed {
		return models.ErrSessionClosed
	}

	if p.OpeningFloat != nil && *p.OpeningFloat < 0 {
		return fmt.Errorf("%w: opening float must not be negative", models.ErrValidation)
	}
	for face, count := range p.Denominations {
		if !models.ValidFace(face) {
			return fmt.Errorf("%w: unknown denomination %d", models.ErrValidation, face)
		}
		if count < 0 {
			return fmt.Errorf("%w: denomination count must not be negative", models.ErrValidation)
		}
	}
	for category, amount := range p.Vouchers {
		if !models.ValidVoucherCategory(category) {
			return fmt.Errorf("%w: unknown voucher category %q", models.ErrValidation, category)
		}
		if amount < 0 {
			return fmt.Errorf("%w: voucher amount must not be negative", models.ErrValidation)
		}
	}

	if p.OpeningFloat != nil {
		sess.OpeningFloat = *p.OpeningFloat
	}
	for face, count := range p.Denominations {
		sess.Denominations[face] = count
	}
	for category, amount := range p.Vouchers {
		sess.Vouchers[category] = amount
	}
	return nil
}

// AddExpense appends one cash outflow to the day's expense ledger.
func (s *ClosingService) AddExpense(description string, amount float64) (models.ExpenseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	if sess.Completed {
		return models.ExpenseEntry{}, models.ErrSessionClosed
	}
	return sess.AppendExpense(description, amount, s.now())
}

// RemoveExpense deletes a mis-entered expense before completion.
func (s *ClosingService) RemoveExpense(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	if sess.Completed {
		return models.ErrSessionClosed
	}
	for i, e := range sess.Expenses {
		if e.ID == id {
			sess.Expenses = append(sess.Expenses[:i], sess.Expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: expense %d", models.ErrNotFound, id)
}

// ClosingSummary is the computed cash position shown to the cashier.
type ClosingSummary struct {
	BusinessDate  time.Time             `json:"business_date"`
	OpeningFloat  float64               `json:"opening_float"`
	CashIncome    float64               `json:"cash_income"`
	CardIncome    float64               `json:"card_income"`
	TotalExpenses float64               `json:"total_expenses"`
	ComputedCash  float64               `json:"computed_cash"`
	ActualCash    float64               `json:"actual_cash"`
	Discrepancy   float64               `json:"discrepancy"`
	VoucherTotal  float64               `json:"voucher_total"`
	GrandTotal    float64               `json:"grand_total"`
	Balanced      bool                  `json:"balanced"`
	Flagged       bool                  `json:"flagged"`
	Completed     bool                  `json:"completed"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
	ByChannel     map[models.Channel]float64 `json:"by_channel"`
}

// Summary computes the current cash position from scratch.
func (s *ClosingService) Summary() ClosingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *ClosingService) summaryLocked() ClosingSummary {
	sess := s.sessionLocked()
	totals := s.ledger.CashTotalsForDay(sess.BusinessDate)

	expenses := sess.TotalExpenses()
	computed := sess.OpeningFloat + totals.CashTotal - expenses
	actual := sess.Denominations.Total()
	discrepancy := actual - computed
	vouchers := sess.Vouchers.Total()

	return ClosingSummary{
		BusinessDate:  sess.BusinessDate,
		OpeningFloat:  sess.OpeningFloat,
		CashIncome:    totals.CashTotal,
		CardIncome:    totals.CardTotal,
		TotalExpenses: expenses,
		ComputedCash:  computed,
		ActualCash:    actual,
		Discrepancy:   discrepancy,
		VoucherTotal:  vouchers,
		GrandTotal:    totals.CashTotal + totals.CardTotal + vouchers,
		Balanced:      math.Abs(discrepancy) <= models.BalancedLimit,
		Flagged:       math.Abs(discrepancy) > models.BalancedLimit,
		Completed:     sess.Completed,
		CompletedAt:   sess.CompletedAt,
		ByChannel:     totals.ByChannel,
	}
}

// Session returns a copy of today's raw session for display and export.
func (s *ClosingService) Session() models.ClosingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked()
	out := *sess
	out.Denominations = make(models.DenominationCount, len(sess.Denominations))
	for k, v := range sess.Denominations {
		out.Denominations[k] = v
	}
	out.Vouchers = make(models.VoucherTally, len(sess.Vouchers))
	for k, v := range sess.Vouchers {
		out.Vouchers[k] = v
	}
	out.Expenses = make([]models.ExpenseEntry, len(sess.Expenses))
	copy(out.Expenses, sess.Expenses)
	return out
}

// CompleteClosing closes the day. It refuses when nothing has been counted
// yet, hard-blocks when the discrepancy exceeds the limit (the operator must
// recount), and otherwise stamps the session read-only. A discrepancy within
// the balanced limit reports as balanced; anything between the two limits is
// flagged but does not block.
func (s *ClosingService) CompleteClosing() (ClosingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked()
	if sess.Completed {
		return ClosingSummary{}, models.ErrSessionClosed
	}
	summary := s.summaryLocked()
	if summary.ActualCash == 0 {
		return ClosingSummary{}, fmt.Errorf("%w: count the drawer by denomination first", models.ErrValidation)
	}
	if math.Abs(summary.Discrepancy) > models.HardBlockLimit {
		return ClosingSummary{}, fmt.Errorf("%w: discrepancy of %.0f won", models.ErrDiscrepancyTooLarge, summary.Discrepancy)
	}

	completedAt := s.now()
	sess.Completed = true
	sess.CompletedAt = &completedAt
	summary.Completed = true
	summary.CompletedAt = &completedAt
	return summary, nil
}
