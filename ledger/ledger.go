// Package ledger holds the authoritative, process-wide collection of orders.
// It is the only component that mutates order state; every view re-derives
// what it shows from Snapshot on its own poll cadence.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/loopwhile/firstppt-sub000/models"
)

// Ledger is a single-writer in-memory store. Every mutation runs as one
// critical section (read current state, validate, write) so two concurrent
// callers can never both pass validation against stale state.
type Ledger struct {
	mu     sync.RWMutex
	orders map[uint]*models.Order
	now    func() time.Time
}

func New() *Ledger {
	return &Ledger{
		orders: make(map[uint]*models.Order),
		now:    time.Now,
	}
}

// NewAt builds a ledger with a caller-supplied clock. Tests use it to pin
// creation timestamps.
func NewAt(now func() time.Time) *Ledger {
	l := New()
	if now != nil {
		l.now = now
	}
	return l
}

// CreateOrder validates the draft, assigns the next identifier and appends
// the order. The id is max over the current ledger plus one, computed inside
// the same lock that inserts the record. Computing the id outside the lock
// could hand out duplicate numbers.
func (l *Ledger) CreateOrder(draft models.OrderDraft) (models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var maxID uint
	for id := range l.orders {
		if id > maxID {
			maxID = id
		}
	}
	order, err := models.NewOrder(maxID+1, draft, l.now())
	if err != nil {
		return models.Order{}, err
	}
	l.orders[order.ID] = &order
	return order.Clone(), nil
}

// AdvanceStatus moves an order one step forward along
// preparing → cooking → ready → completed. Anything else is refused.
func (l *Ledger) AdvanceStatus(orderID uint, target models.Status) (models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	if target == models.StatusCancelled {
		return models.Order{}, fmt.Errorf("%w: use cancel with a reason instead", models.ErrInvalidTransition)
	}
	if !order.Status.CanAdvanceTo(target) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, target)
	}
	order.Status = target
	return order.Clone(), nil
}

// CancelOrder is legal from preparing, cooking or ready and records the
// mandatory reason. Completed and already-cancelled orders stay as they are.
func (l *Ledger) CancelOrder(orderID uint, reason string) (models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	if reason == "" {
		return models.Order{}, fmt.Errorf("%w: cancellation needs a reason", models.ErrValidation)
	}
	if !order.Status.Cancellable() {
		return models.Order{}, fmt.Errorf("%w: cannot cancel a %s order", models.ErrInvalidTransition, order.Status)
	}
	order.Status = models.StatusCancelled
	order.CancelReason = reason
	return order.Clone(), nil
}

// Snapshot returns a consistent point-in-time copy of all orders, id
// ascending. Records are cloned on the way out so callers can never observe a
// half-applied mutation.
func (l *Ledger) Snapshot() []models.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Order, 0, len(l.orders))
	for _, order := range l.orders {
		out = append(out, order.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of one order.
func (l *Ledger) Get(orderID uint) (models.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	order, ok := l.orders[orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	return order.Clone(), nil
}

// CashTotalsForDay aggregates tender totals over all orders created on the
// given calendar day, grouped by tender and by channel. Totals are taken at
// tender capture, the same way the register booked them, so later
// cancellations do not subtract.
func (l *Ledger) CashTotalsForDay(day time.Time) models.DayTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totals := models.DayTotals{
		ByChannel: map[models.Channel]float64{
			models.ChannelDineIn:   0,
			models.ChannelTakeout:  0,
			models.ChannelDelivery: 0,
		},
	}
	y, m, d := day.Date()
	for _, order := range l.orders {
		oy, om, od := order.CreatedAt.Date()
		if oy != y || om != m || od != d {
			continue
		}
		total := order.Total()
		switch order.Tender {
		case models.TenderCash:
			totals.CashTotal += total
		case models.TenderCard:
			totals.CardTotal += total
		case models.TenderVoucher:
			totals.VoucherTotal += total
		}
		totals.ByChannel[order.Channel] += total
	}
	return totals
}
