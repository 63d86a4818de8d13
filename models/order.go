package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of an order. Orders enter the ledger already
// in StatusPreparing because creation happens at the moment tender is
// captured; there is no persisted "pending" state.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// forwardEdges is the only legal set of forward moves. No skipping, no going
// back.
var forwardEdges = map[Status]Status{
	StatusPreparing: StatusCooking,
	StatusCooking:   StatusReady,
	StatusReady:     StatusCompleted,
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPreparing, StatusCooking, StatusReady, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// CanAdvanceTo reports whether target is the single legal next step from s.
func (s Status) CanAdvanceTo(target Status) bool {
	next, ok := forwardEdges[s]
	return ok && next == target
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s Status) Cancellable() bool {
	switch s {
	case StatusPreparing, StatusCooking, StatusReady:
		return true
	}
	return false
}

// Active reports whether the order belongs on the kitchen display.
func (s Status) Active() bool {
	return s == StatusPreparing || s == StatusCooking || s == StatusReady
}

// KitchenRank orders active statuses on the kitchen display: work already
// cooking surfaces before freshly preparing orders so it is never starved,
// ready orders go last.
func (s Status) KitchenRank() int {
	switch s {
	case StatusCooking:
		return 0
	case StatusPreparing:
		return 1
	case StatusReady:
		return 2
	}
	return 3
}

// Tender is the payment method captured at order creation.
type Tender string

const (
	TenderCash    Tender = "cash"
	TenderCard    Tender = "card"
	TenderVoucher Tender = "voucher"
)

func ParseTender(s string) (Tender, error) {
	switch Tender(s) {
	case TenderCash, TenderCard, TenderVoucher:
		return Tender(s), nil
	}
	return "", fmt.Errorf("%w: unknown tender %q", ErrValidation, s)
}

// Channel is how the order is fulfilled.
type Channel string

const (
	ChannelDineIn   Channel = "dine_in"
	ChannelTakeout  Channel = "takeout"
	ChannelDelivery Channel = "delivery"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelDineIn, ChannelTakeout, ChannelDelivery:
		return Channel(s), nil
	}
	return "", fmt.Errorf("%w: unknown channel %q", ErrValidation, s)
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// DiscountKind selects between a flat amount off and a percentage off.
type DiscountKind string

const (
	DiscountAmount  DiscountKind = "amount"
	DiscountPercent DiscountKind = "percent"
)

// Discount is a flat amount or a percentage, never both. The zero value means
// no discount. Applying a new discount replaces the previous one, the two
// kinds never stack.
type Discount struct {
	Kind  DiscountKind `json:"kind,omitempty"`
	Value float64      `json:"value"`
}

// Validate checks the discount against subtotal: percentages must sit in
// [0, 100], flat amounts may not exceed the subtotal or be negative.
func (d Discount) Validate(subtotal float64) error {
	if d.Kind == "" {
		return nil
	}
	if d.Value < 0 {
		return fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}
	switch d.Kind {
	case DiscountPercent:
		if d.Value > 100 {
			return fmt.Errorf("%w: discount percentage above 100", ErrValidation)
		}
	case DiscountAmount:
		if d.Value > subtotal {
			return fmt.Errorf("%w: discount amount exceeds subtotal", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown discount kind %q", ErrValidation, d.Kind)
	}
	return nil
}

// AmountOff converts the discount into won off the given subtotal.
func (d Discount) AmountOff(subtotal float64) float64 {
	switch d.Kind {
	case DiscountPercent:
		return subtotal * d.Value / 100
	case DiscountAmount:
		return d.Value
	}
	return 0
}

// OrderLineItem is one menu item on an order. Name and unit price are
// snapshots taken at order time and stay fixed even if the menu changes
// afterwards.
type OrderLineItem struct {
	MenuID    uint    `json:"menu_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// OrderDraft is the uncommitted input to the ledger: a cart plus the tender
// and fulfilment details captured at submission.
type OrderDraft struct {
	Items    []OrderLineItem
	Channel  Channel
	Tender   Tender
	Discount Discount
	Priority Priority
	Customer string
	Phone    string
	Address  string
}

// Order is one record in the ledger. Total is deliberately not a stored
// field: it is always recomputed from the line items and the discount so the
// two can never drift apart.
type Order struct {
	ID           uint            `json:"id"`
	Items        []OrderLineItem `json:"items"`
	Channel      Channel         `json:"channel"`
	Tender       Tender          `json:"tender"`
	Discount     Discount        `json:"discount"`
	Status       Status          `json:"status"`
	Priority     Priority        `json:"priority"`
	Customer     string          `json:"customer,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewOrder validates a draft and builds the order record. The assigned id
// comes from the ledger; the draft must carry at least one line item with
// positive quantities and a discount within bounds.
func NewOrder(id uint, draft OrderDraft, now time.Time) (Order, error) {
	if len(draft.Items) == 0 {
		return Order{}, fmt.Errorf("%w: order needs at least one line item", ErrValidation)
	}
	for _, it := range draft.Items {
		if it.Quantity < 1 {
			return Order{}, fmt.Errorf("%w: quantity below 1 for %q", ErrValidation, it.Name)
		}
		if it.UnitPrice < 0 {
			return Order{}, fmt.Errorf("%w: negative unit price for %q", ErrValidation, it.Name)
		}
	}
	if _, err := ParseTender(string(draft.Tender)); err != nil {
		return Order{}, err
	}
	if _, err := ParseChannel(string(draft.Channel)); err != nil {
		return Order{}, err
	}
	priority := draft.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if priority != PriorityNormal && priority != PriorityUrgent {
		return Order{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	items := make([]OrderLineItem, len(draft.Items))
	copy(items, draft.Items)
	order := Order{
		ID:        id,
		Items:     items,
		Channel:   draft.Channel,
		Tender:    draft.Tender,
		Discount:  draft.Discount,
		Status:    StatusPreparing,
		Priority:  priority,
		Customer:  draft.Customer,
		Phone:     draft.Phone,
		Address:   draft.Address,
		CreatedAt: now,
	}
	if err := draft.Discount.Validate(order.Subtotal()); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Subtotal is the sum of unit price times quantity over all line items.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// Total is subtotal minus the discount amount, clamped at zero.
func (o Order) Total() float64 {
	total := o.Subtotal() - o.Discount.AmountOff(o.Subtotal())
	if total < 0 {
		return 0
	}
	return total
}

// DisplayCode renders the id the way receipts and the kitchen display show
// it, e.g. #0042.
func (o Order) DisplayCode() string {
	return fmt.Sprintf("#%04d", o.ID)
}

// Clone returns a deep copy so ledger snapshots never expose a record that a
// writer is still mutating.
func (o Order) Clone() Order {
	out := o
	out.Items = make([]OrderLineItem, len(o.Items))
	copy(out.Items, o.Items)
	return out
}

// MarshalJSON adds the derived fields API consumers expect next to the stored
// ones.
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		DisplayCode string  `json:"display_code"`
		Subtotal    float64 `json:"subtotal"`
		Total       float64 `json:"total"`
	}{
		alias:       alias(o),
		DisplayCode: o.DisplayCode(),
		Subtotal:    o.Subtotal(),
		Total:       o.Total(),
	})
}

// DayTotals is the closing engine's read of the ledger: tender totals for one
// business day plus the per-channel breakdown used by reporting.
type DayTotals struct {
	CashTotal    float64             `json:"cash_total"`
	CardTotal    float64             `json:"card_total"`
	VoucherTotal float64             `json:"voucher_total"`
	ByChannel    map[Channel]float64 `json:"by_channel"`
}
