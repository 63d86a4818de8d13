package services

import (
	"fmt"
	"sync"

	"github.com/loopwhile/firstppt-sub000/models"
)

// MenuSource supplies the {id, name, price, available} snapshots the entry
// surface reads at add-to-cart time.
type MenuSource interface {
	Item(id uint) (models.MenuItem, bool)
}

// OrderCreator is the slice of the ledger the cart needs at submission.
type OrderCreator interface {
	CreateOrder(draft models.OrderDraft) (models.Order, error)
}

// Cart is one register's uncommitted order: line items keyed by menu id plus
// at most one active discount. Nothing in it touches the ledger until Submit.
type Cart struct {
	mu       sync.Mutex
	menu     MenuSource
	ledger   OrderCreator
	lines    []models.OrderLineItem
	discount models.Discount
}

func NewCart(menu MenuSource, ledger OrderCreator) *Cart {
	return &Cart{menu: menu, ledger: ledger}
}

// AddItem puts one unit of the menu item in the cart; adding an id already in
// the cart increments its quantity. Out-of-stock items are rejected here, at
// add time, not deferred to submission.
func (c *Cart) AddItem(menuID uint) error {
	return c.AddItemQty(menuID, 1)
}

// AddItemQty adds qty units in one step.
func (c *Cart) AddItemQty(menuID uint, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", models.ErrValidation)
	}
	item, ok := c.menu.Item(menuID)
	if !ok {
		return fmt.Errorf("%w: menu item %d", models.ErrNotFound, menuID)
	}
	if !item.Available {
		return fmt.Errorf("%w: %s", models.ErrItemUnavailable, item.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].MenuID == menuID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	// Name and price are snapshotted here; later menu edits do not reach
	// orders already taken.
	c.lines = append(c.lines, models.OrderLineItem{
		MenuID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  qty,
	})
	return nil
}

// RemoveItem decrements the line's quantity; hitting zero removes the line.
func (c *Cart) RemoveItem(menuID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].MenuID != menuID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// ApplyDiscount sets the active discount, replacing any previous one. A flat
// amount and a percentage are mutually exclusive.
func (c *Cart) ApplyDiscount(d models.Discount) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := d.Validate(c.subtotalLocked()); err != nil {
		return err
	}
	c.discount = d
	return nil
}

// RemoveDiscount clears the active discount.
func (c *Cart) RemoveDiscount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discount = models.Discount{}
}

// Lines returns a copy of the cart's current line items.
func (c *Cart) Lines() []models.OrderLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.OrderLineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

// Total applies the active discount to the subtotal, clamped at zero.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := c.subtotalLocked()
	total := sub - c.discount.AmountOff(sub)
	if total < 0 {
		return 0
	}
	return total
}

func (c *Cart) subtotalLocked() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// Clear empties the cart and drops the discount.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.discount = models.Discount{}
}

// Submission carries the details captured at tender selection.
type Submission struct {
	Tender   models.Tender
	Channel  models.Channel
	Priority models.Priority
	Customer string
	Phone    string
	Address  string
}

// Submit hands the cart to the ledger. On success the cart is cleared and the
// created order (with its display code) is returned; on failure the cart is
// left intact so the cashier can correct and retry.
func (c *Cart) Submit(s Submission) (models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.OrderLineItem, len(c.lines))
	copy(items, c.lines)
	order, err := c.ledger.CreateOrder(models.OrderDraft{
		Items:    items,
		Channel:  s.Channel,
		Tender:   s.Tender,
		Discount: c.discount,
		Priority: s.Priority,
		Customer: s.Customer,
		Phone:    s.Phone,
		Address:  s.Address,
	})
	if err != nil {
		return models.Order{}, err
	}
	c.lines = nil
	c.discount = models.Discount{}
	return order, nil
}
