// Package menu is the menu/inventory collaborator consumed by the order
// entry surface. The order core reads {id, name, price, available} snapshots
// from it at add-to-cart time and never looks back at it afterwards.
package menu

import (
	"fmt"
	"sync"

	"github.com/loopwhile/firstppt-sub000/models"
)

// Catalog is an in-memory menu keyed by item id.
type Catalog struct {
	mu    sync.RWMutex
	items map[uint]models.MenuItem
	order []uint
}

func NewCatalog(items []models.MenuItem) *Catalog {
	c := &Catalog{items: make(map[uint]models.MenuItem, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
		c.order = append(c.order, it.ID)
	}
	return c
}

// Default builds the catalog the store opens with.
func Default() *Catalog {
	return NewCatalog([]models.MenuItem{
		{ID: 1, Category: "set", Name: "Chicken Burger Set", Price: 12500, Available: true},
		{ID: 2, Category: "set", Name: "Bulgogi Burger Set", Price: 13000, Available: true},
		{ID: 3, Category: "set", Name: "Shrimp Burger Set", Price: 13500, Available: false},
		{ID: 4, Category: "set", Name: "Cheese Burger Set", Price: 11500, Available: true},
		{ID: 5, Category: "toast", Name: "Ham Cheese Toast", Price: 4500, Available: true},
		{ID: 6, Category: "toast", Name: "Bacon Toast", Price: 5000, Available: true},
		{ID: 7, Category: "toast", Name: "Tuna Toast", Price: 4800, Available: true},
		{ID: 8, Category: "toast", Name: "Chicken Toast", Price: 5500, Available: true},
		{ID: 9, Category: "side", Name: "French Fries (L)", Price: 3500, Available: true},
		{ID: 10, Category: "side", Name: "French Fries (M)", Price: 2500, Available: true},
		{ID: 11, Category: "side", Name: "Chicken Nuggets", Price: 4500, Available: true},
		{ID: 12, Category: "side", Name: "Cheese Sticks", Price: 4000, Available: true},
		{ID: 13, Category: "drink", Name: "Cola (L)", Price: 2500, Available: true},
		{ID: 14, Category: "drink", Name: "Cola (M)", Price: 2000, Available: true},
		{ID: 15, Category: "drink", Name: "Sprite (L)", Price: 2500, Available: true},
		{ID: 16, Category: "drink", Name: "Coffee", Price: 3000, Available: true},
	})
}

// Item returns a snapshot of one menu item.
func (c *Catalog) Item(id uint) (models.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	return it, ok
}

// List returns all items in menu order, optionally limited to one category.
func (c *Catalog) List(category string) []models.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.MenuItem, 0, len(c.order))
	for _, id := range c.order {
		it := c.items[id]
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SetAvailability marks an item in or out of stock.
func (c *Catalog) SetAvailability(id uint, available bool) (models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return models.MenuItem{}, fmt.Errorf("%w: menu item %d", models.ErrNotFound, id)
	}
	it.Available = available
	c.items[id] = it
	return it, nil
}
