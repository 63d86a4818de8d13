package views

import (
	"sort"
	"strings"
	"time"

	"github.com/loopwhile/firstppt-sub000/models"
)

// OrderFilter is the order list's filter set. Zero-valued fields are
// inactive; active ones are AND-combined.
type OrderFilter struct {
	Query   string
	Status  models.Status
	Tender  models.Tender
	Channel models.Channel
	From    time.Time
	To      time.Time
}

// FilterOrders applies the filter to a snapshot and returns matches newest
// first. The free-text query matches the display code, customer name, phone
// and line-item names, case-insensitively.
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Tender != "" && o.Tender != f.Tender {
			continue
		}
		if f.Channel != "" && o.Channel != f.Channel {
			continue
		}
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.CreatedAt.After(f.To) {
			continue
		}
		if q != "" && !matchesQuery(o, q) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func matchesQuery(o models.Order, q string) bool {
	if strings.Contains(strings.ToLower(o.DisplayCode()), q) {
		return true
	}
	if strings.Contains(strings.ToLower(o.Customer), q) {
		return true
	}
	if o.Phone != "" && strings.Contains(o.Phone, q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			return true
		}
	}
	return false
}

// StatusCounts tallies orders per status for the list's tab headers; "all"
// carries the grand total.
func StatusCounts(orders []models.Order) map[string]int {
	counts := map[string]int{"all": len(orders)}
	for _, o := range orders {
		counts[string(o.Status)]++
	}
	return counts
}
