// Package views contains the stateless projections the kitchen display and
// the order list render. Both work the same way: take a ledger snapshot,
// filter, sort, hand back. Nothing here keeps its own copy of order state;
// a view that wants fresher data polls again.
package views

import (
	"sort"

	"github.com/loopwhile/firstppt-sub000/models"
)

// KitchenQueue filters a snapshot down to orders the kitchen is working on
// and sorts them: urgent orders first, then cooking before preparing before
// ready, then oldest first. Recomputed in full on every poll.
func KitchenQueue(orders []models.Order) []models.Order {
	queue := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status.Active() {
			queue = append(queue, o)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i], queue[j]
		if (a.Priority == models.PriorityUrgent) != (b.Priority == models.PriorityUrgent) {
			return a.Priority == models.PriorityUrgent
		}
		if a.Status.KitchenRank() != b.Status.KitchenRank() {
			return a.Status.KitchenRank() < b.Status.KitchenRank()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return queue
}

// KitchenCounts is the per-status tally shown in the display header.
type KitchenCounts struct {
	Preparing int `json:"preparing"`
	Cooking   int `json:"cooking"`
	Ready     int `json:"ready"`
}

func CountKitchen(queue []models.Order) KitchenCounts {
	var c KitchenCounts
	for _, o := range queue {
		switch o.Status {
		case models.StatusPreparing:
			c.Preparing++
		case models.StatusCooking:
			c.Cooking++
		case models.StatusReady:
			c.Ready++
		}
	}
	return c
}
