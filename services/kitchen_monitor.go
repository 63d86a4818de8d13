package services

import (
	"time"

	"github.com/loopwhile/firstppt-sub000/kds"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/views"
)

// SnapshotSource is the slice of the ledger the monitor polls.
type SnapshotSource interface {
	Snapshot() []models.Order
}

// KitchenMonitor re-derives the kitchen queue from a fresh ledger snapshot on
// a fixed cadence and pushes it to connected displays. The poll is the
// system's consistency mechanism: the broadcast merely mirrors what a poll at
// the same instant returns, so a display that misses a frame is at most one
// interval stale.
type KitchenMonitor struct {
	Ledger   SnapshotSource
	Interval time.Duration
	StopChan chan struct{}

	// Publish receives each derived queue. Defaults to the websocket hub;
	// tests swap it for a capture hook.
	Publish func(queue []models.Order)
}

func NewKitchenMonitor(ledger SnapshotSource) *KitchenMonitor {
	return &KitchenMonitor{
		Ledger:   ledger,
		Interval: 1 * time.Second,
		StopChan: make(chan struct{}),
		Publish: func(queue []models.Order) {
			kds.BroadcastKitchenRefresh(map[string]interface{}{
				"orders": queue,
				"counts": views.CountKitchen(queue),
			})
		},
	}
}

func (km *KitchenMonitor) Start() {
	go func() {
		ticker := time.NewTicker(km.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				km.refresh()
			case <-km.StopChan:
				return
			}
		}
	}()
}

func (km *KitchenMonitor) Stop() {
	close(km.StopChan)
}

func (km *KitchenMonitor) refresh() {
	km.Publish(views.KitchenQueue(km.Ledger.Snapshot()))
}
