package ledger

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwhile/firstppt-sub000/models"
)

func draftWith(tender models.Tender, channel models.Channel) models.OrderDraft {
	return models.OrderDraft{
		Items: []models.OrderLineItem{
			{MenuID: 1, Name: "Chicken Burger Set", UnitPrice: 12500, Quantity: 2},
			{MenuID: 5, Name: "Ham Cheese Toast", UnitPrice: 4500, Quantity: 1},
		},
		Tender:  tender,
		Channel: channel,
	}
}

func TestCreateOrderAssignsSequentialIDs(t *testing.T) {
	l := New()

	first, err := l.CreateOrder(draftWith(models.TenderCash, models.ChannelDineIn))
	require.NoError(t, err)
	second, err := l.CreateOrder(draftWith(models.TenderCard, models.ChannelTakeout))
	require.NoError(t, err)

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
	assert.Equal(t, "#0001", first.DisplayCode())
	assert.Equal(t, models.StatusPreparing, first.Status)
}

func TestCreateOrderConcurrentIDsAreUnique(t *testing.T) {
	l := New()
	const workers = 50

	var wg sync.WaitGroup
	ids := make(chan uint, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := l.CreateOrder(draftWith(models.TenderCash, models.ChannelDineIn))
			assert.NoError(t, err)
			ids <- order.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make([]int, 0, workers)
	for id := range ids {
		seen = append(seen, int(id))
	}
	sort.Ints(seen)
	require.Len(t, seen, workers)
	for i, id := range seen {
		assert.Equal(t, i+1, id, "ids must be unique and strictly increasing")
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	l := New()
	_, err := l.CreateOrder(models.OrderDraft{
		Tender:  models.TenderCash,
		Channel: models.ChannelDineIn,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAdvanceStatusFollowsStateMachine(t *testing.T) {
	l := New()
	order, err := l.CreateOrder(draftWith(models.TenderCash, models.ChannelDineIn))
	require.NoError(t, err)

	// Skipping a step is refused.
	_, err = l.AdvanceStatus(order.ID, models.StatusReady)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// Forward one step at a time works.
	updated, err := l.AdvanceStatus(order.ID, models.StatusCooking)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCooking, updated.Status)

	// Backward is refused.
	_, err = l.AdvanceStatus(order.ID, models.StatusPreparing)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = l.AdvanceStatus(order.ID, models.StatusReady)
	require.NoError(t, err)
	updated, err = l.AdvanceStatus(order.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Completed is terminal.
	_, err = l.AdvanceStatus(order.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAdvanceStatusUnknownOrder(t *testing.T) {
	l := New()
	_, err := l.AdvanceStatus(99, models.StatusCooking)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCancelOrderRules(t *testing.T) {
	l := New()
	order, err := l.CreateOrder(draftWith(models.TenderCard, models.ChannelDelivery))
	require.NoError(t, err)

	_, err = l.CancelOrder(order.ID, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	cancelled, err := l.CancelOrder(order.ID, "customer changed their mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "customer changed their mind", cancelled.CancelReason)

	// Cancelled is terminal: no second cancel, no advance.
	_, err = l.CancelOrder(order.ID, "again")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	_, err = l.AdvanceStatus(order.ID, models.StatusCooking)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// Completed orders cannot be cancelled either.
	done, err := l.CreateOrder(draftWith(models.TenderCash, models.ChannelDineIn))
	require.NoError(t, err)
	for _, st := range []models.Status{models.StatusCooking, models.StatusReady, models.StatusCompleted} {
		_, err = l.AdvanceStatus(done.ID, st)
		require.NoError(t, err)
	}
	_, err = l.CancelOrder(done.ID, "too late")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	order, err := l.CreateOrder(draftWith(models.TenderCash, models.ChannelDineIn))
	require.NoError(t, err)

	snap := l.Snapshot()
	require.Len(t, snap, 1)
	snap[0].Status = models.StatusCompleted
	snap[0].Items[0].Quantity = 99

	fresh, err := l.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, fresh.Status)
	assert.Equal(t, 2, fresh.Items[0].Quantity)
}

func TestCashTotalsForDay(t *testing.T) {
	day := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	clock := day
	l := NewAt(func() time.Time { return clock })

	mk := func(tender models.Tender, channel models.Channel, price float64) {
		_, err := l.CreateOrder(models.OrderDraft{
			Items:   []models.OrderLineItem{{MenuID: 1, Name: "Set", UnitPrice: price, Quantity: 1}},
			Tender:  tender,
			Channel: channel,
		})
		require.NoError(t, err)
	}

	mk(models.TenderCash, models.ChannelDineIn, 12000)
	mk(models.TenderCash, models.ChannelDelivery, 8000)
	mk(models.TenderCard, models.ChannelTakeout, 15000)
	mk(models.TenderVoucher, models.ChannelDineIn, 5000)

	// An order from the next day must not count.
	clock = day.AddDate(0, 0, 1)
	mk(models.TenderCash, models.ChannelDineIn, 99999)

	totals := l.CashTotalsForDay(day)
	assert.Equal(t, float64(20000), totals.CashTotal)
	assert.Equal(t, float64(15000), totals.CardTotal)
	assert.Equal(t, float64(5000), totals.VoucherTotal)
	assert.Equal(t, float64(17000), totals.ByChannel[models.ChannelDineIn])
	assert.Equal(t, float64(15000), totals.ByChannel[models.ChannelTakeout])
	assert.Equal(t, float64(8000), totals.ByChannel[models.ChannelDelivery])
}

func TestCashTotalsUseDiscountedTotals(t *testing.T) {
	l := New()
	_, err := l.CreateOrder(models.OrderDraft{
		Items:    []models.OrderLineItem{{MenuID: 1, Name: "Set", UnitPrice: 30000, Quantity: 1}},
		Tender:   models.TenderCash,
		Channel:  models.ChannelDineIn,
		Discount: models.Discount{Kind: models.DiscountPercent, Value: 10},
	})
	require.NoError(t, err)

	totals := l.CashTotalsForDay(time.Now())
	assert.Equal(t, float64(27000), totals.CashTotal)
}

func TestCreateOrderRejectsBadEnums(t *testing.T) {
	l := New()
	draft := draftWith("bitcoin", models.ChannelDineIn)
	_, err := l.CreateOrder(draft)
	assert.ErrorIs(t, err, models.ErrValidation)

	draft = draftWith(models.TenderCash, "drive_through")
	_, err = l.CreateOrder(draft)
	assert.True(t, errors.Is(err, models.ErrValidation))
}
