package delivery

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"groceryMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestProgress_Thresholds(t *testing.T) {
	eta := t0.Add(100 * time.Minute)

	cases := []struct {
		at       time.Duration
		percent  int
		location string
	}{
		{-5 * time.Minute, 0, "Order picked up"},
		{10 * time.Minute, 10, "Order picked up"},
		{25 * time.Minute, 25, "On the way"},
		{60 * time.Minute, 60, "Getting close"},
		{99 * time.Minute, 99, "Almost there!"},
		{100 * time.Minute, 100, "Delivered"},
		{3 * time.Hour, 100, "Delivered"},
	}

	for _, tc := range cases {
		snap := Progress(t0, eta, t0.Add(tc.at))
		assert.Equal(t, tc.percent, snap.Percent, tc.at)
		assert.Equal(t, tc.location, snap.Location, tc.at)
		assert.Equal(t, tc.percent == 100, snap.Arrived, tc.at)
	}

	assert.Equal(t, int64(40*60), Progress(t0, eta, t0.Add(60*time.Minute)).RemainingSeconds)
}

func TestProgress_EmptyWindowIsArrived(t *testing.T) {
	snap := Progress(t0, t0, t0.Add(-time.Hour))
	assert.Equal(t, 100, snap.Percent)
	assert.True(t, snap.Arrived)
}

type stepClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(c.step)
	return c.at
}

func TestTracker_WatchEmitsUntilArrival(t *testing.T) {
	clock := &stepClock{at: t0, step: 10 * time.Minute}
	tr := &Tracker{now: clock.now}
	d := domain.Delivery{StartedAt: t0, EstimatedAt: t0.Add(40 * time.Minute), Status: domain.DeliveryInTransit}

	var percents []int
	for snap := range tr.Watch(context.Background(), d, time.Millisecond) {
		percents = append(percents, snap.Percent)
	}

	assert.Equal(t, []int{25, 50, 75, 100}, percents)
}

func TestTracker_WatchStopsOnCancel(t *testing.T) {
	tr := &Tracker{now: func() time.Time { return t0 }}
	d := domain.Delivery{StartedAt: t0, EstimatedAt: t0.Add(time.Hour)}

	ctx, cancel := context.WithCancel(context.Background())
	ch := tr.Watch(ctx, d, time.Millisecond)

	first := <-ch
	assert.Equal(t, 0, first.Percent)
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

type fakeDeliveries struct {
	rows map[string]domain.Delivery
}

func (f *fakeDeliveries) Create(_ context.Context, d *domain.Delivery) error {
	f.rows[d.ID] = *d
	return nil
}

func (f *fakeDeliveries) FindByID(_ context.Context, id string) (domain.Delivery, error) {
	d, ok := f.rows[id]
	if !ok {
		return domain.Delivery{}, fmt.Errorf("delivery %w", domain.ErrNotFound)
	}
	return d, nil
}

func (f *fakeDeliveries) FindByOrderID(_ context.Context, orderID string) (domain.Delivery, error) {
	for _, d := range f.rows {
		if d.OrderID == orderID {
			return d, nil
		}
	}
	return domain.Delivery{}, fmt.Errorf("delivery %w", domain.ErrNotFound)
}

func (f *fakeDeliveries) FindByRider(_ context.Context, riderID string) ([]domain.Delivery, error) {
	var out []domain.Delivery
	for _, d := range f.rows {
		if d.RiderID == riderID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeliveries) UpdateStatus(_ context.Context, id, status string, deliveredAt *time.Time) error {
	d := f.rows[id]
	d.Status = status
	d.DeliveredAt = deliveredAt
	f.rows[id] = d
	return nil
}

type fakeOrders struct {
	rows map[string]domain.Order
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (domain.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %w", domain.ErrNotFound)
	}
	return o, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, status string) error {
	o := f.rows[id]
	o.Status = status
	f.rows[id] = o
	return nil
}

func TestDeliveryService_AcceptAndDeliver(t *testing.T) {
	ctx := context.Background()
	deliveries := &fakeDeliveries{rows: map[string]domain.Delivery{}}
	orders := &fakeOrders{rows: map[string]domain.Order{
		"o1": {ID: "o1", Status: domain.OrderReady, DeliveryAddress: "Jl. Melati 3", Vendor: &domain.Vendor{Address: "Pasar Baru 1"}},
		"o2": {ID: "o2", Status: domain.OrderCancelled},
	}}
	svc := NewDeliveryService(deliveries, orders, NewTracker())
	svc.now = func() time.Time { return t0 }

	d, err := svc.AcceptDelivery(ctx, "r1", "o1", 0)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(30*time.Minute), d.EstimatedAt)
	assert.Equal(t, "Pasar Baru 1", d.PickupAddress)
	assert.Equal(t, domain.OrderPickedUp, orders.rows["o1"].Status)

	_, err = svc.AcceptDelivery(ctx, "r1", "o2", 10)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.UpdateStatus(ctx, "r2", d.ID, domain.DeliveryDelivered)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, "r1", d.ID, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	done, err := svc.UpdateStatus(ctx, "r1", d.ID, domain.DeliveryDelivered)
	require.NoError(t, err)
	require.NotNil(t, done.DeliveredAt)
	assert.Equal(t, domain.OrderDelivered, orders.rows["o1"].Status)

	snap, err := svc.Progress(ctx, Viewer{UserID: "r1", Role: domain.RoleRider}, d.ID)
	require.NoError(t, err)
	assert.True(t, snap.Arrived)

	list, err := svc.ListForRider(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func newAcceptService(t *testing.T) (*deliveryService, *fakeDeliveries, *fakeOrders) {
	t.Helper()
	deliveries := &fakeDeliveries{rows: map[string]domain.Delivery{}}
	orders := &fakeOrders{rows: map[string]domain.Order{
		"o1": {ID: "o1", CustomerID: "c1", Status: domain.OrderReady, Vendor: &domain.Vendor{UserID: "v1"}},
	}}
	svc := NewDeliveryService(deliveries, orders, NewTracker())
	svc.now = func() time.Time { return t0 }
	return svc, deliveries, orders
}

func TestAcceptDelivery_SecondRiderConflicts(t *testing.T) {
	ctx := context.Background()
	svc, deliveries, _ := newAcceptService(t)

	first, err := svc.AcceptDelivery(ctx, "r1", "o1", 20)
	require.NoError(t, err)

	_, err = svc.AcceptDelivery(ctx, "r2", "o1", 20)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.Len(t, deliveries.rows, 1)
	assert.Equal(t, "r1", deliveries.rows[first.ID].RiderID)
}

func TestAcceptDelivery_HugeETAIsClamped(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAcceptService(t)

	d, err := svc.AcceptDelivery(ctx, "r1", "o1", math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(maxETA), d.EstimatedAt)
}

func TestGetDelivery_Visibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAcceptService(t)

	d, err := svc.AcceptDelivery(ctx, "r1", "o1", 20)
	require.NoError(t, err)

	cases := []struct {
		name   string
		viewer Viewer
		ok     bool
	}{
		{"assigned rider", Viewer{UserID: "r1", Role: domain.RoleRider}, true},
		{"customer", Viewer{UserID: "c1", Role: domain.RoleCustomer}, true},
		{"vendor", Viewer{UserID: "v1", Role: domain.RoleVendor}, true},
		{"admin", Viewer{UserID: "a1", Role: domain.RoleAdmin}, true},
		{"other rider", Viewer{UserID: "r2", Role: domain.RoleRider}, false},
		{"other customer", Viewer{UserID: "c2", Role: domain.RoleCustomer}, false},
		{"other vendor", Viewer{UserID: "v2", Role: domain.RoleVendor}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetDelivery(ctx, tc.viewer, d.ID)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden)
			}

			_, err = svc.Progress(ctx, tc.viewer, d.ID)
			assert.Equal(t, tc.ok, err == nil)

			trackCtx, cancel := context.WithCancel(ctx)
			_, err = svc.Track(trackCtx, tc.viewer, d.ID, time.Millisecond)
			cancel()
			assert.Equal(t, tc.ok, err == nil)
		})
	}
}
