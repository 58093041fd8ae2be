package delivery

import (
	"context"
	"time"

	"groceryMarket/domain"
)

type Tracker struct {
	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Watch emits a snapshot right away and then on every tick. The channel is
// closed after the arrival snapshot or when ctx is done.
func (t *Tracker) Watch(ctx context.Context, d domain.Delivery, interval time.Duration) <-chan Snapshot {
	out := make(chan Snapshot)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			snap := t.snapshot(d)
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			if snap.Arrived {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (t *Tracker) snapshot(d domain.Delivery) Snapshot {
	if d.Status == domain.DeliveryDelivered {
		return Progress(d.StartedAt, d.StartedAt, d.StartedAt)
	}
	return Progress(d.StartedAt, d.EstimatedAt, t.now())
}
