package delivery

import "time"

type Snapshot struct {
	Percent          int    `json:"percent"`
	Location         string `json:"location"`
	Arrived          bool   `json:"arrived"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

// Progress interpolates linearly between startedAt and estimatedAt, clamped to
// 0..100. An empty or inverted window counts as arrived.
func Progress(startedAt, estimatedAt, now time.Time) Snapshot {
	window := estimatedAt.Sub(startedAt)

	percent := 100
	if window > 0 {
		elapsed := now.Sub(startedAt)
		switch {
		case elapsed <= 0:
			percent = 0
		case elapsed >= window:
			percent = 100
		default:
			percent = int(elapsed * 100 / window)
		}
	}

	var remaining int64
	if left := estimatedAt.Sub(now); left > 0 && percent < 100 {
		remaining = int64(left / time.Second)
	}

	return Snapshot{
		Percent:          percent,
		Location:         LocationFor(percent),
		Arrived:          percent >= 100,
		RemainingSeconds: remaining,
	}
}

func LocationFor(percent int) string {
	switch {
	case percent < 25:
		return "Order picked up"
	case percent < 50:
		return "On the way"
	case percent < 75:
		return "Getting close"
	case percent < 100:
		return "Almost there!"
	default:
		return "Delivered"
	}
}
