package pipeline

import (
	"time"

	"github.com/leesh5000/interview-guide/pkg/feed"
)

// FilterNew drops items whose URL was already collected for the current
// display date, items without a publish time or published before
// windowStart, and caps the remainder at max. Feed order is preserved,
// so with newest-first feeds the cap keeps the most recent items.
func FilterNew(items []feed.Item, existing map[string]bool, windowStart time.Time, max int) []feed.Item {
	var fresh []feed.Item
	for _, item := range items {
		if existing[item.Link] {
			continue
		}
		if item.PublishedAt == nil || item.PublishedAt.Before(windowStart) {
			continue
		}
		fresh = append(fresh, item)
		if len(fresh) == max {
			break
		}
	}
	return fresh
}
