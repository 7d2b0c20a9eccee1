package pipeline

import (
	"time"

	"github.com/vietddude/screener/internal/core/domain"
)

// span derives the first and last transfer timestamps from the
// normalized history. Zero times for an empty batch.
func span(batch domain.Batch) (first, last time.Time) {
	for _, t := range batch.Transfers {
		if first.IsZero() || t.Time.Before(first) {
			first = t.Time
		}
		if last.IsZero() || t.Time.After(last) {
			last = t.Time
		}
	}
	return first, last
}
