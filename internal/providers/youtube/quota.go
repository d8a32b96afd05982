// internal/providers/youtube/quota.go
package youtube

import (
	"sync"

	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/metrics"
)

// Quota unit costs per Data API endpoint.
const (
	CostSearch       = 100
	CostVideosList   = 1 // per video in the batch
	CostChannelsList = 1
)

// QuotaTracker enforces the daily unit budget across concurrent callers.
type QuotaTracker struct {
	mu     sync.Mutex
	budget int
	used   int
}

func NewQuotaTracker(dailyUnits int) *QuotaTracker {
	return &QuotaTracker{budget: dailyUnits}
}

// Spend reserves units before a call. The call must not be made when an
// error is returned.
func (q *QuotaTracker) Spend(endpoint string, units int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.used+units > q.budget {
		return apperrors.NewQuotaExhaustedError("youtube", units, q.budget-q.used)
	}
	q.used += units
	metrics.QuotaUnitsSpent.WithLabelValues(endpoint).Add(float64(units))
	return nil
}

// Used returns the units consumed so far.
func (q *QuotaTracker) Used() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// Remaining returns the units left in the budget.
func (q *QuotaTracker) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.budget - q.used
}

// Reset starts a fresh quota window.
func (q *QuotaTracker) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.used = 0
}
