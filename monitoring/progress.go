package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many requests a run has completed.
type ProgressBar struct {
	lock sync.Mutex

	id         string
	name       string
	startTime  time.Time
	total      int
	finished   int
	inProgress int
	cycle      uint64
}

// ProgressStatus is a point-in-time copy of a ProgressBar.
type ProgressStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      int       `json:"total"`
	Finished   int       `json:"finished"`
	InProgress int       `json:"in_progress"`
	Cycle      uint64    `json:"cycle"`
}

// Update sets the request counts and the cycle reached. The total becomes
// the sum of the three counts.
func (b *ProgressBar) Update(finished, inProgress, remaining int, cycle uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.finished = finished
	b.inProgress = inProgress
	b.total = finished + inProgress + remaining
	b.cycle = cycle
}

// Snapshot returns the current state of the bar.
func (b *ProgressBar) Snapshot() ProgressStatus {
	b.lock.Lock()
	defer b.lock.Unlock()

	return ProgressStatus{
		ID:         b.id,
		Name:       b.name,
		StartTime:  b.startTime,
		Total:      b.total,
		Finished:   b.finished,
		InProgress: b.inProgress,
		Cycle:      b.cycle,
	}
}
