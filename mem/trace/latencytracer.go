package trace

import (
	"sync"

	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/sim/hooking"
)

// TransactionFilter decides which transactions a tracer considers.
type TransactionFilter func(txn storage.Transaction) bool

// LevelFilter accepts the transactions served by the named level.
func LevelFilter(level string) TransactionFilter {
	return func(txn storage.Transaction) bool {
		return txn.Level == level
	}
}

// LatencyTracer collects the total and average number of cycles spent on the
// transactions that pass its filter.
type LatencyTracer struct {
	cycleTeller CycleTeller
	filter      TransactionFilter

	lock        sync.Mutex
	inflight    map[string]uint64
	totalCycles uint64
	count       uint64
}

// NewLatencyTracer creates a new LatencyTracer. A nil filter accepts every
// transaction.
func NewLatencyTracer(
	cycleTeller CycleTeller,
	filter TransactionFilter,
) *LatencyTracer {
	if filter == nil {
		filter = func(storage.Transaction) bool { return true }
	}

	return &LatencyTracer{
		cycleTeller: cycleTeller,
		filter:      filter,
		inflight:    make(map[string]uint64),
	}
}

// Func records the start and the end of transactions.
func (t *LatencyTracer) Func(ctx hooking.HookCtx) {
	txn, ok := ctx.Item.(storage.Transaction)
	if !ok || !t.filter(txn) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	switch ctx.Pos {
	case storage.HookPosAccessStart:
		t.inflight[txn.ID] = t.cycleTeller.CurrentCycle()
	case storage.HookPosAccessEnd:
		start, found := t.inflight[txn.ID]
		if !found {
			return
		}

		t.totalCycles += t.cycleTeller.CurrentCycle() - start + 1
		t.count++

		delete(t.inflight, txn.ID)
	}
}

// TotalCycles returns the number of cycles spent on all the completed
// transactions. A transaction that starts and ends in the same cycle counts
// as one cycle.
func (t *LatencyTracer) TotalCycles() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalCycles
}

// TotalCount returns the number of completed transactions.
func (t *LatencyTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count
}

// AverageCycles returns the average latency, or 0 if nothing completed.
func (t *LatencyTracer) AverageCycles() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.count == 0 {
		return 0
	}

	return float64(t.totalCycles) / float64(t.count)
}
