package trace

import (
	"sync"

	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/sim/hooking"
)

// StepCountTracer counts the misses, write-backs, and fills of the
// transactions that pass its filter.
type StepCountTracer struct {
	filter TransactionFilter
	lock   sync.Mutex

	stepNames []string
	stepCount map[string]uint64
}

// NewStepCountTracer creates a new StepCountTracer. A nil filter accepts
// every transaction.
func NewStepCountTracer(filter TransactionFilter) *StepCountTracer {
	if filter == nil {
		filter = func(storage.Transaction) bool { return true }
	}

	return &StepCountTracer{
		filter:    filter,
		stepCount: make(map[string]uint64),
	}
}

// Func counts the step.
func (t *StepCountTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case storage.HookPosMiss, storage.HookPosWriteBack, storage.HookPosFill:
	default:
		return
	}

	txn, ok := ctx.Item.(storage.Transaction)
	if !ok || !t.filter(txn) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	name := stepName(ctx.Pos)
	if _, ok := t.stepCount[name]; !ok {
		t.stepNames = append(t.stepNames, name)
	}

	t.stepCount[name]++
}

// StepNames returns the names of the steps seen, in the order they first
// occurred.
func (t *StepCountTracer) StepNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.stepNames...)
}

// StepCount returns how many times the named step occurred.
func (t *StepCountTracer) StepCount(name string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stepCount[name]
}
