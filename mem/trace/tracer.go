// Package trace provides hooks that trace the accesses served by storage
// levels.
package trace

import (
	"log"

	"github.com/sarchlab/memhier/datarecording"
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/sim/hooking"
)

// A CycleTeller can tell the current cycle.
type CycleTeller interface {
	CurrentCycle() uint64
}

// memoryTransactionEntry represents a memory transaction in the database
type memoryTransactionEntry struct {
	ID         string `json:"id"`
	Location   string `json:"location"`
	Accessor   string `json:"accessor"`
	What       string `json:"what"`
	StartCycle uint64 `json:"start_cycle"`
	EndCycle   uint64 `json:"end_cycle"`
	Address    uint64 `json:"address"`
}

// memoryStepEntry represents a miss, write-back, or fill that happened while
// serving a transaction.
type memoryStepEntry struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Cycle         uint64 `json:"cycle"`
	What          string `json:"what"`
	SetID         int    `json:"set_id"`
	WayID         int    `json:"way_id"`
	Address       uint64 `json:"address"`
	Dirty         bool   `json:"dirty"`
}

// A tracer is a hook that prints the actions of storage levels into a logger.
type tracer struct {
	cycleTeller CycleTeller
	logger      *log.Logger
}

// NewTracer creates a new tracer that writes one line per event.
func NewTracer(logger *log.Logger, cycleTeller CycleTeller) hooking.Hook {
	t := new(tracer)
	t.logger = logger
	t.cycleTeller = cycleTeller

	return t
}

// Func prints the event.
func (t *tracer) Func(ctx hooking.HookCtx) {
	txn, ok := ctx.Item.(storage.Transaction)
	if !ok {
		return
	}

	cycle := t.cycleTeller.CurrentCycle()

	switch ctx.Pos {
	case storage.HookPosAccessStart:
		t.logger.Printf("start, %d, %s, %s, %s, %s, 0x%x\n",
			cycle, txn.Level, txn.ID, txn.Accessor, txn.Kind, txn.Address)
	case storage.HookPosMiss, storage.HookPosWriteBack, storage.HookPosFill:
		detail, _ := ctx.Detail.(storage.MissDetail)
		t.logger.Printf("%s, %d, %s, %d, %d, 0x%x\n",
			stepName(ctx.Pos), cycle, txn.ID,
			detail.SetID, detail.WayID, detail.Address)
	case storage.HookPosAccessEnd:
		t.logger.Printf("end, %d, %s\n", cycle, txn.ID)
	}
}

// A dbTracer is a hook that records the actions of storage levels into a
// database using the data recorder.
type dbTracer struct {
	cycleTeller         CycleTeller
	dataRecorder        datarecording.DataRecorder
	pendingTransactions map[string]*memoryTransactionEntry
}

// NewDBTracer creates a new database-based tracer.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	cycleTeller CycleTeller,
) hooking.Hook {
	t := &dbTracer{
		cycleTeller:         cycleTeller,
		dataRecorder:        dataRecorder,
		pendingTransactions: make(map[string]*memoryTransactionEntry),
	}

	t.dataRecorder.CreateTable("memory_transactions", memoryTransactionEntry{})
	t.dataRecorder.CreateTable("memory_steps", memoryStepEntry{})

	return t
}

// Func records the event.
func (t *dbTracer) Func(ctx hooking.HookCtx) {
	txn, ok := ctx.Item.(storage.Transaction)
	if !ok {
		return
	}

	switch ctx.Pos {
	case storage.HookPosAccessStart:
		t.startTransaction(txn)
	case storage.HookPosMiss, storage.HookPosWriteBack, storage.HookPosFill:
		t.addStep(ctx.Pos, txn, ctx.Detail)
	case storage.HookPosAccessEnd:
		t.endTransaction(txn)
	}
}

func (t *dbTracer) startTransaction(txn storage.Transaction) {
	t.pendingTransactions[txn.ID] = &memoryTransactionEntry{
		ID:         txn.ID,
		Location:   txn.Level,
		Accessor:   string(txn.Accessor),
		What:       txn.Kind.String(),
		StartCycle: t.cycleTeller.CurrentCycle(),
		Address:    txn.Address,
	}
}

func (t *dbTracer) addStep(
	pos *hooking.HookPos,
	txn storage.Transaction,
	detail any,
) {
	if _, exists := t.pendingTransactions[txn.ID]; !exists {
		return
	}

	missDetail, _ := detail.(storage.MissDetail)
	what := stepName(pos)

	entry := memoryStepEntry{
		ID:            txn.ID + "_" + what,
		TransactionID: txn.ID,
		Cycle:         t.cycleTeller.CurrentCycle(),
		What:          what,
		SetID:         missDetail.SetID,
		WayID:         missDetail.WayID,
		Address:       missDetail.Address,
		Dirty:         missDetail.Dirty,
	}

	t.dataRecorder.InsertData("memory_steps", entry)
}

func (t *dbTracer) endTransaction(txn storage.Transaction) {
	entry, exists := t.pendingTransactions[txn.ID]
	if !exists {
		return
	}

	entry.EndCycle = t.cycleTeller.CurrentCycle()
	t.dataRecorder.InsertData("memory_transactions", *entry)

	delete(t.pendingTransactions, txn.ID)
}

func stepName(pos *hooking.HookPos) string {
	switch pos {
	case storage.HookPosMiss:
		return "miss"
	case storage.HookPosWriteBack:
		return "writeback"
	case storage.HookPosFill:
		return "fill"
	default:
		return pos.Name
	}
}
