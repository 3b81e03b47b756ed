package storage

import (
	"fmt"

	"github.com/sarchlab/memhier/sim/hooking"
	"github.com/sarchlab/memhier/sim/id"
)

// LevelBase carries the state every level needs: its name, address space,
// admission gate, hooks, and the transaction in flight.
type LevelBase struct {
	hooking.HookableBase

	name   string
	space  AddressSpace
	gate   Gate
	txn    Transaction
	closed bool
	idGen  id.IDGenerator
}

// NewLevelBase creates a LevelBase.
func NewLevelBase(name string, space AddressSpace, delay int) LevelBase {
	space.MustBeValid()

	return LevelBase{
		name:  name,
		space: space,
		gate:  NewGate(delay),
	}
}

// Name returns the name of the level.
func (b *LevelBase) Name() string {
	return b.name
}

// Space returns the address space of the level.
func (b *LevelBase) Space() AddressSpace {
	return b.space
}

// Gate exposes the admission gate for inspection.
func (b *LevelBase) Gate() *Gate {
	return &b.gate
}

// Transaction returns the access in flight. The zero Transaction is returned
// when the level is idle.
func (b *LevelBase) Transaction() Transaction {
	return b.txn
}

// Admit runs the admission step for an access to the wrapped address addr.
func (b *LevelBase) Admit(accessor AccessorID, kind OpKind, addr uint64) bool {
	if b.closed {
		panic(fmt.Sprintf("%s is used after being closed", b.name))
	}

	admitted, isNew := b.gate.Admit(accessor)
	if !admitted {
		return false
	}

	if isNew {
		b.txn = Transaction{
			ID:       b.generateID(),
			Level:    b.name,
			Accessor: accessor,
			Kind:     kind,
			Address:  addr,
		}
		b.Notify(HookPosAccessStart, nil)
	}

	return true
}

// UseIDGenerator makes the level name its transactions with g instead of the
// global generator.
func (b *LevelBase) UseIDGenerator(g id.IDGenerator) {
	b.idGen = g
}

func (b *LevelBase) generateID() string {
	if b.idGen == nil {
		return id.Generate()
	}

	return b.idGen.Generate()
}

// Ready runs the timing step. It returns true on the poll that completes the
// access, after the holder has been released.
func (b *LevelBase) Ready() bool {
	return b.gate.Tick()
}

// Complete reports the end of the transaction in flight and forgets it. It
// must be called once the completed access has been applied.
func (b *LevelBase) Complete() {
	b.Notify(HookPosAccessEnd, nil)
	b.txn = Transaction{}
}

// Notify invokes the hooks with the current transaction as the item.
func (b *LevelBase) Notify(pos *hooking.HookPos, detail any) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    pos,
		Item:   b.txn,
		Detail: detail,
	})
}

// MarkClosed makes every later access panic.
func (b *LevelBase) MarkClosed() {
	b.closed = true
}

// IsClosed tells if the level has been closed.
func (b *LevelBase) IsClosed() bool {
	return b.closed
}
