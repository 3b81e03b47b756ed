package storage

import "github.com/sarchlab/memhier/sim/hooking"

// Hook positions triggered by storage levels.
var (
	// HookPosAccessStart is triggered when an accessor is admitted.
	HookPosAccessStart = &hooking.HookPos{Name: "AccessStart"}

	// HookPosMiss is triggered when a cache decides to replace a slot.
	HookPosMiss = &hooking.HookPos{Name: "Miss"}

	// HookPosWriteBack is triggered when a dirty line reached the lower level.
	HookPosWriteBack = &hooking.HookPos{Name: "WriteBack"}

	// HookPosFill is triggered when a missing line is installed.
	HookPosFill = &hooking.HookPos{Name: "Fill"}

	// HookPosAccessEnd is triggered when an access completes.
	HookPosAccessEnd = &hooking.HookPos{Name: "AccessEnd"}
)

// A Transaction is the access currently served by a level. It is the Item of
// every HookCtx a level produces.
type Transaction struct {
	ID       string
	Level    string
	Accessor AccessorID
	Kind     OpKind
	Address  uint64
}

// MissDetail is the Detail of miss, write-back, and fill hooks.
type MissDetail struct {
	SetID   int
	WayID   int
	Address uint64
	Dirty   bool
}
