package dram

import (
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/sim/id"
)

// Builder can build terminal stores.
type Builder struct {
	space storage.AddressSpace
	delay int
	idGen id.IDGenerator
}

// MakeBuilder creates a builder with a 1024-word space, 4-word lines, and no
// delay.
func MakeBuilder() Builder {
	return Builder{
		space: storage.AddressSpace{
			WordBits: 10,
			LineBits: 2,
		},
	}
}

// WithAddressSpace sets the address space the store covers.
func (b Builder) WithAddressSpace(space storage.AddressSpace) Builder {
	b.space = space
	return b
}

// WithDelay sets the number of cycles every access waits before completing.
func (b Builder) WithDelay(delay int) Builder {
	b.delay = delay
	return b
}

// WithIDGenerator sets the generator that names the store's transactions.
// The global generator is used by default.
func (b Builder) WithIDGenerator(g id.IDGenerator) Builder {
	b.idGen = g
	return b
}

// Build creates a new terminal store.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		LevelBase: storage.NewLevelBase(name, b.space, b.delay),
	}

	if b.idGen != nil {
		c.UseIDGenerator(b.idGen)
	}

	c.rows = make([]storage.Line, b.space.NumLines())
	for i := range c.rows {
		c.rows[i] = storage.NewLine(b.space.LineSize())
	}

	return c
}
