// Package hierarchy assembles a chain of caches over a terminal store from a
// configuration.
package hierarchy

import (
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/cache"
	"github.com/sarchlab/memhier/mem/storage/dram"
	"github.com/sarchlab/memhier/sim/hooking"
	"github.com/sarchlab/memhier/sim/id"
)

// Name of the terminal store.
const memName = "DRAM"

// A Hierarchy is a chain of caches ending at a terminal store. The outermost
// level owns the rest of the chain.
type Hierarchy struct {
	config Config
	space  storage.AddressSpace
	mem    *dram.Comp
	caches []*cache.Comp
	closed bool
}

// Build creates the hierarchy described by c, starting from the terminal
// store and wrapping it with caches from the innermost level out.
func Build(c Config) (*Hierarchy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	h := &Hierarchy{
		config: c,
		space: storage.AddressSpace{
			WordBits: c.WordBits,
			LineBits: c.LineBits,
		},
	}

	var idGen id.IDGenerator
	if c.ParallelIDs {
		idGen = id.NewParallelIDGenerator()
	}

	h.mem = dram.MakeBuilder().
		WithAddressSpace(h.space).
		WithDelay(c.MemDelay).
		WithIDGenerator(idGen).
		Build(memName)

	h.caches = make([]*cache.Comp, len(c.Levels))

	var lower storage.Storage = h.mem
	for i := len(c.Levels) - 1; i >= 0; i-- {
		l := c.Levels[i]

		h.caches[i] = cache.MakeBuilder().
			WithAddressSpace(h.space).
			WithLog2NumSlots(l.Log2NumSlots).
			WithLog2Ways(l.Log2Ways).
			WithDelay(l.Delay).
			WithReplaceStrategy(l.Replace).
			WithSeed(l.Seed).
			WithIDGenerator(idGen).
			WithLower(lower).
			Build(l.Name)
		lower = h.caches[i]
	}

	return h, nil
}

// Config returns the configuration the hierarchy was built from.
func (h *Hierarchy) Config() Config {
	return h.config
}

// Space returns the address space of every level.
func (h *Hierarchy) Space() storage.AddressSpace {
	return h.space
}

// Outer returns the level closest to the processor.
func (h *Hierarchy) Outer() storage.Storage {
	if len(h.caches) == 0 {
		return h.mem
	}

	return h.caches[0]
}

// Dram returns the terminal store.
func (h *Hierarchy) Dram() *dram.Comp {
	return h.mem
}

// Caches returns the caches, outermost first.
func (h *Hierarchy) Caches() []*cache.Comp {
	return h.caches
}

// Levels returns every level, outermost first and the terminal store last.
func (h *Hierarchy) Levels() []storage.Storage {
	levels := make([]storage.Storage, 0, len(h.caches)+1)
	for _, c := range h.caches {
		levels = append(levels, c)
	}

	return append(levels, h.mem)
}

// Level finds a level by name.
func (h *Hierarchy) Level(name string) (storage.Storage, bool) {
	for _, l := range h.Levels() {
		if l.Name() == name {
			return l, true
		}
	}

	return nil, false
}

// Load seeds the terminal store with words starting at address 0.
func (h *Hierarchy) Load(words []storage.Word) {
	h.mem.Load(words)
}

// AcceptHook registers hook on every level.
func (h *Hierarchy) AcceptHook(hook hooking.Hook) {
	for _, c := range h.caches {
		c.AcceptHook(hook)
	}

	h.mem.AcceptHook(hook)
}

// Close tears the chain down from the outermost level in.
func (h *Hierarchy) Close() {
	if h.closed {
		return
	}

	h.closed = true
	h.Outer().Close()
}

// Closed tells if the hierarchy has been closed.
func (h *Hierarchy) Closed() bool {
	return h.closed
}

// LevelStats is the activity of one level. Hits, misses, write-backs, and
// fills stay zero for the terminal store.
type LevelStats struct {
	Name       string `json:"name"`
	Reads      uint64 `json:"reads"`
	Writes     uint64 `json:"writes"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	WriteBacks uint64 `json:"write_backs"`
	Fills      uint64 `json:"fills"`
}

// Stats returns the activity of every level, outermost first.
func (h *Hierarchy) Stats() []LevelStats {
	stats := make([]LevelStats, 0, len(h.caches)+1)

	for _, c := range h.caches {
		s := c.Stats()
		stats = append(stats, LevelStats{
			Name:       c.Name(),
			Reads:      s.Reads,
			Writes:     s.Writes,
			Hits:       s.Hits,
			Misses:     s.Misses,
			WriteBacks: s.WriteBacks,
			Fills:      s.Fills,
		})
	}

	s := h.mem.Stats()

	return append(stats, LevelStats{
		Name:   h.mem.Name(),
		Reads:  s.Reads,
		Writes: s.Writes,
	})
}
