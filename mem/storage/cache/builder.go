package cache

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/cache/internal/tagging"
	"github.com/sarchlab/memhier/sim/id"
)

// Replacement strategies a cache can be built with.
const (
	ReplaceLRU    = "lru"
	ReplaceRandom = "random"
)

// Builder can build caches.
type Builder struct {
	space           storage.AddressSpace
	log2NumSlots    uint
	log2Ways        uint
	delay           int
	lower           storage.Storage
	replaceStrategy string
	randSource      *rand.Rand
	seed            int64
	idGen           id.IDGenerator
}

// MakeBuilder creates a new builder. The default cache is a direct-mapped,
// 32-line cache over a 1024-word space with 4-word lines and LRU replacement.
func MakeBuilder() Builder {
	return Builder{
		space: storage.AddressSpace{
			WordBits: 10,
			LineBits: 2,
		},
		log2NumSlots:    5,
		replaceStrategy: ReplaceLRU,
		seed:            1,
	}
}

// WithAddressSpace sets the address space the cache serves.
func (b Builder) WithAddressSpace(space storage.AddressSpace) Builder {
	b.space = space
	return b
}

// WithLog2NumSlots sets the number of slots of the cache to 2^n.
func (b Builder) WithLog2NumSlots(n uint) Builder {
	b.log2NumSlots = n
	return b
}

// WithLog2Ways sets the associativity to 2^n ways per set. 0 builds a
// direct-mapped cache.
func (b Builder) WithLog2Ways(n uint) Builder {
	b.log2Ways = n
	return b
}

// WithDelay sets the number of cycles every access waits after any miss has
// been resolved.
func (b Builder) WithDelay(delay int) Builder {
	b.delay = delay
	return b
}

// WithLower sets the level the cache fetches from and writes back to. The
// cache takes ownership of the level.
func (b Builder) WithLower(lower storage.Storage) Builder {
	b.lower = lower
	return b
}

// WithReplaceStrategy selects how victims are chosen, either ReplaceLRU or
// ReplaceRandom.
func (b Builder) WithReplaceStrategy(strategy string) Builder {
	b.replaceStrategy = strategy
	return b
}

// WithRandSource sets the random source used by random replacement.
func (b Builder) WithRandSource(src *rand.Rand) Builder {
	b.randSource = src
	return b
}

// WithSeed sets the seed of the random source used by random replacement
// when no source is given.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithIDGenerator sets the generator that names the cache's transactions.
// The global generator is used by default.
func (b Builder) WithIDGenerator(g id.IDGenerator) Builder {
	b.idGen = g
	return b
}

// Build creates a new cache.
func (b Builder) Build(name string) *Comp {
	if name == "" {
		panic("cache name is used as its accessor identity and must not be empty")
	}

	if b.lower == nil {
		panic(fmt.Sprintf("cache %s is built without a lower level", name))
	}

	fields := tagging.NewFields(
		b.space.WordBits, b.space.LineBits, b.log2NumSlots, b.log2Ways)

	c := &Comp{
		LevelBase:    storage.NewLevelBase(name, b.space, b.delay),
		lower:        b.lower,
		fields:       fields,
		tags:         tagging.NewTagArray(fields.NumSets(), 1<<b.log2Ways),
		victimFinder: b.buildVictimFinder(),
	}

	if b.idGen != nil {
		c.UseIDGenerator(b.idGen)
	}

	c.rows = make([]storage.Line, 1<<b.log2NumSlots)
	for i := range c.rows {
		c.rows[i] = storage.NewLine(b.space.LineSize())
	}

	return c
}

func (b Builder) buildVictimFinder() tagging.VictimFinder {
	switch b.replaceStrategy {
	case ReplaceLRU:
		return tagging.NewLRUVictimFinder()
	case ReplaceRandom:
		src := b.randSource
		if src == nil {
			src = rand.New(rand.NewSource(b.seed))
		}

		return tagging.NewRandomVictimFinder(src)
	default:
		panic(fmt.Sprintf("replace strategy %q is not supported", b.replaceStrategy))
	}
}
