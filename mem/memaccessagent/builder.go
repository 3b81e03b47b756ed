package memaccessagent

import (
	"math/rand"

	"github.com/sarchlab/memhier/mem/storage"
)

// Builder can build agents.
type Builder struct {
	target     storage.Storage
	space      storage.AddressSpace
	requests   []Request
	maxAddress int64
	readLeft   int
	writeLeft  int
	seed       int64
}

// MakeBuilder creates a builder for an agent with no requests over a
// 1024-word space with 4-word lines.
func MakeBuilder() Builder {
	return Builder{
		space: storage.AddressSpace{
			WordBits: 10,
			LineBits: 2,
		},
		seed: 1,
	}
}

// WithTarget sets the level the agent accesses.
func (b Builder) WithTarget(target storage.Storage) Builder {
	b.target = target
	return b
}

// WithAddressSpace sets the address space of the target.
func (b Builder) WithAddressSpace(space storage.AddressSpace) Builder {
	b.space = space
	return b
}

// WithRequests sets the requests the agent issues, in order.
func (b Builder) WithRequests(reqs ...Request) Builder {
	b.requests = append([]Request(nil), reqs...)
	return b
}

// WithMaxAddress limits random traffic to word addresses below addr. The
// whole address space is used by default.
func (b Builder) WithMaxAddress(addr int64) Builder {
	b.maxAddress = addr
	return b
}

// WithReadLeft sets the number of random reads to issue after the queued
// requests.
func (b Builder) WithReadLeft(n int) Builder {
	b.readLeft = n
	return b
}

// WithWriteLeft sets the number of random writes to issue after the queued
// requests.
func (b Builder) WithWriteLeft(n int) Builder {
	b.writeLeft = n
	return b
}

// WithSeed sets the seed of the random traffic.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// Build creates a new agent that uses name as its accessor ID.
func (b Builder) Build(name string) *Agent {
	if name == "" {
		panic("agent name must not be empty")
	}

	if b.target == nil {
		panic("agent target is not set")
	}

	b.space.MustBeValid()

	maxAddress := b.maxAddress
	if maxAddress <= 0 || uint64(maxAddress) > b.space.TotalWords() {
		maxAddress = int64(b.space.TotalWords())
	}

	return &Agent{
		name:          storage.AccessorID(name),
		target:        b.target,
		space:         b.space,
		queue:         append([]Request(nil), b.requests...),
		rand:          rand.New(rand.NewSource(b.seed)),
		maxAddress:    maxAddress,
		readLeft:      b.readLeft,
		writeLeft:     b.writeLeft,
		knownMemValue: make(map[int64]storage.Word),
	}
}
