// Package cache provides a set-associative, write-back cache level.
//
// On a miss the cache picks a victim slot, writes it back to the lower level
// if it is dirty, and fills it from the lower level. The lower level is polled
// once per poll of the cache, so the latency of every level below adds up.
// The cache starts counting down its own delay only after the line is
// present.
package cache

import (
	"fmt"

	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/cache/internal/tagging"
)

// Stats counts what the cache did.
type Stats struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	WriteBacks uint64
	Fills      uint64
}

// pendingMiss remembers the slot chosen for a missing line until the line has
// been filled.
type pendingMiss struct {
	setID int
	wayID int
	tag   uint64
	addr  uint64
}

// Comp is a cache level.
type Comp struct {
	storage.LevelBase

	lower        storage.Storage
	fields       tagging.Fields
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder
	rows         []storage.Line

	pending *pendingMiss
	missed  bool
	stats   Stats
}

// WriteWord writes value at addr.
func (c *Comp) WriteWord(id storage.AccessorID, value storage.Word, addr int64) bool {
	completed, _ := c.process(id, addr, storage.WriteWordOp(value))
	return completed
}

// WriteLine overwrites the line that holds addr.
func (c *Comp) WriteLine(id storage.AccessorID, line storage.Line, addr int64) bool {
	completed, _ := c.process(id, addr, storage.WriteLineOp(line))
	return completed
}

// ReadWord reads the word at addr.
func (c *Comp) ReadWord(id storage.AccessorID, addr int64) (bool, storage.Word) {
	completed, rsp := c.process(id, addr, storage.ReadWordOp())
	return completed, rsp.Word
}

// ReadLine reads the line that holds addr.
func (c *Comp) ReadLine(id storage.AccessorID, addr int64) (bool, storage.Line) {
	completed, rsp := c.process(id, addr, storage.ReadLineOp())
	return completed, rsp.Line
}

// View returns count slots of the data table, starting from the row of the
// table that the word address base falls in.
func (c *Comp) View(base int64, count int) []storage.Line {
	return storage.ViewRows(c.rows, c.Space(), base, count)
}

// Lower returns the level below the cache.
func (c *Comp) Lower() storage.Storage {
	return c.lower
}

// NumSets returns the number of sets.
func (c *Comp) NumSets() int {
	return c.tags.NumSets()
}

// NumWays returns the number of slots per set.
func (c *Comp) NumWays() int {
	return c.tags.NumWays()
}

// Fields returns the widths of the address fields.
func (c *Comp) Fields() tagging.Fields {
	return c.fields
}

// Stats returns the counters of the cache.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Close releases the cache and then the level below it.
func (c *Comp) Close() {
	if c.IsClosed() {
		return
	}

	c.MarkClosed()
	c.lower.Close()

	c.rows = nil
	c.pending = nil
}

func (c *Comp) process(
	id storage.AccessorID,
	addr int64,
	op storage.Op,
) (bool, storage.Result) {
	op.MustMatchLineSize(c.Space().LineSize())

	wrapped := c.Space().Wrap(addr)

	if !c.Admit(id, op.Kind, wrapped) {
		return false, storage.Result{}
	}

	if c.primeAddress(wrapped) {
		return false, storage.Result{}
	}

	if !c.Ready() {
		return false, storage.Result{}
	}

	return true, c.finish(wrapped, op)
}

// finish applies a cleared access to its slot.
func (c *Comp) finish(addr uint64, op storage.Op) storage.Result {
	tag, index, offset := c.fields.Decompose(addr)
	setID := int(index)

	wayID, found := c.tags.Lookup(setID, tag)
	if !found {
		panic(fmt.Sprintf("%s: line 0x%x is not present after miss resolution",
			c.Name(), addr))
	}

	row := c.rows[c.tags.TrueIndex(setID, wayID)]
	rsp := op.Apply(row, offset)

	if op.Kind.IsWrite() {
		c.tags.SetDirty(setID, wayID, true)
		c.stats.Writes++
	} else {
		c.stats.Reads++
	}

	if !c.missed {
		c.stats.Hits++
	}

	c.missed = false
	c.victimFinder.Visit(c.tags, setID, wayID)
	c.Complete()

	return rsp
}
