// Package dram provides the terminal level of a memory hierarchy, a flat
// table of lines that covers the whole address space.
package dram

import "github.com/sarchlab/memhier/mem/storage"

// Stats counts the accesses a store has completed.
type Stats struct {
	Reads  uint64
	Writes uint64
}

// Comp is a terminal store.
type Comp struct {
	storage.LevelBase

	rows  []storage.Line
	stats Stats
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

// View returns count lines starting from the line that holds base.
func (c *Comp) View(base int64, count int) []storage.Line {
	return storage.ViewRows(c.rows, c.Space(), base, count)
}

// Load writes words into the store starting at address 0. It is meant for
// seeding a program image before the simulation starts and bypasses
// admission and timing.
func (c *Comp) Load(words []storage.Word) {
	for i, w := range words {
		line, offset := c.memoryIndex(c.Space().Wrap(int64(i)))
		c.rows[line][offset] = w
	}
}

// Stats returns the access counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Close releases the table. The store must not be accessed afterwards.
func (c *Comp) Close() {
	c.MarkClosed()
	c.rows = nil
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

	if !c.Ready() {
		return false, storage.Result{}
	}

	line, offset := c.memoryIndex(wrapped)
	rsp := op.Apply(c.rows[line], offset)

	if op.Kind.IsWrite() {
		c.stats.Writes++
	} else {
		c.stats.Reads++
	}

	c.Complete()

	return true, rsp
}

func (c *Comp) memoryIndex(addr uint64) (line, offset uint64) {
	return c.Space().LineOf(addr), c.Space().OffsetOf(addr)
}
