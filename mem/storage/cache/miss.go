package cache

import (
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/cache/internal/tagging"
)

// primeAddress makes sure the line that holds addr is present. It returns
// true while a write-back or a fill is still outstanding at the lower level.
func (c *Comp) primeAddress(addr uint64) bool {
	tag, index, _ := c.fields.Decompose(addr)
	setID := int(index)

	if _, found := c.tags.Lookup(setID, tag); found {
		c.pending = nil
		return false
	}

	if c.pending == nil || c.pending.setID != setID || c.pending.tag != tag {
		c.startMiss(setID, tag, addr)
	}

	slot := c.tags.GetSlot(c.pending.setID, c.pending.wayID)
	if slot.IsValid && slot.IsDirty {
		c.writeBack(slot)
		return true
	}

	c.fill()

	return true
}

func (c *Comp) startMiss(setID int, tag, addr uint64) {
	wayID := c.victimFinder.FindVictim(c.tags, setID)

	c.pending = &pendingMiss{
		setID: setID,
		wayID: wayID,
		tag:   tag,
		addr:  addr,
	}
	c.missed = true
	c.stats.Misses++

	victim := c.tags.GetSlot(setID, wayID)
	c.Notify(storage.HookPosMiss, storage.MissDetail{
		SetID:   setID,
		WayID:   wayID,
		Address: c.fields.Compose(tag, uint64(setID)),
		Dirty:   victim.IsValid && victim.IsDirty,
	})
}

func (c *Comp) writeBack(victim tagging.Slot) {
	evictAddr := c.fields.Compose(victim.Tag, uint64(victim.SetID))
	row := c.rows[c.tags.TrueIndex(victim.SetID, victim.WayID)]

	if !c.lower.WriteLine(c.accessorID(), row, int64(evictAddr)) {
		return
	}

	c.tags.SetDirty(victim.SetID, victim.WayID, false)
	c.stats.WriteBacks++

	c.Notify(storage.HookPosWriteBack, storage.MissDetail{
		SetID:   victim.SetID,
		WayID:   victim.WayID,
		Address: evictAddr,
		Dirty:   true,
	})
}

func (c *Comp) fill() {
	p := c.pending

	completed, line := c.lower.ReadLine(c.accessorID(), int64(p.addr))
	if !completed {
		return
	}

	copy(c.rows[c.tags.TrueIndex(p.setID, p.wayID)], line)
	c.tags.Install(p.setID, p.wayID, p.tag)
	c.stats.Fills++
	c.pending = nil

	c.Notify(storage.HookPosFill, storage.MissDetail{
		SetID:   p.setID,
		WayID:   p.wayID,
		Address: c.fields.Compose(p.tag, uint64(p.setID)),
	})
}

// accessorID is the identity the cache uses when it accesses its lower level.
func (c *Comp) accessorID() storage.AccessorID {
	return storage.AccessorID(c.Name())
}
