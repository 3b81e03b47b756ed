package tagging

import "math/rand"

// A VictimFinder decides which slot of a set should be replaced.
type VictimFinder interface {
	// FindVictim returns the way to replace in the set.
	FindVictim(tags TagArray, setID int) (wayID int)

	// Visit records that an access to the slot has completed.
	Visit(tags TagArray, setID, wayID int)
}

// RandomVictimFinder picks a uniformly random way.
type RandomVictimFinder struct {
	rand *rand.Rand
}

// NewRandomVictimFinder returns a random victim finder drawing from src.
func NewRandomVictimFinder(src *rand.Rand) *RandomVictimFinder {
	return &RandomVictimFinder{rand: src}
}

// FindVictim returns a random way of the set.
func (e *RandomVictimFinder) FindVictim(tags TagArray, _ int) int {
	return e.rand.Intn(tags.NumWays())
}

// Visit does nothing, random replacement keeps no history.
func (e *RandomVictimFinder) Visit(TagArray, int, int) {}

// LRUVictimFinder evicts the least recently used slot. Every completed access
// stamps its slot with the next value of a counter; the slot with the
// smallest stamp is the victim.
type LRUVictimFinder struct {
	counter uint64
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// FindVictim returns the least recently used way in a set. Never used slots
// carry stamp 0 and are picked first. Ties go to the lowest way.
func (e *LRUVictimFinder) FindVictim(tags TagArray, setID int) int {
	victim := 0
	oldest := ^uint64(0)

	for _, slot := range tags.GetSet(setID) {
		if slot.Recency < oldest {
			oldest = slot.Recency
			victim = slot.WayID
		}
	}

	return victim
}

// Visit stamps the slot with the next counter value.
func (e *LRUVictimFinder) Visit(tags TagArray, setID, wayID int) {
	e.counter++
	tags.Stamp(setID, wayID, e.counter)
}

// Counter returns the last stamp handed out.
func (e *LRUVictimFinder) Counter() uint64 {
	return e.counter
}
