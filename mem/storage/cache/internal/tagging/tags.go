package tagging

// A Slot is the metadata of one line of a cache.
type Slot struct {
	SetID   int
	WayID   int
	Tag     uint64
	IsValid bool
	IsDirty bool
	Recency uint64
}

// TagArray stores the slot metadata of a cache, grouped in sets.
type TagArray interface {
	NumSets() int
	NumWays() int
	TrueIndex(setID, wayID int) int
	Lookup(setID int, tag uint64) (wayID int, found bool)
	GetSet(setID int) []Slot
	GetSlot(setID, wayID int) Slot
	Install(setID, wayID int, tag uint64)
	SetDirty(setID, wayID int, dirty bool)
	Stamp(setID, wayID int, recency uint64)
	Reset()
}

// NewTagArray creates a tag array with all slots invalid.
func NewTagArray(numSets, numWays int) TagArray {
	t := &tagArrayImpl{
		numSets: numSets,
		numWays: numWays,
	}

	t.Reset()

	return t
}

type tagArrayImpl struct {
	numSets int
	numWays int
	slots   []Slot
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

// TrueIndex returns the position of a slot in the flat table.
func (t *tagArrayImpl) TrueIndex(setID, wayID int) int {
	return setID*t.numWays + wayID
}

// Lookup finds the way in the set whose valid slot carries tag.
func (t *tagArrayImpl) Lookup(setID int, tag uint64) (int, bool) {
	for _, slot := range t.GetSet(setID) {
		if slot.IsValid && slot.Tag == tag {
			return slot.WayID, true
		}
	}

	return 0, false
}

func (t *tagArrayImpl) GetSet(setID int) []Slot {
	start := t.TrueIndex(setID, 0)
	return t.slots[start : start+t.numWays]
}

func (t *tagArrayImpl) GetSlot(setID, wayID int) Slot {
	return t.slots[t.TrueIndex(setID, wayID)]
}

// Install marks a slot as holding a clean copy of the line identified by tag.
func (t *tagArrayImpl) Install(setID, wayID int, tag uint64) {
	slot := &t.slots[t.TrueIndex(setID, wayID)]
	slot.Tag = tag
	slot.IsValid = true
	slot.IsDirty = false
}

func (t *tagArrayImpl) SetDirty(setID, wayID int, dirty bool) {
	t.slots[t.TrueIndex(setID, wayID)].IsDirty = dirty
}

func (t *tagArrayImpl) Stamp(setID, wayID int, recency uint64) {
	t.slots[t.TrueIndex(setID, wayID)].Recency = recency
}

// Reset will mark all the slots invalid.
func (t *tagArrayImpl) Reset() {
	t.slots = make([]Slot, t.numSets*t.numWays)
	for i := 0; i < t.numSets; i++ {
		for j := 0; j < t.numWays; j++ {
			t.slots[t.TrueIndex(i, j)] = Slot{
				SetID: i,
				WayID: j,
			}
		}
	}
}
