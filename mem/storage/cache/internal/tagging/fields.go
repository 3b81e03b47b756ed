// Package tagging keeps track of what a cache holds: address decomposition,
// per-slot metadata, and replacement.
package tagging

import "fmt"

// Fields holds the widths of the three address fields of a cache, computed
// once when the cache is built.
//
//	| tag | index | offset |
type Fields struct {
	OffsetBits uint
	IndexBits  uint
	TagBits    uint
}

// NewFields derives the field widths for a cache of 2^sizeBits slots grouped
// into sets of 2^wayBits slots, over an address space of wordBits-wide
// addresses and 2^lineBits-word lines.
func NewFields(wordBits, lineBits, sizeBits, wayBits uint) Fields {
	if wayBits > sizeBits {
		panic(fmt.Sprintf(
			"associativity bits %d exceed cache size bits %d", wayBits, sizeBits))
	}

	indexBits := sizeBits - wayBits
	if lineBits+indexBits > wordBits {
		panic(fmt.Sprintf(
			"cache with %d index bits and %d offset bits does not fit "+
				"%d-bit addresses", indexBits, lineBits, wordBits))
	}

	return Fields{
		OffsetBits: lineBits,
		IndexBits:  indexBits,
		TagBits:    wordBits - lineBits - indexBits,
	}
}

// NumSets returns the number of sets the index field can select.
func (f Fields) NumSets() int {
	return 1 << f.IndexBits
}

// Decompose splits a wrapped address into its tag, index, and offset.
func (f Fields) Decompose(addr uint64) (tag, index, offset uint64) {
	offset = addr & mask(f.OffsetBits)
	index = (addr >> f.OffsetBits) & mask(f.IndexBits)
	tag = (addr >> (f.OffsetBits + f.IndexBits)) & mask(f.TagBits)

	return tag, index, offset
}

// Compose rebuilds the address of the first word of the line identified by
// tag and index.
func (f Fields) Compose(tag, index uint64) uint64 {
	return tag<<(f.OffsetBits+f.IndexBits) | index<<f.OffsetBits
}

func mask(bits uint) uint64 {
	return (1 << bits) - 1
}
