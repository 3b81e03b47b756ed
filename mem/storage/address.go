package storage

import "fmt"

// MaxWordBits is the widest address a space may have. Every level allocates
// its table when it is built, so wider spaces cannot be held in memory.
const MaxWordBits = 28

// AddressSpace describes the word-addressed space shared by the levels of a
// hierarchy.
type AddressSpace struct {
	// WordBits is the width of an address, the space holds 2^WordBits words.
	WordBits uint

	// LineBits is the number of offset bits, a line holds 2^LineBits words.
	LineBits uint
}

// MustBeValid panics if the space cannot be used.
func (s AddressSpace) MustBeValid() {
	if s.WordBits == 0 || s.WordBits > MaxWordBits {
		panic(fmt.Sprintf("address width %d is not supported", s.WordBits))
	}

	if s.LineBits > s.WordBits {
		panic(fmt.Sprintf("line offset bits %d exceed the address width %d",
			s.LineBits, s.WordBits))
	}
}

// TotalWords returns the number of words in the space.
func (s AddressSpace) TotalWords() uint64 {
	return 1 << s.WordBits
}

// LineSize returns the number of words in a line.
func (s AddressSpace) LineSize() int {
	return 1 << s.LineBits
}

// NumLines returns the number of lines that cover the space.
func (s AddressSpace) NumLines() int {
	return 1 << (s.WordBits - s.LineBits)
}

// Wrap maps any address into the space using Euclidean modulo.
func (s AddressSpace) Wrap(addr int64) uint64 {
	n := int64(s.TotalWords())

	r := addr % n
	if r < 0 {
		r += n
	}

	return uint64(r)
}

// LineOf returns the line number of a wrapped address.
func (s AddressSpace) LineOf(addr uint64) uint64 {
	return addr >> s.LineBits
}

// OffsetOf returns the position of a wrapped address within its line.
func (s AddressSpace) OffsetOf(addr uint64) uint64 {
	return addr & (uint64(s.LineSize()) - 1)
}

// ViewRows copies count rows out of rows, starting from the row that holds
// base and wrapping around the end of the table.
func ViewRows(rows []Line, s AddressSpace, base int64, count int) []Line {
	if count <= 0 || len(rows) == 0 {
		return []Line{}
	}

	start := int(s.LineOf(s.Wrap(base)) % uint64(len(rows)))

	out := make([]Line, count)
	for i := range out {
		out[i] = rows[(start+i)%len(rows)].Clone()
	}

	return out
}
