// Package storage defines the timed access contract shared by every level of
// a memory hierarchy.
//
// A level is polled once per simulated cycle. An access that cannot finish
// in the current cycle returns false and must be polled again, with the same
// accessor and arguments, in the next cycle. Only one accessor may be in
// flight on a level at a time; calls from any other accessor are no-ops
// until the holder completes.
package storage

// A Word is the smallest addressable unit of data.
type Word int32

// A Line is a fixed-length group of words that is moved between levels as one
// unit. All the levels of a hierarchy use the same line size.
type Line []Word

// NewLine creates a zeroed line of the given size.
func NewLine(size int) Line {
	return make(Line, size)
}

// Clone returns a copy of the line that does not share memory with l.
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}

	c := make(Line, len(l))
	copy(c, l)

	return c
}

// AccessorID names the requester of an access. It is only compared for
// equality. The empty ID is the null accessor and is never admitted.
type AccessorID string

// NullAccessor is the null accessor identity.
const NullAccessor AccessorID = ""

// Storage is one level of a memory hierarchy.
type Storage interface {
	// Name returns the name of the level.
	Name() string

	// WriteWord writes value at addr.
	WriteWord(id AccessorID, value Word, addr int64) (completed bool)

	// WriteLine writes line into the line that contains addr.
	WriteLine(id AccessorID, line Line, addr int64) (completed bool)

	// ReadWord reads the word at addr.
	ReadWord(id AccessorID, addr int64) (completed bool, value Word)

	// ReadLine reads the line that contains addr.
	ReadLine(id AccessorID, addr int64) (completed bool, line Line)

	// View returns a copy of count stored lines, starting from the row that
	// holds the word address base. It bypasses admission and timing.
	View(base int64, count int) []Line

	// Close releases the level and every level it owns.
	Close()
}
