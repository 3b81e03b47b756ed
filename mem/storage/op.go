package storage

import "fmt"

// OpKind is the kind of an access.
type OpKind int

// The four kinds of accesses a Storage accepts.
const (
	OpReadWord OpKind = iota
	OpWriteWord
	OpReadLine
	OpWriteLine
)

func (k OpKind) String() string {
	switch k {
	case OpReadWord:
		return "read_word"
	case OpWriteWord:
		return "write_word"
	case OpReadLine:
		return "read_line"
	case OpWriteLine:
		return "write_line"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// IsWrite tells if the access modifies the stored data.
func (k OpKind) IsWrite() bool {
	return k == OpWriteWord || k == OpWriteLine
}

// An Op describes an access together with its payload.
type Op struct {
	Kind OpKind
	Word Word
	Line Line
}

// ReadWordOp creates a word read.
func ReadWordOp() Op {
	return Op{Kind: OpReadWord}
}

// WriteWordOp creates a word write.
func WriteWordOp(value Word) Op {
	return Op{Kind: OpWriteWord, Word: value}
}

// ReadLineOp creates a line read.
func ReadLineOp() Op {
	return Op{Kind: OpReadLine}
}

// WriteLineOp creates a line write.
func WriteLineOp(line Line) Op {
	return Op{Kind: OpWriteLine, Line: line}
}

// Result carries the data produced by a completed access.
type Result struct {
	Word Word
	Line Line
}

// Apply performs the op on row at the given word offset.
func (o Op) Apply(row Line, offset uint64) Result {
	switch o.Kind {
	case OpReadWord:
		return Result{Word: row[offset]}
	case OpWriteWord:
		row[offset] = o.Word
	case OpReadLine:
		return Result{Line: row.Clone()}
	case OpWriteLine:
		copy(row, o.Line)
	default:
		panic(fmt.Sprintf("unknown op kind %d", o.Kind))
	}

	return Result{}
}

// MustMatchLineSize panics if a line write carries a line of the wrong size.
func (o Op) MustMatchLineSize(size int) {
	if o.Kind == OpWriteLine && len(o.Line) != size {
		panic(fmt.Sprintf("line of %d words written to storage with %d-word lines",
			len(o.Line), size))
	}
}
