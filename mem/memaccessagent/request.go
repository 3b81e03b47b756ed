package memaccessagent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/memhier/mem/storage"
)

// A Request is one access an agent issues to its target level.
type Request struct {
	Kind    storage.OpKind
	Address int64
	Word    storage.Word
	Line    storage.Line
}

// ReadWord creates a word read request.
func ReadWord(addr int64) Request {
	return Request{Kind: storage.OpReadWord, Address: addr}
}

// WriteWord creates a word write request.
func WriteWord(addr int64, value storage.Word) Request {
	return Request{Kind: storage.OpWriteWord, Address: addr, Word: value}
}

// ReadLine creates a line read request.
func ReadLine(addr int64) Request {
	return Request{Kind: storage.OpReadLine, Address: addr}
}

// WriteLine creates a line write request.
func WriteLine(addr int64, line storage.Line) Request {
	return Request{Kind: storage.OpWriteLine, Address: addr, Line: line}
}

// ParseRequest parses the textual form of a request. The accepted forms are
// "r:ADDR", "w:ADDR=VALUE", "rl:ADDR", and "wl:ADDR=V0,V1,...". Numbers may be
// decimal, hexadecimal with a 0x prefix, or negative.
func ParseRequest(s string) (Request, error) {
	kind, rest, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return Request{}, fmt.Errorf("request %q: missing ':'", s)
	}

	switch kind {
	case "r":
		addr, err := parseAddress(rest)
		if err != nil {
			return Request{}, fmt.Errorf("request %q: %w", s, err)
		}

		return ReadWord(addr), nil
	case "rl":
		addr, err := parseAddress(rest)
		if err != nil {
			return Request{}, fmt.Errorf("request %q: %w", s, err)
		}

		return ReadLine(addr), nil
	case "w":
		return parseWordWrite(s, rest)
	case "wl":
		return parseLineWrite(s, rest)
	default:
		return Request{}, fmt.Errorf("request %q: unknown kind %q", s, kind)
	}
}

func parseWordWrite(s, rest string) (Request, error) {
	addrStr, valueStr, found := strings.Cut(rest, "=")
	if !found {
		return Request{}, fmt.Errorf("request %q: missing '='", s)
	}

	addr, err := parseAddress(addrStr)
	if err != nil {
		return Request{}, fmt.Errorf("request %q: %w", s, err)
	}

	value, err := ParseWord(valueStr)
	if err != nil {
		return Request{}, fmt.Errorf("request %q: %w", s, err)
	}

	return WriteWord(addr, value), nil
}

func parseLineWrite(s, rest string) (Request, error) {
	addrStr, valuesStr, found := strings.Cut(rest, "=")
	if !found {
		return Request{}, fmt.Errorf("request %q: missing '='", s)
	}

	addr, err := parseAddress(addrStr)
	if err != nil {
		return Request{}, fmt.Errorf("request %q: %w", s, err)
	}

	line, err := ParseWords(valuesStr)
	if err != nil {
		return Request{}, fmt.Errorf("request %q: %w", s, err)
	}

	return WriteLine(addr, line), nil
}

func parseAddress(s string) (int64, error) {
	addr, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address: %w", err)
	}

	return addr, nil
}

// ParseWord parses a single word value.
func ParseWord(s string) (storage.Word, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad word: %w", err)
	}

	return storage.Word(v), nil
}

// ParseWords parses a comma separated list of words.
func ParseWords(s string) ([]storage.Word, error) {
	fields := strings.Split(s, ",")
	words := make([]storage.Word, 0, len(fields))

	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}

		w, err := ParseWord(f)
		if err != nil {
			return nil, err
		}

		words = append(words, w)
	}

	return words, nil
}

func (r Request) String() string {
	switch r.Kind {
	case storage.OpWriteWord:
		return fmt.Sprintf("w:%d=%d", r.Address, r.Word)
	case storage.OpReadLine:
		return fmt.Sprintf("rl:%d", r.Address)
	case storage.OpWriteLine:
		return fmt.Sprintf("wl:%d=%v", r.Address, r.Line)
	default:
		return fmt.Sprintf("r:%d", r.Address)
	}
}
