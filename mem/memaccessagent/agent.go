// Package memaccessagent provides agents that drive storage levels the way a
// processor does, one poll per cycle, and a driver that advances the cycle.
package memaccessagent

import (
	"log"
	"math/rand"
	"sort"

	"github.com/sarchlab/memhier/mem/storage"
)

var dumpLog = false

// A Record describes a completed request.
type Record struct {
	Request    Request
	Word       storage.Word
	Line       storage.Line
	StartCycle uint64
	EndCycle   uint64

	// Polls counts every poll issued for the request, including the one that
	// completed it.
	Polls int

	// Expected is the last value the agent wrote to the address, and Checked
	// tells if such a value exists. Only word reads are checked.
	Expected storage.Word
	Checked  bool
}

// Latency returns the number of cycles spent on the request.
func (r Record) Latency() int {
	return r.Polls
}

// Mismatch tells if a checked read returned a value other than the expected
// one.
func (r Record) Mismatch() bool {
	return r.Checked && r.Word != r.Expected
}

// An Agent issues requests to a storage level under its own accessor ID. It
// polls the in-flight request once per tick until it completes.
type Agent struct {
	name   storage.AccessorID
	target storage.Storage
	space  storage.AddressSpace

	queue   []Request
	current *Record
	records []Record

	rand          *rand.Rand
	maxAddress    int64
	readLeft      int
	writeLeft     int
	knownMemValue map[int64]storage.Word
}

// Name returns the accessor ID the agent uses.
func (a *Agent) Name() storage.AccessorID {
	return a.name
}

// Enqueue appends requests to the agent's queue.
func (a *Agent) Enqueue(reqs ...Request) {
	a.queue = append(a.queue, reqs...)
}

// Records returns the completed requests in completion order.
func (a *Agent) Records() []Record {
	return a.records
}

// Mismatches returns the checked reads that returned unexpected values.
func (a *Agent) Mismatches() []Record {
	var mismatches []Record

	for _, r := range a.records {
		if r.Mismatch() {
			mismatches = append(mismatches, r)
		}
	}

	return mismatches
}

// Done tells if the agent has nothing left to issue.
func (a *Agent) Done() bool {
	return a.current == nil &&
		len(a.queue) == 0 &&
		a.readLeft == 0 &&
		a.writeLeft == 0
}

// InFlight tells if a request has been issued but not yet completed.
func (a *Agent) InFlight() bool {
	return a.current != nil
}

// Remaining returns the number of requests not issued yet, queued and random.
func (a *Agent) Remaining() int {
	return len(a.queue) + a.readLeft + a.writeLeft
}

// Tick polls the in-flight request once, starting the next request if the
// agent is idle. It returns false if the agent had nothing to do.
func (a *Agent) Tick(cycle uint64) bool {
	if a.current == nil && !a.startNext(cycle) {
		return false
	}

	a.current.Polls++

	if !a.poll() {
		return true
	}

	a.current.EndCycle = cycle
	a.finish()

	return true
}

func (a *Agent) startNext(cycle uint64) bool {
	var req Request

	switch {
	case len(a.queue) > 0:
		req = a.queue[0]
		a.queue = a.queue[1:]
	case a.readLeft > 0 || a.writeLeft > 0:
		var ok bool
		if req, ok = a.randomRequest(); !ok {
			return false
		}
	default:
		return false
	}

	a.current = &Record{
		Request:    req,
		StartCycle: cycle,
	}

	if req.Kind == storage.OpReadWord {
		a.current.Expected, a.current.Checked =
			a.knownMemValue[a.wrap(req.Address)]
	}

	return true
}

func (a *Agent) poll() bool {
	req := a.current.Request

	switch req.Kind {
	case storage.OpReadWord:
		done, w := a.target.ReadWord(a.name, req.Address)
		a.current.Word = w

		return done
	case storage.OpWriteWord:
		return a.target.WriteWord(a.name, req.Word, req.Address)
	case storage.OpReadLine:
		done, l := a.target.ReadLine(a.name, req.Address)
		a.current.Line = l

		return done
	case storage.OpWriteLine:
		return a.target.WriteLine(a.name, req.Line, req.Address)
	default:
		log.Panicf("unknown request kind %d", req.Kind)
	}

	return false
}

func (a *Agent) finish() {
	rec := *a.current
	a.current = nil

	a.remember(rec.Request)
	a.records = append(a.records, rec)

	if dumpLog {
		log.Printf("%d, %s, %s complete after %d cycles\n",
			rec.EndCycle, a.name, rec.Request, rec.Latency())
	}

	if rec.Mismatch() {
		log.Printf("%s read 0x%x, expected %d, got %d\n",
			a.name, rec.Request.Address, rec.Expected, rec.Word)
	}
}

func (a *Agent) remember(req Request) {
	switch req.Kind {
	case storage.OpWriteWord:
		a.knownMemValue[a.wrap(req.Address)] = req.Word
	case storage.OpWriteLine:
		base := a.wrap(req.Address)
		base -= base % int64(a.space.LineSize())

		for i, w := range req.Line {
			a.knownMemValue[base+int64(i)] = w
		}
	}
}

func (a *Agent) wrap(addr int64) int64 {
	return int64(a.space.Wrap(addr))
}

// randomRequest draws the next random request. Reads only target addresses
// below the max address the agent has written before. It returns false, and
// drops the remaining reads, once no request can be drawn.
func (a *Agent) randomRequest() (Request, bool) {
	if a.readLeft > 0 {
		candidates := a.readCandidates()
		if len(candidates) > 0 && (a.writeLeft == 0 || a.rand.Float64() > 0.5) {
			a.readLeft--
			return ReadWord(candidates[a.rand.Intn(len(candidates))]), true
		}
	}

	if a.writeLeft > 0 {
		a.writeLeft--
		return WriteWord(a.rand.Int63n(a.maxAddress), storage.Word(a.rand.Int31())), true
	}

	a.readLeft = 0

	return Request{}, false
}

func (a *Agent) readCandidates() []int64 {
	candidates := make([]int64, 0, len(a.knownMemValue))

	for addr := range a.knownMemValue {
		if addr < a.maxAddress {
			candidates = append(candidates, addr)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i] < candidates[j]
	})

	return candidates
}
