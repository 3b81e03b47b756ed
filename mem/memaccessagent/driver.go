package memaccessagent

// A Driver advances the cycle count and ticks every agent once per cycle, in
// the order the agents were added. Earlier agents win contended levels.
type Driver struct {
	cycle  uint64
	agents []*Agent
}

// NewDriver creates a driver for the given agents.
func NewDriver(agents ...*Agent) *Driver {
	return &Driver{agents: agents}
}

// AddAgent registers an agent.
func (d *Driver) AddAgent(a *Agent) {
	d.agents = append(d.agents, a)
}

// Agents returns the registered agents.
func (d *Driver) Agents() []*Agent {
	return d.agents
}

// CurrentCycle returns the number of cycles that have passed.
func (d *Driver) CurrentCycle() uint64 {
	return d.cycle
}

// Tick runs one cycle. It returns false if no agent had anything to do, in
// which case the cycle count does not advance.
func (d *Driver) Tick() bool {
	madeProgress := false

	for _, a := range d.agents {
		madeProgress = a.Tick(d.cycle) || madeProgress
	}

	if madeProgress {
		d.cycle++
	}

	return madeProgress
}

// Progress sums the requests of every agent by state.
func (d *Driver) Progress() (finished, inFlight, remaining int) {
	for _, a := range d.agents {
		finished += len(a.records)
		remaining += a.Remaining()

		if a.InFlight() {
			inFlight++
		}
	}

	return finished, inFlight, remaining
}

// Done tells if every agent is done.
func (d *Driver) Done() bool {
	for _, a := range d.agents {
		if !a.Done() {
			return false
		}
	}

	return true
}

// Run ticks until every agent is done or maxCycles cycles have passed in this
// call. A maxCycles of 0 means no limit. It returns the number of cycles run.
func (d *Driver) Run(maxCycles uint64) uint64 {
	var n uint64

	for !d.Done() {
		if maxCycles > 0 && n >= maxCycles {
			break
		}

		if !d.Tick() {
			break
		}

		n++
	}

	return n
}
