package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memhier/datarecording"
	"github.com/sarchlab/memhier/mem/memaccessagent"
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/hierarchy"
	"github.com/sarchlab/memhier/mem/trace"
	"github.com/sarchlab/memhier/monitoring"
)

type runOptions struct {
	configPath  string
	wordBits    uint
	lineBits    uint
	memDelay    int
	parallelIDs bool
	image       string
	accesses    []string
	maxCycles   uint64
	viewLevel   string
	viewBase    int64
	viewCount   int
	traceDB     string
	logTrace    bool
	monitor     bool
	port        int
	openBrowser bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run accesses against a memory hierarchy.",
		Long: "`run --access r:4 --access w:4=7` builds a hierarchy, seeds " +
			"the terminal store, and polls every access until it completes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	f := runCmd.Flags()
	f.StringVar(&opts.configPath, "config", "",
		"dotenv file with MEMHIER_* keys describing the hierarchy")
	f.UintVar(&opts.wordBits, "word-bits", 10, "log2 of the number of words")
	f.UintVar(&opts.lineBits, "line-bits", 2, "log2 of the number of words per line")
	f.IntVar(&opts.memDelay, "mem-delay", 4, "delay of the terminal store")
	f.BoolVar(&opts.parallelIDs, "parallel-ids", false,
		"name transactions with xids instead of sequential numbers")
	f.StringVar(&opts.image, "image", "",
		"comma separated words loaded from address 0")
	f.StringArrayVar(&opts.accesses, "access", nil,
		"access to run, one of r:ADDR, w:ADDR=VALUE, rl:ADDR, wl:ADDR=V0,V1,...")
	f.Uint64Var(&opts.maxCycles, "max-cycles", 1000000,
		"stop after this many cycles, 0 for no limit")
	f.StringVar(&opts.viewLevel, "view-level", "",
		"level to print after the run, the outermost by default")
	f.Int64Var(&opts.viewBase, "view-base", 0, "first word address to print")
	f.IntVar(&opts.viewCount, "view-count", 0, "number of lines to print")
	f.StringVar(&opts.traceDB, "trace-db", "",
		"record transactions into this SQLite file, without the extension")
	f.BoolVar(&opts.logTrace, "log-trace", false,
		"print every transaction event to stderr")
	f.BoolVar(&opts.monitor, "monitor", false,
		"serve the monitoring API and wait for an interrupt")
	f.IntVar(&opts.port, "monitor-port", 0, "port of the monitoring API")
	f.BoolVar(&opts.openBrowser, "open-browser", false,
		"open the monitoring API in a browser")

	return runCmd
}

func (o *runOptions) config(cmd *cobra.Command) (hierarchy.Config, error) {
	c := hierarchy.DefaultConfig()

	if o.configPath != "" {
		var err error

		c, err = hierarchy.LoadConfig(o.configPath)
		if err != nil {
			return c, err
		}
	}

	if cmd.Flags().Changed("word-bits") {
		c.WordBits = o.wordBits
	}

	if cmd.Flags().Changed("line-bits") {
		c.LineBits = o.lineBits
	}

	if cmd.Flags().Changed("mem-delay") {
		c.MemDelay = o.memDelay
	}

	if cmd.Flags().Changed("parallel-ids") {
		c.ParallelIDs = o.parallelIDs
	}

	return c, c.Validate()
}

func (o *runOptions) run(cmd *cobra.Command) error {
	config, err := o.config(cmd)
	if err != nil {
		return err
	}

	reqs := make([]memaccessagent.Request, 0, len(o.accesses))
	for _, a := range o.accesses {
		req, err := memaccessagent.ParseRequest(a)
		if err != nil {
			return err
		}

		reqs = append(reqs, req)
	}

	image, err := memaccessagent.ParseWords(o.image)
	if err != nil {
		return fmt.Errorf("parsing image: %w", err)
	}

	h, err := hierarchy.Build(config)
	if err != nil {
		return err
	}
	defer h.Close()

	h.Load(image)

	agent := memaccessagent.MakeBuilder().
		WithTarget(h.Outer()).
		WithAddressSpace(h.Space()).
		WithRequests(reqs...).
		Build("cpu")
	driver := memaccessagent.NewDriver(agent)

	latencies := make(map[string]*trace.LatencyTracer)
	steps := make(map[string]*trace.StepCountTracer)

	for _, l := range h.Levels() {
		latencies[l.Name()] = trace.NewLatencyTracer(driver, trace.LevelFilter(l.Name()))
		steps[l.Name()] = trace.NewStepCountTracer(trace.LevelFilter(l.Name()))

		h.AcceptHook(latencies[l.Name()])
		h.AcceptHook(steps[l.Name()])
	}

	if o.logTrace {
		h.AcceptHook(trace.NewTracer(log.New(cmd.ErrOrStderr(), "", 0), driver))
	}

	if o.traceDB != "" {
		recorder := datarecording.New(o.traceDB)
		defer recorder.Close()

		h.AcceptHook(trace.NewDBTracer(recorder, driver))
	}

	if o.monitor {
		o.serve(h, driver)
	} else {
		driver.Run(o.maxCycles)
	}

	out := cmd.OutOrStdout()
	printRecords(out, agent)
	printStats(out, h, latencies)
	printSteps(out, h, steps)

	if !driver.Done() {
		fmt.Fprintf(out, "stopped after %d cycles with accesses pending\n",
			driver.CurrentCycle())
	}

	return o.printView(out, h)
}

func (o *runOptions) serve(
	h *hierarchy.Hierarchy,
	driver *memaccessagent.Driver,
) {
	m := monitoring.NewMonitor().WithPortNumber(o.port)
	m.RegisterHierarchy(h)
	m.RegisterDriver(driver)

	url := m.StartServer()

	if o.openBrowser {
		if err := m.OpenBrowser(url); err != nil {
			log.Printf("%v", err)
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	signal.Stop(interrupt)

	m.Lock()
}

func printRecords(out io.Writer, agent *memaccessagent.Agent) {
	for _, r := range agent.Records() {
		switch r.Request.Kind {
		case storage.OpReadWord:
			fmt.Fprintf(out, "%s -> %d", r.Request, r.Word)
		case storage.OpReadLine:
			fmt.Fprintf(out, "%s -> %v", r.Request, r.Line)
		default:
			fmt.Fprintf(out, "%s", r.Request)
		}

		fmt.Fprintf(out, " (%d cycles, done at cycle %d)\n",
			r.Latency(), r.EndCycle)
	}
}

func printStats(
	out io.Writer,
	h *hierarchy.Hierarchy,
	latencies map[string]*trace.LatencyTracer,
) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w,
		"level\treads\twrites\thits\tmisses\twrite-backs\tfills\tavg-cycles")

	for _, s := range h.Stats() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\n",
			s.Name, s.Reads, s.Writes, s.Hits, s.Misses, s.WriteBacks, s.Fills,
			latencies[s.Name].AverageCycles())
	}

	w.Flush()
}

func printSteps(
	out io.Writer,
	h *hierarchy.Hierarchy,
	steps map[string]*trace.StepCountTracer,
) {
	for _, l := range h.Levels() {
		t := steps[l.Name()]

		names := t.StepNames()
		if len(names) == 0 {
			continue
		}

		counts := make([]string, 0, len(names))
		for _, name := range names {
			counts = append(counts, fmt.Sprintf("%s %d", name, t.StepCount(name)))
		}

		fmt.Fprintf(out, "%s steps: %s\n", l.Name(), strings.Join(counts, ", "))
	}
}

func (o *runOptions) printView(out io.Writer, h *hierarchy.Hierarchy) error {
	if o.viewCount <= 0 {
		return nil
	}

	level := h.Outer()
	if o.viewLevel != "" {
		var found bool

		level, found = h.Level(o.viewLevel)
		if !found {
			return fmt.Errorf("level %q does not exist", o.viewLevel)
		}
	}

	fmt.Fprintf(out, "%s:\n", level.Name())

	for i, line := range level.View(o.viewBase, o.viewCount) {
		fmt.Fprintf(out, "  %d: %v\n", i, line)
	}

	return nil
}
