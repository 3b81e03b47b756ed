// Package monitoring turns a simulated memory hierarchy into a web server that
// allows inspecting the levels and stepping the simulation.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/memhier/mem/memaccessagent"
	"github.com/sarchlab/memhier/mem/storage"
	"github.com/sarchlab/memhier/mem/storage/hierarchy"
	"github.com/sarchlab/memhier/sim/id"
)

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	lock       sync.Mutex
	hierarchy  *hierarchy.Hierarchy
	driver     *memaccessagent.Driver
	portNumber int
	running    bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterHierarchy registers the hierarchy to inspect.
func (m *Monitor) RegisterHierarchy(h *hierarchy.Hierarchy) {
	m.hierarchy = h
}

// RegisterDriver registers the driver that advances the simulation.
func (m *Monitor) RegisterDriver(d *memaccessagent.Driver) {
	m.driver = d
}

// Lock stops the server from touching the simulation until Unlock is called.
func (m *Monitor) Lock() {
	m.lock.Lock()
}

// Unlock releases the lock taken by Lock.
func (m *Monitor) Unlock() {
	m.lock.Unlock()
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total int) *ProgressBar {
	bar := &ProgressBar{
		id:        id.Generate(),
		name:      name,
		startTime: time.Now(),
		total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler of every API the monitor serves.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/tick", m.tick)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/list_levels", m.listLevels)
	r.HandleFunc("/api/level/{name}", m.listLevelDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/view/{name}", m.viewLevel)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	router := m.Router()

	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	return url
}

// OpenBrowser opens the level list of a running server in the default
// browser.
func (m *Monitor) OpenBrowser(url string) error {
	err := browser.OpenURL(url + "/api/list_levels")
	if err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}

	return nil
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	fmt.Fprintf(w, "{\"now\":%d}", m.currentCycle())
}

func (m *Monitor) currentCycle() uint64 {
	if m.driver == nil {
		return 0
	}

	return m.driver.CurrentCycle()
}

func (m *Monitor) tick(w http.ResponseWriter, _ *http.Request) {
	if m.driver == nil {
		http.Error(w, "no driver registered", http.StatusMethodNotAllowed)
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	progress := m.driver.Tick()

	fmt.Fprintf(w, "{\"now\":%d,\"progress\":%t}",
		m.driver.CurrentCycle(), progress)
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	if m.driver == nil {
		http.Error(w, "no driver registered", http.StatusMethodNotAllowed)
		return
	}

	m.lock.Lock()
	if m.running {
		m.lock.Unlock()
		w.WriteHeader(http.StatusConflict)

		return
	}

	m.running = true
	m.lock.Unlock()

	go m.runToEnd()

	w.WriteHeader(http.StatusAccepted)
}

func (m *Monitor) runToEnd() {
	m.lock.Lock()
	finished, inFlight, remaining := m.driver.Progress()
	cycle := m.driver.CurrentCycle()
	m.lock.Unlock()

	bar := m.CreateProgressBar("Run", finished+inFlight+remaining)
	defer m.CompleteProgressBar(bar)

	bar.Update(finished, inFlight, remaining, cycle)

	for {
		m.lock.Lock()
		done := m.driver.Done() || !m.driver.Tick()
		if done {
			m.running = false
		}
		finished, inFlight, remaining = m.driver.Progress()
		cycle = m.driver.CurrentCycle()
		m.lock.Unlock()

		bar.Update(finished, inFlight, remaining, cycle)

		if done {
			return
		}
	}
}

func (m *Monitor) listLevels(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	for _, l := range m.levels() {
		names = append(names, l.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) levels() []storage.Storage {
	if m.hierarchy == nil {
		return nil
	}

	return m.hierarchy.Levels()
}

func (m *Monitor) listLevelDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	level := m.findLevelOr404(w, name)
	if level == nil {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(level)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	LevelName string `json:"level_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad field request: %s", err),
			http.StatusBadRequest)
		return
	}

	level := m.findLevelOr404(w, req.LevelName)
	if level == nil {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(level)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type viewRsp struct {
	Level string         `json:"level"`
	Base  int64          `json:"base"`
	Lines []storage.Line `json:"lines"`
}

func (m *Monitor) viewLevel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	base, count, err := viewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	level := m.findLevelOr404(w, name)
	if level == nil {
		return
	}

	m.lock.Lock()
	lines := level.View(base, count)
	m.lock.Unlock()

	writeJSON(w, viewRsp{Level: name, Base: base, Lines: lines})
}

func viewParams(r *http.Request) (base int64, count int, err error) {
	query := r.URL.Query()

	if s := query.Get("base"); s != "" {
		base, err = strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("bad base: %w", err)
		}
	}

	count = 1
	if s := query.Get("count"); s != "" {
		count, err = strconv.Atoi(s)
		if err != nil || count < 0 {
			return 0, 0, fmt.Errorf("bad count %q", s)
		}
	}

	return base, count, nil
}

func (m *Monitor) listStats(w http.ResponseWriter, _ *http.Request) {
	stats := []hierarchy.LevelStats{}

	if m.hierarchy != nil {
		m.lock.Lock()
		stats = m.hierarchy.Stats()
		m.lock.Unlock()
	}

	writeJSON(w, stats)
}

func (m *Monitor) findLevelOr404(
	w http.ResponseWriter,
	name string,
) storage.Storage {
	for _, l := range m.levels() {
		if l.Name() == name {
			return l
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Level not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	statuses := make([]ProgressStatus, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		statuses = append(statuses, b.Snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, statuses)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
