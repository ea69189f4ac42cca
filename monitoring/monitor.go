// Package monitoring turns a running solver into a small web server so the
// sweep progress, the policy, and the value function can be inspected from
// a browser while the engine runs.
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
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/fleetlab/relo/mdp"
	"github.com/fleetlab/relo/solve"
)

// Status is a snapshot of solver progress, fed by the engine's hooks.
type Status struct {
	Iteration int     `json:"iteration"`
	Sweep     int     `json:"sweep"`
	Delta     float64 `json:"delta"`
	Changed   int     `json:"changed"`
	Stable    bool    `json:"stable"`
}

// A Monitor serves the state of a solver engine over HTTP.
type Monitor struct {
	engine     solve.Engine
	portNumber int

	statusLock sync.Mutex
	status     Status
	url        string
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine to monitor and hooks into its sweep
// and improvement positions.
func (m *Monitor) RegisterEngine(e solve.Engine) {
	m.engine = e
	e.AcceptHook(progressHook{monitor: m})
}

type progressHook struct {
	monitor *Monitor
}

func (h progressHook) Func(ctx solve.HookCtx) {
	h.monitor.statusLock.Lock()
	defer h.monitor.statusLock.Unlock()

	s := &h.monitor.status
	s.Iteration = ctx.Iteration
	s.Sweep = ctx.Sweep

	switch ctx.Pos {
	case solve.HookPosSweepEnd:
		s.Delta = ctx.Delta
	case solve.HookPosImproveEnd:
		s.Changed = ctx.Changed
		s.Stable = ctx.Changed == 0
	}
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", m.reportStatus)
	r.HandleFunc("/api/policy", m.reportPolicy)
	r.HandleFunc("/api/values", m.reportValues)
	r.HandleFunc("/api/engine", m.reportEngine)
	r.HandleFunc("/api/resource", m.reportResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring solver with %s\n", m.url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

// OpenBrowser opens the monitor page in the default browser.
func (m *Monitor) OpenBrowser() {
	err := browser.OpenURL(m.url + "/api/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
	}
}

func (m *Monitor) reportStatus(w http.ResponseWriter, _ *http.Request) {
	m.statusLock.Lock()
	status := m.status
	m.statusLock.Unlock()

	writeJSON(w, status)
}

func (m *Monitor) reportPolicy(w http.ResponseWriter, _ *http.Request) {
	p := m.engine.Policy()

	grid := make([][]int, p.Bound()+1)
	for i := range grid {
		grid[i] = make([]int, p.Bound()+1)
	}

	p.ForEach(func(count [2]int, move int) {
		grid[count[0]][count[1]] = move
	})

	writeJSON(w, grid)
}

func (m *Monitor) reportValues(w http.ResponseWriter, _ *http.Request) {
	g := m.engine.Graph()

	grid := make([][]float64, g.Bound+1)
	for i := range grid {
		grid[i] = make([]float64, g.Bound+1)
	}

	g.States.ForEach(func(i, j int, s *mdp.State) {
		grid[i][j] = s.Value
	})

	writeJSON(w, grid)
}

func (m *Monitor) reportEngine(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.engine)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) reportResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
