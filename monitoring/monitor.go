// Package monitoring turns a simulation into a small web server that allows
// external inspection and control of the run.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/tempuslab/tempus/monitoring/web"
	"github.com/tempuslab/tempus/sim"
	"github.com/tempuslab/tempus/stats"
)

// Monitor serves the state of one simulator over HTTP.
type Monitor struct {
	simulator   *sim.Simulator
	stats       *stats.Stats
	portNumber  int
	openBrowser bool

	modelsLock sync.Mutex
	models     map[string]any

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		models: make(map[string]any),
	}
}

// WithPortNumber sets the port the server listens on. Ports below 1000 are
// refused and a random port is picked instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the served URL in the default browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterSimulator registers the simulator to inspect and control.
func (m *Monitor) RegisterSimulator(s *sim.Simulator) {
	m.simulator = s
}

// RegisterStats registers the collection behind /api/stats.
func (m *Monitor) RegisterStats(st *stats.Stats) {
	m.stats = st
}

// RegisterModel registers a named model object so its live state can be
// inspected through /api/model/{name}.
func (m *Monitor) RegisterModel(name string, obj any) {
	m.modelsLock.Lock()
	defer m.modelsLock.Unlock()

	m.models[name] = obj
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
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

// StartServer starts the monitor as a web server, on a custom port if one
// was configured. It returns the port actually bound. Call it at most once
// per process.
func (m *Monitor) StartServer() int {
	r := m.router()
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			logrus.WithError(err).Warn("could not open browser")
		}
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return port
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseSimulator)
	r.HandleFunc("/api/continue", m.continueSimulator)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/stats", m.statsSummary)
	r.HandleFunc("/api/stats/series/{key}", m.statsSeries)
	r.HandleFunc("/api/models", m.listModels)
	r.HandleFunc("/api/model/{name}", m.modelDetails)
	r.HandleFunc("/api/progressbars", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

func (m *Monitor) pauseSimulator(w http.ResponseWriter, _ *http.Request) {
	m.simulator.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulator(w http.ResponseWriter, _ *http.Request) {
	m.simulator.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.simulator.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		_, err := m.simulator.Run()
		if err != nil {
			panic(err)
		}
	}()
}

type progressRsp struct {
	State      string  `json:"state"`
	StopReason string  `json:"stop_reason"`
	Now        float64 `json:"now"`
	Popped     uint64  `json:"popped"`
	Dropped    uint64  `json:"dropped"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	p := m.simulator.Progress()

	rsp := progressRsp{
		State:      p.State.String(),
		StopReason: m.simulator.StopReason().String(),
		Now:        p.Time,
		Popped:     p.Popped,
		Dropped:    p.Dropped,
	}

	b, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func (m *Monitor) statsSummary(w http.ResponseWriter, _ *http.Request) {
	if m.stats == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No stats registered"))
		dieOnErr(err)

		return
	}

	b, err := json.Marshal(m.stats.Summary())
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func (m *Monitor) statsSeries(w http.ResponseWriter, r *http.Request) {
	if m.stats == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No stats registered"))
		dieOnErr(err)

		return
	}

	key := mux.Vars(r)["key"]

	pts := m.stats.TimeSeries(key)
	if pts == nil {
		pts = []stats.TimePoint{}
	}

	b, err := json.Marshal(pts)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func (m *Monitor) listModels(w http.ResponseWriter, _ *http.Request) {
	m.modelsLock.Lock()
	names := make([]string, 0, len(m.models))
	for name := range m.models {
		names = append(names, name)
	}
	m.modelsLock.Unlock()

	sort.Strings(names)

	fmt.Fprint(w, "[")
	for i, name := range names {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", name)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) modelDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.modelsLock.Lock()
	obj, ok := m.models[name]
	m.modelsLock.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Model not found"))
		dieOnErr(err)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(obj)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := m.progressBars
	m.progressBarsLock.Unlock()

	if bars == nil {
		bars = []*ProgressBar{}
	}

	b, err := json.Marshal(bars)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	b, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	b, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(b)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		logrus.Panic(err)
	}
}
