// Package monitoring turns a running simulation into a small web server
// for external inspection: progress, per-blade health, component state,
// and process resource usage.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling endpoints.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/phytolab/epileaf/outputs"
	"github.com/phytolab/epileaf/sim"
)

// A Monitor exposes a running epidemic simulation over HTTP.
type Monitor struct {
	stepper *sim.EpidemicStepper

	portNumber  int
	openBrowser bool

	componentsLock sync.Mutex
	components     map[string]any
	componentNames []string
}

// NewMonitor creates a Monitor.
func NewMonitor() *Monitor {
	return &Monitor{components: make(map[string]any)}
}

// WithPortNumber sets the port of the monitoring server. Ports below 1000
// are rejected and replaced by a random port.
func (m *Monitor) WithPortNumber(port int) *Monitor {
	if port < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", port)
		port = 0
	}

	m.portNumber = port

	return m
}

// WithBrowser makes StartServer open the dashboard URL in the default
// browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterStepper registers the stepper driving the simulation.
func (m *Monitor) RegisterStepper(s *sim.EpidemicStepper) {
	m.stepper = s
}

// RegisterComponent registers a named component whose state can be
// inspected through the state endpoint.
func (m *Monitor) RegisterComponent(name string, c any) {
	m.componentsLock.Lock()
	defer m.componentsLock.Unlock()

	if _, dup := m.components[name]; dup {
		panic("monitoring: component " + name + " already registered")
	}

	m.components[name] = c
	m.componentNames = append(m.componentNames, name)
}

// StartServer starts the monitor in the background.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.unpause)
	r.HandleFunc("/api/blades", m.listBlades)
	r.HandleFunc("/api/blade/{id}", m.bladeMetrics)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.componentState)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/", r)

	addr := ":0"
	if m.portNumber > 1000 {
		addr = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", addr)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		_ = browser.OpenURL(url + "/api/progress")
	}

	go func() {
		dieOnErr(http.Serve(listener, nil))
	}()
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	done, total := m.stepper.Progress()
	fmt.Fprintf(w, `{"ticks_done":%d,"ticks_total":%d}`, done, total)
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.stepper.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) unpause(w http.ResponseWriter, _ *http.Request) {
	m.stepper.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) listBlades(w http.ResponseWriter, _ *http.Request) {
	blades := m.stepper.Store().Blades()

	bytes, err := json.Marshal(blades)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) bladeMetrics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	store := m.stepper.Store()
	found := false
	for _, b := range store.Blades() {
		if b == id {
			found = true
			break
		}
	}

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	metrics := outputs.MeasureBladeMetrics(store, id)

	bytes, err := json.Marshal(metrics)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.componentsLock.Lock()
	defer m.componentsLock.Unlock()

	bytes, err := json.Marshal(m.componentNames)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) componentState(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.componentsLock.Lock()
	c, ok := m.components[name]
	m.componentsLock.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(1)
	dieOnErr(serializer.Serialize(w))
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	p, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := p.CPUPercent()
	dieOnErr(err)

	memory, err := p.MemoryInfo()
	dieOnErr(err)

	bytes, err := json.Marshal(resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
