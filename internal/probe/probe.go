package probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/aescanero/transrelay/internal/application/relay"
	"github.com/aescanero/transrelay/internal/config"
	"github.com/aescanero/transrelay/pkg/adapters/events/memory"
	"github.com/aescanero/transrelay/pkg/adapters/events/redis"
	"github.com/aescanero/transrelay/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/transrelay/pkg/adapters/upstream"
	"github.com/aescanero/transrelay/pkg/api/grpc"
	"github.com/aescanero/transrelay/pkg/api/http"
	"github.com/aescanero/transrelay/pkg/api/websocket"
	"github.com/aescanero/transrelay/pkg/ports"

	promclient "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrChecksFailed is returned by Run when at least one check failed
var ErrChecksFailed = errors.New("probe checks failed")

// Dependency is a module the relay needs at runtime
type Dependency struct {
	Name string
	Path string
}

// Dependencies lists the modules reported by the probe
var Dependencies = []Dependency{
	{Name: "gin", Path: "github.com/gin-gonic/gin"},
	{Name: "zap", Path: "go.uber.org/zap"},
	{Name: "env", Path: "github.com/caarlos0/env/v10"},
	{Name: "prometheus", Path: "github.com/prometheus/client_golang"},
	{Name: "go-redis", Path: "github.com/redis/go-redis/v9"},
	{Name: "websocket", Path: "github.com/gorilla/websocket"},
	{Name: "grpc", Path: "google.golang.org/grpc"},
	{Name: "uuid", Path: "github.com/google/uuid"},
	{Name: "x/text", Path: "golang.org/x/text"},
	{Name: "cobra", Path: "github.com/spf13/cobra"},
}

// Prober runs the environment checks and writes a report to Out
type Prober struct {
	Out          io.Writer
	Dependencies []Dependency

	// Hooks, replaced in tests
	BuildInfo  func() (*debug.BuildInfo, bool)
	Executable func() (string, error)
	LoadRelay  func() error
}

// New creates a Prober with the runtime defaults
func New(out io.Writer) *Prober {
	return &Prober{
		Out:          out,
		Dependencies: Dependencies,
		BuildInfo:    debug.ReadBuildInfo,
		Executable:   os.Executable,
		LoadRelay:    LoadRelay,
	}
}

// Run prints the runtime, every dependency and, unless depsOnly is set, the
// result of loading the relay. It returns ErrChecksFailed if anything failed.
func (p *Prober) Run(depsOnly bool) error {
	failed := false

	exe, err := p.Executable()
	if err != nil {
		exe = fmt.Sprintf("unknown (%v)", err)
	}
	fmt.Fprintf(p.Out, "Go: %s\n", runtime.Version())
	fmt.Fprintf(p.Out, "Executable: %s\n", exe)

	modules, err := p.modules()
	for _, dep := range p.Dependencies {
		if err != nil {
			fmt.Fprintf(p.Out, "✗ %s error: %v\n", dep.Name, err)
			failed = true
			continue
		}
		version, ok := modules[dep.Path]
		if !ok {
			fmt.Fprintf(p.Out, "✗ %s error: module %s not linked into binary\n", dep.Name, dep.Path)
			failed = true
			continue
		}
		fmt.Fprintf(p.Out, "✓ %s: OK (%s)\n", dep.Name, version)
	}

	if !depsOnly {
		fmt.Fprintln(p.Out, "\nTrying to load the relay...")
		if err := p.loadRelay(); err != nil {
			fmt.Fprintf(p.Out, "✗ relay error: %v\n", err)
			writeTrace(p.Out, err)
			failed = true
		} else {
			fmt.Fprintln(p.Out, "✓ relay loaded")
		}
	}

	if failed {
		return ErrChecksFailed
	}
	return nil
}

// modules maps module path to version for everything linked into the binary
func (p *Prober) modules() (map[string]string, error) {
	info, ok := p.BuildInfo()
	if !ok || info == nil {
		return nil, errors.New("build information unavailable")
	}

	modules := make(map[string]string, len(info.Deps))
	for _, m := range info.Deps {
		if m.Replace != nil {
			m = m.Replace
		}
		modules[m.Path] = m.Version
	}
	// The relay's own module when the probe is run from its source tree
	if info.Main.Path != "" {
		modules[info.Main.Path] = info.Main.Version
	}
	return modules, nil
}

func (p *Prober) loadRelay() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return p.LoadRelay()
}

// LoadRelay builds the relay from the environment the way the server does,
// without listening or contacting Redis
func LoadRelay() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := zap.NewNop()

	var eventBus ports.EventBus
	switch cfg.Events.Backend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		defer func() { _ = client.Close() }()
		eventBus = redis.NewStreamsEventBus(client, cfg.Redis.StreamMaxLen, logger)
	default:
		eventBus = memory.NewInMemoryEventBus()
	}
	defer func() { _ = eventBus.Close() }()

	translator, err := upstream.NewClient(&upstream.Config{
		Provider: cfg.Upstream.Provider,
		BaseURL:  cfg.Upstream.BaseURL,
		Email:    cfg.Upstream.Email,
		Timeout:  cfg.Upstream.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	registry := promclient.NewRegistry()
	metricsCollector := prometheus.NewCollector(registry)

	manager := relay.NewManager(translator, eventBus, metricsCollector, relay.NewValidator(), logger)
	httpServer := http.NewServer(&http.Config{
		Addr:     cfg.GetHTTPAddr(),
		Relay:    manager,
		Logger:   logger,
		Metrics:  metricsCollector,
		Gatherer: registry,
	})
	feed := websocket.NewHandler(eventBus, logger)
	defer feed.Close()
	httpServer.SetupWebSocket(feed)

	if cfg.GRPCEnabled() {
		_ = grpc.NewServer(&grpc.Config{Addr: cfg.GetGRPCAddr(), Logger: logger})
	}
	return nil
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// writeTrace prints the goroutine stack of a panic or the wrapped error chain
func writeTrace(w io.Writer, err error) {
	fmt.Fprintln(w, "Traceback:")

	var pe *panicError
	if errors.As(err, &pe) {
		for _, line := range strings.Split(strings.TrimRight(string(pe.stack), "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		return
	}

	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(w, "  %s%s (%T)\n", strings.Repeat("  ", depth), err.Error(), err)
		err = errors.Unwrap(err)
	}
}
