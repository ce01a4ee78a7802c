// Package session implements the per-session driver: it owns one child
// process and one virtual screen, runs a change-gated evaluation tick
// over a parser registry, and exposes the exec/send/write/confirm/
// wait_for_state primitives a session manager composes.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coreway/termwatch/internal/events"
	"github.com/coreway/termwatch/internal/logging"
	"github.com/coreway/termwatch/internal/metrics"
	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/parser"
	"github.com/coreway/termwatch/internal/permission"
	"github.com/coreway/termwatch/internal/ptyspawn"
	"github.com/coreway/termwatch/internal/resilience"
	"github.com/coreway/termwatch/internal/screen"
	"go.uber.org/zap"
)

// Options configures a driver at construction time.
type Options struct {
	ID              string
	Command         string
	Args            []string
	WorkingDir      string
	Env             map[string]string
	Cols            int
	Rows            int
	LastLinesWindow int
	TickInterval    time.Duration
	LogPath         string
	CompressLog     bool
	UseRawScreen    bool

	Registry   *parser.Registry
	Permission permission.Checker
	Log        *logging.Logger
	Metrics    *metrics.Metrics
}

type waiter struct {
	target model.SessionState
	done   chan error
}

// Driver owns one session's child process, virtual screen, and
// evaluation loop. Screen mutations, state transitions, and event
// emission are all driven by the single tick goroutine; external
// callers only enqueue intent (write bytes, request a wait) and read
// snapshots.
type Driver struct {
	id  string
	log *logging.Logger

	screen    screen.Screen
	spawner   ptyspawn.Spawner
	ptyOpts   ptyspawn.Options
	breaker   *resilience.Breaker
	logFile   *screen.LogWriter
	perm      permission.Checker
	metrics   *metrics.Metrics
	lastLines int

	mu              sync.Mutex
	registry        *parser.Registry
	state           model.SessionState
	previousState   model.SessionState
	pendingConfirm  *model.ConfirmInfo
	messages        []model.Message
	waiters         []*waiter
	lastActivity    time.Time
	started         bool
	exited          bool
	exitErr         error
	sessionMetrics  model.SessionMetrics
	lastToolName    string
	lastToolAt      time.Time
	backgroundTasks []string

	bus *events.Bus[Event]

	tickInterval time.Duration
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// New constructs an unstarted driver. Call Start to spawn the child
// process and begin the evaluation loop.
func New(opts Options) *Driver {
	if opts.LastLinesWindow <= 0 {
		opts.LastLinesWindow = 10
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}

	var scr screen.Screen
	if opts.UseRawScreen {
		scr = screen.NewRaw(50000)
	} else {
		scr = screen.NewVT10X(opts.Cols, opts.Rows)
	}

	reg := opts.Registry
	if reg == nil {
		reg = parser.New(opts.Log)
	}

	breaker := resilience.New(fmt.Sprintf("pty-spawn-%s", opts.ID), resilience.Settings{
		ReadyToTrip: func(counts resilience.Counts) bool { return counts.ConsecutiveFailures >= 3 },
		Timeout:     30 * time.Second,
	})

	d := &Driver{
		id:           opts.ID,
		log:          logging.OrNop(opts.Log),
		screen:       scr,
		spawner:      ptyspawn.NewPTYSpawner(),
		breaker:      breaker,
		perm:         opts.Permission,
		metrics:      opts.Metrics,
		lastLines:    opts.LastLinesWindow,
		registry:     reg,
		state:        model.StateStarting,
		lastActivity: time.Now(),
		bus:          events.New[Event](),
		tickInterval: opts.TickInterval,
	}

	if opts.LogPath != "" {
		if lw, err := screen.NewLogWriter(opts.LogPath, opts.CompressLog); err == nil {
			d.logFile = lw
		} else {
			d.log.Warn("session: failed to open advisory log", zap.Error(err))
		}
	}

	d.ptyOpts = ptyspawn.Options{
		Command:    opts.Command,
		Args:       opts.Args,
		WorkingDir: opts.WorkingDir,
		Env:        opts.Env,
		Size:       ptyspawn.Size{Cols: opts.Cols, Rows: opts.Rows},
	}

	return d
}

// ID returns the driver's session identifier.
func (d *Driver) ID() string { return d.id }

// Subscribe returns a channel of the driver's events, buffered to buf.
func (d *Driver) Subscribe(buf int) (uint64, <-chan Event) {
	return d.bus.Subscribe(buf)
}

// Unsubscribe detaches a previously subscribed channel.
func (d *Driver) Unsubscribe(id uint64) {
	d.bus.Unsubscribe(id)
}

// touchActivity records now as the driver's last activity timestamp,
// called on every externally initiated mutation and on every state
// transition.
func (d *Driver) touchActivity() {
	d.mu.Lock()
	d.lastActivity = time.Now()
	d.mu.Unlock()
}
