// Package manager multiplexes many session.Driver instances behind a
// single session-id-keyed surface, enforcing a session quota and an
// idle-eviction sweep on top of the per-session operations a transport
// layer composes into an RPC surface.
package manager

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/logging"
	"github.com/coreway/termwatch/internal/metrics"
	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/notify"
	"github.com/coreway/termwatch/internal/parser"
	"github.com/coreway/termwatch/internal/parser/confirm"
	"github.com/coreway/termwatch/internal/permission"
	"github.com/coreway/termwatch/internal/preset"
	"github.com/coreway/termwatch/internal/session"
)

// Options configures a Manager.
type Options struct {
	MaxSessions  int
	IdleTimeout  time.Duration
	SweepEvery   time.Duration
	Library      *preset.Library
	Factory      *preset.Factory
	Permission   permission.Checker
	Log          *logging.Logger
	UseRawScreen bool
	Metrics      *metrics.Metrics
	Webhook      *notify.Webhook
}

// Manager owns a map of running session.Driver instances keyed by
// session id. Create/Destroy/the eviction sweep are the only writers
// of that map; every other operation looks a driver up and delegates.
type Manager struct {
	log *logging.Logger

	maxSessions int
	idleTimeout time.Duration

	library    *preset.Library
	factory    *preset.Factory
	permission permission.Checker
	useRaw     bool
	metrics    *metrics.Metrics
	webhook    *notify.Webhook

	mu       sync.RWMutex
	sessions map[string]*entry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type entry struct {
	driver     *session.Driver
	presetName string
	createdAt  time.Time
}

// New constructs a Manager and starts its idle-eviction sweep.
func New(opts Options) *Manager {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 10
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = 60 * time.Second
	}
	if opts.Library == nil {
		opts.Library = preset.NewLibrary()
	}
	if opts.Factory == nil {
		opts.Factory = preset.NewFactory("")
	}
	if opts.Permission == nil {
		opts.Permission = permission.AlwaysAsk{}
	}

	m := &Manager{
		log:         logging.OrNop(opts.Log),
		maxSessions: opts.MaxSessions,
		idleTimeout: opts.IdleTimeout,
		library:     opts.Library,
		factory:     opts.Factory,
		permission:  opts.Permission,
		useRaw:      opts.UseRawScreen,
		metrics:     opts.Metrics,
		webhook:     opts.Webhook,
		sessions:    make(map[string]*entry),
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go m.sweepLoop(ctx, opts.SweepEvery)

	return m
}

// Shutdown stops the eviction sweep and force-destroys every session.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()

	for _, id := range m.List() {
		if err := m.Destroy(id, true); err != nil {
			m.log.Warn("manager: shutdown destroy failed", zap.String("session", id), zap.Error(err))
		}
	}
}

func (m *Manager) sweepLoop(ctx context.Context, every time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep force-destroys every session whose last activity predates
// idleTimeout. Eviction never races create: the snapshot of ids to
// check is taken under the read lock, and each destroy re-validates
// the entry still exists.
func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.idleTimeout)

	m.mu.RLock()
	var stale []string
	for id, e := range m.sessions {
		if e.driver.LastActivity().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if err := m.Destroy(id, true); err != nil {
			m.log.Warn("manager: idle eviction failed", zap.String("session", id), zap.Error(err))
			continue
		}
		if m.metrics != nil {
			m.metrics.IncSessionsEvicted()
		}
	}
}

// Create spawns a new session from a resolved preset and returns its
// id. Create fails with errs.QuotaMaxSessions once MaxSessions drivers
// are live, and with errs.UnknownPreset if presetName is unresolvable.
func (m *Manager) Create(ctx context.Context, presetName string, overrides model.SessionOptions) (string, error) {
	m.mu.Lock()
	if len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return "", errs.New(errs.QuotaMaxSessions, "session quota exceeded")
	}
	m.mu.Unlock()

	cfg, ok := m.library.Get(presetName)
	if !ok {
		return "", errs.New(errs.UnknownPreset, "unknown preset: "+presetName)
	}

	opts := mergeOptions(cfg, overrides)
	id := newSessionID()

	factory := m.factory
	if opts.ConfirmStrategy != "" {
		factory = preset.NewFactory(confirm.ResponseStrategy(opts.ConfirmStrategy))
	}

	reg := parser.New(m.log)
	for _, name := range cfg.StateParsers {
		if p, ok := factory.State(name); ok {
			reg.RegisterState(p)
		}
	}
	for _, name := range cfg.OutputParsers {
		if p, ok := factory.Output(name); ok {
			reg.RegisterOutput(p)
		}
	}
	for _, name := range cfg.ConfirmParsers {
		if p, ok := factory.Confirm(name); ok {
			reg.RegisterConfirm(p)
		}
	}

	d := session.New(session.Options{
		ID:              id,
		Command:         opts.Command,
		Args:            opts.Args,
		WorkingDir:      opts.WorkingDir,
		Env:             opts.Env,
		Cols:            opts.Cols,
		Rows:            opts.Rows,
		LastLinesWindow: opts.LastLinesWindow,
		TickInterval:    opts.TickInterval,
		LogPath:         opts.LogPath,
		CompressLog:     opts.CompressLog,
		UseRawScreen:    m.useRaw,
		Registry:        reg,
		Permission:      m.permission,
		Log:             m.log,
		Metrics:         m.metrics,
	})

	if err := d.Start(ctx); err != nil {
		return "", errs.WithSession(err.(*errs.Error), id)
	}

	if m.webhook != nil && m.webhook.Enabled() {
		m.watchForWebhook(id, d)
	}

	m.mu.Lock()
	m.sessions[id] = &entry{driver: d, presetName: presetName, createdAt: time.Now()}
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSessionsCreated()
		m.metrics.SetSessionsActive(count)
	}

	return id, nil
}

// watchForWebhook relays a driver's state_change and confirm_required
// events to the configured webhook for the session's lifetime. The
// subscriber channel is never explicitly unsubscribed: it drains on its
// own once the driver's bus closes at exit, per events.Bus's contract.
func (m *Manager) watchForWebhook(id string, d *session.Driver) {
	_, ch := d.Subscribe(16)
	go func() {
		for ev := range ch {
			switch ev.Kind {
			case session.EventStateChange:
				m.webhook.NotifyStateChange(id, ev.FromState, ev.ToState)
			case session.EventConfirmRequired:
				if ev.ConfirmInfo != nil {
					m.webhook.NotifyConfirmRequired(id, *ev.ConfirmInfo)
				}
			}
		}
	}()
}

func mergeOptions(cfg model.PresetConfig, overrides model.SessionOptions) model.SessionOptions {
	out := cfg.SessionOptions
	out.Command = firstNonEmpty(overrides.Command, cfg.Command, out.Command)
	if len(overrides.Args) > 0 {
		out.Args = overrides.Args
	} else if len(cfg.Args) > 0 {
		out.Args = cfg.Args
	}
	if overrides.WorkingDir != "" {
		out.WorkingDir = overrides.WorkingDir
	}
	if overrides.Env != nil {
		out.Env = overrides.Env
	}
	if overrides.Cols > 0 {
		out.Cols = overrides.Cols
	}
	if overrides.Rows > 0 {
		out.Rows = overrides.Rows
	}
	if overrides.LastLinesWindow > 0 {
		out.LastLinesWindow = overrides.LastLinesWindow
	}
	if overrides.TickInterval > 0 {
		out.TickInterval = overrides.TickInterval
	}
	if overrides.LogPath != "" {
		out.LogPath = overrides.LogPath
		out.CompressLog = overrides.CompressLog
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Destroy terminates and removes a session. force selects Kill over a
// graceful Close.
func (m *Manager) Destroy(id string, force bool) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}

	var closeErr error
	reason := "graceful"
	if force {
		reason = "force"
		closeErr = e.driver.Kill()
	} else {
		closeErr = e.driver.Close("exit")
	}

	m.mu.Lock()
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSessionsDestroyed(reason)
		m.metrics.SetSessionsActive(count)
	}

	return closeErr
}

// DestroyAll force-destroys every managed session.
func (m *Manager) DestroyAll() {
	for _, id := range m.List() {
		if err := m.Destroy(id, true); err != nil {
			m.log.Warn("manager: destroy_all failed for session", zap.String("session", id), zap.Error(err))
		}
	}
}

// List returns every currently managed session id.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, errs.New(errs.UnknownSessionID, "unknown session id: "+id)
	}
	return e, nil
}
