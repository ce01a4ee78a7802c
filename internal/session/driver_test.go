package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/parser"
	"github.com/coreway/termwatch/internal/parser/confirm"
	"github.com/coreway/termwatch/internal/parser/state"
	"github.com/coreway/termwatch/internal/ptyspawn"
)

// fakeSpawner lets tests drive a driver's screen without a real PTY.
type fakeSpawner struct {
	mu      sync.Mutex
	onData  func([]byte)
	onExit  func(error)
	written [][]byte
	closed  bool
}

func (f *fakeSpawner) Start(_ context.Context, _ ptyspawn.Options, onData func([]byte), onExit func(error)) error {
	f.onData, f.onExit = onData, onExit
	return nil
}

func (f *fakeSpawner) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, errs.New(errs.Internal, "closed")
	}
	cp := append([]byte{}, p...)
	f.written = append(f.written, cp)
	return len(p), nil
}

func (f *fakeSpawner) Resize(ptyspawn.Size) error { return nil }

func (f *fakeSpawner) Signal(os.Signal) error { return nil }

func (f *fakeSpawner) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSpawner) push(b []byte) {
	if f.onData != nil {
		f.onData(b)
	}
}

func (f *fakeSpawner) lastWrite() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.written) == 0 {
		return nil
	}
	return f.written[len(f.written)-1]
}

func newTestDriver(t *testing.T) (*Driver, *fakeSpawner) {
	t.Helper()

	reg := parser.New(nil)
	reg.RegisterState(state.NewShell())
	reg.RegisterConfirm(confirm.NewGenericYN())

	d := New(Options{
		ID:              "test-session",
		Cols:            80,
		Rows:            24,
		TickInterval:    5 * time.Millisecond,
		LastLinesWindow: 10,
		Registry:        reg,
	})

	fs := &fakeSpawner{}
	d.spawner = fs

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Kill() })

	return d, fs
}

func TestDriverLifecycle(t *testing.T) {
	t.Run("start twice is an error", func(t *testing.T) {
		d, _ := newTestDriver(t)
		err := d.Start(context.Background())
		var e *errs.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errs.LifecycleAlreadyStarted, e.Kind)
	})

	t.Run("write before start fails", func(t *testing.T) {
		d := New(Options{ID: "unstarted"})
		err := d.Write([]byte("x"))
		var e *errs.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errs.LifecycleNotStarted, e.Kind)
	})
}

func TestDriverSendKey(t *testing.T) {
	d, fs := newTestDriver(t)

	require.NoError(t, d.SendKey("up"))
	assert.Equal(t, []byte("\x1b[A"), fs.lastWrite())

	err := d.SendKey("not-a-real-key")
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.UnknownKey, e.Kind)
}

func TestDriverConfirmFlow(t *testing.T) {
	d, fs := newTestDriver(t)

	fs.push([]byte("Overwrite existing file? [Y/n] "))

	require.Eventually(t, func() bool {
		return d.PendingConfirm() != nil
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, d.Confirm(model.ConfirmResponse{Action: model.ActionConfirm}))
	assert.Equal(t, []byte("y\r"), fs.lastWrite())
	assert.Nil(t, d.PendingConfirm())
}

func TestDriverConfirmWithNothingPending(t *testing.T) {
	d, _ := newTestDriver(t)

	err := d.Confirm(model.ConfirmResponse{Action: model.ActionConfirm})
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.NoPendingConfirmation, e.Kind)
}

func TestDriverWaitForStateTimeout(t *testing.T) {
	d, _ := newTestDriver(t)

	err := d.WaitForState(model.StateToolRunning, 30*time.Millisecond)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.TimeoutWaitForState, e.Kind)
}

func TestDriverExecRequiresIdle(t *testing.T) {
	d, _ := newTestDriver(t)

	d.mu.Lock()
	d.state = model.StateThinking
	d.mu.Unlock()

	_, err := d.Exec("echo hi", time.Second)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.WrongState, e.Kind)
}
