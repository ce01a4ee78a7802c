// Package ptyspawn spawns a child process attached to a pseudo-terminal
// and streams its output, adapted from the terminal session pattern:
// one PTY file descriptor per process, a background reader goroutine,
// and a process-exit monitor that closes the PTY once.
package ptyspawn

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Size is a terminal's column/row dimensions.
type Size struct {
	Cols int
	Rows int
}

// Options configures a spawned process.
type Options struct {
	Command    string
	Args       []string
	WorkingDir string
	Env        map[string]string
	Size       Size
}

// Spawner starts a child process behind a PTY and exposes the byte
// stream plus write/resize/signal operations. Exactly one Spawner
// backs one session driver.
type Spawner interface {
	// Start launches the child process. Output is pushed to onData
	// from a dedicated goroutine until the process exits or Close is
	// called; onExit fires exactly once, with the wait error if any.
	Start(ctx context.Context, opts Options, onData func([]byte), onExit func(error)) error
	Write(p []byte) (int, error)
	Resize(size Size) error
	Signal(sig os.Signal) error
	Close() error
}

// PTYSpawner implements Spawner over github.com/creack/pty.
type PTYSpawner struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	ptmx   *os.File
	closed bool
}

// NewPTYSpawner constructs an unstarted spawner.
func NewPTYSpawner() *PTYSpawner {
	return &PTYSpawner{}
}

func (s *PTYSpawner) Start(ctx context.Context, opts Options, onData func([]byte), onExit func(error)) error {
	command := opts.Command
	if command == "" {
		command = os.Getenv("SHELL")
		if command == "" {
			command = "/bin/bash"
		}
	}

	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir = os.Getenv("HOME")
		if workingDir == "" {
			workingDir = "/tmp"
		}
	}

	cols, rows := opts.Size.Cols, opts.Size.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	cmd := exec.CommandContext(ctx, command, opts.Args...)
	cmd.Dir = workingDir
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fmt.Errorf("ptyspawn: start: %w", err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.ptmx = ptmx
	s.closed = false
	s.mu.Unlock()

	go s.readLoop(ptmx, onData)
	go s.waitLoop(cmd, ptmx, onExit)

	return nil
}

func (s *PTYSpawner) readLoop(ptmx *os.File, onData func([]byte)) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 && onData != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			onData(chunk)
		}
		if err != nil {
			if err != io.EOF {
				// child pty closed from the other side; nothing actionable here.
			}
			return
		}
	}
}

func (s *PTYSpawner) waitLoop(cmd *exec.Cmd, ptmx *os.File, onExit func(error)) {
	err := cmd.Wait()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	ptmx.Close()

	if onExit != nil {
		onExit(err)
	}
}

func (s *PTYSpawner) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ptmx == nil {
		return 0, fmt.Errorf("ptyspawn: write on closed spawner")
	}
	return s.ptmx.Write(p)
}

func (s *PTYSpawner) Resize(size Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ptmx == nil {
		return fmt.Errorf("ptyspawn: resize on closed spawner")
	}
	return pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(size.Rows), Cols: uint16(size.Cols)})
}

func (s *PTYSpawner) Signal(sig os.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return fmt.Errorf("ptyspawn: signal on unstarted spawner")
	}
	return s.cmd.Process.Signal(sig)
}

func (s *PTYSpawner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	if s.ptmx != nil {
		return s.ptmx.Close()
	}
	return nil
}
