package model

import "time"

// ManagedSession is the manager's view of one driver it owns.
//
// Invariant: PendingConfirm != nil implies State == StateConfirming.
// The manager does not remove a session when its process exits: an
// exited session stays listed, with State == StateExited, until Destroy
// or the idle sweep removes it.
type ManagedSession struct {
	ID             string         `json:"id"`
	PresetName     string         `json:"preset_name"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivity   time.Time      `json:"last_activity"`
	State          SessionState   `json:"state"`
	PendingConfirm *ConfirmInfo   `json:"pending_confirm,omitempty"`
	Metrics        SessionMetrics `json:"metrics,omitempty"`
}

// SessionOptions configures a single driver instance.
type SessionOptions struct {
	Shell           string            `json:"shell,omitempty"`
	Command         string            `json:"command,omitempty"`
	Args            []string          `json:"args,omitempty"`
	WorkingDir      string            `json:"working_dir,omitempty"`
	Env             map[string]string `json:"env,omitempty"`
	Cols            int               `json:"cols,omitempty"`
	Rows            int               `json:"rows,omitempty"`
	LastLinesWindow int               `json:"last_lines_window,omitempty"`
	TickInterval    time.Duration     `json:"tick_interval,omitempty"`
	LogPath         string            `json:"log_path,omitempty"`
	CompressLog     bool              `json:"compress_log,omitempty"`
	ConfirmStrategy string            `json:"confirm_strategy,omitempty"`
}
