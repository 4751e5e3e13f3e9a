package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// HotReloader watches the running binary for changes and triggers a callback
// when a newer version is detected, so a development session can restart
// itself after a recompile.
type HotReloader struct {
	execPath      string
	startupTime   time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onNewBinary   func()
}

// NewHotReloader creates a hot reloader watching the current executable.
// Returns nil if the executable path cannot be determined.
func NewHotReloader(checkInterval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build replaces the file behind the symlink
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}
	return &HotReloader{
		execPath:      execPath,
		startupTime:   info.ModTime(),
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
}

// OnNewBinary sets the callback invoked when a newer binary is detected.
// The callback runs on a background goroutine.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// Start begins watching for binary changes.
func (h *HotReloader) Start() {
	h.stopCh = make(chan struct{})
	go h.watchLoop()
}

// Stop stops the watcher goroutine.
func (h *HotReloader) Stop() {
	close(h.stopCh)
}

func (h *HotReloader) watchLoop() {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			if h.checkForUpdate() && h.onNewBinary != nil {
				h.onNewBinary()
				return
			}
		}
	}
}

func (h *HotReloader) checkForUpdate() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(h.startupTime)
}

// ExecPath returns the path to the watched executable.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// StartupTime returns when the binary was last modified at program start.
func (h *HotReloader) StartupTime() time.Time {
	return h.startupTime
}

// Restart replaces the current process with a new instance of the binary,
// preserving arguments and environment. Does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
