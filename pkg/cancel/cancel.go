// Package cancel implements cooperative cancellation for the TDP
// controller: a stop-file poll plus SIGINT/SIGTERM handling and OnCancel
// callbacks, generalized from the teacher's irreversible one-shot
// emergency stop into a context.Context the controller can select on
// between states.
package cancel

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Controller watches for a cancellation request — a stop file appearing
// on disk, or SIGINT/SIGTERM — and exposes it as a context cancelled
// exactly once.
type Controller struct {
	stopFile     string
	pollInterval time.Duration
	signals      bool

	mu        sync.Mutex
	cancelled bool
	callbacks []func(reason string)

	ctx    context.Context
	cancel context.CancelFunc
}

// Config configures a Controller.
type Config struct {
	// StopFile is the path polled for cancellation. Empty disables the poll.
	StopFile string
	// PollInterval between stop-file checks. Defaults to 1s.
	PollInterval time.Duration
	// EnableSignalHandlers wires SIGINT/SIGTERM into cancellation.
	EnableSignalHandlers bool
}

// New creates a Controller. Call Start to begin watching.
func New(cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		stopFile:     cfg.StopFile,
		pollInterval: cfg.PollInterval,
		signals:      cfg.EnableSignalHandlers,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Context returns the context that is cancelled once a cancellation
// request is observed. The TDP controller checks both ctx.Err() and
// Cancelled() at the top of each loop iteration.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Start begins watching for cancellation conditions in the background.
// The caller's ctx bounds the watch's own lifetime (e.g. process
// shutdown), independent of the cancellation this Controller signals.
func (c *Controller) Start(ctx context.Context) {
	if c.stopFile != "" {
		go c.watchStopFile(ctx)
	}
	if c.signals {
		go c.watchSignals(ctx)
	}
}

func (c *Controller) watchStopFile(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := os.Stat(c.stopFile); err == nil {
				c.trigger(fmt.Sprintf("stop file detected: %s", c.stopFile))
				return
			}
		}
	}
}

func (c *Controller) watchSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return
	case sig := <-sigCh:
		c.trigger(fmt.Sprintf("signal: %v", sig))
	}
}

func (c *Controller) trigger(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled {
		return
	}
	c.cancelled = true
	c.cancel()
	for _, cb := range c.callbacks {
		cb(reason)
	}
}

// Cancel triggers cancellation directly, e.g. in response to an operator
// command rather than a detected signal or stop file.
func (c *Controller) Cancel(reason string) {
	c.trigger(reason)
}

// Cancelled reports whether cancellation has been triggered.
func (c *Controller) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// OnCancel registers a callback invoked exactly once, at the moment
// cancellation triggers.
func (c *Controller) OnCancel(cb func(reason string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}
