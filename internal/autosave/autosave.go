// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package autosave periodically persists in-progress document content so a
// crash loses at most one interval of writing. Saves are skipped while the
// content is unchanged and suppressed while another save is in flight; a
// failed save is retried opportunistically on the next tick.
//
// See docs/ARCHITECTURE.md § Auto-Save.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/meshintel/scribe/pkg/types"
)

// DefaultInterval is the tick interval when the configuration leaves it zero.
const DefaultInterval = 3 * time.Second

// Saver persists a session's content. Implementations must be safe for use
// from the controller's timer goroutine.
type Saver interface {
	Save(ctx context.Context, sessionID, content string) error
}

// Controller schedules debounced saves of a content supplier. Construct
// with New; the zero value is not usable. All methods are safe for
// concurrent use.
type Controller struct {
	saver    Saver
	interval time.Duration
	onError  func(error)

	mu          sync.Mutex
	running     bool
	saving      bool
	sessionID   string
	supplier    func() string
	lastSaved   string
	lastSavedAt time.Time
	cancel      context.CancelFunc
	done        chan struct{}
}

// New returns a stopped Controller. onError receives save failures; a nil
// handler discards them.
func New(saver Saver, cfg types.AutoSaveConfig, onError func(error)) *Controller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Controller{saver: saver, interval: interval, onError: onError}
}

// Start begins the save timer for a session. supplier is read at save
// time, never captured early, so the latest content always wins. Starting
// while running stops the previous session's timer first.
func (c *Controller) Start(sessionID string, supplier func() string) {
	c.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.running = true
	c.sessionID = sessionID
	c.supplier = supplier
	c.lastSaved = ""
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go c.loop(ctx, done)
}

// Stop cancels the timer. Safe to call repeatedly and while stopped. Any
// in-flight save is abandoned through context cancellation.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the timer is active.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// IsSaving reports whether a save is currently in flight.
func (c *Controller) IsSaving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// HasUnsavedChanges reports whether the current content differs from the
// last successfully saved content. It stays true after a failed save.
func (c *Controller) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.supplier == nil {
		return false
	}
	return c.supplier() != c.lastSaved
}

// LastSavedAt returns the time of the last successful save, zero if none.
func (c *Controller) LastSavedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSavedAt
}

// SaveNow performs an immediate save, bypassing the timer but honoring the
// non-overlap guarantee: if a save is already in flight SaveNow does
// nothing and reports false.
func (c *Controller) SaveNow(ctx context.Context) (bool, error) {
	return c.save(ctx, true)
}

// loop ticks until the context is cancelled.
func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.save(ctx, false); err != nil {
				c.onError(err)
			}
		}
	}
}

// save runs one save attempt. force saves even when the content matches
// the last saved value. It reports whether a save call was issued.
func (c *Controller) save(ctx context.Context, force bool) (bool, error) {
	c.mu.Lock()
	if c.saving || c.supplier == nil {
		c.mu.Unlock()
		return false, nil
	}
	sessionID := c.sessionID
	content := c.supplier()
	if !force && content == c.lastSaved {
		c.mu.Unlock()
		return false, nil
	}
	c.saving = true
	c.mu.Unlock()

	err := c.saver.Save(ctx, sessionID, content)

	c.mu.Lock()
	c.saving = false
	if err == nil {
		c.lastSaved = content
		c.lastSavedAt = time.Now()
	}
	c.mu.Unlock()

	return true, err
}
