package collector

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const snapshotKey = "snapshot"

// SnapshotCache holds the last captured listing. At most one capture runs at
// a time; concurrent Get calls wait for the same result.
type SnapshotCache struct {
	capturer Capturer
	logger   *slog.Logger
	group    singleflight.Group

	raw        string
	capturedAt time.Time
	// generation changes on every Invalidate so a capture started before it
	// is never stored after it.
	generation uint64

	mutex sync.RWMutex
}

func NewSnapshotCache(capturer Capturer, logger *slog.Logger) *SnapshotCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SnapshotCache{capturer: capturer, logger: logger}
}

// capturedSnapshot is a capture result tagged with the generation it was
// started in.
type capturedSnapshot struct {
	raw        string
	generation uint64
}

// Get returns the cached listing, capturing one if the cache is empty.
// Cancelling ctx abandons this caller's wait; the shared capture keeps going
// for the other waiters. A caller that arrives after Invalidate never uses a
// capture started before it: it waits for that capture to finish and then
// starts a new one, so at most one capture runs at a time.
func (c *SnapshotCache) Get(ctx context.Context) (string, error) {
	captureCtx := context.WithoutCancel(ctx)
	for {
		c.mutex.RLock()
		raw, gen := c.raw, c.generation
		c.mutex.RUnlock()
		if raw != "" {
			return raw, nil
		}

		ch := c.group.DoChan(snapshotKey, func() (any, error) {
			return c.capture(captureCtx, gen)
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return "", res.Err
			}
			snap := res.Val.(capturedSnapshot)
			if snap.generation < gen {
				c.logger.Debug("discarding capture started before invalidate")
				continue
			}
			return snap.raw, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (c *SnapshotCache) capture(ctx context.Context, gen uint64) (capturedSnapshot, error) {
	c.mutex.RLock()
	if c.raw != "" && c.generation == gen {
		raw := c.raw
		c.mutex.RUnlock()
		return capturedSnapshot{raw: raw, generation: gen}, nil
	}
	c.mutex.RUnlock()

	start := time.Now()
	raw, err := c.capturer.Capture(ctx)
	if err != nil {
		var capErr *CaptureError
		if !errors.As(err, &capErr) {
			err = &CaptureError{Source: "snapshot", ExitCode: -1, Err: err}
		}
		c.logger.Warn("snapshot capture failed", "error", err)
		return capturedSnapshot{}, err
	}

	c.mutex.Lock()
	stored := c.generation == gen
	if stored {
		c.raw = raw
		c.capturedAt = time.Now()
	}
	c.mutex.Unlock()

	c.logger.Debug("snapshot captured", "bytes", len(raw), "elapsed", time.Since(start), "stored", stored)
	return capturedSnapshot{raw: raw, generation: gen}, nil
}

// Invalidate clears the cache. A capture already in flight still answers
// the waiters that joined it before the call but is not stored; later Get
// calls wait for it to finish and then capture again.
func (c *SnapshotCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.raw = ""
	c.capturedAt = time.Time{}
	c.generation++
}

// CapturedAt returns when the cached listing was taken, or the zero time if
// the cache is empty.
func (c *SnapshotCache) CapturedAt() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.capturedAt
}

// Valid reports whether a listing is cached.
func (c *SnapshotCache) Valid() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.raw != ""
}
