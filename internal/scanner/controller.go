// Package scanner drives an RFID desk scanner session: activate a device,
// poll it for tags, and deliver each newly observed tag exactly once. The
// controller owns its polling goroutine, so sessions survive whatever UI
// started them and are torn down only by Deactivate or a superseding
// Activate.
package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
	"github.com/clearance-asce/portal/internal/observability/statsd"
)

// ScanAPI is the backend surface the controller needs.
type ScanAPI interface {
	Activate(ctx context.Context, deviceID int64) error
	Retrieve(ctx context.Context) (domain.TagScan, error)
}

// State describes where a scan session is in its lifecycle.
type State string

const (
	// StateIdle means no device is bound and nothing is polling.
	StateIdle State = "idle"
	// StateActivating means the activation request is in flight.
	StateActivating State = "activating"
	// StateActive means a device is bound and the poll loop is running.
	StateActive State = "active"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultTagBuffer    = 8
)

// Options holds the dependencies for creating a Controller.
type Options struct {
	// API performs the scanner calls. Required.
	API ScanAPI

	// PollInterval is the cadence of retrieve polls. Zero means 2s.
	PollInterval time.Duration

	// TagBuffer sizes the notification channel. Zero means 8.
	TagBuffer int

	Logger  *slog.Logger
	Metrics statsd.Sink
}

// Controller is the scan-session state machine. Safe for concurrent use.
type Controller struct {
	api      ScanAPI
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink

	// tags carries each newly observed tag. Created once; sessions come
	// and go but consumers keep one receive loop.
	tags chan string

	mu       sync.Mutex
	state    State
	deviceID int64
	lastTag  string

	// generation increments on every session transition. Poll results and
	// activation completions carry the generation they started under and
	// are discarded when it no longer matches, so a stopped session can
	// never write state.
	generation uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scan controller in the idle state.
func New(opts Options) (*Controller, error) {
	if opts.API == nil {
		return nil, errors.New("scan API is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	buffer := opts.TagBuffer
	if buffer <= 0 {
		buffer = defaultTagBuffer
	}
	return &Controller{
		api:      opts.API,
		interval: interval,
		logger:   logger,
		metrics:  opts.Metrics,
		tags:     make(chan string, buffer),
		state:    StateIdle,
	}, nil
}

// Tags returns the channel on which newly observed tags are delivered. The
// channel is never closed; it goes quiet when no session is active.
func (c *Controller) Tags() <-chan string {
	return c.tags
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Device returns the bound device ID, or zero when idle.
func (c *Controller) Device() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deviceID
}

// LastTag returns the most recently observed tag for the active session, or
// empty when none has been seen or it has been consumed.
func (c *Controller) LastTag() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTag
}

// Activate binds the given device and starts polling it. Any previous
// session is fully stopped before the activation request is issued. On
// failure the controller is left idle and the error is returned.
func (c *Controller) Activate(ctx context.Context, deviceID int64) error {
	c.mu.Lock()
	prevCancel, prevDone := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.generation++
	gen := c.generation
	c.state = StateActivating
	c.deviceID = 0
	c.lastTag = ""
	c.mu.Unlock()

	stopSession(prevCancel, prevDone)

	if err := c.api.Activate(ctx, deviceID); err != nil {
		c.mu.Lock()
		if c.generation == gen {
			c.state = StateIdle
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// Deactivated or re-activated while the request was in flight.
		return apperrors.Conflict("scan session superseded during activation")
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.state = StateActive
	c.deviceID = deviceID
	c.cancel = cancel
	c.done = done

	c.logger.InfoContext(ctx, "scanner activated", "device_id", deviceID, "interval", c.interval)
	go c.pollLoop(loopCtx, gen, done)
	return nil
}

// Deactivate stops the poll loop and clears all session state. There is no
// backend teardown call; activating a different operator simply rebinds the
// device. Safe to call when already idle.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	prevCancel, prevDone := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.generation++
	c.state = StateIdle
	c.deviceID = 0
	c.lastTag = ""
	c.mu.Unlock()

	stopSession(prevCancel, prevDone)
	c.logger.Info("scanner deactivated")
}

// ConsumeScannedTag clears the last observed tag after the operator has
// acted on it, so the same card can be scanned and noticed again.
func (c *Controller) ConsumeScannedTag() {
	c.mu.Lock()
	c.lastTag = ""
	c.mu.Unlock()
}

// stopSession cancels a loop and waits for it to exit. Waiting is what makes
// "previous session fully stopped" a guarantee rather than a tendency.
func stopSession(cancel context.CancelFunc, done chan struct{}) {
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Controller) pollLoop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx, gen)
		}
	}
}

// poll performs one retrieve and applies the result if the session that
// issued it is still current.
func (c *Controller) poll(ctx context.Context, gen uint64) {
	scan, err := c.api.Retrieve(ctx)
	if err != nil {
		// Not-found means no scan has arrived yet. Anything else is a
		// degraded poll; the loop keeps going either way.
		switch {
		case errors.Is(err, context.Canceled):
		case apperrors.IsNotFound(err):
			c.emitPollMetric("empty")
		default:
			c.logger.WarnContext(ctx, "scanner poll failed", "error", err)
			c.emitPollMetric("error")
		}
		return
	}
	c.emitPollMetric("ok")

	if scan.TagID == "" {
		return
	}

	c.mu.Lock()
	if c.generation != gen || scan.TagID == c.lastTag {
		c.mu.Unlock()
		return
	}
	c.lastTag = scan.TagID
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.Count("scanner.tag_detected", 1, nil)
	}
	select {
	case c.tags <- scan.TagID:
	default:
		c.logger.WarnContext(ctx, "tag notification dropped, consumer not keeping up", "tag_id", scan.TagID)
	}
}

func (c *Controller) emitPollMetric(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.Count("scanner.poll", 1, map[string]string{"result": result})
}
