// Package engine wires the detection pipeline together: camera frames
// go through inference, classification, smoothing, and routing, while a
// separate clock drives the session counters. The two timers are
// independent so a slow detection never stalls the session clock.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/camera"
	"github.com/Techy2419/Focus-Flow/pkg/classify"
	"github.com/Techy2419/Focus-Flow/pkg/detect"
	"github.com/Techy2419/Focus-Flow/pkg/distraction"
	"github.com/Techy2419/Focus-Flow/pkg/hub"
	"github.com/Techy2419/Focus-Flow/pkg/intervention"
	"github.com/Techy2419/Focus-Flow/pkg/notify"
	"github.com/Techy2419/Focus-Flow/pkg/session"
	"github.com/Techy2419/Focus-Flow/pkg/smooth"
)

// DefaultPollInterval is the camera polling rate.
const DefaultPollInterval = 500 * time.Millisecond

// Messenger produces the coaching text for an intervention.
type Messenger interface {
	Message(ctx context.Context, t distraction.Type, sc intervention.Context) string
}

// Publisher pushes events to the live feed. The hub satisfies it.
type Publisher interface {
	Publish(e hub.Envelope) error
}

// Verify the coach satisfies Messenger at compile time.
var _ Messenger = (*intervention.Coach)(nil)

// nopPublisher drops events when no feed is attached.
type nopPublisher struct{}

func (nopPublisher) Publish(hub.Envelope) error { return nil }

// Config assembles an engine from its collaborators.
type Config struct {
	Camera     camera.Source
	Detector   detect.Detector
	Classifier *classify.Classifier
	Session    *session.Accumulator
	Coach      Messenger
	Publisher  Publisher
	Logger     *slog.Logger

	PollInterval time.Duration
}

// Engine runs the per-session processing loop.
type Engine struct {
	camera     camera.Source
	detector   detect.Detector
	classifier *classify.Classifier
	smoother   *smooth.Smoother
	router     *distraction.Router
	policy     *intervention.Policy
	coach      Messenger
	session    *session.Accumulator
	dedupe     *notify.Deduplicator
	publisher  Publisher
	logger     *slog.Logger

	pollInterval time.Duration
	inFlight     atomic.Bool

	now func() time.Time
}

// New creates an engine. Camera, Detector, and Session are required.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = classify.New(classify.DefaultConfig())
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = nopPublisher{}
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	e := &Engine{
		camera:       cfg.Camera,
		detector:     cfg.Detector,
		classifier:   classifier,
		smoother:     smooth.New(),
		router:       distraction.NewRouter(),
		policy:       intervention.NewPolicy(),
		coach:        cfg.Coach,
		session:      cfg.Session,
		dedupe:       notify.New(),
		publisher:    publisher,
		logger:       logger.With("component", "engine"),
		pollInterval: pollInterval,
		now:          time.Now,
	}
	e.router.SetListener(e.onDistraction)
	return e
}

// SetPublisher attaches the live feed. Call it before Run; the web
// server owns the hub but needs the engine to build its routes first.
func (e *Engine) SetPublisher(p Publisher) {
	if p == nil {
		p = nopPublisher{}
	}
	e.publisher = p
}

// Run blocks until the context is cancelled. It refuses to start until
// the detection service reports ready.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.detector.Health(ctx); err != nil {
		return err
	}

	pollTicker := time.NewTicker(e.pollInterval)
	clockTicker := time.NewTicker(time.Second)
	defer pollTicker.Stop()
	defer clockTicker.Stop()

	e.logger.Info("engine started", "poll_interval", e.pollInterval)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return ctx.Err()

		case <-pollTicker.C:
			e.pollTick(ctx)

		case <-clockTicker.C:
			e.clockTick(ctx)
		}
	}
}

// StartSession begins a session and resets the per-session state. It
// refuses to start while the detection service is not ready.
func (e *Engine) StartSession(ctx context.Context, goal string) (string, error) {
	if err := e.detector.Health(ctx); err != nil {
		return "", err
	}

	id, err := e.session.Start(ctx, goal)
	if err != nil {
		return "", err
	}

	e.smoother.Reset()
	e.policy.Reset()
	e.dedupe.Clear()
	e.publishSession()
	return id, nil
}

// PauseSession starts a break.
func (e *Engine) PauseSession(breakSeconds int) error {
	if err := e.session.Pause(breakSeconds); err != nil {
		return err
	}
	e.publishSession()
	return nil
}

// ResumeSession cancels the remaining break.
func (e *Engine) ResumeSession() error {
	if err := e.session.Resume(); err != nil {
		return err
	}
	e.publishSession()
	return nil
}

// EndSession finalizes the session and returns the snapshot.
func (e *Engine) EndSession(ctx context.Context) (*session.Snapshot, error) {
	snap, err := e.session.End(ctx)
	if err != nil {
		return nil, err
	}
	e.publisher.Publish(hub.SessionEvent(*snap, e.now()))
	return snap, nil
}

// Snapshot returns the live session state.
func (e *Engine) Snapshot() session.Snapshot {
	return e.session.Snapshot()
}

// Alerts returns the alerts currently on screen.
func (e *Engine) Alerts() []notify.Alert {
	return e.dedupe.Visible()
}

// State returns the current smoothed detection state.
func (e *Engine) State() smooth.State {
	return e.smoother.State(e.now())
}

// pollTick starts one detection pass unless the previous one is still
// running. At most one request is in flight at a time.
func (e *Engine) pollTick(ctx context.Context) {
	if e.session.Status() != session.StatusActive {
		return
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		e.logger.Debug("detection still in flight, skipping poll")
		return
	}

	go func() {
		defer e.inFlight.Store(false)
		e.processFrame(ctx)
	}()
}

// processFrame runs the capture-detect-classify-route pipeline once.
// Errors end the pass; the next poll starts clean.
func (e *Engine) processFrame(ctx context.Context) {
	frame, err := e.camera.CaptureJPEG()
	if err != nil {
		e.logger.Warn("frame capture failed", "error", err)
		return
	}

	result, err := e.detector.Detect(ctx, frame)
	if err != nil {
		e.logger.Warn("detection failed", "error", err)
		return
	}

	// The session may have stopped while the request was in flight
	if ctx.Err() != nil || e.session.Status() != session.StatusActive {
		e.logger.Debug("discarding stale detection result")
		return
	}

	now := e.now()
	signals := e.classifier.Classify(result)
	e.smoother.Observe(signals, now)

	state := e.smoother.State(now)
	e.publisher.Publish(hub.StatusEvent(state, now))
	e.router.Route(state, now)
}

// onDistraction handles the one event the router picked for this tick.
// The router fires every tick a distraction persists; escalation counts
// debounced occurrences, so a sustained episode records once.
func (e *Engine) onDistraction(ev distraction.Event) {
	ctx := context.Background()

	if !e.session.LogDistraction(ctx, ev) {
		return
	}
	e.publisher.Publish(hub.DistractionEvent(ev))

	count := e.policy.Record(ev.Type)
	if !e.policy.ShouldIntervene(ev.Type, count) {
		return
	}

	message := intervention.FallbackMessage(ev.Type)
	if e.coach != nil {
		snap := e.session.Snapshot()
		message = e.coach.Message(ctx, ev.Type, intervention.Context{
			Goal:           snap.Goal,
			ElapsedMinutes: snap.ElapsedSeconds / 60,
			Count:          count,
		})
	}

	alert, ok := e.dedupe.Offer(ev, message)
	if !ok {
		return
	}

	e.logger.Info("intervention",
		"type", ev.Type,
		"count", count,
		"message", message,
	)
	e.publisher.Publish(hub.AlertEvent(alert))
}

// clockTick advances the session clock by one second.
func (e *Engine) clockTick(ctx context.Context) {
	if e.session.Status() == session.StatusIdle {
		return
	}
	e.session.Tick(ctx)
	e.publishSession()
}

func (e *Engine) publishSession() {
	e.publisher.Publish(hub.SessionEvent(e.session.Snapshot(), e.now()))
}
