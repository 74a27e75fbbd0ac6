package detect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/llehouerou/chorus/internal/capture"
	"github.com/llehouerou/chorus/internal/identify"
	"github.com/llehouerou/chorus/internal/lyrics"
	"github.com/llehouerou/chorus/internal/syncclock"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	cfg        Config
	recorder   Recorder
	identifier identify.Identifier

	// Session state, mutated only by Start/Stop/Resync and cycle commits.
	state    State
	outcome  Outcome
	message  string
	track    *identify.Track
	lyrics   *lyrics.Lyrics
	lockedAt time.Time
	clock    *syncclock.Estimator

	// active is the loop continuation flag. gen is bumped on every control
	// call; a cycle commits only while active and gen is unchanged.
	active bool
	gen    uint64
	wake   chan struct{}

	subs   []*Subscription
	subsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// New creates a detection service and starts its worker. The logger carried
// by ctx is used for cycle diagnostics.
func New(ctx context.Context, rec Recorder, id identify.Identifier, cfg Config) Service {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(ctx)
	s := &serviceImpl{
		cfg:        cfg,
		recorder:   rec,
		identifier: id,
		clock:      syncclock.New(cfg.Sync),
		wake:       make(chan struct{}, 1),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Start begins detection. It is a no-op while a session is running.
func (s *serviceImpl) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state != StateIdle {
		return nil
	}
	s.restartLocked()
	return nil
}

// Stop ends the session and clears the track, lyrics and clock. An in-flight
// cycle is not aborted; its result is dropped when it returns.
func (s *serviceImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.active = false
	s.gen++
	s.clearLocked()
	s.setStateLocked(StateIdle)
	return nil
}

// Resync clears the track and clock and restarts the cycle.
func (s *serviceImpl) Resync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.clearLocked()
	s.restartLocked()
	return nil
}

func (s *serviceImpl) restartLocked() {
	s.active = true
	s.gen++
	s.outcome = OutcomeNone
	s.message = ""
	s.setStateLocked(StateListening)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *serviceImpl) clearLocked() {
	hadTrack := s.track != nil
	s.track = nil
	s.lyrics = nil
	s.lockedAt = time.Time{}
	s.outcome = OutcomeNone
	s.message = ""
	s.clock.Reset()
	if hadTrack {
		s.emitTrack(TrackChange{})
	}
}

func (s *serviceImpl) setStateLocked(st State) {
	prev := s.state
	s.state = st
	if prev != st || st == StateListening {
		s.emitState(StateChange{
			Previous: prev,
			Current:  st,
			Status:   status(st, s.outcome, s.track != nil),
		})
	}
}

// State returns the current loop state.
func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the user-facing status line.
func (s *serviceImpl) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return status(s.state, s.outcome, s.track != nil)
}

// Snapshot returns a consistent view of the session.
func (s *serviceImpl) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:    s.state,
		Status:   status(s.state, s.outcome, s.track != nil),
		Outcome:  s.outcome,
		Message:  s.message,
		Track:    s.track,
		Lyrics:   s.lyrics,
		LockedAt: s.lockedAt,
	}
	if start, ok := s.clock.Start(); ok {
		snap.Start = start
	}
	return snap
}

// Position returns the synced playback position, recomputed from the clock
// estimate on every call.
func (s *serviceImpl) Position() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Position(s.cfg.Now())
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops the worker and closes all subscriptions.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.active = false
	s.gen++
	s.mu.Unlock()

	s.cancel()
	close(s.done)
	s.wg.Wait()

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	return nil
}

func (s *serviceImpl) emitState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *serviceImpl) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) emitError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}

type cycleResult int

const (
	cycleStale cycleResult = iota // superseded by Stop or Resync
	cycleRetry
	cycleLocked
)

// run is the single worker. Exactly one cycle runs at a time; the next one
// starts only after the previous reached its terminal point.
func (s *serviceImpl) run() {
	defer s.wg.Done()
	for {
		gen, ok := s.awaitActive()
		if !ok {
			return
		}
		if s.cycle(gen) == cycleRetry && !s.backoff() {
			return
		}
	}
}

// awaitActive blocks until the loop flag is set and returns the generation
// to run under. It returns false once the service is closed.
func (s *serviceImpl) awaitActive() (uint64, bool) {
	for {
		s.mu.Lock()
		closed, active, gen := s.closed, s.active, s.gen
		s.mu.Unlock()
		if closed {
			return 0, false
		}
		if active {
			// The flag is already observed, so a pending wake is redundant.
			select {
			case <-s.wake:
			default:
			}
			return gen, true
		}
		select {
		case <-s.done:
			return 0, false
		case <-s.wake:
		}
	}
}

// backoff waits the retry delay. Start or Resync cut it short.
func (s *serviceImpl) backoff() bool {
	timer := time.NewTimer(s.cfg.RetryDelay)
	defer timer.Stop()
	select {
	case <-s.done:
		return false
	case <-s.wake:
	case <-timer.C:
	}
	return true
}

func (s *serviceImpl) current(gen uint64) bool {
	return s.active && s.gen == gen && !s.closed
}

func (s *serviceImpl) cycle(gen uint64) (result cycleResult) {
	ctx := s.ctx
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "detection cycle panicked: %v", r)
			result = s.fail(gen, "cycle", fmt.Errorf("panic: %v", r))
		}
	}()

	if !s.enter(gen, StateListening) {
		return cycleStale
	}

	logger.Debugf(ctx, "capturing %v sample", s.cfg.SampleDuration)
	sample, err := s.recorder.Record(ctx, s.cfg.SampleDuration)
	recordingEnd := s.cfg.Now()
	if err != nil {
		return s.fail(gen, "capture", err)
	}

	if !s.enter(gen, StateIdentifying) {
		logger.Debugf(ctx, "dropping sample: detection stopped during capture")
		return cycleStale
	}

	res, err := s.identifySample(ctx, sample)
	if err != nil {
		return s.fail(gen, "identify", err)
	}
	if !res.Identified || res.Track == nil {
		return s.miss(gen, res.Message)
	}
	return s.lock(gen, res, recordingEnd)
}

// enter moves the cycle of gen to st. It reports false when gen is stale.
func (s *serviceImpl) enter(gen uint64, st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return false
	}
	if st == StateListening {
		s.outcome = OutcomeNone
	}
	s.setStateLocked(st)
	return true
}

func (s *serviceImpl) identifySample(ctx context.Context, sample capture.Sample) (*identify.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	return s.identifier.Identify(ctx, sample)
}

func (s *serviceImpl) fail(gen uint64, op string, err error) cycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		logger.Debugf(s.ctx, "ignoring stale %s error: %v", op, err)
		return cycleStale
	}
	logger.Warnf(s.ctx, "%s failed, retrying in %v: %v", op, s.cfg.RetryDelay, err)
	s.outcome = OutcomeError
	s.setStateLocked(StateError)
	s.emitError(ErrorEvent{Operation: op, Err: err})
	return cycleRetry
}

func (s *serviceImpl) miss(gen uint64, message string) cycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return cycleStale
	}
	logger.Debugf(s.ctx, "no match (%s), retrying in %v", message, s.cfg.RetryDelay)
	s.outcome = OutcomeMiss
	s.message = message
	s.setStateLocked(StateListening)
	return cycleRetry
}

func (s *serviceImpl) lock(gen uint64, res *identify.Result, recordingEnd time.Time) cycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		logger.Debugf(s.ctx, "ignoring stale match for %q", res.Track.Name)
		return cycleStale
	}

	track := *res.Track
	s.track = &track
	s.lyrics = res.Synced()
	obs := s.clock.Observe(recordingEnd, track.PlayOffset())
	s.lockedAt = s.cfg.Now()
	s.outcome = OutcomeMatch
	s.message = ""
	s.active = false

	logger.Infof(s.ctx, "locked on %q by %q at %v (%s)", track.Name, track.Artist, track.PlayOffset(), obs.Mode)
	s.emitTrack(TrackChange{Current: s.track, Lyrics: s.lyrics, Observation: obs})
	s.setStateLocked(StateLocked)
	return cycleLocked
}
