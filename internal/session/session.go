package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems"
	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

type Options struct {
	// TickRate is the number of frames per second Run drives.
	TickRate int `yaml:"tick_rate"`
	// RequestBuffer is the capacity of the cross-goroutine request channel.
	RequestBuffer int `yaml:"request_buffer"`
}

func DefaultOptions() Options {
	return Options{TickRate: 60, RequestBuffer: 32}
}

const (
	requestPending int32 = iota
	requestClaimed
	requestAbandoned
)

type request struct {
	fn    func(*bullet.Sweep)
	reply chan struct{}
	// state moves from pending to claimed (owner) or abandoned (caller), once.
	state atomic.Int32
}

// claim reports whether the owner may still run the request.
func (r *request) claim() bool {
	return r.state.CompareAndSwap(requestPending, requestClaimed)
}

// abandon reports whether the caller gave up before the owner claimed it.
func (r *request) abandon() bool {
	return r.state.CompareAndSwap(requestPending, requestAbandoned)
}

// Session is the single owner of a sweep. Only the goroutine inside Run (or,
// before Run, the constructing goroutine via Step) touches the sweep; other
// goroutines go through Spawn and Do.
type Session struct {
	id      string
	opts    Options
	log     log.Log
	bus     bus.EventBus
	sweep   *bullet.Sweep
	manager *systems.Manager

	frame    systems.Frame
	requests chan *request
	done     chan struct{}
	running  atomic.Bool
}

func New(opts Options, logger log.Log, eventBus bus.EventBus, sweep *bullet.Sweep) (*Session, error) {
	defaults := DefaultOptions()
	if opts.TickRate <= 0 {
		opts.TickRate = defaults.TickRate
	}
	if opts.RequestBuffer < 0 {
		opts.RequestBuffer = 0
	}

	id := uuid.NewString()
	logger = logger.Named("session").With(log.String("session_id", id))

	manager := systems.NewManager(logger)
	if err := manager.RegisterSystem(sweep); err != nil {
		return nil, fmt.Errorf("register sweep: %w", err)
	}
	manager.OnSystemError(func(name string, err error) {
		logger.Warn("system update failed", log.String("system", name), log.Error(err))
	})

	return &Session{
		id:       id,
		opts:     opts,
		log:      logger,
		bus:      eventBus,
		sweep:    sweep,
		manager:  manager,
		requests: make(chan *request, opts.RequestBuffer),
		done:     make(chan struct{}),
	}, nil
}

func (s *Session) ID() string                  { return s.id }
func (s *Session) Bus() bus.EventBus           { return s.bus }
func (s *Session) Manager() *systems.Manager   { return s.manager }
func (s *Session) Frame() systems.Frame        { return s.frame }
func (s *Session) Options() Options            { return s.opts }
func (s *Session) Sweep() *bullet.Sweep        { return s.sweep }
func (s *Session) Done() <-chan struct{}       { return s.done }
func (s *Session) TickInterval() time.Duration { return time.Second / time.Duration(s.opts.TickRate) }

// Step advances one frame of delta seconds on the calling goroutine.
func (s *Session) Step(delta float64) error {
	s.frame = s.frame.Next(delta)
	return s.manager.Update(s.frame)
}

// Run owns the sweep until ctx is cancelled: it ticks at TickRate with the real
// elapsed time as delta and serves requests between ticks. Systems are shut
// down before Run returns, after which Spawn and Do fail with ErrSessionClosed.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	if err := s.manager.InitializeAll(ctx); err != nil {
		return err
	}
	s.log.Info("session started", log.Int("tick_rate", s.opts.TickRate))

	ticker := time.NewTicker(s.TickInterval())
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			err := s.manager.ShutdownAll(context.WithoutCancel(ctx))
			s.log.Info("session stopped",
				log.Uint64("frames", s.frame.Count),
				log.Float64("time", s.frame.Time),
			)
			return err
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			// failures are reported through OnSystemError
			_ = s.Step(delta)
		case req := <-s.requests:
			if req.claim() {
				req.fn(s.sweep)
				close(req.reply)
			}
		}
	}
}

// Do runs fn on the owner goroutine and waits for it to finish. When Do
// returns an error fn has not run and never will; once the owner has started
// fn, Do waits for it regardless of ctx.
func (s *Session) Do(ctx context.Context, fn func(*bullet.Sweep)) error {
	req := &request{fn: fn, reply: make(chan struct{})}
	select {
	case s.requests <- req:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	var err error
	select {
	case <-req.reply:
		return nil
	case <-s.done:
		err = ErrSessionClosed
	case <-ctx.Done():
		err = ctx.Err()
	}
	if req.abandon() {
		return err
	}
	<-req.reply
	return nil
}

// Spawn launches a projectile through the owner goroutine. The bool is false
// when typeName is not registered.
func (s *Session) Spawn(ctx context.Context, typeName string, origin physics.Transform) (bullet.State, bool, error) {
	var st bullet.State
	var ok bool
	err := s.Do(ctx, func(sw *bullet.Sweep) {
		if proj := sw.Spawn(typeName, origin); proj != nil {
			st, ok = proj.State(), true
		}
	})
	return st, ok, err
}
