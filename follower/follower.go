// Package follower drives a robot through a queue of waypoints that operators build up at
// runtime.
//
// The follower cycles through three phases. While acquiring it collects poses into the queue
// until a ready signal arrives. While executing it sends one navigation goal per queued
// waypoint, in order, and waits for each to resolve. When reporting it logs how long the
// journey took. A reset signal clears the queue at any time; an execution in progress notices
// this before its next goal and stops early.
package follower

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/followwaypoints/logging"
	"go.viam.com/followwaypoints/services/navigation"
	"go.viam.com/followwaypoints/transport"
	"go.viam.com/followwaypoints/waypoint"
)

// Defaults for the zero values of Options.
const (
	DefaultFrameID        = "map"
	DefaultPoseTopic      = "my_waypoints_list"
	DefaultReadyTopic     = "path_ready"
	DefaultReceiveTimeout = time.Second
	DefaultResetCooldown  = 3 * time.Second
	DefaultDwellPeriod    = 5 * time.Second
	DefaultDwellTick      = time.Second
)

// Options tune a Follower. Zero values take the defaults above. A negative DwellPeriod
// disables the dwell after the first waypoint.
type Options struct {
	// FrameID is the reference frame goals and visualizations are expressed in.
	FrameID string
	// PoseTopic and ReadyTopic only appear in the operator hints logged while acquiring.
	PoseTopic  string
	ReadyTopic string

	ReceiveTimeout time.Duration
	ResetCooldown  time.Duration
	DwellPeriod    time.Duration
	DwellTick      time.Duration
}

func (o Options) withDefaults() Options {
	if o.FrameID == "" {
		o.FrameID = DefaultFrameID
	}
	if o.PoseTopic == "" {
		o.PoseTopic = DefaultPoseTopic
	}
	if o.ReadyTopic == "" {
		o.ReadyTopic = DefaultReadyTopic
	}
	if o.ReceiveTimeout <= 0 {
		o.ReceiveTimeout = DefaultReceiveTimeout
	}
	if o.ResetCooldown <= 0 {
		o.ResetCooldown = DefaultResetCooldown
	}
	if o.DwellPeriod < 0 {
		o.DwellPeriod = 0
	} else if o.DwellPeriod == 0 {
		o.DwellPeriod = DefaultDwellPeriod
	}
	if o.DwellTick <= 0 {
		o.DwellTick = DefaultDwellTick
	}
	return o
}

// Deps are the collaborators a Follower talks to.
type Deps struct {
	Poses         transport.PoseSource
	Reset         transport.Signal
	Ready         transport.Signal
	Visualization transport.PoseArrayPublisher
	Navigator     navigation.Navigator
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

func (d Deps) validate() error {
	switch {
	case d.Poses == nil:
		return errors.New("pose source is required")
	case d.Reset == nil:
		return errors.New("reset signal is required")
	case d.Ready == nil:
		return errors.New("ready signal is required")
	case d.Visualization == nil:
		return errors.New("visualization publisher is required")
	case d.Navigator == nil:
		return errors.New("navigator is required")
	}
	return nil
}

// A Follower owns the waypoint queue and runs the control loop over it.
type Follower struct {
	opts   Options
	deps   Deps
	clock  clock.Clock
	queue  *waypoint.Queue
	logger logging.Logger

	startOnce sync.Once
	workers   *utils.StoppableWorkers

	// written only by the goroutine in Run
	cycle     int
	start     time.Time
	issued    int
	preempted bool

	mu   sync.Mutex
	last *Journey

	// held across snapshot and publish so viewers see queue states in order
	publishMu sync.Mutex
}

// NewFollower returns a follower with an empty queue. Call Start to begin listening for
// resets and Run to drive the control loop.
func NewFollower(deps Deps, opts Options, logger logging.Logger) (*Follower, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Follower{
		opts:   opts.withDefaults(),
		deps:   deps,
		clock:  clk,
		queue:  waypoint.NewQueue(),
		logger: logger,
	}, nil
}

// Queue returns the waypoint queue the follower consumes.
func (f *Follower) Queue() *waypoint.Queue {
	return f.queue
}

// LastJourney returns the most recently reported journey.
func (f *Follower) LastJourney() (Journey, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return Journey{}, false
	}
	return *f.last, true
}

// Start launches the reset listener. It runs until Close. Calling Start again does nothing.
func (f *Follower) Start() {
	f.startOnce.Do(func() {
		f.workers = utils.NewBackgroundStoppableWorkers(f.listenForReset)
	})
}

// Run drives the control loop from StateAcquire until ctx is done or a phase fails.
func (f *Follower) Run(ctx context.Context) error {
	state := StateAcquire
	for {
		next, err := f.Step(ctx, state)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		f.logger.Debugw("state transition", "from", state, "to", next)
		state = next
	}
}

// Step runs the phase for state once and returns the state to run next.
func (f *Follower) Step(ctx context.Context, state State) (State, error) {
	var err error
	switch state {
	case StateAcquire:
		err = f.acquire(ctx)
	case StateExecute:
		err = f.execute(ctx)
	case StateReport:
		f.report()
	default:
		return state, errors.Errorf("unknown state %v", state)
	}
	if err != nil {
		return state, errors.Wrapf(err, "in state %v", state)
	}
	return Next(state), nil
}

// Close stops the reset listener.
func (f *Follower) Close(ctx context.Context) error {
	if f.workers != nil {
		f.workers.Stop()
	}
	return nil
}

// publishQueue mirrors the queue to the visualization channel. Viewers are informational so a
// failed publish is only logged.
func (f *Follower) publishQueue(ctx context.Context) {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()
	waypoints, _ := f.queue.Snapshot()
	msg := waypoint.ToPoseArray(f.opts.FrameID, waypoints)
	if err := f.deps.Visualization.PublishPoseArray(ctx, msg); err != nil {
		f.logger.Warnw("failed to publish waypoints", "error", err)
	}
}

// dropStalePoses discards poses that arrived while nobody was acquiring.
func (f *Follower) dropStalePoses() {
	if n := transport.DrainPoses(f.deps.Poses); n > 0 {
		f.logger.Debugw("dropped stale waypoints", "count", n)
	}
}

// sleep waits d on the follower's clock. It returns false if ctx ended first.
func (f *Follower) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-f.clock.After(d):
		return true
	}
}
