// Package fake implements a simulated navigator that drives in a straight line at a fixed speed.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/followwaypoints/logging"
	"go.viam.com/followwaypoints/services/navigation"
)

var _ = navigation.Navigator(&Navigator{})

type activeGoal struct {
	goal   navigation.Goal
	done   chan struct{}
	cancel chan struct{}
	status navigation.Status
}

// Navigator resolves each goal once the travel time from the previous position at
// MMPerSecDefault has passed. A zero speed resolves goals immediately. Positions are in meters.
type Navigator struct {
	clock    clock.Clock
	mmPerSec float64
	logger   logging.Logger
	workers  *utils.StoppableWorkers

	mu       sync.Mutex
	position r3.Vector
	goals    []navigation.Goal
	active   map[uuid.UUID]*activeGoal
}

// NewNavigator returns a navigator at the origin.
func NewNavigator(cfg navigation.Config, clk clock.Clock, logger logging.Logger) *Navigator {
	return &Navigator{
		clock:    clk,
		mmPerSec: cfg.MMPerSecDefault,
		logger:   logger,
		workers:  utils.NewBackgroundStoppableWorkers(),
		active:   map[uuid.UUID]*activeGoal{},
	}
}

// WaitForServer returns immediately, the simulation is always available.
func (n *Navigator) WaitForServer(ctx context.Context) error {
	return ctx.Err()
}

// SendGoal starts driving to goal.
func (n *Navigator) SendGoal(ctx context.Context, goal navigation.Goal) error {
	if goal.Pose == nil {
		return errors.New("goal has no pose")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.active[goal.ID]; ok {
		return errors.Errorf("goal %s already sent", goal.ID)
	}
	n.goals = append(n.goals, goal)
	ag := &activeGoal{goal: goal, done: make(chan struct{}), cancel: make(chan struct{})}
	n.active[goal.ID] = ag

	travel := n.travelTime(n.position, goal.Pose.Point())
	n.logger.Debugw("driving to goal", "id", goal.ID, "frame", goal.FrameID, "travel", travel)
	if travel == 0 {
		n.finishLocked(ag, navigation.StatusSucceeded)
		return nil
	}

	timer := n.clock.Timer(travel)
	n.workers.Add(func(ctx context.Context) {
		defer timer.Stop()
		select {
		case <-timer.C:
			n.finish(ag, navigation.StatusSucceeded)
		case <-ag.cancel:
			n.finish(ag, navigation.StatusPreempted)
		case <-ctx.Done():
			n.finish(ag, navigation.StatusAborted)
		}
	})
	return nil
}

func (n *Navigator) travelTime(from, to r3.Vector) time.Duration {
	if n.mmPerSec <= 0 {
		return 0
	}
	mm := from.Sub(to).Norm() * 1000
	return time.Duration(mm / n.mmPerSec * float64(time.Second))
}

func (n *Navigator) finish(ag *activeGoal, status navigation.Status) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finishLocked(ag, status)
}

func (n *Navigator) finishLocked(ag *activeGoal, status navigation.Status) {
	select {
	case <-ag.done:
		return
	default:
	}
	ag.status = status
	if status == navigation.StatusSucceeded {
		n.position = ag.goal.Pose.Point()
	}
	close(ag.done)
}

// WaitForResult blocks until the goal is resolved.
func (n *Navigator) WaitForResult(ctx context.Context, id uuid.UUID) (navigation.Status, error) {
	n.mu.Lock()
	ag, ok := n.active[id]
	n.mu.Unlock()
	if !ok {
		return 0, errors.Wrapf(navigation.ErrUnknownGoal, "goal %s", id)
	}

	select {
	case <-ag.done:
		n.mu.Lock()
		defer n.mu.Unlock()
		return ag.status, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// CancelGoal preempts the goal if it is still being driven to.
func (n *Navigator) CancelGoal(ctx context.Context, id uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	ag, ok := n.active[id]
	if !ok {
		return errors.Wrapf(navigation.ErrUnknownGoal, "goal %s", id)
	}
	select {
	case <-ag.done:
	case <-ag.cancel:
	default:
		close(ag.cancel)
	}
	return nil
}

// Goals returns every goal received, in order.
func (n *Navigator) Goals() []navigation.Goal {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]navigation.Goal, len(n.goals))
	copy(out, n.goals)
	return out
}

// Position returns the position of the last goal reached.
func (n *Navigator) Position() r3.Vector {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.position
}

// Close aborts goals in flight.
func (n *Navigator) Close(ctx context.Context) error {
	n.workers.Stop()
	return nil
}
