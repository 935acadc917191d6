package follower

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/followwaypoints/services/navigation"
)

// execute visits the queued waypoints in order. It stops early, without error, once the queue
// has been reset. Goal outcomes are not inspected; any resolution moves on to the next
// waypoint.
func (f *Follower) execute(ctx context.Context) error {
	f.start = f.clock.Now()
	f.issued = 0
	f.preempted = false
	f.logger.Infof("journey started at %s", f.start.Format(time.RFC3339Nano))

	waypoints, generation := f.queue.Snapshot()
	for i, w := range waypoints {
		index := i + 1
		if f.queue.ResetSince(generation) {
			f.logger.Infow("waypoints were reset, stopping journey", "remaining", len(waypoints)-i)
			f.preempted = true
			return nil
		}

		goal := navigation.NewGoal(f.opts.FrameID, w.Pose())
		f.logger.Infow("executing move to waypoint", "index", index, "waypoint", w.String(), "goal", goal.ID)
		f.logger.Infof("to cancel the goal, cancel goal %s on the navigator", goal.ID)
		if err := f.deps.Navigator.SendGoal(ctx, goal); err != nil {
			return errors.Wrapf(err, "sending goal for waypoint %d", index)
		}
		f.issued++
		status, err := f.deps.Navigator.WaitForResult(ctx, goal.ID)
		if err != nil {
			return errors.Wrapf(err, "waiting for goal for waypoint %d", index)
		}
		f.logger.Infow("arrived at waypoint",
			"index", index, "status", status.String(), "at", f.clock.Now().Format(time.RFC3339Nano))

		if index == 1 && !f.queue.ResetSince(generation) {
			if err := f.dwell(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// dwell holds position after the first waypoint, logging each tick.
func (f *Follower) dwell(ctx context.Context) error {
	if f.opts.DwellPeriod <= 0 {
		return nil
	}
	f.logger.Infow("holding at first waypoint", "period", f.opts.DwellPeriod)
	for elapsed := time.Duration(0); elapsed < f.opts.DwellPeriod; {
		tick := f.opts.DwellTick
		if remaining := f.opts.DwellPeriod - elapsed; remaining < tick {
			tick = remaining
		}
		if !f.sleep(ctx, tick) {
			return ctx.Err()
		}
		elapsed += tick
		f.logger.Infow("holding", "elapsed", elapsed)
	}
	return nil
}
