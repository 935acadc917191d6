package follower

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"go.viam.com/followwaypoints/transport"
)

// acquire starts a fresh queue and fills it with incoming poses until the ready signal is
// observed. Poses published before acquisition began are dropped. The ready flag is checked
// between receives, so acquisition ends at most one receive timeout after the signal.
func (f *Follower) acquire(ctx context.Context) error {
	f.dropStalePoses()
	f.queue.Clear()
	f.publishQueue(ctx)
	f.logger.Infof("waiting to receive waypoints via pose topic %q", f.opts.PoseTopic)
	f.logger.Infof("to start following waypoints, trigger %q", f.opts.ReadyTopic)

	var ready atomic.Bool
	detectCtx, stopDetect := context.WithCancel(ctx)
	defer stopDetect()
	g, gctx := errgroup.WithContext(detectCtx)
	g.Go(func() error {
		if err := f.deps.Ready.Wait(gctx); err != nil {
			return err
		}
		ready.Store(true)
		f.logger.Info("received path ready")
		return nil
	})

	for !ready.Load() {
		res := transport.Receive(gctx, f.deps.Poses, f.opts.ReceiveTimeout)
		switch res.Kind {
		case transport.ResultTimeout:
			continue
		case transport.ResultMessage:
			n := f.queue.Append(res.Waypoint)
			f.logger.Infow("received new waypoint", "index", n, "waypoint", res.Waypoint.String())
			f.publishQueue(ctx)
		case transport.ResultError:
			stopDetect()
			// a failing detector cancels the receive, so its error is the cause
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "waiting for ready signal")
			}
			return errors.Wrap(res.Err, "receiving pose")
		}
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "waiting for ready signal")
	}
	f.logger.Infow("waypoints acquired", "count", f.queue.Len())
	return nil
}
