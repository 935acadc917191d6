package follower

import "context"

// listenForReset clears the queue every time the reset signal fires, for as long as the
// follower is open. It waits out the cooldown after each reset so a duplicated trigger is not
// applied twice.
func (f *Follower) listenForReset(ctx context.Context) {
	for {
		if err := f.deps.Reset.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Errorw("failed waiting for reset signal", "error", err)
		} else {
			f.dropStalePoses()
			f.queue.Clear()
			f.publishQueue(ctx)
			f.logger.Info("received path reset, waypoints cleared")
		}
		if !f.sleep(ctx, f.opts.ResetCooldown) {
			return
		}
	}
}
