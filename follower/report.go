package follower

const banner = "###############################"

// report closes out the journey and logs how long it took.
func (f *Follower) report() {
	f.cycle++
	journey := Journey{
		Cycle:       f.cycle,
		Start:       f.start,
		End:         f.clock.Now(),
		GoalsIssued: f.issued,
		Preempted:   f.preempted,
	}
	f.mu.Lock()
	f.last = &journey
	f.mu.Unlock()

	f.logger.Info(banner)
	f.logger.Infow("journey complete",
		"cycle", journey.Cycle,
		"elapsed", journey.Elapsed(),
		"goals", journey.GoalsIssued,
		"preempted", journey.Preempted,
	)
	f.logger.Info(banner)
}
