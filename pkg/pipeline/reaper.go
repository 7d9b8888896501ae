package pipeline

import (
	"context"
	"time"
)

// StartReaper launches the periodic eviction loop: expired window entries
// are pruned (and clients with empty buffers dropped) and stale
// last-reported snapshots removed. Each store mutates under its own lock,
// so a concurrent append to a client's buffer can never be lost to an
// in-progress sweep. Runs until ctx is cancelled.
func (p *Pipeline) StartReaper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				clients := p.windows.Reap(now)
				snapshots := p.reported.Reap(now)
				if clients > 0 || snapshots > 0 {
					p.logger.Debug("reaper pass",
						"clients_evicted", clients,
						"snapshots_evicted", snapshots,
					)
				}
			}
		}
	}()
}
