package bootstrap

import (
	"context"
	"time"

	"github.com/wolfman30/starring-booking/pkg/logging"
)

// Sweeper drops stale in-process state and reports how many entries it removed.
type Sweeper func() int

// RunJanitor calls every sweeper on each tick until ctx is done.
func RunJanitor(ctx context.Context, interval time.Duration, logger *logging.Logger, sweepers ...Sweeper) {
	if len(sweepers) == 0 || interval <= 0 {
		return
	}
	if logger == nil {
		logger = logging.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, sweep := range sweepers {
				removed += sweep()
			}
			if removed > 0 {
				logger.Debug("janitor evicted stale entries", "removed", removed)
			}
		}
	}
}
