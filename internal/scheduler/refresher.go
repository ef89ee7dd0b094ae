package scheduler

import (
	"context"
	"time"

	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/services"
)

// CollectionRefresher re-fetches the service collection on demand and,
// when an interval is configured, periodically. The initial fetch on
// Start is best effort: before a session is restored there is no token
// and the fetch is a silent no-op.
type CollectionRefresher struct {
	collection    *services.Manager
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCollectionRefresher creates a refresher. interval <= 0 disables
// the periodic refresh; the manual trigger channel always works.
func NewCollectionRefresher(
	collection *services.Manager,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CollectionRefresher {
	return &CollectionRefresher{
		collection:    collection,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start fetches once, then serves triggers until Stop or ctx cancel.
func (cr *CollectionRefresher) Start(ctx context.Context) {
	if err := cr.collection.FetchAll(ctx); err != nil {
		cr.logger.Warn("initial collection fetch failed", logger.Error(err))
	}

	var tick <-chan time.Time
	if cr.interval > 0 {
		ticker := time.NewTicker(cr.interval)
		tick = ticker.C
		go func() {
			<-cr.stopCh
			ticker.Stop()
		}()
	}

	go func() {
		for {
			select {
			case <-tick:
				cr.refresh(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual collection refresh triggered")
				cr.refresh(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresher.
func (cr *CollectionRefresher) Stop() {
	close(cr.stopCh)
}

func (cr *CollectionRefresher) refresh(ctx context.Context) {
	if err := cr.collection.FetchAll(ctx); err != nil {
		cr.logger.Error("failed to refresh service collection", logger.Error(err))
	}
}
