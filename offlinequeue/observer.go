package offlinequeue

import (
	"context"
	"sync/atomic"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
)

// Observer polls the platform health endpoint and flips an online flag. An
// offline-to-online transition triggers a one-shot queue drain and drops the
// cached platform reads so authoritative state gets refetched.
type Observer struct {
	client *platform.Client
	online atomic.Bool
}

func NewObserver(client *platform.Client) *Observer {
	o := &Observer{client: client}
	// Assume online until the first probe says otherwise, matching what a
	// fresh page load assumed.
	o.online.Store(true)
	return o
}

func (o *Observer) IsOnline() bool {
	return o.online.Load()
}

// Run probes until ctx is cancelled. Call it in its own goroutine.
func (o *Observer) Run(ctx context.Context) {
	logger := config.GetLogger()
	ticker := time.NewTicker(config.ConnectivityPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := o.client.Health(ctx)
		wasOnline := o.online.Swap(err == nil)

		switch {
		case err != nil && wasOnline:
			logger.Warnf("platform unreachable, queueing writes locally: %v", err)
		case err == nil && !wasOnline:
			logger.Info("platform reachable again, draining offline queue")
			o.onReconnect(ctx)
		}
	}
}

func (o *Observer) onReconnect(ctx context.Context) {
	// The cached reads were served while offline; authoritative state wins.
	if err := utils.InvalidateEntities(
		platform.EntityAttendance, platform.EntityShop, platform.EntityInspection,
	); err != nil {
		config.GetLogger().Warnf("cache invalidation on reconnect failed: %v", err)
	}

	if _, err := Flush(ctx, o.client, models.FlushTriggeredConnectivity); err != nil && err != ErrFlushInProgress {
		config.LogError(config.GetLogger(), "offlinequeue", "onReconnect", "drain", nil, err)
	}
}
