// Package offlinequeue lets a check-in or check-out succeed locally while the
// platform backend is unreachable, then reconciles the queued writes once
// connectivity returns. Queued rows live in the local MySQL table and are
// drained strictly in acceptance order.
package offlinequeue

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/google/uuid"
)

// offlineIdPrefix marks synthetic ids handed out for queued creates, so they
// can never be mistaken for server ids.
const offlineIdPrefix = "offline_"

// pendingCountKey is the Redis key the pending count is published under for
// the status banner.
const pendingCountKey = "OfflineQueue:PendingCount"

func IsOfflineId(id string) bool {
	return strings.HasPrefix(id, offlineIdPrefix)
}

// SaveAttendance queues a check-in for later delivery and returns the record
// with a synthetic id. It never touches the network.
func SaveAttendance(ctx context.Context, record models.Attendance) (models.Attendance, error) {
	record.ID = offlineIdPrefix + uuid.New().String()
	record.Offline = true
	if record.CreatedDate.IsZero() {
		record.CreatedDate = time.Now()
	}

	queuedBy, _ := utils.GetUserEmailFromContext(ctx)
	if _, err := models.QueuePendingCreate(ctx, platform.EntityAttendance, record.ID, record, queuedBy); err != nil {
		return models.Attendance{}, err
	}

	if _, err := RefreshPendingCount(ctx); err != nil {
		config.GetLogger().Warnf("pending count refresh failed: %v", err)
	}
	return record, nil
}

// SaveCheckout queues a check-out patch. A checkout against a record that is
// itself still offline merges into the queued create, so one server create
// carries both halves and order is preserved by construction.
func SaveCheckout(ctx context.Context, id string, patch map[string]any) error {
	queuedBy, _ := utils.GetUserEmailFromContext(ctx)

	if IsOfflineId(id) {
		pw, err := models.GetQueuedCreateByLocalId(ctx, id)
		if err != nil {
			return err
		}
		if err := models.MergeIntoPendingWrite(ctx, pw, patch); err != nil {
			return err
		}
	} else {
		if _, err := models.QueuePendingUpdate(ctx, platform.EntityAttendance, id, patch, queuedBy); err != nil {
			return err
		}
	}

	if _, err := RefreshPendingCount(ctx); err != nil {
		config.GetLogger().Warnf("pending count refresh failed: %v", err)
	}
	return nil
}

// RefreshPendingCount recounts queued rows and publishes the number to Redis
// for any instance serving the status banner.
func RefreshPendingCount(ctx context.Context) (int64, error) {
	count, err := models.CountPendingWrites(ctx)
	if err != nil {
		return 0, err
	}
	if err := config.SetRedisValue(pendingCountKey, strconv.FormatInt(count, 10), 0); err != nil {
		// Redis being down only costs banner freshness, not correctness.
		config.GetLogger().Warnf("failed to publish pending count: %v", err)
	}
	return count, nil
}

// PendingCount reads the published count, falling back to a recount when
// Redis has nothing.
func PendingCount(ctx context.Context) (int64, error) {
	if v, ok, err := config.GetRedisValue(pendingCountKey); err == nil && ok {
		if n, convErr := strconv.ParseInt(v, 10, 64); convErr == nil {
			return n, nil
		}
	}
	return RefreshPendingCount(ctx)
}
