package offlinequeue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/bsm/redislock"
)

// ErrFlushInProgress is returned when another instance holds the flush lock.
var ErrFlushInProgress = errors.New("offline queue flush already in progress")

const flushLockKey = "lock:offline-queue-flush"

// Flush creates a FlushRun and drains it inline. Used by the connectivity
// observer and the manual trigger path when Pub/Sub dispatch is disabled.
func Flush(ctx context.Context, client *platform.Client, triggeredBy string) (*FlushResult, error) {
	run, err := models.CreateFlushRun(ctx, triggeredBy)
	if err != nil {
		return nil, err
	}
	return ProcessFlushRun(ctx, client, run.ID)
}

// ProcessFlushRun drains the queue for an already-created run. A Redis lock
// keeps concurrent instances from double-delivering the same rows; rows are
// taken strictly in id order so a check-in is always delivered before its
// check-out.
func ProcessFlushRun(ctx context.Context, client *platform.Client, runId uint) (*FlushResult, error) {
	logger := config.GetLogger()

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, flushLockKey, 5*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			return nil, ErrFlushInProgress
		}
		if err == nil {
			defer lock.Release(context.WithoutCancel(ctx))
		}
		// Any other lock error means Redis is down; flush anyway, the DB
		// status transitions keep a double drain harmless.
	}

	db := config.GetDB().WithContext(ctx)

	var run models.FlushRun
	if err := db.Where("id = ?", runId).Take(&run).Error; err != nil {
		return nil, err
	}
	if run.Status != models.FlushRunStatusQueued {
		// Pub/Sub redelivery of an already-processed run.
		return &FlushResult{RunId: run.ID, Status: run.Status, Flushed: run.Flushed, Failed: run.ErrorCount}, nil
	}

	now := time.Now()
	startedAt := &now
	if err := db.Model(&run).Updates(map[string]interface{}{
		"status":     models.FlushRunStatusRunning,
		"started_at": startedAt,
	}).Error; err != nil {
		return nil, err
	}

	publishEvent(ctx, run.ID, "flush_started", run.TriggeredBy, 0, 0, 0)

	rows, err := models.ListDuePendingWrites(ctx, now)
	if err != nil {
		return nil, err
	}

	flushed := 0
	errorCount := 0
	stats := map[string]int{}

	for i := range rows {
		row := &rows[i]
		if err := deliver(ctx, client, row); err != nil {
			errorCount++
			retryable := platform.IsRetryable(err)
			maxAttempts := config.OfflineQueueMaxAttempts()
			if !retryable {
				// The server rejected the record itself; retrying cannot
				// change the outcome, so the row goes terminal now.
				maxAttempts = 0
			}
			if recErr := models.RecordPendingWriteFailure(ctx, row, err, maxAttempts, config.OfflineQueueBackoffBase(), time.Now()); recErr != nil {
				config.LogError(logger, "offlinequeue", "ProcessFlushRun", "record failure", row.ID, recErr)
			}
			_ = models.CreateFlushError(ctx, run.ID, row, errorCode(retryable), err.Error(), retryable)

			if errors.Is(err, utils.ErrorPlatformUnavailable) {
				// No point walking the rest of the queue while offline;
				// the remaining rows stay due for the next drain.
				break
			}
			continue
		}
		flushed++
		stats[row.EntityType]++
	}

	finishedAt := time.Now()
	status := models.FlushRunStatusSuccess
	if errorCount > 0 && flushed == 0 {
		status = models.FlushRunStatusFailed
	} else if errorCount > 0 {
		status = models.FlushRunStatusPartial
	}

	statsJSON, _ := json.Marshal(stats)
	if err := db.Model(&run).Updates(map[string]interface{}{
		"status":      status,
		"flushed":     flushed,
		"error_count": errorCount,
		"stats_json":  statsJSON,
		"finished_at": finishedAt,
		"duration_ms": finishedAt.Sub(*startedAt).Milliseconds(),
	}).Error; err != nil {
		return nil, err
	}

	pending, err := RefreshPendingCount(ctx)
	if err != nil {
		config.LogError(logger, "offlinequeue", "ProcessFlushRun", "refresh pending count", run.ID, err)
	}

	publishEvent(ctx, run.ID, "flush_finished", run.TriggeredBy, pending, flushed, errorCount)

	logger.WithField("run_id", run.ID).
		WithField("status", status).
		WithField("flushed", flushed).
		WithField("errors", errorCount).
		Info("offline queue flush finished")

	return &FlushResult{
		RunId:   run.ID,
		Status:  status,
		Flushed: flushed,
		Failed:  errorCount,
		Pending: pending,
	}, nil
}

// deliver pushes one pending write to the platform and marks it synced.
func deliver(ctx context.Context, client *platform.Client, row *models.PendingWrite) error {
	payload := map[string]any{}
	if len(row.PayloadJSON) > 0 {
		if err := json.Unmarshal(row.PayloadJSON, &payload); err != nil {
			return err
		}
	}
	// The queue-only fields never reach the platform.
	delete(payload, "_offline")

	switch row.Operation {
	case models.PendingWriteOpCreate:
		delete(payload, "id")
		raw, err := client.CreateRaw(ctx, row.EntityType, payload)
		if err != nil {
			return err
		}
		var created struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &created); err != nil {
			return err
		}
		return models.MarkPendingWriteSynced(ctx, row, created.ID)

	case models.PendingWriteOpUpdate:
		if _, err := client.UpdateRaw(ctx, row.EntityType, row.TargetId, payload); err != nil {
			return err
		}
		return models.MarkPendingWriteSynced(ctx, row, row.TargetId)

	default:
		return errors.New("unknown pending write operation " + row.Operation)
	}
}

func errorCode(retryable bool) string {
	if retryable {
		return "delivery_failed"
	}
	return "rejected"
}

func publishEvent(ctx context.Context, runId uint, event, triggeredBy string, pending int64, flushed, failed int) {
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	err := config.PublishQueueEvent(ctx, config.QueueEventMessage{
		RunId:         runId,
		Event:         event,
		TriggeredBy:   triggeredBy,
		Pending:       pending,
		Flushed:       flushed,
		Failed:        failed,
		OccurredAt:    time.Now(),
		CorrelationId: correlationId,
	})
	if err != nil {
		config.GetLogger().Warnf("queue event publish failed: %v", err)
	}
}
