package offlinequeue

import (
	"net/http"
	"strconv"
	"strings"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"github.com/gin-gonic/gin"
)

// StatusHandler backs the connectivity banner.
func StatusHandler(observer *Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		pending, err := PendingCount(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		failed, err := models.ListFailedPendingWrites(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, StatusResponse{
			Online:  observer.IsOnline(),
			Pending: pending,
			Failed:  int64(len(failed)),
		})
	}
}

// TriggerFlushHandler queues a manual drain. When Pub/Sub dispatch is
// configured the run goes to the flush topic; otherwise it drains inline.
func TriggerFlushHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		run, err := models.CreateFlushRun(ctx, models.FlushTriggeredManual)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if envBoolDefault("OFFLINE_FLUSH_VIA_PUBSUB", false) {
			if err := PublishFlushRun(ctx, run.ID, models.FlushTriggeredManual); err == nil {
				c.JSON(http.StatusAccepted, gin.H{"id": run.ID, "status": models.FlushRunStatusQueued})
				return
			}
			config.GetLogger().Warnf("flush publish failed, draining inline: run %d", run.ID)
		}

		result, err := ProcessFlushRun(ctx, client, run.ID)
		if err == ErrFlushInProgress {
			c.JSON(http.StatusConflict, gin.H{"error": "flush already in progress"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// FlushHistoryHandler lists recent drains for the ops view.
func FlushHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if v := strings.TrimSpace(c.Query("limit")); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		runs, err := models.GetRecentFlushRuns(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": runs})
	}
}

// FailedWritesHandler surfaces terminally failed rows for manual resolution.
func FailedWritesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.ListFailedPendingWrites(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": rows})
	}
}

// RequeueFailedHandler puts failed rows back in the queue with a fresh
// attempt budget and kicks off a drain.
func RequeueFailedHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		requeued, err := models.RequeueFailedPendingWrites(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if requeued == 0 {
			c.JSON(http.StatusOK, gin.H{"requeued": 0})
			return
		}

		result, err := Flush(ctx, client, models.FlushTriggeredRetry)
		if err != nil && err != ErrFlushInProgress {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requeued": requeued, "flush": result})
	}
}
