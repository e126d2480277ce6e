package offlinequeue

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
)

// PublishFlushRun hands a queued run to the flush topic so a worker instance
// picks it up via the push subscription.
func PublishFlushRun(ctx context.Context, runId uint, triggeredBy string) error {
	topicName := strings.TrimSpace(os.Getenv("OFFLINE_FLUSH_TOPIC"))
	if topicName == "" {
		topicName = "offline-queue-flush"
	}

	client, err := config.GetPubSubClient(ctx)
	if err != nil {
		return err
	}

	payload := FlushPubSubPayload{RunId: runId, TriggeredBy: triggeredBy}
	data, _ := json.Marshal(payload)
	res := client.Topic(topicName).Publish(ctx, &pubsub.Message{Data: data})
	_, err = res.Get(ctx)
	return err
}

// PubSubPushHandler accepts the push delivery and drains the named run, or
// the whole queue for scheduler messages carrying no run id. Always 204:
// a non-2xx would make Pub/Sub redeliver forever, and the run-status check in
// ProcessFlushRun already makes redelivery a no-op.
func PubSubPushHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !envBoolDefault("ENABLE_FLUSH_PUBSUB_PUSH_ENDPOINT", true) {
			c.Status(204)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(204)
			return
		}

		var envelope PubSubPushEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			c.Status(204)
			return
		}

		var payload FlushPubSubPayload
		if err := json.Unmarshal(envelope.Message.Data, &payload); err != nil {
			c.Status(204)
			return
		}

		// A message without a run id is a scheduled drain request (Cloud
		// Scheduler publishes an empty payload) rather than a handoff of an
		// already-created run.
		if payload.RunId == 0 {
			_, _ = Flush(c.Request.Context(), client, models.FlushTriggeredPubSub)
			c.Status(204)
			return
		}

		_, _ = ProcessFlushRun(c.Request.Context(), client, payload.RunId)
		c.Status(204)
	}
}

func envBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}
