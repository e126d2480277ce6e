package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// QueueEventMessage is the payload published on the flush-events topic when a
// queue drain starts or finishes, and the payload expected on the Pub/Sub push
// endpoint that triggers a drain.
type QueueEventMessage struct {
	RunId         uint      `json:"run_id"`
	Event         string    `json:"event"`
	TriggeredBy   string    `json:"triggered_by"`
	Pending       int64     `json:"pending"`
	Flushed       int       `json:"flushed"`
	Failed        int       `json:"failed"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationId string    `json:"correlation_id"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// GetPubSubClient returns a Pub/Sub client, initializing it on first use.
// It uses Application Default Credentials unless PUBSUB_CREDENTIALS_JSON is provided.
func GetPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	if pubsubClient != nil {
		c := pubsubClient
		pubsubClientMu.Unlock()
		return c, nil
	}
	pubsubClientMu.Unlock()

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON")

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		// Uses Application Default Credentials (Cloud Run service account or GOOGLE_APPLICATION_CREDENTIALS).
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}

	pubsubClientMu.Lock()
	pubsubClient = c
	pubsubClientMu.Unlock()
	return c, nil
}

func getPubSubProjectID() string {
	// Prefer explicit override.
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	// Common fallback.
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

// PublishQueueEvent publishes a flush lifecycle event. Best effort: the queue
// must keep draining even when Pub/Sub is unreachable, so errors are logged by
// the caller and never fail the flush.
func PublishQueueEvent(ctx context.Context, msg QueueEventMessage) error {
	topicID := os.Getenv("QUEUE_EVENTS_TOPIC")
	if topicID == "" {
		return nil
	}

	client, err := GetPubSubClient(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := client.Topic(topicID)
	result := topic.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return err
	}
	return nil
}

// ClosePubSub releases the shared client (shutdown path).
func ClosePubSub() {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		if err := pubsubClient.Close(); err != nil {
			log.Printf("failed to close pubsub client: %v", err)
		}
		pubsubClient = nil
	}
}
