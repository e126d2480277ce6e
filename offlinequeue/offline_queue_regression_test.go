package offlinequeue_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/offlinequeue"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/gin-gonic/gin"
)

// fakePlatform stands in for the managed entity backend. It can be switched
// between accepting creates, rejecting them with a 4xx, and failing with 5xx.
type fakePlatform struct {
	mu      sync.Mutex
	mode    string // "ok", "reject", "unavailable"
	nextId  int
	creates []map[string]any
	patches []map[string]any
	server  *httptest.Server
}

func newFakePlatform() *fakePlatform {
	fp := &fakePlatform{mode: "ok"}
	fp.server = httptest.NewServer(http.HandlerFunc(fp.handle))
	return fp
}

func (fp *fakePlatform) setMode(mode string) {
	fp.mu.Lock()
	fp.mode = mode
	fp.mu.Unlock()
}

func (fp *fakePlatform) handle(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if r.URL.Path == "/api/health" {
		w.Write([]byte(`{"status":"ok"}`))
		return
	}

	switch fp.mode {
	case "reject":
		http.Error(w, "validation failed", http.StatusUnprocessableEntity)
		return
	case "unavailable":
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
		return
	}

	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/entities/"):
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		fp.creates = append(fp.creates, body)
		fp.nextId++
		fmt.Fprintf(w, `{"id":"srv-%d"}`, fp.nextId)
	case r.Method == http.MethodPut:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		fp.patches = append(fp.patches, body)
		w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func (fp *fakePlatform) createCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.creates)
}

func (fp *fakePlatform) lastCreate() map[string]any {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if len(fp.creates) == 0 {
		return nil
	}
	return fp.creates[len(fp.creates)-1]
}

func TestOfflineQueueFlushLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "spazaops_test")
	t.Setenv("PLATFORM_RATE_LIMIT_PER_MIN", "60000")
	t.Setenv("OFFLINE_QUEUE_MAX_ATTEMPTS", "3")
	t.Setenv("OFFLINE_QUEUE_BACKOFF_BASE_SECONDS", "1")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	fp := newFakePlatform()
	t.Cleanup(fp.server.Close)
	client := platform.NewClientWith(fp.server.URL, "test-key")

	ctx = utils.SetUserEmailInContext(ctx, "agent@spazaops.test")
	db := config.GetDB()

	// 1) Check-in while offline: synthetic id, one queued row.
	checkIn := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	record, err := offlinequeue.SaveAttendance(ctx, models.Attendance{
		AgentEmail:  "agent@spazaops.test",
		Date:        "2026-03-02",
		CheckInTime: &checkIn,
		CheckInLat:  -26.2678,
		CheckInLng:  27.8585,
	})
	if err != nil {
		t.Fatalf("SaveAttendance: %v", err)
	}
	if !offlinequeue.IsOfflineId(record.ID) {
		t.Fatalf("expected synthetic offline id, got %q", record.ID)
	}
	pending, err := offlinequeue.PendingCount(ctx)
	if err != nil || pending != 1 {
		t.Fatalf("expected 1 pending write, got %d (err=%v)", pending, err)
	}

	// 2) Check-out against the still-offline record merges into the queued
	// create rather than enqueueing a second row.
	checkOut := checkIn.Add(8 * time.Hour)
	if err := offlinequeue.SaveCheckout(ctx, record.ID, map[string]any{
		"check_out_time": checkOut.Format(time.RFC3339),
		"check_out_lat":  -26.2680,
		"check_out_lng":  27.8590,
	}); err != nil {
		t.Fatalf("SaveCheckout: %v", err)
	}
	pending, _ = offlinequeue.PendingCount(ctx)
	if pending != 1 {
		t.Fatalf("checkout against offline create must not add a row; pending=%d", pending)
	}

	// 3) Flush delivers one create carrying both halves, minus queue-only fields.
	result, err := offlinequeue.Flush(ctx, client, models.FlushTriggeredManual)
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if result.Status != models.FlushRunStatusSuccess || result.Flushed != 1 {
		t.Fatalf("expected success/1, got %+v", result)
	}
	if fp.createCount() != 1 {
		t.Fatalf("expected exactly one platform create, got %d", fp.createCount())
	}
	created := fp.lastCreate()
	if _, ok := created["id"]; ok {
		t.Fatalf("synthetic id leaked to the platform: %v", created)
	}
	if _, ok := created["_offline"]; ok {
		t.Fatalf("_offline marker leaked to the platform: %v", created)
	}
	if created["check_out_time"] == nil {
		t.Fatalf("merged checkout missing from delivered create: %v", created)
	}

	var synced models.PendingWrite
	if err := db.Where("local_id = ?", record.ID).Take(&synced).Error; err != nil {
		t.Fatalf("load synced row: %v", err)
	}
	if synced.Status != models.PendingWriteStatusSynced || synced.ServerId == "" {
		t.Fatalf("expected synced row with server id, got %+v", synced)
	}
	pending, _ = offlinequeue.PendingCount(ctx)
	if pending != 0 {
		t.Fatalf("expected 0 pending after flush, got %d", pending)
	}

	// 4) A 4xx rejection is terminal on the first attempt: retrying cannot
	// change the outcome.
	rejected, err := offlinequeue.SaveAttendance(ctx, models.Attendance{
		AgentEmail: "agent@spazaops.test",
		Date:       "2026-03-03",
	})
	if err != nil {
		t.Fatalf("SaveAttendance(rejected): %v", err)
	}
	fp.setMode("reject")
	result, err = offlinequeue.Flush(ctx, client, models.FlushTriggeredManual)
	if err != nil {
		t.Fatalf("Flush(reject): %v", err)
	}
	if result.Status != models.FlushRunStatusFailed || result.Failed != 1 {
		t.Fatalf("expected failed/1, got %+v", result)
	}

	var failed models.PendingWrite
	if err := db.Where("local_id = ?", rejected.ID).Take(&failed).Error; err != nil {
		t.Fatalf("load rejected row: %v", err)
	}
	if failed.Status != models.PendingWriteStatusFailed {
		t.Fatalf("4xx must fail terminally on first attempt, got %+v", failed)
	}
	if failed.NextAttemptAt != nil {
		t.Fatalf("terminal row must not be rescheduled: %+v", failed)
	}
	var flushErr models.FlushErrorRecord
	if err := db.Where("flush_run_id = ?", result.RunId).Take(&flushErr).Error; err != nil {
		t.Fatalf("expected flush error record: %v", err)
	}
	if flushErr.Retryable || flushErr.ErrorCode != "rejected" {
		t.Fatalf("unexpected flush error record: %+v", flushErr)
	}

	// 5) Operator requeue puts the row back and a healthy flush drains it.
	fp.setMode("ok")
	requeued, err := models.RequeueFailedPendingWrites(ctx)
	if err != nil || requeued != 1 {
		t.Fatalf("RequeueFailedPendingWrites: n=%d err=%v", requeued, err)
	}
	result, err = offlinequeue.Flush(ctx, client, models.FlushTriggeredRetry)
	if err != nil {
		t.Fatalf("Flush(retry): %v", err)
	}
	if result.Status != models.FlushRunStatusSuccess || result.Flushed != 1 {
		t.Fatalf("expected success/1 after requeue, got %+v", result)
	}

	// 6) A checkout against a record that already has a server id is
	// delivered as an update, not a create.
	if err := offlinequeue.SaveCheckout(ctx, "srv-1", map[string]any{
		"notes": "synced late",
	}); err != nil {
		t.Fatalf("SaveCheckout(server id): %v", err)
	}
	result, err = offlinequeue.Flush(ctx, client, models.FlushTriggeredManual)
	if err != nil {
		t.Fatalf("Flush(update): %v", err)
	}
	if result.Status != models.FlushRunStatusSuccess || result.Flushed != 1 {
		t.Fatalf("expected success/1 for queued update, got %+v", result)
	}
	fp.mu.Lock()
	patchCount := len(fp.patches)
	fp.mu.Unlock()
	if patchCount != 1 {
		t.Fatalf("expected one platform update, got %d", patchCount)
	}

	// 7) A 5xx keeps the row queued with backoff; attempts are bounded.
	bounded, err := offlinequeue.SaveAttendance(ctx, models.Attendance{
		AgentEmail: "agent@spazaops.test",
		Date:       "2026-03-04",
	})
	if err != nil {
		t.Fatalf("SaveAttendance(bounded): %v", err)
	}
	fp.setMode("unavailable")
	if _, err := offlinequeue.Flush(ctx, client, models.FlushTriggeredManual); err != nil {
		t.Fatalf("Flush(unavailable): %v", err)
	}

	var retried models.PendingWrite
	if err := db.Where("local_id = ?", bounded.ID).Take(&retried).Error; err != nil {
		t.Fatalf("load retried row: %v", err)
	}
	if retried.Status != models.PendingWriteStatusQueued || retried.AttemptCount != 1 {
		t.Fatalf("5xx should leave the row queued with one attempt, got %+v", retried)
	}
	if retried.NextAttemptAt == nil || !retried.NextAttemptAt.After(time.Now()) {
		t.Fatalf("expected backoff scheduling, got %+v", retried.NextAttemptAt)
	}

	// Drive the remaining attempts past the budget. Backoff base is 1s in
	// this test, so just wait each window out.
	for attempt := 2; attempt <= 3; attempt++ {
		waitForDue(t, bounded.ID)
		if _, err := offlinequeue.Flush(ctx, client, models.FlushTriggeredManual); err != nil {
			t.Fatalf("Flush(attempt %d): %v", attempt, err)
		}
	}
	if err := db.Where("local_id = ?", bounded.ID).Take(&retried).Error; err != nil {
		t.Fatalf("reload bounded row: %v", err)
	}
	if retried.Status != models.PendingWriteStatusFailed || retried.AttemptCount != 3 {
		t.Fatalf("expected terminal failure after 3 attempts, got %+v", retried)
	}

	// 8) A push message without a run id is a scheduled drain: the queue is
	// flushed under the pubsub trigger.
	fp.setMode("ok")
	scheduled, err := offlinequeue.SaveAttendance(ctx, models.Attendance{
		AgentEmail: "agent@spazaops.test",
		Date:       "2026-03-05",
	})
	if err != nil {
		t.Fatalf("SaveAttendance(scheduled): %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/pubsub/flush", offlinequeue.PubSubPushHandler(client))

	var envelope offlinequeue.PubSubPushEnvelope
	envelope.Message.Data = []byte(`{}`)
	envelopeBody, _ := json.Marshal(envelope)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pubsub/flush", bytes.NewReader(envelopeBody))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("push handler status = %d", rec.Code)
	}

	var schedRow models.PendingWrite
	if err := db.Where("local_id = ?", scheduled.ID).Take(&schedRow).Error; err != nil {
		t.Fatalf("load scheduled row: %v", err)
	}
	if schedRow.Status != models.PendingWriteStatusSynced {
		t.Fatalf("scheduled drain should sync the row, got status %q", schedRow.Status)
	}

	var lastRun models.FlushRun
	if err := db.Order("id desc").Take(&lastRun).Error; err != nil {
		t.Fatalf("load last flush run: %v", err)
	}
	if lastRun.TriggeredBy != models.FlushTriggeredPubSub {
		t.Fatalf("flush run trigger = %q, want %q", lastRun.TriggeredBy, models.FlushTriggeredPubSub)
	}
}

// waitForDue blocks until the row's backoff window has passed.
func waitForDue(t *testing.T, localId string) {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		var pw models.PendingWrite
		if err := config.GetDB().Where("local_id = ?", localId).Take(&pw).Error; err != nil {
			t.Fatalf("load pending write: %v", err)
		}
		if pw.Status != models.PendingWriteStatusQueued {
			return
		}
		if pw.NextAttemptAt == nil || !pw.NextAttemptAt.After(time.Now()) {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Fatalf("row %s never became due", localId)
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("spazaops-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("spazaops-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=spazaops_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
