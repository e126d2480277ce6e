package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/offlinequeue"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
)

// Ops tool for offline writes that exhausted their retry budget: inspect the
// failed rows, then requeue them and drain the queue immediately.
func main() {
	dryRun := flag.Bool("dry-run", true, "List failed rows only (no writes)")
	confirm := flag.String("confirm", "", "Type REQUEUE to proceed when dry-run=false")
	skipFlush := flag.Bool("skip-flush", false, "Requeue without draining immediately")
	flag.Parse()

	if !*dryRun && strings.TrimSpace(*confirm) != "REQUEUE" {
		fmt.Fprintln(os.Stderr, "set --confirm=REQUEUE to proceed")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	ctx := context.Background()
	rows, err := models.ListFailedPendingWrites(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list failed writes:", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("no failed pending writes")
		return
	}

	for _, row := range rows {
		fmt.Printf("id=%d entity=%s op=%s local=%s target=%s attempts=%d error=%s\n",
			row.ID, row.EntityType, row.Operation, row.LocalId, row.TargetId, row.AttemptCount, row.LastError)
	}
	if *dryRun {
		fmt.Printf("%d failed rows (dry run, nothing changed)\n", len(rows))
		return
	}

	requeued, err := models.RequeueFailedPendingWrites(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "requeue:", err)
		os.Exit(1)
	}
	fmt.Printf("requeued %d rows\n", requeued)

	if *skipFlush {
		return
	}

	config.ConnectRedisWithRetry()
	client, err := platform.NewClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "platform client:", err)
		os.Exit(1)
	}
	result, err := offlinequeue.Flush(ctx, client, models.FlushTriggeredRetry)
	if err != nil {
		fmt.Fprintln(os.Stderr, "flush:", err)
		os.Exit(1)
	}
	fmt.Printf("flush run %d finished: status=%s flushed=%d failed=%d pending=%d\n",
		result.RunId, result.Status, result.Flushed, result.Failed, result.Pending)
}
