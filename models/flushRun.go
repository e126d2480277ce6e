package models

import (
	"context"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
)

// FlushRun is one drain of the offline queue, recorded for the ops view.
type FlushRun struct {
	ID          uint       `gorm:"primary_key" json:"id"`
	Status      string     `gorm:"index;size:20;not null" json:"status"`
	TriggeredBy string     `gorm:"size:20" json:"triggered_by"`
	StatsJSON   []byte     `gorm:"type:json" json:"stats"`
	Flushed     int        `json:"flushed"`
	ErrorCount  int        `json:"error_count"`
	StartedAt   *time.Time `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
	DurationMs  int64      `json:"duration_ms"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// FlushErrorRecord is one per-record failure inside a flush run.
type FlushErrorRecord struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	FlushRunId  uint      `gorm:"index;not null" json:"flush_run_id"`
	EntityType  string    `gorm:"size:50" json:"entity_type"`
	LocalId     string    `gorm:"size:64" json:"local_id"`
	TargetId    string    `gorm:"size:64" json:"target_id"`
	ErrorCode   string    `gorm:"size:64" json:"error_code"`
	Message     string    `gorm:"type:text" json:"message"`
	PayloadJSON []byte    `gorm:"type:json" json:"payload"`
	Retryable   bool      `gorm:"default:false" json:"retryable"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func CreateFlushRun(ctx context.Context, triggeredBy string) (*FlushRun, error) {
	run := FlushRun{
		Status:      FlushRunStatusQueued,
		TriggeredBy: triggeredBy,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func CreateFlushError(ctx context.Context, runId uint, pw *PendingWrite, code, message string, retryable bool) error {
	rec := FlushErrorRecord{
		FlushRunId:  runId,
		EntityType:  pw.EntityType,
		LocalId:     pw.LocalId,
		TargetId:    pw.TargetId,
		ErrorCode:   code,
		Message:     message,
		PayloadJSON: pw.PayloadJSON,
		Retryable:   retryable,
	}
	db := config.GetDB()
	return db.WithContext(ctx).Create(&rec).Error
}

// GetRecentFlushRuns backs the queue status endpoint.
func GetRecentFlushRuns(ctx context.Context, limit int) ([]FlushRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []FlushRun
	db := config.GetDB()
	err := db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
