package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"gorm.io/gorm"
)

// PendingWrite is one queued offline write against the platform backend.
// Rows are flushed in primary-key order, which preserves the order the
// writes were accepted (a check-in always lands before its check-out).
type PendingWrite struct {
	ID         uint   `gorm:"primary_key" json:"id"`
	EntityType string `gorm:"index;size:50;not null" json:"entity_type"`
	Operation  string `gorm:"size:20;not null" json:"operation"`

	// LocalId is the synthetic "offline_" id handed to the caller for a
	// queued create. TargetId is the server id a queued update patches.
	LocalId  string `gorm:"index;size:64" json:"local_id"`
	TargetId string `gorm:"index;size:64" json:"target_id"`

	PayloadJSON []byte `gorm:"type:json" json:"payload"`

	Status        string     `gorm:"index;size:20;not null" json:"status"`
	AttemptCount  int        `json:"attempt_count"`
	NextAttemptAt *time.Time `gorm:"index" json:"next_attempt_at"`
	LastError     string     `gorm:"type:text" json:"last_error"`

	// ServerId is filled in once the flush created the record upstream.
	ServerId string `gorm:"size:64" json:"server_id"`

	QueuedBy  string    `gorm:"size:255" json:"queued_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// QueuePendingCreate persists a pending create. Never touches the network.
func QueuePendingCreate(ctx context.Context, entityType, localId string, payload any, queuedBy string) (*PendingWrite, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	pw := PendingWrite{
		EntityType:  entityType,
		Operation:   PendingWriteOpCreate,
		LocalId:     localId,
		PayloadJSON: data,
		Status:      PendingWriteStatusQueued,
		QueuedBy:    queuedBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&pw).Error; err != nil {
		return nil, err
	}
	return &pw, nil
}

// QueuePendingUpdate persists a pending patch against a record that already
// has a server id.
func QueuePendingUpdate(ctx context.Context, entityType, targetId string, patch any, queuedBy string) (*PendingWrite, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	pw := PendingWrite{
		EntityType:  entityType,
		Operation:   PendingWriteOpUpdate,
		TargetId:    targetId,
		PayloadJSON: data,
		Status:      PendingWriteStatusQueued,
		QueuedBy:    queuedBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&pw).Error; err != nil {
		return nil, err
	}
	return &pw, nil
}

// GetQueuedCreateByLocalId finds the still-queued create for a synthetic id,
// so a later patch can be merged into it instead of enqueueing a second row.
func GetQueuedCreateByLocalId(ctx context.Context, localId string) (*PendingWrite, error) {
	var pw PendingWrite
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("local_id = ? AND operation = ? AND status = ?", localId, PendingWriteOpCreate, PendingWriteStatusQueued).
		Take(&pw).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &pw, nil
}

// MergeIntoPendingWrite overlays patch fields onto the queued payload.
func MergeIntoPendingWrite(ctx context.Context, pw *PendingWrite, patch map[string]any) error {
	merged := map[string]any{}
	if len(pw.PayloadJSON) > 0 {
		if err := json.Unmarshal(pw.PayloadJSON, &merged); err != nil {
			return err
		}
	}
	for k, v := range patch {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Model(pw).Update("payload_json", data).Error
}

// CountPendingWrites is the number the status banner shows.
func CountPendingWrites(ctx context.Context) (int64, error) {
	var count int64
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&PendingWrite{}).
		Where("status = ?", PendingWriteStatusQueued).
		Count(&count).Error
	return count, err
}

// ListDuePendingWrites returns queued rows whose backoff window has passed,
// oldest first. Flush order is acceptance order.
func ListDuePendingWrites(ctx context.Context, now time.Time) ([]PendingWrite, error) {
	var rows []PendingWrite
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("status = ?", PendingWriteStatusQueued).
		Where("next_attempt_at IS NULL OR next_attempt_at <= ?", now).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

// ListFailedPendingWrites surfaces terminally failed rows for manual
// resolution.
func ListFailedPendingWrites(ctx context.Context) ([]PendingWrite, error) {
	var rows []PendingWrite
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("status = ?", PendingWriteStatusFailed).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

// MarkPendingWriteSynced records the server id and removes the row from the
// pending set.
func MarkPendingWriteSynced(ctx context.Context, pw *PendingWrite, serverId string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(pw).Updates(map[string]interface{}{
		"status":     PendingWriteStatusSynced,
		"server_id":  serverId,
		"last_error": "",
	}).Error
}

// RecordPendingWriteFailure bumps the attempt counter and schedules the next
// try with exponential backoff. Once the attempt budget is spent the row is
// marked failed — terminal until an operator requeues it.
func RecordPendingWriteFailure(ctx context.Context, pw *PendingWrite, cause error, maxAttempts int, backoffBase time.Duration, now time.Time) error {
	attempts := pw.AttemptCount + 1

	updates := map[string]interface{}{
		"attempt_count": attempts,
		"last_error":    cause.Error(),
	}
	if attempts >= maxAttempts {
		updates["status"] = PendingWriteStatusFailed
		updates["next_attempt_at"] = nil
	} else {
		backoff := backoffBase * time.Duration(1<<min(attempts, 8))
		if backoff > time.Hour {
			backoff = time.Hour
		}
		next := now.Add(backoff)
		updates["next_attempt_at"] = &next
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(pw).Updates(updates).Error; err != nil {
		return err
	}
	pw.AttemptCount = attempts
	return nil
}

// RequeueFailedPendingWrites resets failed rows back to queued with a fresh
// attempt budget. Used by ops tooling.
func RequeueFailedPendingWrites(ctx context.Context) (int64, error) {
	db := config.GetDB()
	res := db.WithContext(ctx).Model(&PendingWrite{}).
		Where("status = ?", PendingWriteStatusFailed).
		Updates(map[string]interface{}{
			"status":          PendingWriteStatusQueued,
			"attempt_count":   0,
			"next_attempt_at": nil,
			"last_error":      "",
		})
	return res.RowsAffected, res.Error
}
