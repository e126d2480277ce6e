package models

// Enum values mirror the field vocabularies the platform backend stores.
// They are plain typed strings: records arrive as JSON and unknown values are
// tolerated unless STRICT_RECORD_VALIDATION is on.

type ComplianceStatus string

const (
	ComplianceStatusCompliant          ComplianceStatus = "compliant"
	ComplianceStatusPartiallyCompliant ComplianceStatus = "partially_compliant"
	ComplianceStatusNonCompliant       ComplianceStatus = "non_compliant"
	ComplianceStatusPending            ComplianceStatus = "pending"
)

func (s ComplianceStatus) IsValid() bool {
	switch s {
	case ComplianceStatusCompliant, ComplianceStatusPartiallyCompliant,
		ComplianceStatusNonCompliant, ComplianceStatusPending:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	}
	return false
}

type FundingStatus string

const (
	FundingStatusEligible      FundingStatus = "eligible"
	FundingStatusNotEligible   FundingStatus = "not_eligible"
	FundingStatusFunded        FundingStatus = "funded"
	FundingStatusPendingReview FundingStatus = "pending_review"
)

type TenureStatus string

const (
	TenureStatusSecure         TenureStatus = "secure"
	TenureStatusModerate       TenureStatus = "moderate"
	TenureStatusInsecure       TenureStatus = "insecure"
	TenureStatusHighlyInsecure TenureStatus = "highly_insecure"
)

// Insecure covers both tenure grades that add risk points.
func (t TenureStatus) Insecure() bool {
	return t == TenureStatusInsecure || t == TenureStatusHighlyInsecure
}

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

type ShiftStatus string

const (
	ShiftStatusScheduled  ShiftStatus = "scheduled"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type InspectionStatus string

const (
	InspectionStatusDraft     InspectionStatus = "draft"
	InspectionStatusCompleted InspectionStatus = "completed"
)

type OnboardingStatus string

const (
	OnboardingStatusInProgress OnboardingStatus = "in_progress"
	OnboardingStatusCompleted  OnboardingStatus = "completed"
)

// Program roles, compared as strings the way the dashboard gates pages.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleFieldAgent  = "field_agent"
)

// Pending-write lifecycle. queued -> synced is the happy path; queued ->
// failed is terminal and requires a manual requeue.
const (
	PendingWriteStatusQueued = "queued"
	PendingWriteStatusSynced = "synced"
	PendingWriteStatusFailed = "failed"
)

const (
	PendingWriteOpCreate = "create"
	PendingWriteOpUpdate = "update"
)

// Flush-run lifecycle, matching the sync-run states the ops dashboard shows.
const (
	FlushRunStatusQueued  = "queued"
	FlushRunStatusRunning = "running"
	FlushRunStatusSuccess = "success"
	FlushRunStatusFailed  = "failed"
	FlushRunStatusPartial = "partial"
)

const (
	FlushTriggeredManual       = "manual"
	FlushTriggeredConnectivity = "connectivity"
	FlushTriggeredPubSub       = "pubsub"
	FlushTriggeredRetry        = "retry"
)
