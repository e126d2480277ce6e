package models

import "time"

// HR records are flat platform entities keyed by the agent's email address —
// there are no foreign keys on the platform side, so client-side joins match
// on email strings.

type Attendance struct {
	ID           string     `json:"id"`
	AgentEmail   string     `json:"agent_email" validate:"required,email"`
	Date         string     `json:"date"` // YYYY-MM-DD, one row per agent per day
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	CheckInLat   float64    `json:"check_in_lat"`
	CheckInLng   float64    `json:"check_in_lng"`
	CheckOutLat  float64    `json:"check_out_lat"`
	CheckOutLng  float64    `json:"check_out_lng"`
	Notes        string     `json:"notes"`

	// Offline marks a record that only exists in the local queue so far.
	// Synthetic ids carry the "offline_" prefix until the flush assigns a
	// server id.
	Offline bool `json:"_offline,omitempty"`

	CreatedDate time.Time `json:"created_date"`
}

type Leave struct {
	ID          string      `json:"id"`
	AgentEmail  string      `json:"agent_email" validate:"required,email"`
	LeaveType   string      `json:"leave_type"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Reason      string      `json:"reason"`
	Status      LeaveStatus `json:"status"`
	ReviewNotes string      `json:"review_notes"`
	ReviewedBy  string      `json:"reviewed_by"`
	CreatedDate time.Time   `json:"created_date"`
}

type NewLeave struct {
	AgentEmail string `json:"agent_email" binding:"required,email"`
	LeaveType  string `json:"leave_type" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type Shift struct {
	ID          string      `json:"id"`
	AgentEmail  string      `json:"agent_email" validate:"required,email"`
	Date        string      `json:"date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	Area        string      `json:"area"`
	Status      ShiftStatus `json:"status"`
	CreatedDate time.Time   `json:"created_date"`
}

type NewShift struct {
	AgentEmail string `json:"agent_email" binding:"required,email"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	Area       string `json:"area"`
}

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AssigneeEmail string     `json:"assignee_email"`
	Status        TaskStatus `json:"status"`
	DueDate       *time.Time `json:"due_date"`
	ShopId        string     `json:"shop_id"`
	CreatedBy     string     `json:"created_by"`
	CreatedDate   time.Time  `json:"created_date"`
}

type AgentNote struct {
	ID          string    `json:"id"`
	AgentEmail  string    `json:"agent_email"`
	AuthorEmail string    `json:"author_email"`
	Note        string    `json:"note"`
	CreatedDate time.Time `json:"created_date"`
}

type FieldAgent struct {
	ID          string    `json:"id"`
	Email       string    `json:"email" validate:"required,email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	TeamId      string    `json:"team_id"`
	PhoneNumber string    `json:"phone_number"`
	IsActive    bool      `json:"is_active"`
	CreatedDate time.Time `json:"created_date"`
}

type Team struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CoordinatorEmail string    `json:"coordinator_email"`
	Municipality     string    `json:"municipality"`
	CreatedDate      time.Time `json:"created_date"`
}

type Onboarding struct {
	ID                 string           `json:"id"`
	AgentEmail         string           `json:"agent_email"`
	AgentName          string           `json:"agent_name"`
	SupervisorEmail    string           `json:"supervisor_email"`
	Status             OnboardingStatus `json:"status"`
	ProgressPercentage int              `json:"progress_percentage"`
	CompletionDate     *time.Time       `json:"completion_date"`
	CreatedDate        time.Time        `json:"created_date"`
}
