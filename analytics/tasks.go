package analytics

import (
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
)

// TaskSummary is the task-monitoring rollup the coordinator dashboard shows.
type TaskSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Overdue    int `json:"overdue"`
}

// SummarizeTasks counts tasks by status. Overdue means a due date in the past
// on a task that is not completed; it overlaps the status counts.
func SummarizeTasks(tasks []models.Task, now time.Time) TaskSummary {
	var s TaskSummary
	s.Total = len(tasks)
	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusCompleted:
			s.Completed++
		case models.TaskStatusInProgress:
			s.InProgress++
		case models.TaskStatusPending, models.TaskStatusAssigned:
			s.Pending++
		}
		if task.Status != models.TaskStatusCompleted &&
			task.DueDate != nil && task.DueDate.Before(now) {
			s.Overdue++
		}
	}
	return s
}
