package main

import (
	"net/http"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/analytics"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"bitbucket.org/kwahlelwa/spazaops_backend/workflow"
	"github.com/gin-gonic/gin"
)

// HR records live entirely on the platform; these handlers are typed
// passthroughs that add validation and role context.

func listLeaveHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		predicate := map[string]any{}
		if v := c.Query("agent_email"); v != "" {
			predicate["agent_email"] = v
		}
		if v := c.Query("status"); v != "" {
			predicate["status"] = v
		}

		records, err := platform.Filter[models.Leave](c.Request.Context(), client, platform.EntityLeave, predicate)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": records, "total": len(records)})
	}
}

func createLeaveHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewLeave
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		record := map[string]any{
			"agent_email": input.AgentEmail,
			"leave_type":  input.LeaveType,
			"start_date":  input.StartDate,
			"end_date":    input.EndDate,
			"reason":      input.Reason,
			"status":      models.LeaveStatusPending,
		}
		created, err := platform.Create[models.Leave](c.Request.Context(), client, platform.EntityLeave, record)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

type leaveReviewRequest struct {
	Status      models.LeaveStatus `json:"status" binding:"required,oneof=approved rejected"`
	ReviewNotes string             `json:"review_notes"`
}

func reviewLeaveHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leaveReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		ctx := c.Request.Context()
		patch := map[string]any{
			"status":       req.Status,
			"review_notes": req.ReviewNotes,
		}
		if reviewer, ok := utils.GetUserEmailFromContext(ctx); ok {
			patch["reviewed_by"] = reviewer
		}

		updated, err := platform.Update[models.Leave](ctx, client, platform.EntityLeave, c.Param("id"), patch)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func listShiftsHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		predicate := map[string]any{}
		if v := c.Query("agent_email"); v != "" {
			predicate["agent_email"] = v
		}
		if v := c.Query("date"); v != "" {
			predicate["date"] = v
		}

		records, err := platform.Filter[models.Shift](c.Request.Context(), client, platform.EntityShift, predicate)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": records, "total": len(records)})
	}
}

func createShiftHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewShift
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		record := map[string]any{
			"agent_email": input.AgentEmail,
			"date":        input.Date,
			"start_time":  input.StartTime,
			"end_time":    input.EndTime,
			"area":        input.Area,
			"status":      models.ShiftStatusScheduled,
		}
		created, err := platform.Create[models.Shift](c.Request.Context(), client, platform.EntityShift, record)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func listTasksHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		predicate := map[string]any{}
		if v := c.Query("assignee_email"); v != "" {
			predicate["assignee_email"] = v
		}
		if v := c.Query("status"); v != "" {
			predicate["status"] = v
		}

		records, err := platform.Filter[models.Task](c.Request.Context(), client, platform.EntityTask, predicate)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": records, "total": len(records)})
	}
}

type taskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required,oneof=pending assigned in_progress completed"`
}

func updateTaskStatusHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req taskStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		updated, err := platform.Update[models.Task](c.Request.Context(), client, platform.EntityTask, c.Param("id"), map[string]any{
			"status": req.Status,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func taskSummaryHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		predicate := map[string]any{}
		if v := c.Query("assignee_email"); v != "" {
			predicate["assignee_email"] = v
		}

		tasks, err := platform.Filter[models.Task](c.Request.Context(), client, platform.EntityTask, predicate)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, analytics.SummarizeTasks(tasks, time.Now()))
	}
}

func listAgentNotesHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		notes, err := platform.Filter[models.AgentNote](c.Request.Context(), client, platform.EntityAgentNote, map[string]any{
			"agent_email": c.Param("email"),
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": notes, "total": len(notes)})
	}
}

type agentNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

func createAgentNoteHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req agentNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		ctx := c.Request.Context()
		record := map[string]any{
			"agent_email": c.Param("email"),
			"note":        req.Note,
		}
		if author, ok := utils.GetUserEmailFromContext(ctx); ok {
			record["author_email"] = author
		}

		created, err := platform.Create[models.AgentNote](ctx, client, platform.EntityAgentNote, record)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

type onboardingProgressRequest struct {
	ProgressPercentage int `json:"progress_percentage" binding:"gte=0,lte=100"`
}

// updateOnboardingHandler advances an agent's onboarding and fires the
// notification workflow on the way out.
func updateOnboardingHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req onboardingProgressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		ctx := c.Request.Context()
		patch := map[string]any{
			"progress_percentage": req.ProgressPercentage,
		}
		if req.ProgressPercentage >= 100 {
			patch["status"] = models.OnboardingStatusCompleted
		}

		updated, err := platform.Update[models.Onboarding](ctx, client, platform.EntityOnboarding, c.Param("id"), patch)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		workflow.NotifyOnboardingProgress(ctx, client, updated)
		c.JSON(http.StatusOK, updated)
	}
}
