package main

import (
	"errors"
	"net/http"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/offlinequeue"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/gin-gonic/gin"
)

type checkInRequest struct {
	AgentEmail string  `json:"agent_email" binding:"required,email"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Notes      string  `json:"notes"`
}

type checkOutRequest struct {
	AttendanceId string  `json:"attendance_id" binding:"required"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Notes        string  `json:"notes"`
}

// checkInHandler records a check-in. When the platform is unreachable the
// record is queued locally and the caller gets it back with a synthetic
// offline id, exactly as if the write had landed.
func checkInHandler(client *platform.Client, observer *offlinequeue.Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		ctx := c.Request.Context()
		now := time.Now()
		record := models.Attendance{
			AgentEmail:  req.AgentEmail,
			Date:        now.Format("2006-01-02"),
			CheckInTime: &now,
			CheckInLat:  req.Lat,
			CheckInLng:  req.Lng,
			Notes:       req.Notes,
		}

		if observer.IsOnline() {
			created, err := platform.Create[models.Attendance](ctx, client, platform.EntityAttendance, record)
			if err == nil {
				c.JSON(http.StatusCreated, created)
				return
			}
			if !errors.Is(err, utils.ErrorPlatformUnavailable) {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			config.GetLogger().Warnf("platform unreachable on check-in, queueing locally: %v", err)
		}

		queued, err := offlinequeue.SaveAttendance(ctx, record)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, queued)
	}
}

// checkOutHandler patches the check-out half onto an attendance record. A
// check-out against a still-offline check-in merges into the queued create.
func checkOutHandler(client *platform.Client, observer *offlinequeue.Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkOutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		ctx := c.Request.Context()
		now := time.Now()
		patch := map[string]any{
			"check_out_time": now,
			"check_out_lat":  req.Lat,
			"check_out_lng":  req.Lng,
		}
		if req.Notes != "" {
			patch["notes"] = req.Notes
		}

		if offlinequeue.IsOfflineId(req.AttendanceId) {
			if err := offlinequeue.SaveCheckout(ctx, req.AttendanceId, patch); err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, utils.ErrorRecordNotFound) {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"id": req.AttendanceId, "queued": true})
			return
		}

		if observer.IsOnline() {
			updated, err := platform.Update[models.Attendance](ctx, client, platform.EntityAttendance, req.AttendanceId, patch)
			if err == nil {
				c.JSON(http.StatusOK, updated)
				return
			}
			if !errors.Is(err, utils.ErrorPlatformUnavailable) {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			config.GetLogger().Warnf("platform unreachable on check-out, queueing locally: %v", err)
		}

		if err := offlinequeue.SaveCheckout(ctx, req.AttendanceId, patch); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"id": req.AttendanceId, "queued": true})
	}
}

// listAttendanceHandler reads attendance through the snapshot cache. While
// the platform is unreachable the last-known snapshot is served as stale;
// the connectivity observer drops it once the platform is back.
func listAttendanceHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := map[string]string{}
		predicate := map[string]any{}
		if v := c.Query("agent_email"); v != "" {
			filter["agent_email"] = v
			predicate["agent_email"] = v
		}
		if v := c.Query("date"); v != "" {
			filter["date"] = v
			predicate["date"] = v
		}

		records, err := client.FilterAttendance(c.Request.Context(), predicate)
		if err != nil {
			if errors.Is(err, utils.ErrorPlatformUnavailable) {
				var snapshot []models.Attendance
				if hit, cacheErr := utils.GetCached(platform.EntityAttendance, filter, &snapshot); cacheErr == nil && hit {
					c.JSON(http.StatusOK, gin.H{"items": snapshot, "total": len(snapshot), "stale": true})
					return
				}
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if err := utils.StoreCached(platform.EntityAttendance, filter, records); err != nil {
			config.GetLogger().Warnf("attendance snapshot store failed: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"items": records, "total": len(records)})
	}
}
