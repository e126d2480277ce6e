package main

import (
	"net/http"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/analytics"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"github.com/gin-gonic/gin"
)

func dashboardSummaryHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := fetchShops(c, client, nil)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		inspections, err := fetchInspections(c, client)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"summary":      analytics.Summarize(shops, inspections, time.Now()),
			"distribution": analytics.ComplianceDistribution(shops),
		})
	}
}

func riskListHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := fetchShops(c, client, shopFilterFromQuery(c))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		inspections, err := fetchInspections(c, client)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		assessments := analytics.ScoreShops(shops, inspections, time.Now())
		c.JSON(http.StatusOK, gin.H{"items": assessments, "total": len(assessments)})
	}
}

func riskDetailHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		shopId := c.Param("shopId")

		shop, err := client.GetShop(ctx, shopId)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		inspections, err := platform.Filter[models.Inspection](ctx, client, platform.EntityInspection, map[string]any{
			"shop_id": shopId,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, analytics.ScoreShop(shop, inspections))
	}
}

func leaderboardHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		inspections, err := fetchInspections(c, client)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		rows := analytics.AgentLeaderboard(inspections)
		if metric := c.Query("metric"); metric != "" {
			analytics.SortLeaderboard(rows, metric)
		}
		c.JSON(http.StatusOK, gin.H{"items": rows, "total": len(rows)})
	}
}

func trendHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		inspections, err := fetchInspections(c, client)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		points := analytics.MonthlyTrend(inspections)
		c.JSON(http.StatusOK, gin.H{
			"points":    points,
			"direction": analytics.TrendDirection(points),
		})
	}
}

func heatmapHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := fetchShops(c, client, nil)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		var rollup []analytics.AreaSummary
		if c.Query("group_by") == "ward" {
			rollup = analytics.RollupByWard(shops)
		} else {
			rollup = analytics.RollupByMunicipality(shops)
		}
		c.JSON(http.StatusOK, gin.H{"items": rollup})
	}
}
