package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/gin-gonic/gin"
)

// fetchShops reads the shop collection through the (entity, filter) cache.
// Platform reads dominate this service, so every dashboard render does not
// become a platform round trip.
func fetchShops(c *gin.Context, client *platform.Client, filter map[string]string) ([]models.Shop, error) {
	ctx := c.Request.Context()

	var cached []models.Shop
	if hit, err := utils.GetCached(platform.EntityShop, filter, &cached); err == nil && hit {
		return cached, nil
	}

	var (
		shops []models.Shop
		err   error
	)
	if len(filter) == 0 {
		shops, err = client.ListShops(ctx, "-created_date", 0)
	} else {
		predicate := make(map[string]any, len(filter))
		for k, v := range filter {
			predicate[k] = v
		}
		shops, err = platform.Filter[models.Shop](ctx, client, platform.EntityShop, predicate)
	}
	if err != nil {
		return nil, err
	}

	if err := utils.StoreCached(platform.EntityShop, filter, shops); err != nil {
		config.GetLogger().Warnf("shop cache store failed: %v", err)
	}
	return shops, nil
}

func fetchInspections(c *gin.Context, client *platform.Client) ([]models.Inspection, error) {
	ctx := c.Request.Context()

	var cached []models.Inspection
	if hit, err := utils.GetCached(platform.EntityInspection, nil, &cached); err == nil && hit {
		return cached, nil
	}

	inspections, err := client.ListInspections(ctx, "-created_date", 0)
	if err != nil {
		return nil, err
	}
	if err := utils.StoreCached(platform.EntityInspection, nil, inspections); err != nil {
		config.GetLogger().Warnf("inspection cache store failed: %v", err)
	}
	return inspections, nil
}

// shopFilterFromQuery picks up the filterable query params the shop list
// supports.
func shopFilterFromQuery(c *gin.Context) map[string]string {
	filter := map[string]string{}
	for _, key := range []string{"municipality", "ward", "compliance_status", "risk_level", "funding_status", "created_by"} {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			filter[key] = v
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

func listShopsHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := fetchShops(c, client, shopFilterFromQuery(c))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": shops, "total": len(shops)})
	}
}

func getShopHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, err := client.GetShop(c.Request.Context(), c.Param("id"))
		if err != nil {
			status := http.StatusBadGateway
			var apiErr *platform.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shop)
	}
}

func createShopHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewShop
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		if err := input.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		created, err := platform.Create[models.Shop](ctx, client, platform.EntityShop, input)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if err := utils.InvalidateEntity(platform.EntityShop); err != nil {
			config.GetLogger().Warnf("shop cache invalidation failed: %v", err)
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateShopHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch map[string]any
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		delete(patch, "id")

		updated, err := platform.Update[models.Shop](c.Request.Context(), client, platform.EntityShop, c.Param("id"), patch)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if err := utils.InvalidateEntity(platform.EntityShop); err != nil {
			config.GetLogger().Warnf("shop cache invalidation failed: %v", err)
		}
		c.JSON(http.StatusOK, updated)
	}
}

func listInspectionsHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if shopId := strings.TrimSpace(c.Query("shop_id")); shopId != "" {
			inspections, err := platform.Filter[models.Inspection](ctx, client, platform.EntityInspection, map[string]any{
				"shop_id": shopId,
			})
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"items": inspections, "total": len(inspections)})
			return
		}

		limit := 0
		if v := strings.TrimSpace(c.Query("limit")); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		inspections, err := client.ListInspections(ctx, "-created_date", limit)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": inspections, "total": len(inspections)})
	}
}

// createInspectionHandler forwards the inspection and refreshes the shop's
// compliance snapshot fields so the next dashboard render sees them.
func createInspectionHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInspection
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		ctx := c.Request.Context()
		record := map[string]any{
			"shop_id":               input.ShopId,
			"total_score":           input.TotalScore,
			"pest_control_passed":   input.PestControlPassed,
			"handwashing_passed":    input.HandwashingPassed,
			"food_storage_passed":   input.FoodStoragePassed,
			"waste_disposal_passed": input.WasteDisposalPassed,
			"labeling_passed":       input.LabelingPassed,
			"notes":                 input.Notes,
			"status":                models.InspectionStatusCompleted,
		}
		if email, ok := utils.GetUserEmailFromContext(ctx); ok {
			record["inspector_email"] = email
			record["inspector_name"] = utils.EmailLocalPart(email)
		}
		if name, ok := utils.GetUserNameFromContext(ctx); ok {
			record["inspector_name"] = name
		}

		created, err := platform.Create[models.Inspection](ctx, client, platform.EntityInspection, record)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		// Snapshot the outcome onto the shop record.
		if input.TotalScore != nil {
			patch := map[string]any{
				"compliance_score":     *input.TotalScore,
				"compliance_status":    complianceStatusForScore(*input.TotalScore),
				"last_inspection_date": created.CreatedDate,
			}
			if _, err := client.UpdateRaw(ctx, platform.EntityShop, input.ShopId, patch); err != nil {
				config.LogError(config.GetLogger(), "handlers", "createInspectionHandler", "shop snapshot", input.ShopId, err)
			}
		}

		if err := utils.InvalidateEntities(platform.EntityInspection, platform.EntityShop); err != nil {
			config.GetLogger().Warnf("cache invalidation failed: %v", err)
		}
		c.JSON(http.StatusCreated, created)
	}
}

// complianceStatusForScore maps an inspection total onto the shop's
// compliance status field.
func complianceStatusForScore(score int) models.ComplianceStatus {
	switch {
	case score >= 80:
		return models.ComplianceStatusCompliant
	case score >= 50:
		return models.ComplianceStatusPartiallyCompliant
	default:
		return models.ComplianceStatusNonCompliant
	}
}
