package main

import (
	"bytes"
	"net/http"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/exports"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
	"github.com/gin-gonic/gin"
)

// complianceExportHandler streams the shop compliance report in the requested
// format. PII columns require a coordinator or admin token.
func complianceExportHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "exports.compliance")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		format := c.DefaultQuery("format", exports.CSV)
		switch format {
		case exports.CSV, exports.XML, exports.XLS, exports.XLSX:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format " + format})
			return
		}

		includePII := c.Query("include_pii") == "true"
		if includePII {
			role, _ := utils.GetUserRoleFromContext(ctx)
			if role != models.RoleAdmin && role != models.RoleCoordinator {
				c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		shops, err := fetchShops(c, client, shopFilterFromQuery(c))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		headers := exports.ShopReportHeaders(includePII)
		filename := exports.Filename("spaza_compliance", format, now)
		generatedBy, _ := utils.GetUserEmailFromContext(ctx)

		var body []byte
		switch format {
		case exports.CSV:
			body = []byte(exports.FormatCSV(headers, exports.ShopReportRows(shops, includePII)))
		case exports.XML:
			body = []byte(exports.FormatComplianceXML(exports.ReportMetadata{
				ReportType:   "spaza_compliance",
				GeneratedBy:  generatedBy,
				GeneratedAt:  now,
				TotalRecords: len(shops),
			}, headers, exports.ShopReportRows(shops, includePII)))
		case exports.XLS:
			body = []byte(exports.FormatSpreadsheetML("Compliance", headers, exports.ShopReportCells(shops, includePII)))
		case exports.XLSX:
			workbook, err := exports.BuildWorkbook("Compliance", headers, exports.ShopReportCells(shops, includePII))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			var buf bytes.Buffer
			if err := workbook.Write(&buf); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			body = buf.Bytes()
		}

		archiveReport(c, filename, exports.ContentType(format), body)

		c.Header("Content-Disposition", `attachment; filename=`+filename)
		c.Data(http.StatusOK, exports.ContentType(format), body)
	}
}

// fundingExportHandler produces the NEF funding-readiness report as CSV.
func fundingExportHandler(client *platform.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		shops, err := fetchShops(c, client, nil)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		report := exports.BuildFundingReport(shops)
		rows := append(report.Rows, []string{
			"TOTAL", "", "", "", report.Total.StringFixed(2), "", "", "", "", "",
		})
		body := []byte(exports.FormatCSV(report.Headers, rows))

		filename := exports.Filename("nef_funding", exports.CSV, time.Now())
		archiveReport(c, filename, "text/csv", body)

		c.Header("Content-Disposition", `attachment; filename=`+filename)
		c.Data(http.StatusOK, "text/csv", body)
	}
}

// archiveReport keeps a GCS copy of every generated report when the archive
// bucket is configured. Best effort; the download must not fail because the
// archive did.
func archiveReport(c *gin.Context, filename, contentType string, body []byte) {
	if !utils.ReportArchiveEnabled() {
		return
	}
	if err := utils.ArchiveReportToGCS(c.Request.Context(), filename, contentType, body); err != nil {
		config.LogError(config.GetLogger(), "handlers", "archiveReport", filename, nil, err)
	}
}
