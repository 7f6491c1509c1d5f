package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/sitetrack-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// @Summary Site Summary
// @Description Total spent per site, approved or not
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/sites [get]
func (h *DashboardHandler) Sites(c *gin.Context) {
	summary, err := h.dashboardService.SiteSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": summary})
}

// @Summary Engineer Summary
// @Description Allocated, spent and remaining balance per engineer
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/engineers [get]
func (h *DashboardHandler) Engineers(c *gin.Context) {
	summary, err := h.dashboardService.EngineerSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"engineers": summary})
}

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// @Summary Export Table
// @Description Downloads one table as CSV
// @Tags Export
// @Produce text/csv
// @Param table path string true "Table name" Enums(companies, engineers, sites, assignments, fund_allocations, expenses, audit_log)
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /export/{table} [get]
func (h *ExportHandler) Table(c *gin.Context) {
	data, filename, err := h.exportService.TableCSV(c.Request.Context(), c.Param("table"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Export Workbook
// @Description Downloads every table as one xlsx workbook
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /export/workbook [get]
func (h *ExportHandler) Workbook(c *gin.Context) {
	data, filename, err := h.exportService.WorkbookXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Export Dashboard
// @Description Downloads the site and engineer summaries as PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {file} file
// @Router /export/dashboard [get]
func (h *ExportHandler) Dashboard(c *gin.Context) {
	data, filename, err := h.exportService.DashboardPDF(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Log
// @Description Audit entries, newest first
// @Tags Audits
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	entries, total, err := h.auditService.List(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"audits":     entries,
		"pagination": gin.H{"page": page, "per_page": perPage, "total": total},
	})
}
