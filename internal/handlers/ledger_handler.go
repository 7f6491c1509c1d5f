package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/sitetrack-api/internal/middleware"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/services"
	"github.com/sjperalta/sitetrack-api/internal/storage"
)

type AllocationHandler struct {
	allocationService *services.AllocationService
}

func NewAllocationHandler(allocationService *services.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// @Summary List Fund Allocations
// @Tags Allocations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /allocations [get]
func (h *AllocationHandler) Index(c *gin.Context) {
	allocations, err := h.allocationService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allocations": allocations})
}

type AllocateRequest struct {
	EngineerID string          `json:"engineer_id"`
	SiteID     string          `json:"site_id"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	Date       string          `json:"date" example:"2024-05-01"`
	Notes      string          `json:"notes"`
}

// @Summary Allocate Funds
// @Description Grants funds to an engineer for a site; the balance starts at the full amount
// @Tags Allocations
// @Accept json
// @Produce json
// @Param request body AllocateRequest true "Allocation Data"
// @Success 201 {object} models.FundAllocation
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /allocations [post]
func (h *AllocationHandler) Create(c *gin.Context) {
	var req AllocateRequest
	if err := BindNestedOrFlat(c, "allocation", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	allocation, err := h.allocationService.Allocate(c.Request.Context(), middleware.GetActor(c), services.AllocateInput{
		EngineerID: req.EngineerID,
		SiteID:     req.SiteID,
		Amount:     req.Amount,
		Date:       date,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"allocation": allocation})
}

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// @Summary List Expenses
// @Tags Expenses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /expenses [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	expenses, err := h.expenseService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// @Summary Pending Expenses
// @Description Expenses awaiting approval, newest first
// @Tags Expenses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /expenses/pending [get]
func (h *ExpenseHandler) Pending(c *gin.Context) {
	expenses, err := h.expenseService.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

type CreateExpenseRequest struct {
	SiteID      string          `json:"site_id" form:"site_id"`
	EngineerID  string          `json:"engineer_id" form:"engineer_id"`
	ExpenseType string          `json:"expense_type" form:"expense_type" example:"Material"`
	Amount      decimal.Decimal `json:"amount" form:"-" swaggertype:"string" example:"250.00"`
	Date        string          `json:"date" form:"date" example:"2024-05-02"`
	PaymentMode string          `json:"payment_mode" form:"payment_mode" example:"Cash"`
	Notes       string          `json:"notes" form:"notes"`
}

// @Summary Record Expense
// @Description Records an expense as pending and debits the first matching allocation. Send multipart/form-data to attach a receipt (png, jpg, jpeg or pdf).
// @Tags Expenses
// @Accept json,mpfd
// @Produce json
// @Param request body CreateExpenseRequest false "Expense Data"
// @Param receipt formData file false "Receipt"
// @Success 201 {object} models.Expense
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var (
		req     CreateExpenseRequest
		receipt *services.Receipt
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("amount")))
		if err != nil {
			badRequest(c, "amount must be a number")
			return
		}
		req.Amount = amount

		if file, header, err := c.Request.FormFile("receipt"); err == nil {
			defer file.Close()
			if header.Size > storage.MaxFileSize() {
				badRequest(c, "receipt is too large")
				return
			}
			receipt = &services.Receipt{Filename: header.Filename, Body: file}
		} else if err != http.ErrMissingFile {
			badRequest(c, err.Error())
			return
		}
	} else if err := BindNestedOrFlat(c, "expense", &req); err != nil {
		badRequest(c, err.Error())
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Record(c.Request.Context(), middleware.GetActor(c), services.ExpenseInput{
		SiteID:      req.SiteID,
		EngineerID:  req.EngineerID,
		ExpenseType: req.ExpenseType,
		Amount:      req.Amount,
		Date:        date,
		PaymentMode: req.PaymentMode,
		Notes:       req.Notes,
	}, receipt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// @Summary Download Expense Receipt
// @Tags Expenses
// @Produce application/octet-stream
// @Param expense_id path string true "Expense ID"
// @Param thumbnail query bool false "Image preview instead of the original"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /expenses/{expense_id}/receipt [get]
func (h *ExpenseHandler) Receipt(c *gin.Context) {
	thumbnail := c.Query("thumbnail") == "true"
	f, err := h.expenseService.ReceiptFile(c.Request.Context(), c.Param("expense_id"), thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondError(c, err)
		return
	}

	name := filepath.Base(f.Name())
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", name),
	})
}

// @Summary Approve Expense
// @Tags Expenses
// @Produce json
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} models.Expense
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /expenses/{expense_id}/approve [post]
func (h *ExpenseHandler) Approve(c *gin.Context) {
	expense, err := h.expenseService.Approve(c.Request.Context(), middleware.GetActor(c), c.Param("expense_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// @Summary Reject Expense
// @Description Marks a pending expense as reviewed and not approved
// @Tags Expenses
// @Produce json
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} models.Expense
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /expenses/{expense_id}/reject [post]
func (h *ExpenseHandler) Reject(c *gin.Context) {
	expense, err := h.expenseService.Reject(c.Request.Context(), middleware.GetActor(c), c.Param("expense_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}
