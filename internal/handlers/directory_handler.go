package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/sitetrack-api/internal/middleware"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/services"
)

type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// @Summary List Companies
// @Tags Companies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /companies [get]
func (h *DirectoryHandler) Companies(c *gin.Context) {
	companies, err := h.directoryService.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// @Summary Create Company
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body services.CompanyInput true "Company Data"
// @Success 201 {object} models.Company
// @Security BearerAuth
// @Router /companies [post]
func (h *DirectoryHandler) CreateCompany(c *gin.Context) {
	var input services.CompanyInput
	if err := BindNestedOrFlat(c, "company", &input); err != nil {
		badRequest(c, err.Error())
		return
	}

	company, err := h.directoryService.CreateCompany(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// @Summary List Engineers
// @Description Lists engineers; active=true keeps only those that can receive allocations
// @Tags Engineers
// @Produce json
// @Param active query bool false "Only active engineers"
// @Success 200 {object} map[string]interface{}
// @Router /engineers [get]
func (h *DirectoryHandler) Engineers(c *gin.Context) {
	var (
		engineers []models.Engineer
		err       error
	)
	if c.Query("active") == "true" {
		engineers, err = h.directoryService.ActiveEngineers(c.Request.Context())
	} else {
		engineers, err = h.directoryService.ListEngineers(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"engineers": engineers})
}

// @Summary Create Engineer
// @Tags Engineers
// @Accept json
// @Produce json
// @Param request body services.EngineerInput true "Engineer Data"
// @Success 201 {object} models.Engineer
// @Security BearerAuth
// @Router /engineers [post]
func (h *DirectoryHandler) CreateEngineer(c *gin.Context) {
	var input services.EngineerInput
	if err := BindNestedOrFlat(c, "engineer", &input); err != nil {
		badRequest(c, err.Error())
		return
	}

	engineer, err := h.directoryService.CreateEngineer(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"engineer": engineer})
}

// @Summary List Sites
// @Tags Sites
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sites [get]
func (h *DirectoryHandler) Sites(c *gin.Context) {
	sites, err := h.directoryService.ListSites(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

type CreateSiteRequest struct {
	Name      string `json:"site_name"`
	Location  string `json:"location"`
	StartDate string `json:"start_date" example:"2024-05-01"`
}

// @Summary Create Site
// @Description Opens an ongoing site
// @Tags Sites
// @Accept json
// @Produce json
// @Param request body CreateSiteRequest true "Site Data"
// @Success 201 {object} models.Site
// @Security BearerAuth
// @Router /sites [post]
func (h *DirectoryHandler) CreateSite(c *gin.Context) {
	var req CreateSiteRequest
	if err := BindNestedOrFlat(c, "site", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	site, err := h.directoryService.CreateSite(c.Request.Context(), middleware.GetActor(c), services.SiteInput{
		Name:      req.Name,
		Location:  req.Location,
		StartDate: start,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"site": site})
}

// @Summary List Assignments
// @Tags Assignments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /assignments [get]
func (h *DirectoryHandler) Assignments(c *gin.Context) {
	assignments, err := h.directoryService.ListAssignments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

type AssignEngineerRequest struct {
	EngineerID string `json:"engineer_id"`
	SiteID     string `json:"site_id"`
	AssignedBy string `json:"assigned_by"`
	AssignedOn string `json:"assigned_on" example:"2024-05-01"`
}

// @Summary Assign Engineer
// @Description Assigns an engineer to a site; assigned_by defaults to the caller
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body AssignEngineerRequest true "Assignment Data"
// @Success 201 {object} models.Assignment
// @Security BearerAuth
// @Router /assignments [post]
func (h *DirectoryHandler) AssignEngineer(c *gin.Context) {
	var req AssignEngineerRequest
	if err := BindNestedOrFlat(c, "assignment", &req); err != nil {
		badRequest(c, err.Error())
		return
	}
	on, err := models.ParseDate(req.AssignedOn)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	assignment, err := h.directoryService.AssignEngineer(c.Request.Context(), middleware.GetActor(c), services.AssignmentInput{
		EngineerID: req.EngineerID,
		SiteID:     req.SiteID,
		AssignedBy: req.AssignedBy,
		AssignedOn: on,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}
