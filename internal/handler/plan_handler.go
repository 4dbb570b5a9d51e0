package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora/studyplan-api/internal/models"
	"github.com/lumora/studyplan-api/internal/service"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
	"github.com/lumora/studyplan-api/pkg/response"
)

// PlanHandler wires HTTP endpoints to the plan and export services.
type PlanHandler struct {
	plans   *service.PlanService
	exports *service.ExportService
}

// NewPlanHandler creates a new handler.
func NewPlanHandler(plans *service.PlanService, exports *service.ExportService) *PlanHandler {
	return &PlanHandler{plans: plans, exports: exports}
}

// Generate godoc
// @Summary Generate study plan
// @Description Build a fresh study plan from the user's subjects and replace the stored one
// @Tags Plan
// @Accept json
// @Produce json
// @Param payload body models.GeneratePlanRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /plan/generate [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.GeneratePlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
			return
		}
	}

	summary, err := h.plans.Generate(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// Get godoc
// @Summary Get stored study plan
// @Description Returns the user's most recently generated plan
// @Tags Plan
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /plan [get]
func (h *PlanHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.plans.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Export godoc
// @Summary Export study plan
// @Description Download the stored plan as CSV or PDF
// @Tags Plan
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plan/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.ExportPlan(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
