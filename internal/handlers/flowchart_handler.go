package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartEval-2025/assessment-platform/internal/services"
	"github.com/SmartEval-2025/assessment-platform/internal/utils"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type FlowchartHandler struct {
	BaseHandler
	flowchartService services.FlowchartService
}

func NewFlowchartHandler(flowchartService services.FlowchartService, logger utils.Logger) *FlowchartHandler {
	return &FlowchartHandler{
		BaseHandler:      NewBaseHandler(logger),
		flowchartService: flowchartService,
	}
}

// GenerateFallbackFlowchart generates a flowchart diagram from a prompt
// @Summary Generate fallback flowchart
// @Description Generates a deterministic Mermaid flowchart from a text prompt using keyword rules
// @Tags flowchart
// @Accept json
// @Produce json
// @Param request body validator.FlowchartRequest true "Prompt"
// @Success 200 {object} services.FlowchartResponse
// @Failure 400 {object} ErrorResponse
// @Router /flowchart/fallback [post]
func (h *FlowchartHandler) GenerateFallbackFlowchart(c *gin.Context) {
	h.LogRequest(c, "Generating fallback flowchart")

	var req validator.FlowchartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.flowchartService.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
