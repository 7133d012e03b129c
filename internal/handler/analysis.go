package handler

import (
	"net/http"

	"brigade/internal/apierror"
	"brigade/internal/dto"
	"brigade/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	analysis service.AnalysisService
	plan     service.PlanService
}

func NewAnalysisHandler(analysis service.AnalysisService, plan service.PlanService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, plan: plan}
}

// AnalyzeMenu godoc
// @Summary      Analyse de la carte
// @Description  Marges, food cost et multiplicateurs de chaque plat actif. Mis en cache par version de catalogue.
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.MenuAnalysisResponse
// @Failure      500  {object} apierror.APIError
// @Router       /v1/analysis/menu [get]
func (h *AnalysisHandler) AnalyzeMenu(c *gin.Context) {
	resp, err := h.analysis.AnalyzeMenu(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de l'analyse de la carte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuildPlan godoc
// @Summary      Plan de production
// @Description  Agrège les besoins en ingrédients et préparations pour une prévision de ventes, avec stock disponible et manquants.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.BuildPlanRequest true "Prévision"
// @Success      200  {object} dto.BuildPlanResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/analysis/plan [post]
func (h *AnalysisHandler) BuildPlan(c *gin.Context) {
	var req dto.BuildPlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.plan.BuildPlan(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
