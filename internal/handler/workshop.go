package handler

import (
	"errors"
	"net/http"

	"brigade/internal/apierror"
	"brigade/internal/dto"
	"brigade/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkshopHandler struct{ svc service.WorkshopService }

func NewWorkshopHandler(svc service.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{svc: svc}
}

// GenerateConcept godoc
// @Summary      Générer un concept de recette
// @Description  Demande au modèle un concept de plat autour d'un thème, puis rapproche les ingrédients du catalogue pour estimer le coût.
// @Tags         workshop
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecipeConceptRequest true "Brief créatif"
// @Success      200  {object} dto.RecipeConceptResponse
// @Failure      400  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/workshop/concepts [post]
func (h *WorkshopHandler) GenerateConcept(c *gin.Context) {
	var req dto.RecipeConceptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerateConcept(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrWorkshopUnavailable) {
			c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportConcept persists a generated concept as an inactive dish draft.
func (h *WorkshopHandler) ImportConcept(c *gin.Context) {
	var req dto.ImportConceptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ImportConcept(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
