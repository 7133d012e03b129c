package handler

import (
	"net/http"

	"brigade/internal/apierror"
	"brigade/internal/dto"
	"brigade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IngredientsHandler struct{ svc service.CatalogService }

func NewIngredientsHandler(svc service.CatalogService) *IngredientsHandler {
	return &IngredientsHandler{svc: svc}
}

// Create godoc
// @Summary      Créer un ingrédient
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateIngredientRequest true "Ingrédient"
// @Success      201  {object} dto.IngredientResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ingredients [post]
func (h *IngredientsHandler) Create(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *IngredientsHandler) List(c *gin.Context) {
	var filter dto.IngredientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListIngredients(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des ingrédients"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.GetIngredient(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Ingrédient introuvable"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpdateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateIngredient(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeleteIngredient(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Ajuster le stock
// @Description  Correction manuelle du stock, en unités d'achat signées. Trace un mouvement "ajustement".
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de l'ingrédient"
// @Param        body body dto.AdjustStockRequest true "Ajustement"
// @Success      200  {object} dto.IngredientResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ingredients/{id}/stock [post]
func (h *IngredientsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) StockAlerts(c *gin.Context) {
	resp, err := h.svc.StockAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors du calcul des alertes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientsHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtre invalide"))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des mouvements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
