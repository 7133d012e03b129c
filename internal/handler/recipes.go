package handler

import (
	"net/http"

	"brigade/internal/apierror"
	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecipesHandler struct{ svc service.RecipeService }

func NewRecipesHandler(svc service.RecipeService) *RecipesHandler {
	return &RecipesHandler{svc: svc}
}

// ─── Plats ───────────────────────────────────────────────────────────────────

func (h *RecipesHandler) CreateDish(c *gin.Context) {
	var req dto.CreateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateDish(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipesHandler) ListDishes(c *gin.Context) {
	var filter dto.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListDishes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des plats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) GetDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.GetDish(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Plat introuvable"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) UpdateDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpdateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDish(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) DeleteDish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeleteDish(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Préparations ────────────────────────────────────────────────────────────

func (h *RecipesHandler) CreatePreparation(c *gin.Context) {
	var req dto.CreatePreparationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePreparation(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipesHandler) ListPreparations(c *gin.Context) {
	var filter dto.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListPreparations(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des préparations"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) GetPreparation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.GetPreparation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Préparation introuvable"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) UpdatePreparation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.UpdatePreparationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePreparation(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) DeletePreparation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DeletePreparation(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Composition & coûts ─────────────────────────────────────────────────────

// SetComposition godoc
// @Summary      Remplacer la composition d'une recette
// @Description  Remplace l'ensemble des lignes ingrédients et préparations d'un plat ou d'une préparation. Rejette les cycles.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind path string true "dishes | preparations"
// @Param        id   path string true "UUID de la recette"
// @Param        body body dto.SetCompositionRequest true "Composition complète"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/{kind}/{id}/composition [put]
func (h *RecipesHandler) SetComposition(kind model.ParentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
			return
		}
		var req dto.SetCompositionRequest
		if !bindAndValidate(c, &req) {
			return
		}
		if err := h.svc.SetComposition(c.Request.Context(), kind, id, req); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Cost returns the full recursive cost breakdown of a dish or preparation.
func (h *RecipesHandler) Cost(kind model.ParentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
			return
		}
		resp, err := h.svc.Cost(c.Request.Context(), kind, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SheetPDF streams the technical sheet of a dish as a PDF file.
func (h *RecipesHandler) SheetPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	path, err := h.svc.SheetPDF(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
