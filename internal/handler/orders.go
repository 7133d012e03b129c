package handler

import (
	"net/http"

	"brigade/internal/apierror"
	"brigade/internal/dto"
	"brigade/internal/middleware"
	"brigade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// ProcessOrder godoc
// @Summary      Encaisser une commande
// @Description  Crée une vente ACID : décompte le stock, trace les mouvements et déclenche le ticket PDF asynchrone.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcessOrderRequest true "Détail de la commande"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) ProcessOrder(c *gin.Context) {
	var req dto.ProcessOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ProcessOrder(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VoidSale godoc
// @Summary      Annuler une vente
// @Description  Annule une vente et restaure le stock via des mouvements inverses.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "UUID de la vente"
// @Param        body body dto.VoidSaleRequest true "Motif d'annulation"
// @Success      204
// @Failure      400  {object} apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *OrdersHandler) VoidSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.VoidSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.VoidSale(c.Request.Context(), id, req.Reason); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrdersHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Vente introuvable"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSales returns a paginated, filtered list of sales.
func (h *OrdersHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des ventes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
