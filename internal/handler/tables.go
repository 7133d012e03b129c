package handler

import (
	"net/http"

	"brigade/internal/apierror"
	"brigade/internal/dto"
	"brigade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TablesHandler struct{ svc service.TableService }

func NewTablesHandler(svc service.TableService) *TablesHandler { return &TablesHandler{svc: svc} }

func (h *TablesHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTable(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TablesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des tables"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TablesHandler) Open(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.OpenTable(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TablesHandler) Free(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.FreeTable(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
