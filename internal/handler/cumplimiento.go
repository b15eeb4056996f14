package handler

import (
	"net/http"

	"emesanalytics/internal/service"

	"github.com/gin-gonic/gin"
)

type CumplimientoHandler struct{ svc service.CumplimientoService }

func NewCumplimientoHandler(svc service.CumplimientoService) *CumplimientoHandler {
	return &CumplimientoHandler{svc: svc}
}

func (h *CumplimientoHandler) Cuotas(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.Cuotas(f.Vendedor, f.Mes))
}

func (h *CumplimientoHandler) Convenios(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.Convenios(f.Vendedor))
}

func (h *CumplimientoHandler) Recaudo(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.Recaudo(f.Vendedor, f.Mes))
}
