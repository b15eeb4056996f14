package handler

import (
	"net/http"
	"strconv"

	"emesanalytics/internal/apierror"
	"emesanalytics/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct{ svc service.ComprasService }

func NewComprasHandler(svc service.ComprasService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

func (h *ComprasHandler) Resumen(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Resumen(c.Query("laboratorio")))
}

func (h *ComprasHandler) Criticos(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "50"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro n invalido"))
		return
	}
	c.JSON(http.StatusOK, h.svc.Criticos(c.Query("laboratorio"), n))
}

func (h *ComprasHandler) Urgencia(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Urgencia(c.Query("laboratorio")))
}
