package handler

import (
	"net/http"
	"strconv"

	"emesanalytics/internal/apierror"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/service"

	"github.com/gin-gonic/gin"
)

// KPIHandler serves the pure sales aggregations. Every endpoint reads one
// snapshot and has no side effects.
type KPIHandler struct{ svc service.KPIService }

func NewKPIHandler(svc service.KPIService) *KPIHandler { return &KPIHandler{svc: svc} }

// filtro binds the common vendedor/mes query filter. Binding never fails for
// plain string fields; the helper keeps the handlers uniform.
func filtro(c *gin.Context) dto.FiltroAnalitica {
	var f dto.FiltroAnalitica
	_ = c.ShouldBindQuery(&f)
	return f
}

func (h *KPIHandler) Resumen(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.Resumen(f.Vendedor, f.Mes))
}

func (h *KPIHandler) SerieMensual(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.SerieMensual(f.Vendedor))
}

func (h *KPIHandler) DiaSemana(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.DistribucionDiaSemana(f.Vendedor, f.Mes))
}

func (h *KPIHandler) Zonas(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.TotalesPorZona(f.Vendedor, f.Mes))
}

func (h *KPIHandler) FormaPago(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.MixFormaPago(f.Vendedor, f.Mes))
}

// TopClientes returns the top-n clients by net value; n defaults to 10 and is
// capped server-side.
func (h *KPIHandler) TopClientes(c *gin.Context) {
	f := filtro(c)
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro n invalido"))
		return
	}
	if n == 0 || n > 500 {
		n = 500
	}
	c.JSON(http.StatusOK, h.svc.TopClientes(f.Vendedor, f.Mes, n))
}

// Acumuladas totals per client up to and including the month `hasta`.
func (h *KPIHandler) Acumuladas(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.VentasAcumuladas(f.Vendedor, c.Query("hasta")))
}

func (h *KPIHandler) Impactados(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.ClientesImpactados(f.Vendedor))
}

func (h *KPIHandler) DiasSinVenta(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.DiasSinVenta(f.Vendedor))
}

func (h *KPIHandler) EvolucionCliente(c *gin.Context) {
	cliente := c.Query("cliente")
	if cliente == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro cliente requerido"))
		return
	}
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.EvolucionCliente(cliente, f.Vendedor))
}
