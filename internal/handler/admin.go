package handler

import (
	"net/http"
	"time"

	"emesanalytics/internal/apierror"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/loader"
	"emesanalytics/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operational endpoints: forced reload and snapshot
// diagnostics.
type AdminHandler struct {
	loader *loader.Service
	store  *store.Store
}

func NewAdminHandler(ld *loader.Service, st *store.Store) *AdminHandler {
	return &AdminHandler{loader: ld, store: st}
}

// Reload forces a full reload and installs the new generation before
// responding.
func (h *AdminHandler) Reload(c *gin.Context) {
	snap, err := h.loader.ReloadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Recarga fallida"))
		return
	}
	c.JSON(http.StatusOK, dto.ReloadResponse{
		Generacion: snap.Generation,
		Ventas:     len(snap.Ventas),
		Clientes:   len(snap.Clientes),
		Compras:    len(snap.Compras),
	})
}

func (h *AdminHandler) Estado(c *gin.Context) {
	snap := h.store.Current()
	c.JSON(http.StatusOK, dto.EstadoResponse{
		Generacion: snap.Generation,
		CargadoEn:  snap.CargadoEn.Format(time.RFC3339),
		Filas: map[string]int{
			"ventas":    len(snap.Ventas),
			"clientes":  len(snap.Clientes),
			"convenios": len(snap.Convenios),
			"recibos":   len(snap.Recibos),
			"compras":   len(snap.Compras),
		},
		Descartes:  snap.Descartes,
		Errores:    snap.Errores,
		Vendedores: snap.Vendedores,
		Meses:      snap.Meses,
	})
}
