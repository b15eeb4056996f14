package handler

import (
	"net/http"

	"emesanalytics/internal/service"

	"github.com/gin-gonic/gin"
)

type RFMHandler struct{ svc service.RFMService }

func NewRFMHandler(svc service.RFMService) *RFMHandler { return &RFMHandler{svc: svc} }

// Scores returns the full scored client list of one vendor (or all), ordered
// by rfm_numeric descending.
func (h *RFMHandler) Scores(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.Scores(f.Vendedor))
}

func (h *RFMHandler) Insights(c *gin.Context) {
	f := filtro(c)
	c.JSON(http.StatusOK, h.svc.Insights(f.Vendedor))
}
