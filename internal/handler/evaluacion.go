package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"emesanalytics/internal/apierror"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/service"
	"emesanalytics/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rankingCacheTTL = 30 * time.Minute

// EvaluacionHandler serves the composite vendor ranking. The ranking scores
// every active vendor, so the response is cached in Redis keyed by metric,
// month and snapshot generation: a new generation invalidates by key change.
type EvaluacionHandler struct {
	svc   service.EvaluacionService
	store *store.Store
	rdb   *redis.Client
}

func NewEvaluacionHandler(svc service.EvaluacionService, st *store.Store, rdb *redis.Client) *EvaluacionHandler {
	return &EvaluacionHandler{svc: svc, store: st, rdb: rdb}
}

func (h *EvaluacionHandler) Ranking(c *gin.Context) {
	metrica := c.DefaultQuery("metrica", "score_total")
	mes := c.Query("mes")
	ctx := c.Request.Context()

	cacheKey := fmt.Sprintf("ranking:%s:%s:g%d", metrica, mes, h.store.Current().Generation)
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp []dto.EvaluacionVendedor
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	resp := h.svc.Ranking(metrica, mes)

	// Best effort, ignore errors.
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, rankingCacheTTL).Err()
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EvaluacionHandler) Evolucion(c *gin.Context) {
	vendedor := c.Query("vendedor")
	if vendedor == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro vendedor requerido"))
		return
	}
	meses, err := strconv.Atoi(c.DefaultQuery("meses", "6"))
	if err != nil || meses < 1 || meses > 24 {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro meses invalido"))
		return
	}
	c.JSON(http.StatusOK, h.svc.Evolucion(vendedor, meses))
}
