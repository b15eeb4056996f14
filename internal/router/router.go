package router

import (
	"time"

	"emesanalytics/internal/cache"
	"emesanalytics/internal/config"
	"emesanalytics/internal/dto"
	"emesanalytics/internal/handler"
	"emesanalytics/internal/loader"
	"emesanalytics/internal/middleware"
	"emesanalytics/internal/service"
	"emesanalytics/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store/Loader ← Firebase/DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, st *store.Store, ld *loader.Service) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Services ─────────────────────────────────────────────────────────────
	rfmMemo := cache.NewMemo[[]dto.RFMScore](cfg.CacheTTLGeneraciones)

	kpiSvc := service.NewKPIService(st)
	rfmSvc := service.NewRFMService(st, rfmMemo, cfg.RFMHistoriaMeses, cfg.CrecimientoMeses)
	cumplimientoSvc := service.NewCumplimientoService(st)
	evaluacionSvc := service.NewEvaluacionService(st, cumplimientoSvc, cfg.TotalProductos, cfg.TotalProveedores, cfg.CrecimientoMeses)
	comprasSvc := service.NewComprasService(st)

	// ── Handlers ─────────────────────────────────────────────────────────────
	kpiH := handler.NewKPIHandler(kpiSvc)
	rfmH := handler.NewRFMHandler(rfmSvc)
	cumplimientoH := handler.NewCumplimientoHandler(cumplimientoSvc)
	evaluacionH := handler.NewEvaluacionHandler(evaluacionSvc, st, rdb)
	comprasH := handler.NewComprasHandler(comprasSvc)
	adminH := handler.NewAdminHandler(ld, st)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, st))

	v1 := r.Group("/v1")
	{
		kpi := v1.Group("/kpi")
		{
			kpi.GET("/resumen", kpiH.Resumen)
			kpi.GET("/mensual", kpiH.SerieMensual)
			kpi.GET("/dia-semana", kpiH.DiaSemana)
			kpi.GET("/zonas", kpiH.Zonas)
			kpi.GET("/forma-pago", kpiH.FormaPago)
			kpi.GET("/top-clientes", kpiH.TopClientes)
			kpi.GET("/acumuladas", kpiH.Acumuladas)
			kpi.GET("/impactados", kpiH.Impactados)
			kpi.GET("/dias-sin-venta", kpiH.DiasSinVenta)
			kpi.GET("/evolucion-cliente", kpiH.EvolucionCliente)
		}

		rfm := v1.Group("/rfm")
		{
			rfm.GET("/scores", rfmH.Scores)
			rfm.GET("/insights", rfmH.Insights)
		}

		cumplimiento := v1.Group("/cumplimiento")
		{
			cumplimiento.GET("/cuotas", cumplimientoH.Cuotas)
			cumplimiento.GET("/convenios", cumplimientoH.Convenios)
			cumplimiento.GET("/recaudo", cumplimientoH.Recaudo)
		}

		evaluacion := v1.Group("/evaluacion")
		{
			evaluacion.GET("/ranking", evaluacionH.Ranking)
			evaluacion.GET("/evolucion", evaluacionH.Evolucion)
		}

		compras := v1.Group("/compras")
		{
			compras.GET("/resumen", comprasH.Resumen)
			compras.GET("/criticos", comprasH.Criticos)
			compras.GET("/urgencia", comprasH.Urgencia)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/reload", adminH.Reload)
			admin.GET("/estado", adminH.Estado)
		}
	}

	return r
}
