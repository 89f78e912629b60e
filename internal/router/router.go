package router

import (
	"context"
	"time"

	"costeodcm/internal/config"
	"costeodcm/internal/handler"
	"costeodcm/internal/infra"
	"costeodcm/internal/middleware"
	"costeodcm/internal/repository"
	"costeodcm/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// rdb may be nil, which disables the price list cache. Background work started
// here (rate limiter purge) stops when ctx is done.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origenes()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	var cache service.CacheListas
	if rdb != nil {
		cache = infra.NewListaCache(rdb, cfg.CacheTTL())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	itemRepo := repository.NewCostoItemRepository(db)
	historialRepo := repository.NewCostoHistorialRepository(db)
	listaRepo := repository.NewListaPrecioRepository(db)
	parametroRepo := repository.NewParametroRepository(db)
	productoRepo := repository.NewProductoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	costoSvc := service.NewCostoService(itemRepo, historialRepo, cache)
	listaSvc := service.NewListaPrecioService(listaRepo, itemRepo, cache)
	recalculoSvc := service.NewRecalculoService(itemRepo, historialRepo, listaRepo, parametroRepo, cache)
	productoSvc := service.NewProductoService(productoRepo)
	importSvc := service.NewImportService(itemRepo, historialRepo, productoRepo, cache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	costosH := handler.NewCostosHandler(costoSvc, importSvc)
	listasH := handler.NewListasPreciosHandler(listaSvc, cfg.EmpresaNombre)
	parametrosH := handler.NewParametrosHandler(recalculoSvc)
	productosH := handler.NewProductosHandler(productoSvc, importSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/", handler.Root)
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret))

	// Reads: admin or vendedor
	lectura := api.Group("", middleware.RequireRole(middleware.RolAdmin, middleware.RolVendedor))
	{
		lectura.GET("/costos", costosH.Listar)
		lectura.GET("/costos/:id", costosH.ObtenerPorID)
		lectura.GET("/costos/:id/historial", costosH.Historial)

		lectura.GET("/productos", productosH.Listar)
		lectura.GET("/productos/:id", productosH.ObtenerPorID)

		lectura.GET("/parametros", parametrosH.Listar)

		lectura.GET("/listas-precios", listasH.Listar)
		lectura.GET("/listas-precios/siguiente-codigo", listasH.SiguienteCodigo)
		lectura.GET("/listas-precios/export.xlsx", listasH.ExportarXLSX)
		lectura.GET("/listas-precios/:codigo", listasH.Obtener)
		lectura.GET("/listas-precios/:codigo/pdf", listasH.ExportarPDF)
		lectura.POST("/listas-precios/calcular", listasH.Calcular)
	}

	// Writes and recalculation: admin only
	escritura := api.Group("", middleware.RequireRole(middleware.RolAdmin))
	{
		escritura.POST("/costos", costosH.Crear)
		escritura.POST("/costos/importar", costosH.Importar)
		escritura.PUT("/costos/:id", costosH.Actualizar)
		escritura.DELETE("/costos/:id", costosH.Eliminar)

		escritura.POST("/productos", productosH.Crear)
		escritura.POST("/productos/importar", productosH.Importar)
		escritura.PUT("/productos/:id", productosH.Actualizar)
		escritura.DELETE("/productos/:id", productosH.Eliminar)

		escritura.PUT("/parametros/coeficiente-blue", parametrosH.ActualizarCoeficienteBlue)

		escritura.POST("/listas-precios", listasH.Crear)
		escritura.PUT("/listas-precios/:codigo", listasH.Actualizar)
		escritura.DELETE("/listas-precios/:codigo", listasH.Eliminar)
		escritura.POST("/costeos", listasH.GuardarCosteo)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
