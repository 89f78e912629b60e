package handler

import (
	"net/http"

	"costeodcm/internal/apierror"
	"costeodcm/internal/dto"
	"costeodcm/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct {
	svc       service.ProductoService
	importSvc service.ImportService
}

func NewProductosHandler(svc service.ProductoService, importSvc service.ImportService) *ProductosHandler {
	return &ProductosHandler{svc: svc, importSvc: importSvc}
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindStrict(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "mensaje": "Producto eliminado correctamente"})
}

// Importar godoc
// @Summary      Importar catálogo de productos
// @Description  Formato {linea: {serie: [productos]}}. Entradas sin código se omiten.
// @Tags         productos
// @Security     BearerAuth
// @Accept       json
// @Success      200  {object}  dto.ResumenImport
// @Router       /api/productos/importar [post]
func (h *ProductosHandler) Importar(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el cuerpo"))
		return
	}
	resp, err := h.importSvc.ImportarProductos(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
