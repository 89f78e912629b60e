package handler

import (
	"net/http"

	"costeodcm/internal/apierror"
	"costeodcm/internal/dto"
	"costeodcm/internal/service"

	"github.com/gin-gonic/gin"
)

type CostosHandler struct {
	svc       service.CostoService
	importSvc service.ImportService
}

func NewCostosHandler(svc service.CostoService, importSvc service.ImportService) *CostosHandler {
	return &CostosHandler{svc: svc, importSvc: importSvc}
}

// Crear godoc
// @Summary      Crear ítem de costo
// @Tags         costos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CrearCostoItemRequest  true  "Ítem"
// @Success      201   {object}  dto.CostoItemResponse
// @Failure      409   {object}  apierror.APIError
// @Failure      422   {object}  apierror.ValidationError
// @Router       /api/costos [post]
func (h *CostosHandler) Crear(c *gin.Context) {
	var req dto.CrearCostoItemRequest
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

// Listar godoc
// @Summary      Listar ítems de costo
// @Tags         costos
// @Security     BearerAuth
// @Param        tipo     query  string  false  "Tipo"
// @Param        subtipo  query  string  false  "Subtipo"
// @Param        codigo   query  string  false  "Código exacto"
// @Success      200      {array}  dto.CostoItemResponse
// @Router       /api/costos [get]
func (h *CostosHandler) Listar(c *gin.Context) {
	var filter dto.CostoItemFilter
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

func (h *CostosHandler) ObtenerPorID(c *gin.Context) {
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

// Actualizar godoc
// @Summary      Actualizar ítem de costo
// @Description  Actualización parcial. Un cambio en costo_fabrica, costo_fob o coeficiente
// @Description  guarda antes una fila de historial con los valores anteriores.
// @Tags         costos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                             true  "ID del ítem"
// @Param        body  body      dto.ActualizarCostoItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ActualizarCostoResponse
// @Failure      400   {object}  apierror.APIError
// @Failure      404   {object}  apierror.APIError
// @Failure      503   {object}  apierror.APIError
// @Router       /api/costos/{id} [put]
func (h *CostosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarCostoItemRequest
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

func (h *CostosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "mensaje": "Ítem eliminado correctamente"})
}

// Historial godoc
// @Summary      Historial de costos de un ítem
// @Description  Valores anteriores a cada cambio, del más reciente al más antiguo.
// @Tags         costos
// @Security     BearerAuth
// @Param        id   path     int  true  "ID del ítem"
// @Success      200  {array}  dto.CostoHistorialResponse
// @Router       /api/costos/{id}/historial [get]
func (h *CostosHandler) Historial(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Importar godoc
// @Summary      Importar catálogo de costos
// @Description  Acepta {tipo: {subtipo: [items]}} o {tipo: {subtipo: {variante: [items]}}}.
// @Tags         costos
// @Security     BearerAuth
// @Accept       json
// @Success      200  {object}  dto.ResumenImport
// @Failure      422  {object}  apierror.APIError
// @Router       /api/costos/importar [post]
func (h *CostosHandler) Importar(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el cuerpo"))
		return
	}
	resp, err := h.importSvc.ImportarCostos(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
