package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"costeodcm/internal/dto"
	"costeodcm/internal/infra"
	"costeodcm/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ListasPreciosHandler serves saved price lists, the stateless preview and
// their XLSX/PDF exports.
type ListasPreciosHandler struct {
	svc     service.ListaPrecioService
	empresa string
}

func NewListasPreciosHandler(svc service.ListaPrecioService, empresa string) *ListasPreciosHandler {
	return &ListasPreciosHandler{svc: svc, empresa: empresa}
}

// Calcular godoc
// @Summary      Calcular lista de precios sin guardar
// @Description  Líneas cuyo ítem no existe se informan con resuelto=false y costo 0.
// @Tags         listas-precios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CalcularListaRequest  true  "Márgenes y líneas"
// @Success      200   {object}  dto.CalcularListaResponse
// @Failure      422   {object}  apierror.ValidationError
// @Router       /api/listas-precios/calcular [post]
func (h *ListasPreciosHandler) Calcular(c *gin.Context) {
	var req dto.CalcularListaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Calcular(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Guardar lista de precios
// @Description  Asigna el siguiente código DCM### y guarda los resultados calculados.
// @Tags         listas-precios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CrearListaPrecioRequest  true  "Lista"
// @Success      201   {object}  dto.ListaPrecioResponse
// @Failure      422   {object}  apierror.ValidationError
// @Router       /api/listas-precios [post]
func (h *ListasPreciosHandler) Crear(c *gin.Context) {
	var req dto.CrearListaPrecioRequest
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

// GuardarCosteo keeps the envelope of the legacy costeo endpoint on top of a
// persisted price list.
func (h *ListasPreciosHandler) GuardarCosteo(c *gin.Context) {
	var req dto.CrearListaPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CosteoGuardadoResponse{
		OK:      true,
		Mensaje: "Costeo guardado correctamente",
		Codigo:  resp.Codigo,
	})
}

func (h *ListasPreciosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListasPreciosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Modificar lista de precios
// @Description  Actualización parcial; si se envía items reemplaza todas las líneas.
// @Tags         listas-precios
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        codigo  path      string                            true  "Código DCM###"
// @Param        body    body      dto.ActualizarListaPrecioRequest  true  "Cambios"
// @Success      200     {object}  dto.ListaPrecioResponse
// @Failure      404     {object}  apierror.APIError
// @Router       /api/listas-precios/{codigo} [put]
func (h *ListasPreciosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarListaPrecioRequest
	if !bindStrict(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("codigo"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListasPreciosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("codigo")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListasPreciosHandler) SiguienteCodigo(c *gin.Context) {
	codigo, err := h.svc.SiguienteCodigo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SiguienteCodigoResponse{Codigo: codigo})
}

// ExportarXLSX godoc
// @Summary      Exportar listas de precios a Excel
// @Tags         listas-precios
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/listas-precios/export.xlsx [get]
func (h *ListasPreciosHandler) ExportarXLSX(c *gin.Context) {
	listas, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.EscribirListasXLSX(&buf, listas); err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("listas_precios_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}

// ExportarPDF godoc
// @Summary      Cotización PDF de una lista de precios
// @Tags         listas-precios
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        codigo  path  string  true  "Código DCM###"
// @Success      200
// @Failure      404  {object}  apierror.APIError
// @Router       /api/listas-precios/{codigo}/pdf [get]
func (h *ListasPreciosHandler) ExportarPDF(c *gin.Context) {
	lista, err := h.svc.Obtener(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.EscribirListaPDF(&buf, h.empresa, lista); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+lista.Codigo+`.pdf"`)
	c.Data(http.StatusOK, mimePDF, buf.Bytes())
}
