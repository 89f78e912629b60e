package handler

import (
	"net/http"

	"costeodcm/internal/apierror"
	"costeodcm/internal/dto"
	"costeodcm/internal/service"

	"github.com/gin-gonic/gin"
)

type ParametrosHandler struct{ svc service.RecalculoService }

func NewParametrosHandler(svc service.RecalculoService) *ParametrosHandler {
	return &ParametrosHandler{svc: svc}
}

func (h *ParametrosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Parametros(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCoeficienteBlue godoc
// @Summary      Cambiar coeficiente blue y recalcular
// @Description  Guarda el porcentaje, recalcula costo_fabrica de los ítems electrónicos importados
// @Description  y los resultados de todas las listas de precios en una sola transacción.
// @Tags         parametros
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CoeficienteBlueRequest  true  "Porcentaje (10 = 10%)"
// @Success      200   {object}  dto.RecalculoResponse
// @Failure      422   {object}  apierror.APIError
// @Failure      503   {object}  apierror.APIError
// @Router       /api/parametros/coeficiente-blue [put]
func (h *ParametrosHandler) ActualizarCoeficienteBlue(c *gin.Context) {
	var req dto.CoeficienteBlueRequest
	if !bindStrict(c, &req) {
		return
	}
	if req.Valor == nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"valor": "required"}))
		return
	}
	resp, err := h.svc.Recalcular(c.Request.Context(), *req.Valor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
