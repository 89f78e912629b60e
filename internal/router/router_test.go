package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"costeodcm/internal/config"
	"costeodcm/internal/dto"
	"costeodcm/internal/infra"
	"costeodcm/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	engine   *gin.Engine
	admin    string
	vendedor string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infra.NewDatabase(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     testSecret,
		CORSOrigins:   "*",
		EmpresaNombre: "DCM Test",
	}
	return &testEnv{
		engine:   New(t.Context(), cfg, db, nil),
		admin:    signToken(t, middleware.RolAdmin),
		vendedor: signToken(t, middleware.RolVendedor),
	}
}

func signToken(t *testing.T, rol string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "user-" + rol, "rol": rol,
		"exp": time.Now().Add(time.Hour).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestRootYHealth(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Backend de Costeo DCM activo")

	w = e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestRoles(t *testing.T) {
	e := setupTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/costos", "", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/costos", e.vendedor, nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.vendedor,
		map[string]any{"valor": 10}).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPost, "/api/costos", e.vendedor,
		map[string]any{"tipo": "Mecanica", "denominacion": "X"}).Code)
}

func TestFlujoCoeficienteBlue(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/costos", e.admin, map[string]any{
		"tipo": "Electronica", "subtipo": "Placas", "codigo": "EL-1", "denominacion": "Placa",
		"costo_fob": 100, "coeficiente": 1.5, "costo_fabrica": 150,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[dto.CostoItemResponse](t, w)

	w = e.do(t, http.MethodPost, "/api/listas-precios", e.admin, map[string]any{
		"nombre":     "Tablero",
		"eventuales": 10, "garantia": 0, "burden": 0, "gp_cliente": 0, "gp_integrador": 0,
		"items": []map[string]any{{"item_id": item.ID, "cantidad": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lista := decode[dto.ListaPrecioResponse](t, w)
	assert.Equal(t, "DCM001", lista.Codigo)
	assertDec(t, "330", lista.CostoTotal)

	w = e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.admin, map[string]any{"valor": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[dto.RecalculoResponse](t, w)
	assert.Equal(t, 1, res.ItemsActualizados)
	assert.Equal(t, 1, res.ListasRecalculadas)

	w = e.do(t, http.MethodGet, "/api/listas-precios/DCM001", e.vendedor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lista = decode[dto.ListaPrecioResponse](t, w)
	assertDec(t, "330", lista.CostoDirecto)
	assertDec(t, "363", lista.CostoTotal)

	w = e.do(t, http.MethodGet, "/api/costos/1/historial", e.vendedor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[[]dto.CostoHistorialResponse](t, w)
	require.Len(t, hist, 1)
	assertDec(t, "150", hist[0].CostoFabrica.Decimal)
}

func TestCoeficienteBlue_Validaciones(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.admin, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.admin, map[string]any{"valor": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.admin, `{"valor": 10.123456789}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.admin, `{"valor": 10000000000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPut, "/api/parametros/coeficiente-blue", e.admin, map[string]any{"valor": 0})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActualizarCosto(t *testing.T) {
	e := setupTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/costos", e.admin, map[string]any{
		"tipo": "Mecanica", "denominacion": "Gabinete", "costo_fabrica": 80,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPut, "/api/costos/1", e.admin, `{"costo_fabrica": 95}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.ActualizarCostoResponse](t, w)
	assert.True(t, resp.OK)
	assert.True(t, resp.HistorialRegistrado)
	assert.Equal(t, "Ítem actualizado correctamente y guardado en historial", resp.Mensaje)

	w = e.do(t, http.MethodPut, "/api/costos/1", e.admin, `{"campo_inexistente": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPut, "/api/costos/99", e.admin, `{"unidad": "m"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPut, "/api/costos/abc", e.admin, `{"unidad": "m"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodDelete, "/api/costos/1", e.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCalcularYCosteos(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/listas-precios/calcular", e.vendedor, map[string]any{
		"gp_cliente": 20,
		"items":      []map[string]any{{"item_id": 42, "cantidad": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	calc := decode[dto.CalcularListaResponse](t, w)
	require.Len(t, calc.Lineas, 1)
	assert.False(t, calc.Lineas[0].Resuelto)

	w = e.do(t, http.MethodPost, "/api/listas-precios/calcular", e.vendedor, map[string]any{
		"items": []map[string]any{{"item_id": 0, "cantidad": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPost, "/api/listas-precios/calcular", e.vendedor, `{"eventuales": 1000000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPost, "/api/costeos", e.admin, `{"nombre": "X", "gp_cliente": 12.345}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPost, "/api/costeos", e.admin, map[string]any{"nombre": "Presupuesto"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	guardado := decode[dto.CosteoGuardadoResponse](t, w)
	assert.True(t, guardado.OK)
	assert.Equal(t, "DCM001", guardado.Codigo)

	w = e.do(t, http.MethodGet, "/api/listas-precios/siguiente-codigo", e.vendedor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DCM002", decode[dto.SiguienteCodigoResponse](t, w).Codigo)
}

func TestExportaciones(t *testing.T) {
	e := setupTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/listas-precios", e.admin, map[string]any{"nombre": "Kit"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/listas-precios/export.xlsx", e.vendedor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, "PK", w.Body.String()[:2])

	w = e.do(t, http.MethodGet, "/api/listas-precios/DCM001/pdf", e.vendedor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-", w.Body.String()[:5])

	w = e.do(t, http.MethodGet, "/api/listas-precios/DCM404/pdf", e.vendedor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportarYProductos(t *testing.T) {
	e := setupTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/productos/importar", e.admin,
		`{"Tableros": {"Serie 100": [{"codigo": "T-1", "nombre": "Tablero"}, {"nombre": "sin codigo"}]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[dto.ResumenImport](t, w)
	assert.Equal(t, 1, res.Creados)
	assert.Equal(t, 1, res.Omitidos)

	w = e.do(t, http.MethodPost, "/api/productos", e.admin, map[string]any{"codigo": "T-1", "nombre": "Otro"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPut, "/api/productos/1", e.admin, `{"serie": null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[dto.ProductoResponse](t, w).Serie)

	w = e.do(t, http.MethodPost, "/api/costos/importar", e.admin, `{"Mecanica": {"Perfiles": [{"codigo": "P-1", "denominacion": "Perfil"}]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[dto.ResumenImport](t, w).Creados)

	w = e.do(t, http.MethodPost, "/api/costos/importar", e.admin, `no es json`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
