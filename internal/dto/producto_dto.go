package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string  `json:"codigo"      validate:"required,max=60"`
	Nombre      string  `json:"nombre"      validate:"required,max=200"`
	Linea       string  `json:"linea"       validate:"max=120"`
	Serie       *string `json:"serie"       validate:"omitempty,max=120"`
	Descripcion *string `json:"descripcion"`
}

// ActualizarProductoRequest lists the mutable product fields.
type ActualizarProductoRequest struct {
	Codigo      Opcional[string] `json:"codigo"`
	Nombre      Opcional[string] `json:"nombre"`
	Linea       Opcional[string] `json:"linea"`
	Serie       Opcional[string] `json:"serie"`
	Descripcion Opcional[string] `json:"descripcion"`
}

type ProductoFilter struct {
	Linea  string `form:"linea"`
	Serie  string `form:"serie"`
	Nombre string `form:"nombre"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          uint    `json:"id"`
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	Linea       string  `json:"linea"`
	Serie       *string `json:"serie"`
	Descripcion *string `json:"descripcion"`
}
