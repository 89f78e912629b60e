package dto

// ResumenImport counts the outcome of a catalog import.
type ResumenImport struct {
	Creados      int `json:"creados"`
	Actualizados int `json:"actualizados"`
	SinCambios   int `json:"sin_cambios"`
	Omitidos     int `json:"omitidos"`
	Historial    int `json:"historial"`
}
