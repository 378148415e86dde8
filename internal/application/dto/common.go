package dto

// ErrorResponse formato uniforme de error para la API.
// Code es estable para manejo programático (ej. BIZ_001).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
