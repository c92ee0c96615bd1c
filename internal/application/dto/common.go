package dto

import "github.com/google/uuid"

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple para acciones sin cuerpo propio.
type MessageResponse struct {
	Message string `json:"message"`
}

// Page normaliza limit/offset: limit <= 0 usa def, se recorta a max; offset negativo pasa a 0.
func Page(limit, offset, def, max int) PageResponse {
	if limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return PageResponse{Limit: limit, Offset: offset}
}

// ValidID indica si id es un UUID válido.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
