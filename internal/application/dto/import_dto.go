package dto

import "github.com/jhoicas/Ventas-api/internal/domain/importer"

// ImportErrorResponse error de una fila importada.
type ImportErrorResponse struct {
	Row     int    `json:"row" yaml:"row"`
	Sheet   string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// ImportResultResponse resumen de una importación masiva.
type ImportResultResponse struct {
	Success      bool                  `json:"success" yaml:"success"`
	TotalRows    int                   `json:"total_rows" yaml:"total_rows"`
	Inserted     int                   `json:"inserted" yaml:"inserted"`
	Updated      int                   `json:"updated" yaml:"updated"`
	Errors       int                   `json:"errors" yaml:"errors"`
	ErrorDetails []ImportErrorResponse `json:"error_details" yaml:"error_details"`
}

// NewImportResultResponse mapea el resultado del pipeline.
func NewImportResultResponse(r *importer.ImportResult) ImportResultResponse {
	details := make([]ImportErrorResponse, 0, len(r.ErrorList))
	for _, e := range r.ErrorList {
		details = append(details, ImportErrorResponse{Row: e.Row, Sheet: e.Sheet, Field: e.Field, Message: e.Message})
	}
	return ImportResultResponse{
		Success:      r.Success(),
		TotalRows:    r.TotalRows,
		Inserted:     r.Inserted,
		Updated:      r.Updated,
		Errors:       r.Errors,
		ErrorDetails: details,
	}
}
