package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/importer"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportHandler importación masiva desde Excel/CSV (solo admin).
type ImportHandler struct {
	responder
	svc      *importer.Service
	maxBytes int64
}

// NewImportHandler construye el handler. maxUploadMB <= 0 desactiva el límite propio
// (queda el BodyLimit de fiber).
func NewImportHandler(svc *importer.Service, maxUploadMB int, log *logger.Logger) *ImportHandler {
	return &ImportHandler{responder: newResponder(log), svc: svc, maxBytes: int64(maxUploadMB) << 20}
}

// Import godoc
// @Summary      Importar clientes, productos y ventas
// @Description  Cada fila se clasifica por sus encabezados (kind=mixed) o se fuerza un tipo. Los errores se reportan por fila.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   ".xlsx o .csv"
// @Param        kind  query     string  false  "mixed | client | product | sale | saleitem"
// @Success      200   {object}  dto.ImportResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /v1/imports [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart 'file' requerido"})
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera %d MB", h.maxBytes>>20),
		})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	res, err := h.svc.Import(c.Context(), f, fh.Filename, c.Query("kind", importer.KindMixed))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewImportResultResponse(res))
}

// Template godoc
// @Summary      Descargar plantilla de importación
// @Tags         imports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /v1/imports/template [get]
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	data, err := h.svc.Template()
	if err != nil {
		return h.fail(c, err)
	}
	return attachment(c, xlsxMIME, importer.TemplateFilename, data)
}
