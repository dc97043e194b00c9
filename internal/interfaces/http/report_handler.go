package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// ReportHandler reportes PDF del back-office.
type ReportHandler struct {
	responder
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{responder: newResponder(log), uc: uc}
}

// Products godoc
// @Summary      Reporte de inventario (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /v1/reports/products [get]
func (h *ReportHandler) Products(c *fiber.Ctx) error {
	data, err := h.uc.ProductReportPDF(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return attachment(c, "application/pdf", datedName("reporte_productos"), data)
}

// Clients godoc
// @Summary      Reporte de clientes (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /v1/reports/clients [get]
func (h *ReportHandler) Clients(c *fiber.Ctx) error {
	data, err := h.uc.ClientReportPDF(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return attachment(c, "application/pdf", datedName("reporte_clientes"), data)
}

func datedName(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102") + ".pdf"
}
