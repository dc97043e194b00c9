package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// SaleHandler registro y consulta de ventas (protegido).
type SaleHandler struct {
	responder
	register *sales.RegisterSaleUseCase
	query    *sales.QueryUseCase
	reports  *report.ReportUseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(register *sales.RegisterSaleUseCase, query *sales.QueryUseCase, reports *report.ReportUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{responder: newResponder(log), register: register, query: query, reports: reports}
}

// RegisterSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de forma atómica y genera el comprobante PDF.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "Cliente, líneas y método de pago"
// @Success      201   {object}  dto.RegisterSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/sales/register-sale [post]
func (h *SaleHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := h.v.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.register.RegisterWithReceipt(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err)
	}
	sale, err := h.query.GetSale(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (máx 100)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	p, err := h.v.page(c)
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.query.ListSales(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return h.fail(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.NewSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// ReceiptXML godoc
// @Summary      Comprobante XML firmado con digest canónico
// @Tags         sales
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/sales/{id}/receipt.xml [get]
func (h *SaleHandler) ReceiptXML(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err)
	}
	data, name, err := h.reports.ReceiptXML(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return attachment(c, fiber.MIMEApplicationXMLCharsetUTF8, name, data)
}

// Download godoc
// @Summary      Descargar comprobante PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        file  query  string  true  "nombre devuelto en el campo pdf"
// @Success      200   {file}  file
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /v1/sales/download [get]
func (h *SaleHandler) Download(c *fiber.Ctx) error {
	file := c.Query("file")
	data, err := h.reports.DownloadReceipt(c.Context(), file)
	if err != nil {
		return h.fail(c, err)
	}
	return attachment(c, "application/pdf", file, data)
}
