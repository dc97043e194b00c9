package report

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// ReportUseCase genera comprobantes de venta y reportes del back-office.
type ReportUseCase struct {
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	renderer    Renderer
	xml         ReceiptXMLRenderer
	store       ReceiptStore
	log         *logger.Logger
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReportUseCase(
	saleRepo repository.SaleRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	renderer Renderer,
	xml ReceiptXMLRenderer,
	store ReceiptStore,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		saleRepo:    saleRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		renderer:    renderer,
		xml:         xml,
		store:       store,
		log:         log.Named("report"),
		now:         time.Now,
	}
}

// ReceiptFilename nombre del PDF de una venta.
func ReceiptFilename(reference string) string {
	return "comprobante_" + reference + ".pdf"
}

// IssueReceipt renderiza el comprobante PDF de la venta y lo guarda. Devuelve el nombre del archivo.
func (uc *ReportUseCase) IssueReceipt(ctx context.Context, sale *entity.Sale) (string, error) {
	doc, err := uc.receiptDocument(ctx, sale)
	if err != nil {
		return "", err
	}
	pdf, err := uc.renderer.RenderReceipt(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("report: renderizar comprobante: %w", err)
	}
	name := ReceiptFilename(sale.Reference)
	if err := uc.store.Save(ctx, name, pdf); err != nil {
		return "", fmt.Errorf("report: guardar comprobante: %w", err)
	}
	uc.log.Debug().Str("file", name).Int("bytes", len(pdf)).Msg("comprobante generado")
	return name, nil
}

// DownloadReceipt devuelve un comprobante guardado. Solo acepta nombres simples .pdf.
func (uc *ReportUseCase) DownloadReceipt(ctx context.Context, file string) ([]byte, error) {
	if !ValidReceiptName(file) {
		return nil, fmt.Errorf("%w: nombre de archivo inválido", domain.ErrInvalidInput)
	}
	return uc.store.Open(ctx, file)
}

// ValidReceiptName rechaza rutas, ".." y extensiones distintas de .pdf.
func ValidReceiptName(file string) bool {
	if file == "" || strings.ContainsAny(file, `/\`) || strings.Contains(file, "..") {
		return false
	}
	return path.Base(file) == file && strings.EqualFold(path.Ext(file), ".pdf")
}

// ReceiptXML comprobante XML de una venta existente.
func (uc *ReportUseCase) ReceiptXML(ctx context.Context, saleID int64) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrSaleNotFound
	}
	if sale.Items, err = uc.saleRepo.GetItems(ctx, saleID); err != nil {
		return nil, "", fmt.Errorf("report: obtener líneas: %w", err)
	}
	doc, err := uc.receiptDocument(ctx, sale)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.xml.RenderReceiptXML(doc)
	if err != nil {
		return nil, "", fmt.Errorf("report: generar XML: %w", err)
	}
	return data, "comprobante_" + sale.Reference + ".xml", nil
}

// ProductReportPDF reporte de inventario de todos los productos.
func (uc *ReportUseCase) ProductReportPDF(ctx context.Context) ([]byte, error) {
	products, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("report: listar productos: %w", err)
	}
	return uc.renderer.RenderProductReport(ctx, FormatProductReport(products, uc.now()))
}

// ClientReportPDF listado de todos los clientes.
func (uc *ReportUseCase) ClientReportPDF(ctx context.Context) ([]byte, error) {
	clients, err := uc.clientRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("report: listar clientes: %w", err)
	}
	return uc.renderer.RenderClientReport(ctx, FormatClientReport(clients, uc.now()))
}

// receiptDocument resuelve cliente y nombres de producto (con fallback) y formatea.
func (uc *ReportUseCase) receiptDocument(ctx context.Context, sale *entity.Sale) (ReceiptDocument, error) {
	client, err := uc.clientRepo.GetByID(ctx, sale.ClientID)
	if err != nil {
		return ReceiptDocument{}, fmt.Errorf("report: obtener cliente: %w", err)
	}
	names := make(map[int64]string, len(sale.Items))
	for _, it := range sale.Items {
		if _, seen := names[it.ProductID]; seen {
			continue
		}
		if p, pErr := uc.productRepo.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			names[it.ProductID] = p.Name
		}
	}
	return FormatSaleReceipt(sale, client, names), nil
}
