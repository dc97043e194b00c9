package report

import "context"

// Renderer convierte documentos planos en PDF.
type Renderer interface {
	RenderReceipt(ctx context.Context, doc ReceiptDocument) ([]byte, error)
	RenderProductReport(ctx context.Context, r ProductReport) ([]byte, error)
	RenderClientReport(ctx context.Context, r ClientReport) ([]byte, error)
}

// ReceiptXMLRenderer serializa el comprobante como XML con digest canónico.
type ReceiptXMLRenderer interface {
	RenderReceiptXML(doc ReceiptDocument) ([]byte, error)
}

// ReceiptStore guarda y recupera comprobantes por nombre de archivo.
type ReceiptStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) ([]byte, error)
}
