package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrClientNotFound     = errors.New("cliente no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrCategoryNotFound   = errors.New("categoría no encontrada")
	ErrSaleNotFound       = errors.New("venta no encontrada")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInUse              = errors.New("el recurso está referenciado por otros registros")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmptySale          = errors.New("la venta debe tener al menos un producto")
	ErrUnreadableStream   = errors.New("no se pudo leer el archivo")
	ErrUnsupportedFormat  = errors.New("formato de archivo no soportado")
)
