package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrBusy         = errors.New("recurso ocupado, intente de nuevo")

	// Libro de stock.
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a cero")
	ErrInvalidLocations  = errors.New("la ubicación de origen y destino no pueden ser iguales")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Carrito y cobro POS.
	ErrOutOfStock       = errors.New("sin stock en su ubicación")
	ErrEmptyCart        = errors.New("el carrito está vacío")
	ErrValidationFailed = errors.New("validación de líneas fallida")
	ErrRejectedItems    = errors.New("ítems rechazados por el almacén de ventas")
	ErrTransport        = errors.New("fallo de transporte al registrar la venta")
)
