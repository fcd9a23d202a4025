package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/sales"
	"github.com/jhoicas/Inventario-pos/internal/domain"
)

// Códigos de error de la API.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInvalidLocations  = "INVALID_LOCATIONS"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeOutOfStock        = "OUT_OF_STOCK"
	CodeEmptyCart         = "EMPTY_CART"
	CodeRejectedItems     = "REJECTED_ITEMS"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeBusy              = "BUSY"
	CodeTransport         = "TRANSPORT"
	CodeInternal          = "INTERNAL"
)

// errorMapper traduce errores de dominio a respuestas HTTP.
type errorMapper struct {
	logger zerolog.Logger
}

// respond escribe la respuesta de error. Los errores no reconocidos se registran y devuelven 500.
func (m errorMapper) respond(c *fiber.Ctx, err error) error {
	status, body := m.translate(err)
	if status == fiber.StatusInternalServerError {
		m.logger.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("unhandled error")
	}
	return c.Status(status).JSON(body)
}

func (m errorMapper) translate(err error) (int, dto.ErrorResponse) {
	var (
		validationErr *pos.ValidationError
		rejectedErr   *pos.RejectedError
		storeRejected *sales.RejectedItemsError
	)
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: CodeValidation, Message: "hay líneas inválidas en el carrito", Details: validationErr.Lines,
		}
	case errors.As(err, &rejectedErr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: CodeRejectedItems, Message: domain.ErrRejectedItems.Error(), Details: rejectedItemsDTO(rejectedErr.Items),
		}
	case errors.As(err, &storeRejected):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: CodeRejectedItems, Message: domain.ErrRejectedItems.Error(), Details: rejectedItemsDTO(storeRejected.Items),
		}
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{
			Code: CodeTransport, Message: "no se pudo registrar la venta, el carrito se conserva; intente de nuevo",
		}
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInvalidQuantity, Message: domain.ErrInvalidQuantity.Error()}
	case errors.Is(err, domain.ErrInvalidLocations):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInvalidLocations, Message: domain.ErrInvalidLocations.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeInsufficientStock, Message: "Out of Stock at your location"}
	case errors.Is(err, domain.ErrOutOfStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeOutOfStock, Message: domain.ErrOutOfStock.Error()}
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: CodeEmptyCart, Message: domain.ErrEmptyCart.Error()}
	case errors.Is(err, domain.ErrValidationFailed), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: "datos inválidos"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: domain.ErrForbidden.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: "token inválido"}
	case errors.Is(err, domain.ErrBusy):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeBusy, Message: domain.ErrBusy.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "error interno"}
	}
}
