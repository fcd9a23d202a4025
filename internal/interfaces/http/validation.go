package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pos/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON parsea y valida el cuerpo. Si falla ya escribió la respuesta 400 y devuelve false.
func bindJSON(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
	}
	if err := validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: CodeValidation, Message: "datos inválidos", Details: fieldErrors(err),
		})
	}
	return true, nil
}

func fieldErrors(err error) []dto.FieldErrorDTO {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dto.FieldErrorDTO, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.FieldErrorDTO{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
