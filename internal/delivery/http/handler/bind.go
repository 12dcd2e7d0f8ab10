package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/delivery/http/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindBody decodes the JSON body into dst and applies its validate tags.
func bindBody(c fiber.Ctx, dst any) error {
	if err := c.Bind().Body(dst); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", fields, err)
	}
	return nil
}
