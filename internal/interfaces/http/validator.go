package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// RequestValidator valida los DTO de entrada según sus tags `validate`.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator crea el validador. Los nombres de campo se reportan con su tag json.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Struct valida req y devuelve un mensaje legible con el primer campo inválido.
func (rv *RequestValidator) Struct(req any) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest // sin el nombre del struct raíz
	}
	if fe.Param() != "" {
		return fmt.Errorf("%s: no cumple %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s: no cumple %s", field, fe.Tag())
}

// requestError entrada HTTP rechazada antes de llegar al caso de uso.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

// bind parsea el cuerpo JSON en req y lo valida.
func (rv *RequestValidator) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return &requestError{code: "INVALID_BODY", msg: "cuerpo inválido"}
	}
	if err := rv.Struct(req); err != nil {
		return &requestError{code: "VALIDATION", msg: err.Error()}
	}
	return nil
}

// page lee limit/offset del query string con los valores por defecto.
func (rv *RequestValidator) page(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, &requestError{code: "VALIDATION", msg: "limit/offset inválidos"}
	}
	if err := rv.Struct(&p); err != nil {
		return p, &requestError{code: "VALIDATION", msg: err.Error()}
	}
	p.DefaultPage()
	return p, nil
}
