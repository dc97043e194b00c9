package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// responder comparte validación de entrada y traducción de errores entre handlers.
type responder struct {
	v   *RequestValidator
	log *logger.Logger
}

// validate es seguro para uso concurrente y cachea los structs ya vistos.
var validate = NewRequestValidator()

func newResponder(log *logger.Logger) responder {
	if log == nil {
		log = logger.Nop()
	}
	return responder{v: validate, log: log.Named("http")}
}

func (r responder) fail(c *fiber.Ctx, err error) error {
	return writeError(c, r.log, err)
}

// attachment envía data como descarga con el tipo de contenido indicado.
func attachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
