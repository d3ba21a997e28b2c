package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veroscale-api/pkg/logger"
)

const localLogger = "logger"

// RequestLogger registra cada petición con zerolog y deja un sublogger con request_id en Locals.
// Va después de requestid.New().
func RequestLogger(log *logger.Logger) fiber.Handler {
	base := log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid, _ := c.Locals("requestid").(string)
		reqLog := base.WithField("request_id", rid)
		c.Locals(localLogger, reqLog)

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := reqLog.Info()
		switch {
		case status >= 500:
			ev = reqLog.Error()
		case status >= 400:
			ev = reqLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición")
		return nil
	}
}

// requestLog logger de la petición; Nop si el middleware no está montado (tests).
func requestLog(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
