package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/pkg/log"
)

// NewLogger emits one structured access line per request.
func NewLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		logger := log.GetLogger()
		logger.Info("http",
			ctx.Method()+" "+ctx.Path(),
			"access",
			time.Since(start).String(),
		)
		return err
	}
}
