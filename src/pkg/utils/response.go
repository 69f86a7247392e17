package utils

import (
	httpError "dispatch-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

type responseBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(responseBody{
		Success: true,
		Message: message,
		Code:    code,
		Data:    data,
	})
}

func ResponseError(err interface{}, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return ctx.Status(commonErr.Code).JSON(responseBody{
			Success: false,
			Message: commonErr.Message,
			Code:    commonErr.Code,
		})
	}
	if e, ok := err.(error); ok {
		return ctx.Status(fiber.StatusInternalServerError).JSON(responseBody{
			Success: false,
			Message: e.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(responseBody{
		Success: false,
		Message: "internal server error",
		Code:    fiber.StatusInternalServerError,
	})
}
