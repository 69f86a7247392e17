package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type PayoutController struct {
	Log     log.Log
	UseCase *usecase.PayoutUseCase
}

func NewPayoutController(useCase *usecase.PayoutUseCase, logger log.Log) *PayoutController {
	return &PayoutController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *PayoutController) List(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListPayoutsRequest{RiderID: auth.UserID}
	result := c.UseCase.ListPayouts(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Payouts", fiber.StatusOK, ctx)
}

func (c *PayoutController) MarkPaid(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.MarkPayoutPaidRequest{
		ActorID:  auth.UserID,
		Role:     auth.Role,
		PayoutID: ctx.Params("payoutId"),
	}
	result := c.UseCase.MarkPaid(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Payout Paid", fiber.StatusOK, ctx)
}
