package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type AdminController struct {
	Log           log.Log
	OrderUseCase  *usecase.OrderUseCase
	RiderUseCase  *usecase.RiderUseCase
	PayoutUseCase *usecase.PayoutUseCase
}

func NewAdminController(orderUseCase *usecase.OrderUseCase, riderUseCase *usecase.RiderUseCase, payoutUseCase *usecase.PayoutUseCase, logger log.Log) *AdminController {
	return &AdminController{
		Log:           logger,
		OrderUseCase:  orderUseCase,
		RiderUseCase:  riderUseCase,
		PayoutUseCase: payoutUseCase,
	}
}

func (c *AdminController) UpdatePrice(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.AdminUpdatePriceRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.UpdatePrice", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.AdminID = auth.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.OrderUseCase.AdminUpdatePrice(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Price Updated", fiber.StatusOK, ctx)
}

func (c *AdminController) CancelOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CancelOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.CancelOrder", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ActorID = auth.UserID
	request.Role = "admin"
	request.OrderID = ctx.Params("orderId")

	result := c.OrderUseCase.CancelOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Cancelled", fiber.StatusOK, ctx)
}

func (c *AdminController) UnblockRider(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.UnblockRiderRequest{
		AdminID: auth.UserID,
		RiderID: ctx.Params("riderId"),
	}
	result := c.RiderUseCase.UnblockRider(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Rider Unblocked", fiber.StatusOK, ctx)
}

// GetFareConfig exposes the active pricing table for support tooling.
func (c *AdminController) GetFareConfig(ctx *fiber.Ctx) error {
	fare := c.OrderUseCase.Fare
	response := &model.FareConfigResponse{
		MinFare:            fare.MinFare,
		ShortRatePerKm:     fare.ShortRate,
		MediumRatePerKm:    fare.MediumRate,
		LongRatePerKm:      fare.LongRate,
		ShortMaxKm:         fare.ShortMaxKm,
		MediumMaxKm:        fare.MediumMaxKm,
		VehicleMultipliers: fare.Multipliers,
	}
	return utils.Response(response, "Fare Config", fiber.StatusOK, ctx)
}

func (c *AdminController) RunPayoutJob(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RunPayoutJobRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.RunPayoutJob", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.AdminID = auth.UserID

	result := c.PayoutUseCase.RunJob(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Payout Job Completed", fiber.StatusOK, ctx)
}
