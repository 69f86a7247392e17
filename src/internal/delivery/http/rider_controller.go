package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type RiderController struct {
	Log     log.Log
	UseCase *usecase.RiderUseCase
}

func NewRiderController(useCase *usecase.RiderUseCase, logger log.Log) *RiderController {
	return &RiderController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *RiderController) GetProfile(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	result := c.UseCase.GetProfile(ctx.Context(), auth.UserID)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Rider Profile", fiber.StatusOK, ctx)
}

func (c *RiderController) PostLocation(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RiderLocationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RiderController.PostLocation", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RiderID = auth.UserID

	result := c.UseCase.UpdateLocation(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Location Updated", fiber.StatusOK, ctx)
}

func (c *RiderController) SetOnline(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.SetOnlineRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RiderController.SetOnline", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RiderID = auth.UserID

	result := c.UseCase.SetOnline(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Presence Updated", fiber.StatusOK, ctx)
}

func (c *RiderController) GetWallet(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.WalletRequest{UserID: auth.UserID}
	result := c.UseCase.GetWallet(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet", fiber.StatusOK, ctx)
}

func (c *RiderController) Topup(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.TopupRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RiderController.Topup", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	result := c.UseCase.Topup(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Topped Up", fiber.StatusOK, ctx)
}
