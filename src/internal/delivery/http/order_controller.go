package http

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

type OrderController struct {
	Log      log.Log
	UseCase  *usecase.OrderUseCase
	Dispatch *usecase.DispatchUseCase
}

func NewOrderController(useCase *usecase.OrderUseCase, dispatch *usecase.DispatchUseCase, logger log.Log) *OrderController {
	return &OrderController{
		Log:      logger,
		UseCase:  useCase,
		Dispatch: dispatch,
	}
}

func (c *OrderController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.CustomerID = auth.UserID

	result := c.UseCase.Create(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Created", fiber.StatusCreated, ctx)
}

func (c *OrderController) Get(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GetOrderRequest{
		UserID:  auth.UserID,
		OrderID: ctx.Params("orderId"),
	}
	result := c.UseCase.GetOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Detail", fiber.StatusOK, ctx)
}

func (c *OrderController) Accept(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.AcceptOrderRequest{
		RiderID: auth.UserID,
		OrderID: ctx.Params("orderId"),
	}
	result := c.UseCase.AcceptOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Accepted", fiber.StatusOK, ctx)
}

func (c *OrderController) RequestPriceChange(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RequestPriceChangeRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.RequestPriceChange", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RiderID = auth.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.RequestPriceChange(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Price Change Requested", fiber.StatusOK, ctx)
}

func (c *OrderController) RespondPriceChange(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RespondPriceChangeRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.RespondPriceChange", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.CustomerID = auth.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.RespondToPriceRequest(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Price Change Resolved", fiber.StatusOK, ctx)
}

func (c *OrderController) UpdateStatus(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.UpdateOrderStatusRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.UpdateStatus", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ActorID = auth.UserID
	request.Role = auth.Role
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.UpdateStatus(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Status Updated", fiber.StatusOK, ctx)
}

func (c *OrderController) GenerateOtp(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GenerateOtpRequest{
		RiderID: auth.UserID,
		OrderID: ctx.Params("orderId"),
	}
	result := c.UseCase.GenerateDeliveryOtp(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Delivery Code Sent", fiber.StatusOK, ctx)
}

func (c *OrderController) VerifyOtp(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.VerifyOtpRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.VerifyOtp", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RiderID = auth.UserID
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.VerifyDeliveryOtp(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Delivery Completed", fiber.StatusOK, ctx)
}

func (c *OrderController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CancelOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.Cancel", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ActorID = auth.UserID
	request.Role = auth.Role
	request.OrderID = ctx.Params("orderId")

	result := c.UseCase.CancelOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Order Cancelled", fiber.StatusOK, ctx)
}

func (c *OrderController) NearbyRiders(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.NearbyRidersRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.NearbyRiders", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	result := c.Dispatch.NearbyRiders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Nearby Riders", fiber.StatusOK, ctx)
}
