package route

import (
	"github.com/gofiber/fiber/v2"

	"dispatch-service/src/internal/delivery/http"
	"dispatch-service/src/internal/delivery/http/middleware"
)

type RouteConfig struct {
	App              *fiber.App
	OrderController  *http.OrderController
	RiderController  *http.RiderController
	PayoutController *http.PayoutController
	AdminController  *http.AdminController
	AuthMiddleware   fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	// customer + rider order flow
	c.App.Post("/orders/v1", c.OrderController.Create)
	c.App.Get("/orders/v1/:orderId", c.OrderController.Get)
	c.App.Post("/orders/v1/:orderId/accept", c.OrderController.Accept)
	c.App.Post("/orders/v1/:orderId/price-change", c.OrderController.RequestPriceChange)
	c.App.Post("/orders/v1/:orderId/price-change/respond", c.OrderController.RespondPriceChange)
	c.App.Post("/orders/v1/:orderId/status", c.OrderController.UpdateStatus)
	c.App.Post("/orders/v1/:orderId/otp", c.OrderController.GenerateOtp)
	c.App.Post("/orders/v1/:orderId/otp/verify", c.OrderController.VerifyOtp)
	c.App.Post("/orders/v1/:orderId/cancel", c.OrderController.Cancel)
	c.App.Post("/orders/v1/nearby-riders", c.OrderController.NearbyRiders)

	// rider surface
	c.App.Get("/riders/v1/profile", c.RiderController.GetProfile)
	c.App.Post("/riders/v1/location", c.RiderController.PostLocation)
	c.App.Post("/riders/v1/presence", c.RiderController.SetOnline)
	c.App.Get("/riders/v1/wallet", c.RiderController.GetWallet)
	c.App.Post("/riders/v1/wallet/topup", c.RiderController.Topup)

	// payouts
	c.App.Get("/payouts/v1", c.PayoutController.List)
	c.App.Post("/payouts/v1/:payoutId/paid", c.PayoutController.MarkPaid)

	// admin surface
	admin := c.App.Group("/admin/v1", middleware.RequireRole("admin"))
	admin.Post("/orders/:orderId/price", c.AdminController.UpdatePrice)
	admin.Post("/orders/:orderId/cancel", c.AdminController.CancelOrder)
	admin.Post("/riders/:riderId/unblock", c.AdminController.UnblockRider)
	admin.Post("/payouts/jobs", c.AdminController.RunPayoutJob)
	admin.Get("/fare-config", c.AdminController.GetFareConfig)
}
