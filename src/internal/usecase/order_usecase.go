package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/pricing"
	"dispatch-service/src/internal/repository"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// Settler finalizes an order's money split after delivery.
type Settler interface {
	Settle(ctx context.Context, order *entity.Order) error
}

type OrderUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	Config           *viper.Viper
	Fare             pricing.FareConfig
	OrderRepository  OrderStore
	RiderRepository  RiderStore
	WalletRepository WalletStore
	OrderProducer    OrderEvents
	Dispatch         *DispatchUseCase
	Ledger           Settler
}

func NewOrderUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	fare pricing.FareConfig,
	orderRepository OrderStore,
	riderRepository RiderStore,
	walletRepository WalletStore,
	orderProducer OrderEvents,
	dispatch *DispatchUseCase,
	ledger Settler,
) *OrderUseCase {
	return &OrderUseCase{
		Log:              logger,
		Validate:         validate,
		Config:           cfg,
		Fare:             fare,
		OrderRepository:  orderRepository,
		RiderRepository:  riderRepository,
		WalletRepository: walletRepository,
		OrderProducer:    orderProducer,
		Dispatch:         dispatch,
		Ledger:           ledger,
	}
}

// Create prices and persists a new order, then fans it out to nearby
// riders in the background. Wallet orders are charged up front so a
// rider never accepts an unfunded job.
func (c *OrderUseCase) Create(ctx context.Context, request *model.CreateOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "Create", utils.ConvertString(request))
		return result
	}

	if !c.withinServiceArea(request.Pickup.Latitude, request.Pickup.Longitude) ||
		!c.withinServiceArea(request.Dropoff.Latitude, request.Dropoff.Longitude) {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "pickup or dropoff is outside the service area"
		result.Error = errObj
		return result
	}

	distanceKm := c.Dispatch.DistanceKm(ctx,
		request.Pickup.Latitude, request.Pickup.Longitude,
		request.Dropoff.Latitude, request.Dropoff.Longitude)

	price := request.Price
	if price <= 0 {
		price = pricing.Calculate(distanceKm, c.pricingClass(request), c.Fare)
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:                   uuid.NewString(),
		CustomerID:           request.CustomerID,
		PickupAddress:        request.Pickup.Address,
		PickupLat:            request.Pickup.Latitude,
		PickupLng:            request.Pickup.Longitude,
		DropoffAddress:       request.Dropoff.Address,
		DropoffLat:           request.Dropoff.Latitude,
		DropoffLng:           request.Dropoff.Longitude,
		Price:                price,
		OriginalPrice:        price,
		ServiceType:          entity.ServiceType(request.ServiceType),
		PreferredVehicleType: request.PreferredVehicleType,
		PaymentMethod:        request.PaymentMethod,
		DistanceKm:           distanceKm,
		Status:               entity.OrderPending,
		NegotiationStatus:    entity.NegotiationNone,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if request.RecipientName != "" {
		order.RecipientName = &request.RecipientName
	}
	if request.RecipientPhone != "" {
		order.RecipientPhone = &request.RecipientPhone
	}

	if request.PaymentMethod == "wallet" {
		err := c.WalletRepository.Debit(ctx, request.CustomerID, price,
			entity.WalletTxPayment, &order.ID, nil, "order payment hold")
		if errors.Is(err, repository.ErrInsufficientBalance) {
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = "insufficient wallet balance"
			result.Error = errObj
			return result
		}
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = fmt.Sprintf("error charging wallet: %v", err)
			result.Error = errObj
			c.Log.Error("order-usecase", errObj.Message, "Create", request.CustomerID)
			return result
		}
	}

	if err := c.OrderRepository.Insert(ctx, order); err != nil {
		if request.PaymentMethod == "wallet" {
			if refundErr := c.WalletRepository.Credit(ctx, request.CustomerID, price,
				entity.WalletTxRefund, &order.ID, nil, "refund for failed order"); refundErr != nil {
				c.Log.Error("order-usecase", fmt.Sprintf("error releasing payment hold: %v", refundErr), "Create", order.ID)
			}
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error creating order: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "Create", utils.ConvertString(order))
		return result
	}
	c.appendTimeline(ctx, order.ID, entity.OrderPending, "order created")

	c.publishLifecycle(model.EventOrderCreated, order)
	go c.Dispatch.FanOut(context.WithoutCancel(ctx), order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

func (c *OrderUseCase) GetOrder(ctx context.Context, request *model.GetOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "GetOrder")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	timeline, err := c.OrderRepository.Timeline(ctx, order.ID)
	if err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("error loading timeline: %v", err), "GetOrder", order.ID)
	}

	result.Data = converter.OrderToResponse(order, timeline)
	return result
}

// AcceptOrder is the first-wins claim. The conditional update decides the
// race; the loser gets a conflict, never a partial assignment.
func (c *OrderUseCase) AcceptOrder(ctx context.Context, request *model.AcceptOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	rider, err := c.RiderRepository.FindByID(ctx, request.RiderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "rider not found"
		result.Error = errObj
		return result
	}
	if rider.PaymentBlocked || rider.AccountDeactivated {
		errObj := httpError.NewForbidden()
		errObj.Message = "account is blocked from accepting orders"
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "AcceptOrder")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if !rider.SupportsService(order.ServiceType) {
		errObj := httpError.NewForbidden()
		errObj.Message = fmt.Sprintf("rider does not provide %s service", order.ServiceType)
		result.Error = errObj
		return result
	}

	claimed, err := c.OrderRepository.Claim(ctx, request.OrderID, request.RiderID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error accepting order: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "AcceptOrder", request.OrderID)
		return result
	}
	if !claimed {
		errObj := httpError.NewConflict()
		errObj.Message = "order is no longer available"
		result.Error = errObj
		return result
	}

	if err := c.RiderRepository.IncrementAcceptStreak(ctx, request.RiderID); err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("error updating accept streak: %v", err), "AcceptOrder", request.RiderID)
	}
	c.appendTimeline(ctx, request.OrderID, entity.OrderAssigned, "accepted by rider "+request.RiderID)

	order, errObj = c.loadOrder(ctx, request.OrderID, "AcceptOrder")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	c.publishLifecycle(model.EventOrderAssigned, order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// RequestPriceChange lets a rider counter-offer on a pending order. One
// outstanding request at a time; a rejected one can be replaced.
func (c *OrderUseCase) RequestPriceChange(ctx context.Context, request *model.RequestPriceChangeRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	rider, err := c.RiderRepository.FindByID(ctx, request.RiderID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "rider not found"
		result.Error = errObj
		return result
	}
	if rider.PaymentBlocked || rider.AccountDeactivated {
		errObj := httpError.NewForbidden()
		errObj.Message = "account is blocked from taking orders"
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.RequestNegotiation(ctx, request.OrderID, request.RiderID, request.Price, request.Reason)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error requesting price change: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "RequestPriceChange", request.OrderID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "order is not open for price requests"
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "RequestPriceChange")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	event := converter.OrderToLifecycleEvent(uuid.NewString(), model.EventPriceChangeRequested, order)
	event.RiderID = request.RiderID
	event.Price = request.Price
	c.sendLifecycle(event, order.ID)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// RespondToPriceRequest resolves an outstanding counter-offer. Accepting
// binds the new price and assigns the requesting rider atomically; a
// request that went stale (order claimed or cancelled meanwhile)
// surfaces as a conflict.
func (c *OrderUseCase) RespondToPriceRequest(ctx context.Context, request *model.RespondPriceChangeRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "RespondToPriceRequest")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if order.CustomerID != request.CustomerID {
		errObj := httpError.NewForbidden()
		errObj.Message = "order belongs to another customer"
		result.Error = errObj
		return result
	}
	if order.NegotiationStatus != entity.NegotiationRequested {
		errObj := httpError.NewConflict()
		errObj.Message = "no outstanding price request"
		result.Error = errObj
		return result
	}

	var (
		ok        bool
		err       error
		eventType string
	)
	if request.Action == "accept" {
		ok, err = c.OrderRepository.AcceptNegotiation(ctx, request.OrderID)
		eventType = model.EventPriceChangeAccepted
	} else {
		ok, err = c.OrderRepository.RejectNegotiation(ctx, request.OrderID)
		eventType = model.EventPriceChangeRejected
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error resolving price request: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "RespondToPriceRequest", request.OrderID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "price request is no longer actionable"
		result.Error = errObj
		return result
	}

	order, errObj = c.loadOrder(ctx, request.OrderID, "RespondToPriceRequest")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if request.Action == "accept" {
		c.appendTimeline(ctx, order.ID, order.Status, "price change accepted")
	}

	c.publishLifecycle(eventType, order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// UpdateStatus drives the forward-only transitions a rider performs on
// the road. The final delivered step goes through OTP verification;
// only an admin can force it here.
func (c *OrderUseCase) UpdateStatus(ctx context.Context, request *model.UpdateOrderStatusRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	var from, to entity.OrderStatus
	switch request.Action {
	case "pickup":
		from, to = entity.OrderAssigned, entity.OrderPickedUp
	case "start":
		from, to = entity.OrderPickedUp, entity.OrderDelivering
	case "deliver":
		if request.Role != "admin" {
			errObj := httpError.NewForbidden()
			errObj.Message = "delivery must be completed with the recipient code"
			result.Error = errObj
			return result
		}
		from, to = entity.OrderDelivering, entity.OrderDelivered
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "UpdateStatus")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if request.Role == "rider" && (order.RiderID == nil || *order.RiderID != request.ActorID) {
		errObj := httpError.NewForbidden()
		errObj.Message = "order is assigned to another rider"
		result.Error = errObj
		return result
	}
	if !entity.CanTransition(order.Status, to) {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order cannot move from %s to %s", order.Status, to)
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.UpdateStatus(ctx, request.OrderID, from, to)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error updating status: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "UpdateStatus", request.OrderID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("order is not in %s state", from)
		result.Error = errObj
		return result
	}
	c.appendTimeline(ctx, request.OrderID, to, request.Action+" by "+request.Role)

	order, errObj = c.loadOrder(ctx, request.OrderID, "UpdateStatus")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	if to == entity.OrderDelivered {
		if err := c.Ledger.Settle(ctx, order); err != nil {
			c.Log.Error("order-usecase", fmt.Sprintf("settlement failed: %v", err), "UpdateStatus", order.ID)
		}
	}

	c.publishLifecycle(model.EventOrderStatusUpdated, order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// GenerateDeliveryOtp issues a fresh six-digit code to the customer
// channel while the order is out for delivery. A still-live code blocks
// regeneration.
func (c *OrderUseCase) GenerateDeliveryOtp(ctx context.Context, request *model.GenerateOtpRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "GenerateDeliveryOtp")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if order.RiderID == nil || *order.RiderID != request.RiderID {
		errObj := httpError.NewForbidden()
		errObj.Message = "order is assigned to another rider"
		result.Error = errObj
		return result
	}

	code, err := generateOtpCode()
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error generating code: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "GenerateDeliveryOtp", order.ID)
		return result
	}

	ttl := c.Config.GetInt("order.otp_ttl_minutes")
	if ttl <= 0 {
		ttl = 15
	}
	expiresAt := time.Now().UTC().Add(time.Duration(ttl) * time.Minute)

	ok, err := c.OrderRepository.SetOtp(ctx, order.ID, code, expiresAt)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error storing code: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "GenerateDeliveryOtp", order.ID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "a delivery code is already active"
		result.Error = errObj
		return result
	}

	// the code travels to the customer over the event bus, never back to
	// the rider in the API response
	event := converter.OrderToLifecycleEvent(uuid.NewString(), model.EventDeliveryOtp, order)
	event.OtpCode = code
	c.sendLifecycle(event, order.ID)

	result.Data = map[string]interface{}{
		"orderId":   order.ID,
		"expiresAt": expiresAt,
	}
	return result
}

// VerifyDeliveryOtp completes the delivery when the rider presents the
// code the recipient received. Settlement runs inline and is idempotent.
func (c *OrderUseCase) VerifyDeliveryOtp(ctx context.Context, request *model.VerifyOtpRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "VerifyDeliveryOtp")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if order.RiderID == nil || *order.RiderID != request.RiderID {
		errObj := httpError.NewForbidden()
		errObj.Message = "order is assigned to another rider"
		result.Error = errObj
		return result
	}
	if order.OtpCode == nil || *order.OtpCode != request.Code {
		errObj := httpError.NewBadRequest()
		errObj.Message = "invalid delivery code"
		result.Error = errObj
		return result
	}
	if order.OtpExpiresAt == nil || time.Now().UTC().After(*order.OtpExpiresAt) {
		errObj := httpError.NewBadRequest()
		errObj.Message = "delivery code has expired"
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.MarkDeliveredByOtp(ctx, order.ID, request.ProofPhotoURL)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error completing delivery: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "VerifyDeliveryOtp", order.ID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "order is not out for delivery"
		result.Error = errObj
		return result
	}
	c.appendTimeline(ctx, order.ID, entity.OrderDelivered, "delivery code verified")

	order, errObj = c.loadOrder(ctx, request.OrderID, "VerifyDeliveryOtp")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	if err := c.Ledger.Settle(ctx, order); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("settlement failed: %v", err), "VerifyDeliveryOtp", order.ID)
	}

	c.publishLifecycle(model.EventDeliveryVerified, order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// CancelOrder terminates a pending or assigned order. Wallet charges are
// refunded in full and an interrupted rider keeps no accept streak.
func (c *OrderUseCase) CancelOrder(ctx context.Context, request *model.CancelOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "CancelOrder")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if request.Role == "customer" && order.CustomerID != request.ActorID {
		errObj := httpError.NewForbidden()
		errObj.Message = "order belongs to another customer"
		result.Error = errObj
		return result
	}
	if !entity.CanTransition(order.Status, entity.OrderCancelled) {
		errObj := httpError.NewConflict()
		errObj.Message = "order can no longer be cancelled"
		result.Error = errObj
		return result
	}

	priorRider := order.RiderID

	ok, err := c.OrderRepository.Cancel(ctx, request.OrderID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error cancelling order: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CancelOrder", request.OrderID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "order can no longer be cancelled"
		result.Error = errObj
		return result
	}
	note := "cancelled by " + request.Role
	if request.Reason != "" {
		note += ": " + request.Reason
	}
	c.appendTimeline(ctx, request.OrderID, entity.OrderCancelled, note)

	c.refundWalletCharge(ctx, order)

	if priorRider != nil {
		if err := c.RiderRepository.ResetAcceptStreak(ctx, *priorRider); err != nil {
			c.Log.Warn("order-usecase", fmt.Sprintf("error resetting accept streak: %v", err), "CancelOrder", *priorRider)
		}
	}

	order, errObj = c.loadOrder(ctx, request.OrderID, "CancelOrder")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	c.publishLifecycle(model.EventOrderCancelled, order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// AdminUpdatePrice overrides the binding price on a live order, clearing
// any rider counter-offer in the same write.
func (c *OrderUseCase) AdminUpdatePrice(ctx context.Context, request *model.AdminUpdatePriceRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	ok, err := c.OrderRepository.SetPriceByAdmin(ctx, request.OrderID, request.Price)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error updating price: %v", err)
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "AdminUpdatePrice", request.OrderID)
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "order price can no longer be changed"
		result.Error = errObj
		return result
	}

	order, errObj := c.loadOrder(ctx, request.OrderID, "AdminUpdatePrice")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	c.appendTimeline(ctx, order.ID, order.Status, "price updated by admin "+request.AdminID)

	c.publishLifecycle(model.EventOrderStatusUpdated, order)

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

func (c *OrderUseCase) loadOrder(ctx context.Context, orderID, scope string) (*entity.Order, *httpError.CommonError) {
	order, err := c.OrderRepository.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = "order not found"
		return nil, errObj
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error loading order: %v", err)
		c.Log.Error("order-usecase", errObj.Message, scope, orderID)
		return nil, errObj
	}
	return order, nil
}

// refundWalletCharge returns whatever the customer was debited for this
// order. Cash orders have nothing to refund.
func (c *OrderUseCase) refundWalletCharge(ctx context.Context, order *entity.Order) {
	if order.PaymentMethod != "wallet" {
		return
	}
	charged, err := c.WalletRepository.DebitedForOrder(ctx, order.CustomerID, order.ID)
	if err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error reading charged amount: %v", err), "CancelOrder", order.ID)
		return
	}
	if charged <= 0 {
		return
	}
	if err := c.WalletRepository.Credit(ctx, order.CustomerID, charged,
		entity.WalletTxRefund, &order.ID, nil, "refund for cancelled order"); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error refunding wallet: %v", err), "CancelOrder", order.ID)
	}
}

func (c *OrderUseCase) appendTimeline(ctx context.Context, orderID string, status entity.OrderStatus, note string) {
	if err := c.OrderRepository.AppendTimeline(ctx, orderID, status, note); err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("error appending timeline: %v", err), "appendTimeline", orderID)
	}
}

func (c *OrderUseCase) publishLifecycle(eventType string, order *entity.Order) {
	event := converter.OrderToLifecycleEvent(uuid.NewString(), eventType, order)
	c.sendLifecycle(event, order.ID)
}

func (c *OrderUseCase) sendLifecycle(event *model.OrderLifecycleEvent, orderID string) {
	if err := c.OrderProducer.SendLifecycle(event); err != nil {
		c.Log.Error("order-usecase", fmt.Sprintf("error publishing %s event: %v", event.Type, err), "sendLifecycle", orderID)
	}
}

func (c *OrderUseCase) pricingClass(request *model.CreateOrderRequest) string {
	if request.PreferredVehicleType != "" {
		return request.PreferredVehicleType
	}
	if request.ServiceType == string(entity.ServiceRide) {
		return pricing.VehicleStandardCar
	}
	return pricing.VehicleMotorbike
}

// withinServiceArea checks the configured bounding box; an unconfigured
// box accepts everything.
func (c *OrderUseCase) withinServiceArea(lat, lng float64) bool {
	if !c.Config.IsSet("geofence.min_lat") {
		return true
	}
	return lat >= c.Config.GetFloat64("geofence.min_lat") &&
		lat <= c.Config.GetFloat64("geofence.max_lat") &&
		lng >= c.Config.GetFloat64("geofence.min_lng") &&
		lng <= c.Config.GetFloat64("geofence.max_lng")
}

func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
