package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/repository"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// RiderUseCase covers the rider-facing surface outside the order flow:
// presence, the location heartbeat, and wallet reads/topups.
type RiderUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	Config           *viper.Viper
	RiderRepository  RiderStore
	LocationIndex    RiderLocationIndex
	WalletRepository WalletStore
	DenyList         DenyListStore
	Now              func() time.Time
}

func NewRiderUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	riderRepository RiderStore,
	locationIndex RiderLocationIndex,
	walletRepository WalletStore,
	denyList DenyListStore,
) *RiderUseCase {
	return &RiderUseCase{
		Log:              logger,
		Validate:         validate,
		Config:           cfg,
		RiderRepository:  riderRepository,
		LocationIndex:    locationIndex,
		WalletRepository: walletRepository,
		DenyList:         denyList,
		Now:              time.Now,
	}
}

// UpdateLocation is the heartbeat every rider app sends while online.
// It refreshes the dispatch index and the liveness timestamp together.
func (c *RiderUseCase) UpdateLocation(ctx context.Context, request *model.RiderLocationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	rider, errObj := c.loadRider(ctx, request.RiderID, "UpdateLocation")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if rider.AccountDeactivated || rider.PaymentBlocked {
		errObj := httpError.NewForbidden()
		errObj.Message = "account is blocked"
		result.Error = errObj
		return result
	}

	if err := c.LocationIndex.Update(ctx, request.RiderID, request.Longitude, request.Latitude); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error updating location: %v", err)
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "UpdateLocation", request.RiderID)
		return result
	}
	if err := c.RiderRepository.TouchLastSeen(ctx, request.RiderID); err != nil {
		c.Log.Warn("rider-usecase", fmt.Sprintf("error touching last seen: %v", err), "UpdateLocation", request.RiderID)
	}

	result.Data = map[string]interface{}{"riderId": request.RiderID, "updatedAt": c.Now().UTC()}
	return result
}

// SetOnline toggles availability. Going offline also drops the rider
// from the dispatch index so stale positions never receive orders.
func (c *RiderUseCase) SetOnline(ctx context.Context, request *model.SetOnlineRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	rider, errObj := c.loadRider(ctx, request.RiderID, "SetOnline")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	online := *request.Online
	if online && (rider.AccountDeactivated || rider.PaymentBlocked) {
		errObj := httpError.NewForbidden()
		errObj.Message = "account is blocked from going online"
		result.Error = errObj
		return result
	}
	if online && (rider.Email != "" || rider.MobileNumber != "") {
		listed, err := c.DenyList.Exists(ctx, rider.Email, rider.MobileNumber)
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = fmt.Sprintf("error checking blocked credentials: %v", err)
			result.Error = errObj
			c.Log.Error("rider-usecase", errObj.Message, "SetOnline", request.RiderID)
			return result
		}
		if listed {
			errObj := httpError.NewForbidden()
			errObj.Message = "account credentials are blocked"
			result.Error = errObj
			return result
		}
	}

	if err := c.RiderRepository.SetOnline(ctx, request.RiderID, online); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error updating presence: %v", err)
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "SetOnline", request.RiderID)
		return result
	}
	if !online {
		if err := c.LocationIndex.Remove(ctx, request.RiderID); err != nil {
			c.Log.Warn("rider-usecase", fmt.Sprintf("error removing from dispatch index: %v", err), "SetOnline", request.RiderID)
		}
	}

	rider.Online = online
	result.Data = converter.RiderToResponse(rider)
	return result
}

func (c *RiderUseCase) GetProfile(ctx context.Context, riderID string) utils.Result {
	var result utils.Result

	rider, errObj := c.loadRider(ctx, riderID, "GetProfile")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	result.Data = converter.RiderToResponse(rider)
	return result
}

// GetWallet returns the balance with the most recent movements.
func (c *RiderUseCase) GetWallet(ctx context.Context, request *model.WalletRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	wallet, err := c.WalletRepository.Find(ctx, request.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		// a user without movements has an implicit empty wallet
		result.Data = &model.WalletResponse{UserID: request.UserID}
		return result
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error loading wallet: %v", err)
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "GetWallet", request.UserID)
		return result
	}

	txs, err := c.WalletRepository.Transactions(ctx, wallet.ID, 50)
	if err != nil {
		c.Log.Warn("rider-usecase", fmt.Sprintf("error loading wallet transactions: %v", err), "GetWallet", request.UserID)
	}

	result.Data = converter.WalletToResponse(wallet, txs)
	return result
}

func (c *RiderUseCase) Topup(ctx context.Context, request *model.TopupRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	if err := c.WalletRepository.Credit(ctx, request.UserID, request.Amount,
		entity.WalletTxTopup, nil, nil, "wallet topup"); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error crediting wallet: %v", err)
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "Topup", request.UserID)
		return result
	}

	wallet, err := c.WalletRepository.Find(ctx, request.UserID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error loading wallet: %v", err)
		result.Error = errObj
		return result
	}

	result.Data = converter.WalletToResponse(wallet, nil)
	return result
}

// UnblockRider is the manual admin override; the scheduler normally
// lifts a block when the pending payout clears.
func (c *RiderUseCase) UnblockRider(ctx context.Context, request *model.UnblockRiderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	rider, errObj := c.loadRider(ctx, request.RiderID, "UnblockRider")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	if err := c.RiderRepository.SetPaymentBlocked(ctx, request.RiderID, false,
		"unblocked by admin "+request.AdminID, c.Now().UTC()); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error unblocking rider: %v", err)
		result.Error = errObj
		c.Log.Error("rider-usecase", errObj.Message, "UnblockRider", request.RiderID)
		return result
	}

	rider.PaymentBlocked = false
	rider.AccountDeactivated = false
	result.Data = converter.RiderToResponse(rider)
	return result
}

func (c *RiderUseCase) loadRider(ctx context.Context, riderID, scope string) (*entity.Rider, *httpError.CommonError) {
	rider, err := c.RiderRepository.FindByID(ctx, riderID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = "rider not found"
		return nil, errObj
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error loading rider: %v", err)
		c.Log.Error("rider-usecase", errObj.Message, scope, riderID)
		return nil, errObj
	}
	return rider, nil
}
