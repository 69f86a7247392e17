package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// LedgerUseCase owns the one-time financial settlement of a delivered
// order and every wallet movement tied to it.
type LedgerUseCase struct {
	Log                   log.Log
	Config                *viper.Viper
	OrderRepository       OrderStore
	RiderRepository       RiderStore
	WalletRepository      WalletStore
	TransactionRepository TransactionStore
	PayoutRepository      PayoutStore
	Discount              DiscountPolicy
	Now                   func() time.Time
}

func NewLedgerUseCase(
	logger log.Log,
	cfg *viper.Viper,
	orderRepository OrderStore,
	riderRepository RiderStore,
	walletRepository WalletStore,
	transactionRepository TransactionStore,
	payoutRepository PayoutStore,
	discount DiscountPolicy,
) *LedgerUseCase {
	return &LedgerUseCase{
		Log:                   logger,
		Config:                cfg,
		OrderRepository:       orderRepository,
		RiderRepository:       riderRepository,
		WalletRepository:      walletRepository,
		TransactionRepository: transactionRepository,
		PayoutRepository:      payoutRepository,
		Discount:              discount,
		Now:                   time.Now,
	}
}

// Settle computes and persists the gross/commission/rider-net split.
// It is idempotent: the financial columns are written under a guard, and
// losing that write means another call already settled the order.
// Invariant: gross == commission + riderNet for every settled order.
func (c *LedgerUseCase) Settle(ctx context.Context, order *entity.Order) error {
	if order.RiderID == nil {
		return fmt.Errorf("order %s has no rider to settle", order.ID)
	}
	if order.Settled() {
		return nil
	}

	gross := order.Price
	if gross < 0 {
		gross = 0
	}

	rate := c.Config.GetFloat64("ledger.commission_rate_pct")
	commission := utils.RoundHalfUp(float64(gross) * rate / 100.0)
	if commission > gross {
		commission = gross
	}
	if commission < 0 {
		commission = 0
	}

	rider, err := c.RiderRepository.FindByID(ctx, *order.RiderID)
	if err != nil {
		return fmt.Errorf("load rider %s: %w", *order.RiderID, err)
	}

	if c.Discount != nil {
		discounted := c.Discount(ctx, rider, commission)
		if discounted < 0 {
			discounted = 0
		}
		if discounted < commission {
			commission = discounted
		}
	}

	riderNet := gross - commission

	fin := entity.OrderFinancial{
		GrossAmount:       gross,
		CommissionRatePct: rate,
		CommissionAmount:  commission,
		RiderNetAmount:    riderNet,
	}
	ok, err := c.OrderRepository.SetFinancial(ctx, order.ID, fin)
	if err != nil {
		return err
	}
	if !ok {
		// another deliver call got here first
		c.Log.Info("ledger-usecase", "order already settled, skipping", "Settle", order.ID)
		return nil
	}

	deliveredAt := c.Now().UTC()
	if order.DeliveredAt != nil {
		deliveredAt = order.DeliveredAt.UTC()
	}

	payout, err := c.appendToWeeklyPayout(ctx, *order.RiderID, order.ID, deliveredAt, fin)
	if err != nil {
		return err
	}

	c.postSettlementTransactions(ctx, order, rider.RiderID, payout.ID, fin)

	if err := c.WalletRepository.Credit(ctx, rider.RiderID, riderNet, entity.WalletTxRiderEarn,
		&order.ID, nil, fmt.Sprintf("earning for order %s", order.ID)); err != nil {
		// financial split is committed; the wallet credit can be replayed
		c.Log.Error("ledger-usecase", fmt.Sprintf("rider wallet credit failed: %v", err), "Settle", order.ID)
	}

	return nil
}

func (c *LedgerUseCase) appendToWeeklyPayout(ctx context.Context, riderID, orderID string, deliveredAt time.Time, fin entity.OrderFinancial) (*entity.RiderPayout, error) {
	weekStart := weekStartOf(deliveredAt)
	weekEnd := weekEndOf(deliveredAt)

	payout, err := c.PayoutRepository.Upsert(ctx, riderID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("upsert payout for rider %s: %w", riderID, err)
	}

	if err := c.PayoutRepository.AppendOrder(ctx, payout.ID, entity.PayoutOrder{
		PayoutID:         payout.ID,
		OrderID:          orderID,
		DeliveredAt:      deliveredAt,
		GrossAmount:      fin.GrossAmount,
		CommissionAmount: fin.CommissionAmount,
		RiderNetAmount:   fin.RiderNetAmount,
	}); err != nil {
		return nil, fmt.Errorf("append order %s to payout %s: %w", orderID, payout.ID, err)
	}

	return payout, nil
}

// postSettlementTransactions writes the audit ledger rows. Failures are
// logged, not propagated: the settlement itself already committed.
func (c *LedgerUseCase) postSettlementTransactions(ctx context.Context, order *entity.Order, riderID, payoutID string, fin entity.OrderFinancial) {
	rows := []*entity.Transaction{
		{
			ID:          uuid.NewString(),
			Type:        entity.TxOrderPayment,
			Status:      entity.TxCompleted,
			Amount:      fin.GrossAmount,
			UserID:      &order.CustomerID,
			OrderID:     &order.ID,
			Description: "customer payment",
		},
		{
			ID:          uuid.NewString(),
			Type:        entity.TxCommission,
			Status:      entity.TxCompleted,
			Amount:      fin.CommissionAmount,
			RiderID:     &riderID,
			OrderID:     &order.ID,
			Description: "platform commission",
		},
		{
			ID:          uuid.NewString(),
			Type:        entity.TxRiderPayout,
			Status:      entity.TxPending,
			Amount:      fin.RiderNetAmount,
			RiderID:     &riderID,
			OrderID:     &order.ID,
			PayoutID:    &payoutID,
			Description: "rider payout accrual",
		},
	}
	for _, row := range rows {
		if err := c.TransactionRepository.Insert(ctx, row); err != nil {
			c.Log.Error("ledger-usecase", fmt.Sprintf("failed to post %s transaction: %v", row.Type, err), "Settle", order.ID)
		}
	}
}
