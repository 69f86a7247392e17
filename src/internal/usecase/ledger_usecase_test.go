package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/log"
)

type ledgerTestEnv struct {
	orders       *fakeOrderStore
	riders       *fakeRiderStore
	wallets      *fakeWalletStore
	transactions *fakeTransactionStore
	payouts      *fakePayoutStore
	useCase      *LedgerUseCase
}

func newLedgerTestEnv(t *testing.T, cfg *viper.Viper, discount DiscountPolicy, riders ...*entity.Rider) *ledgerTestEnv {
	t.Helper()
	env := &ledgerTestEnv{
		orders:       newFakeOrderStore(),
		riders:       newFakeRiderStore(riders...),
		wallets:      newFakeWalletStore(),
		transactions: &fakeTransactionStore{},
		payouts:      newFakePayoutStore(),
	}
	env.useCase = NewLedgerUseCase(log.Log{LogLevel: 3}, cfg,
		env.orders, env.riders, env.wallets, env.transactions, env.payouts, discount)
	return env
}

func deliveredOrder(id, riderID string, price int64, deliveredAt time.Time) *entity.Order {
	return &entity.Order{
		ID:          id,
		CustomerID:  "cust-1",
		RiderID:     &riderID,
		Price:       price,
		Status:      entity.OrderDelivered,
		DeliveredAt: &deliveredAt,
	}
}

func TestSettleSplitsGrossExactly(t *testing.T) {
	cfg := viper.New()
	cfg.Set("ledger.commission_rate_pct", 20.0)
	env := newLedgerTestEnv(t, cfg, nil, testRider("r1"))

	deliveredAt := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC) // Wednesday
	order := deliveredOrder("o1", "r1", 1545, deliveredAt)
	require.NoError(t, env.orders.Insert(context.Background(), order))

	require.NoError(t, env.useCase.Settle(context.Background(), order))

	settled, err := env.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	require.True(t, settled.Settled())
	// 20% of 1545 rounds half-up to 309
	require.Equal(t, int64(309), *settled.CommissionAmount)
	require.Equal(t, int64(1236), *settled.RiderNetAmount)
	require.Equal(t, *settled.GrossAmount, *settled.CommissionAmount+*settled.RiderNetAmount)

	// net earning lands in the rider wallet
	require.Equal(t, int64(1236), env.wallets.balances["r1"])

	// the delivery week's payout accrues the order
	weekStart := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC) // Sunday
	payout, err := env.payouts.FindForRiderWeek(context.Background(), "r1", weekStart)
	require.NoError(t, err)
	require.Equal(t, int64(1545), payout.GrossTotal)
	require.Equal(t, 1, payout.OrderCount)

	// audit rows: payment, commission, pending payout accrual
	require.Len(t, env.transactions.rows, 3)
}

func TestSettleIsIdempotent(t *testing.T) {
	cfg := viper.New()
	cfg.Set("ledger.commission_rate_pct", 20.0)
	env := newLedgerTestEnv(t, cfg, nil, testRider("r1"))

	deliveredAt := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)
	order := deliveredOrder("o1", "r1", 2000, deliveredAt)
	require.NoError(t, env.orders.Insert(context.Background(), order))

	require.NoError(t, env.useCase.Settle(context.Background(), order))

	// replay with a stale copy that does not know it settled
	require.NoError(t, env.useCase.Settle(context.Background(), order))

	require.Equal(t, int64(1600), env.wallets.balances["r1"])
	require.Len(t, env.transactions.rows, 3)

	weekStart := weekStartOf(deliveredAt)
	payout, err := env.payouts.FindForRiderWeek(context.Background(), "r1", weekStart)
	require.NoError(t, err)
	require.Equal(t, 1, payout.OrderCount)
}

func TestGoldDiscountLowersCommission(t *testing.T) {
	cfg := viper.New()
	cfg.Set("ledger.commission_rate_pct", 20.0)
	cfg.Set("ledger.gold_discount_pct", 50.0)

	goldUntil := time.Now().UTC().Add(24 * time.Hour)
	rider := testRider("r1")
	rider.GoldUntil = &goldUntil

	clock := func() time.Time { return time.Now().UTC() }
	env := newLedgerTestEnv(t, cfg, NewGoldDiscountPolicy(cfg, clock), rider)

	deliveredAt := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)
	order := deliveredOrder("o1", "r1", 2000, deliveredAt)
	require.NoError(t, env.orders.Insert(context.Background(), order))

	require.NoError(t, env.useCase.Settle(context.Background(), order))

	settled, err := env.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	// 20% commission halved by the gold discount
	require.Equal(t, int64(200), *settled.CommissionAmount)
	require.Equal(t, int64(1800), *settled.RiderNetAmount)
	require.Equal(t, *settled.GrossAmount, *settled.CommissionAmount+*settled.RiderNetAmount)
}

func TestCommissionClampedToGross(t *testing.T) {
	cfg := viper.New()
	cfg.Set("ledger.commission_rate_pct", 150.0)
	env := newLedgerTestEnv(t, cfg, nil, testRider("r1"))

	deliveredAt := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)
	order := deliveredOrder("o1", "r1", 1000, deliveredAt)
	require.NoError(t, env.orders.Insert(context.Background(), order))

	require.NoError(t, env.useCase.Settle(context.Background(), order))

	settled, err := env.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	require.Equal(t, int64(1000), *settled.CommissionAmount)
	require.Equal(t, int64(0), *settled.RiderNetAmount)
}
