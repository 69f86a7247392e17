package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
)

type payoutTestEnv struct {
	orders   *fakeOrderStore
	riders   *fakeRiderStore
	payouts  *fakePayoutStore
	txs      *fakeTransactionStore
	denyList *fakeDenyList
	index    *fakeLocationIndex
	events   *recordingPayoutEvents
	useCase  *PayoutUseCase
}

func newPayoutTestEnv(t *testing.T, now time.Time, riders ...*entity.Rider) *payoutTestEnv {
	t.Helper()
	env := &payoutTestEnv{
		orders:   newFakeOrderStore(),
		riders:   newFakeRiderStore(riders...),
		payouts:  newFakePayoutStore(),
		txs:      &fakeTransactionStore{},
		denyList: &fakeDenyList{},
		index:    newFakeLocationIndex(),
		events:   &recordingPayoutEvents{},
	}
	env.useCase = NewPayoutUseCase(log.Log{LogLevel: 3}, validator.New(), testConfig(),
		env.payouts, env.orders, env.riders, env.txs, env.denyList, env.index, env.events, nil)
	env.useCase.Now = func() time.Time { return now }
	return env
}

// Tuesday just past the grace deadline of the Aug 23 payout week.
var tuesdayAfterGrace = time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC)

// priorWeekStart is the Sunday opening the week those payouts cover.
var priorWeekStart = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

func seedPendingPayout(t *testing.T, env *payoutTestEnv, riderID string, net int64) *entity.RiderPayout {
	t.Helper()
	ctx := context.Background()
	payout, err := env.payouts.Upsert(ctx, riderID, priorWeekStart, priorWeekStart.AddDate(0, 0, 7))
	require.NoError(t, err)
	if net > 0 {
		require.NoError(t, env.payouts.AppendOrder(ctx, payout.ID, entity.PayoutOrder{
			PayoutID: payout.ID, OrderID: "o-" + riderID,
			DeliveredAt: priorWeekStart.Add(48 * time.Hour),
			GrossAmount: net * 5 / 4, CommissionAmount: net / 4, RiderNetAmount: net,
		}))
	}
	return payout
}

func TestGenerateWeeklyIsIdempotent(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"), testRider("r2"))
	ctx := context.Background()

	require.NoError(t, env.useCase.GenerateWeekly(ctx))
	require.NoError(t, env.useCase.GenerateWeekly(ctx))

	weekStart := weekStartOf(tuesdayAfterGrace)
	for _, riderID := range []string{"r1", "r2"} {
		payout, err := env.payouts.FindForRiderWeek(ctx, riderID, weekStart)
		require.NoError(t, err)
		require.Equal(t, entity.PayoutPending, payout.Status)
		require.Equal(t, 0, payout.OrderCount)
	}
	require.Len(t, env.payouts.payouts, 2)
}

func TestGenerateWeeklyBackfillsPriorWeek(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"))
	ctx := context.Background()

	// a delivery settled last week whose inline payout append was lost
	deliveredAt := priorWeekStart.Add(72 * time.Hour)
	order := deliveredOrder("o1", "r1", 2000, deliveredAt)
	gross, commission, net := int64(2000), int64(400), int64(1600)
	rate := 20.0
	order.GrossAmount, order.CommissionAmount, order.RiderNetAmount = &gross, &commission, &net
	order.CommissionRatePct = &rate
	order.SettledAt = &deliveredAt
	require.NoError(t, env.orders.Insert(ctx, order))

	require.NoError(t, env.useCase.GenerateWeekly(ctx))

	payout, err := env.payouts.FindForRiderWeek(ctx, "r1", priorWeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(1600), payout.NetTotal)
	require.Equal(t, 1, payout.OrderCount)
}

func TestBlockOverduePastGraceDeadline(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"))
	env.index.positions["r1"] = [2]float64{3.37, 6.52}
	seedPendingPayout(t, env, "r1", 1600)

	require.NoError(t, env.useCase.BlockOverdue(context.Background()))

	rider, err := env.riders.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	require.True(t, rider.PaymentBlocked)
	require.True(t, rider.AccountDeactivated)
	require.False(t, rider.Online)

	// removed from dispatch, identity deny-listed
	_, inIndex := env.index.positions["r1"]
	require.False(t, inIndex)
	require.Len(t, env.denyList.entries, 1)
	require.Len(t, env.events.byType(model.EventRiderBlocked), 1)
}

func TestNoBlockBeforeGraceDeadline(t *testing.T) {
	// exactly at the deadline, not past it
	atDeadline := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	env := newPayoutTestEnv(t, atDeadline, testRider("r1"))
	seedPendingPayout(t, env, "r1", 1600)

	require.NoError(t, env.useCase.BlockOverdue(context.Background()))

	rider, err := env.riders.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	require.False(t, rider.PaymentBlocked)
	require.Empty(t, env.denyList.entries)
}

func TestEmptyPayoutNeverBlocks(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"))
	seedPendingPayout(t, env, "r1", 0)

	require.NoError(t, env.useCase.BlockOverdue(context.Background()))

	rider, err := env.riders.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	require.False(t, rider.PaymentBlocked)
}

func TestMarkPaidLiftsBlockAndIsIdempotent(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"))
	payout := seedPendingPayout(t, env, "r1", 1600)
	ctx := context.Background()

	require.NoError(t, env.useCase.BlockOverdue(ctx))

	result := env.useCase.MarkPaid(ctx, &model.MarkPayoutPaidRequest{
		ActorID: "r1", Role: "rider", PayoutID: payout.ID,
	})
	require.Nil(t, result.Error)
	resp := result.Data.(*model.PayoutResponse)
	require.Equal(t, string(entity.PayoutPaid), resp.Status)

	rider, err := env.riders.FindByID(ctx, "r1")
	require.NoError(t, err)
	require.False(t, rider.PaymentBlocked)
	require.False(t, rider.AccountDeactivated)
	require.Len(t, env.events.byType(model.EventPayoutPaid), 1)

	// webhook retry: already paid reports success without side effects
	result = env.useCase.MarkPaid(ctx, &model.MarkPayoutPaidRequest{
		ActorID: "paystack", Role: "paystack", PayoutID: payout.ID,
	})
	require.Nil(t, result.Error)
	require.Len(t, env.events.byType(model.EventPayoutPaid), 1)
}

func TestMarkPaidForeignPayoutForbidden(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"), testRider("r2"))
	payout := seedPendingPayout(t, env, "r1", 1600)

	result := env.useCase.MarkPaid(context.Background(), &model.MarkPayoutPaidRequest{
		ActorID: "r2", Role: "rider", PayoutID: payout.ID,
	})
	require.NotNil(t, result.Error)
	require.Equal(t, 403, result.Error.(*httpError.CommonError).Code)
}

func TestRunJobQueuesWhenWorkerAttached(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"))
	seedPendingPayout(t, env, "r1", 1600)
	queue := &fakeTaskEnqueuer{}
	env.useCase.Tasks = queue

	result := env.useCase.RunJob(context.Background(), &model.RunPayoutJobRequest{
		AdminID: "admin-1", Job: "block",
	})
	require.Nil(t, result.Error)
	require.Len(t, queue.tasks, 1)
	require.Equal(t, TaskPayoutBlock, queue.tasks[0].Type())

	// deferred to the worker, nothing ran inline
	rider, err := env.riders.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	require.False(t, rider.PaymentBlocked)
}

func TestRunJobRunsInlineWithoutQueue(t *testing.T) {
	env := newPayoutTestEnv(t, tuesdayAfterGrace, testRider("r1"))
	seedPendingPayout(t, env, "r1", 1600)

	result := env.useCase.RunJob(context.Background(), &model.RunPayoutJobRequest{
		AdminID: "admin-1", Job: "block",
	})
	require.Nil(t, result.Error)

	rider, err := env.riders.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	require.True(t, rider.PaymentBlocked)
}

func TestRemindersSkipEmptyAndPaid(t *testing.T) {
	// reminders go out during the payout week itself
	thursday := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	env := newPayoutTestEnv(t, thursday, testRider("r1"), testRider("r2"), testRider("r3"))
	ctx := context.Background()

	seedPendingPayout(t, env, "r1", 1600)
	seedPendingPayout(t, env, "r2", 0)
	paid := seedPendingPayout(t, env, "r3", 800)
	_, err := env.payouts.MarkPaid(ctx, paid.ID, "r3", thursday)
	require.NoError(t, err)

	require.NoError(t, env.useCase.SendReminders(ctx))

	reminders := env.events.byType(model.EventPayoutReminder)
	require.Len(t, reminders, 1)
	require.Equal(t, "r1", reminders[0].RiderID)
}
