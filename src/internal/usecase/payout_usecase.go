package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/model/converter"
	"dispatch-service/src/internal/repository"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
	"dispatch-service/src/pkg/utils"
)

// Background task types registered with the asynq mux.
const (
	TaskPayoutGenerate = "payout:generate"
	TaskPayoutRemind   = "payout:remind"
	TaskPayoutBlock    = "payout:block"
)

// TaskEnqueuer pushes a task onto the background queue; *asynq.Client
// satisfies it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PayoutUseCase runs the weekly settlement cycle: open a payout per
// active rider at the start of the week, remind while it is pending,
// and block riders whose prior-week payout outlived the grace period.
type PayoutUseCase struct {
	Log                   log.Log
	Validate              *validator.Validate
	Config                *viper.Viper
	PayoutRepository      PayoutStore
	OrderRepository       OrderStore
	RiderRepository       RiderStore
	TransactionRepository TransactionStore
	DenyList              DenyListStore
	LocationIndex         RiderLocationIndex
	PayoutProducer        PayoutEvents
	Tasks                 TaskEnqueuer
	Now                   func() time.Time
}

func NewPayoutUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	payoutRepository PayoutStore,
	orderRepository OrderStore,
	riderRepository RiderStore,
	transactionRepository TransactionStore,
	denyList DenyListStore,
	locationIndex RiderLocationIndex,
	payoutProducer PayoutEvents,
	tasks TaskEnqueuer,
) *PayoutUseCase {
	return &PayoutUseCase{
		Log:                   logger,
		Validate:              validate,
		Config:                cfg,
		PayoutRepository:      payoutRepository,
		OrderRepository:       orderRepository,
		RiderRepository:       riderRepository,
		TransactionRepository: transactionRepository,
		DenyList:              denyList,
		LocationIndex:         locationIndex,
		PayoutProducer:        payoutProducer,
		Tasks:                 tasks,
		Now:                   time.Now,
	}
}

// GenerateWeekly opens the current week's payout for every active rider
// and backfills any prior-week deliveries that missed inline settlement.
// Upsert plus append-with-dedup makes the whole pass safe to re-run.
func (c *PayoutUseCase) GenerateWeekly(ctx context.Context) error {
	nowAt := c.Now().UTC()
	weekStart := weekStartOf(nowAt)
	weekEnd := weekEndOf(nowAt)

	riderIDs, err := c.RiderRepository.ActiveRiderIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active riders: %w", err)
	}

	created := 0
	for _, riderID := range riderIDs {
		payout, err := c.PayoutRepository.Upsert(ctx, riderID, weekStart, weekEnd)
		if err != nil {
			c.Log.Error("payout-usecase", fmt.Sprintf("error opening payout: %v", err), "GenerateWeekly", riderID)
			continue
		}
		created++
		c.sendPayoutEvent(&model.PayoutEvent{
			EventID:   uuid.NewString(),
			Type:      model.EventPayoutGenerated,
			PayoutID:  payout.ID,
			RiderID:   riderID,
			WeekStart: weekStart.Format(time.RFC3339),
		})
	}

	backfilled := c.backfillWeek(ctx, weekStart.AddDate(0, 0, -7), weekStart)

	c.Log.Info("payout-usecase",
		fmt.Sprintf("opened %d payouts, backfilled %d orders", created, backfilled),
		"GenerateWeekly", weekStart.Format("2006-01-02"))
	return nil
}

// backfillWeek re-appends delivered orders of [from, to) to their
// payouts. INSERT IGNORE on the link table keeps this idempotent.
func (c *PayoutUseCase) backfillWeek(ctx context.Context, from, to time.Time) int {
	orders, err := c.OrderRepository.DeliveredBetween(ctx, from, to)
	if err != nil {
		c.Log.Error("payout-usecase", fmt.Sprintf("error listing delivered orders: %v", err), "backfillWeek", "")
		return 0
	}

	appended := 0
	for _, order := range orders {
		if order.RiderID == nil || !order.Settled() {
			continue
		}
		payout, err := c.PayoutRepository.Upsert(ctx, *order.RiderID, from, to)
		if err != nil {
			c.Log.Error("payout-usecase", fmt.Sprintf("error upserting payout: %v", err), "backfillWeek", *order.RiderID)
			continue
		}
		err = c.PayoutRepository.AppendOrder(ctx, payout.ID, entity.PayoutOrder{
			PayoutID:         payout.ID,
			OrderID:          order.ID,
			DeliveredAt:      *order.DeliveredAt,
			GrossAmount:      *order.GrossAmount,
			CommissionAmount: *order.CommissionAmount,
			RiderNetAmount:   *order.RiderNetAmount,
		})
		if err != nil {
			c.Log.Error("payout-usecase", fmt.Sprintf("error appending order: %v", err), "backfillWeek", order.ID)
			continue
		}
		appended++
	}
	return appended
}

// SendReminders nudges every rider whose current-week payout is still
// pending with a positive balance.
func (c *PayoutUseCase) SendReminders(ctx context.Context) error {
	weekStart := weekStartOf(c.Now().UTC())

	pending, err := c.PayoutRepository.PendingForWeek(ctx, weekStart)
	if err != nil {
		return fmt.Errorf("list pending payouts: %w", err)
	}

	sent := 0
	for _, payout := range pending {
		if payout.NetTotal <= 0 {
			continue
		}
		c.sendPayoutEvent(&model.PayoutEvent{
			EventID:  uuid.NewString(),
			Type:     model.EventPayoutReminder,
			PayoutID: payout.ID,
			RiderID:  payout.RiderID,
			NetTotal: payout.NetTotal,
			Message:  fmt.Sprintf("payout due %s", payout.DueAt().Format("Mon Jan 2 15:04")),
		})
		sent++
	}

	c.Log.Info("payout-usecase", fmt.Sprintf("sent %d reminders", sent), "SendReminders", weekStart.Format("2006-01-02"))
	return nil
}

// BlockOverdue deactivates riders whose prior-week payout is still
// unpaid past the grace deadline. Blocking takes the rider offline,
// drops them from the dispatch index, and deny-lists their identity so
// a fresh signup cannot dodge the debt.
func (c *PayoutUseCase) BlockOverdue(ctx context.Context) error {
	nowAt := c.Now().UTC()
	priorWeekStart := weekStartOf(nowAt).AddDate(0, 0, -7)

	pending, err := c.PayoutRepository.PendingForWeek(ctx, priorWeekStart)
	if err != nil {
		return fmt.Errorf("list pending payouts: %w", err)
	}

	blocked := 0
	for _, payout := range pending {
		if payout.NetTotal <= 0 || !nowAt.After(payout.GraceDeadline()) {
			continue
		}
		if err := c.blockRider(ctx, &payout, nowAt); err != nil {
			c.Log.Error("payout-usecase", fmt.Sprintf("error blocking rider: %v", err), "BlockOverdue", payout.RiderID)
			continue
		}
		blocked++
	}

	c.Log.Info("payout-usecase", fmt.Sprintf("blocked %d riders", blocked), "BlockOverdue", priorWeekStart.Format("2006-01-02"))
	return nil
}

func (c *PayoutUseCase) blockRider(ctx context.Context, payout *entity.RiderPayout, at time.Time) error {
	rider, err := c.RiderRepository.FindByID(ctx, payout.RiderID)
	if err != nil {
		return err
	}
	if rider.PaymentBlocked {
		return nil
	}

	reason := fmt.Sprintf("unpaid payout %s past grace deadline", payout.ID)
	if err := c.RiderRepository.SetPaymentBlocked(ctx, rider.RiderID, true, reason, at); err != nil {
		return err
	}
	if err := c.LocationIndex.Remove(ctx, rider.RiderID); err != nil {
		c.Log.Warn("payout-usecase", fmt.Sprintf("error removing rider from dispatch index: %v", err), "blockRider", rider.RiderID)
	}
	if err := c.DenyList.Add(ctx, rider, reason); err != nil {
		c.Log.Error("payout-usecase", fmt.Sprintf("error deny-listing rider: %v", err), "blockRider", rider.RiderID)
	}

	c.sendPayoutEvent(&model.PayoutEvent{
		EventID:  uuid.NewString(),
		Type:     model.EventRiderBlocked,
		PayoutID: payout.ID,
		RiderID:  rider.RiderID,
		NetTotal: payout.NetTotal,
		Message:  reason,
	})
	return nil
}

// MarkPaid settles a payout. A repeated call on an already-paid payout
// is a no-op success so payment-provider webhooks can retry freely.
func (c *PayoutUseCase) MarkPaid(ctx context.Context, request *model.MarkPayoutPaidRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	payout, err := c.PayoutRepository.FindByID(ctx, request.PayoutID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = "payout not found"
		result.Error = errObj
		return result
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error loading payout: %v", err)
		result.Error = errObj
		c.Log.Error("payout-usecase", errObj.Message, "MarkPaid", request.PayoutID)
		return result
	}
	if request.Role == "rider" && payout.RiderID != request.ActorID {
		errObj := httpError.NewForbidden()
		errObj.Message = "payout belongs to another rider"
		result.Error = errObj
		return result
	}

	nowAt := c.Now().UTC()
	ok, err := c.PayoutRepository.MarkPaid(ctx, request.PayoutID, request.ActorID, nowAt)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error marking payout paid: %v", err)
		result.Error = errObj
		c.Log.Error("payout-usecase", errObj.Message, "MarkPaid", request.PayoutID)
		return result
	}
	if !ok {
		// lost the write because it is already paid: report success
		payout, err = c.PayoutRepository.FindByID(ctx, request.PayoutID)
		if err == nil && payout.Status == entity.PayoutPaid {
			result.Data = converter.PayoutToResponse(payout, nil)
			return result
		}
		errObj := httpError.NewConflict()
		errObj.Message = "payout cannot be marked paid"
		result.Error = errObj
		return result
	}

	c.unblockIfClear(ctx, payout.RiderID)

	if err := c.TransactionRepository.CompleteByPayout(ctx, request.PayoutID); err != nil {
		c.Log.Error("payout-usecase", fmt.Sprintf("error completing payout transactions: %v", err), "MarkPaid", request.PayoutID)
	}

	payout, err = c.PayoutRepository.FindByID(ctx, request.PayoutID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error reloading payout: %v", err)
		result.Error = errObj
		return result
	}

	c.sendPayoutEvent(&model.PayoutEvent{
		EventID:  uuid.NewString(),
		Type:     model.EventPayoutPaid,
		PayoutID: payout.ID,
		RiderID:  payout.RiderID,
		NetTotal: payout.NetTotal,
	})

	result.Data = converter.PayoutToResponse(payout, nil)
	return result
}

// unblockIfClear lifts a payment block once no pending payouts remain
// for the rider. Paying the overdue week restores the account.
func (c *PayoutUseCase) unblockIfClear(ctx context.Context, riderID string) {
	rider, err := c.RiderRepository.FindByID(ctx, riderID)
	if err != nil || !rider.PaymentBlocked {
		return
	}
	payouts, err := c.PayoutRepository.ListByRider(ctx, riderID, 10)
	if err != nil {
		c.Log.Warn("payout-usecase", fmt.Sprintf("error listing payouts: %v", err), "unblockIfClear", riderID)
		return
	}
	for _, p := range payouts {
		if p.Status == entity.PayoutPending && p.NetTotal > 0 {
			return
		}
	}
	if err := c.RiderRepository.SetPaymentBlocked(ctx, riderID, false, "payout settled", c.Now().UTC()); err != nil {
		c.Log.Error("payout-usecase", fmt.Sprintf("error unblocking rider: %v", err), "unblockIfClear", riderID)
	}
}

func (c *PayoutUseCase) ListPayouts(ctx context.Context, request *model.ListPayoutsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	payouts, err := c.PayoutRepository.ListByRider(ctx, request.RiderID, 26)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("error listing payouts: %v", err)
		result.Error = errObj
		c.Log.Error("payout-usecase", errObj.Message, "ListPayouts", request.RiderID)
		return result
	}

	responses := make([]*model.PayoutResponse, 0, len(payouts))
	for i := range payouts {
		orders, err := c.PayoutRepository.Orders(ctx, payouts[i].ID)
		if err != nil {
			c.Log.Warn("payout-usecase", fmt.Sprintf("error loading payout orders: %v", err), "ListPayouts", payouts[i].ID)
		}
		responses = append(responses, converter.PayoutToResponse(&payouts[i], orders))
	}
	result.Data = responses
	return result
}

// RunJob is the admin escape hatch for triggering a scheduler pass on
// demand. With a queue attached the job runs on the worker like any
// scheduled pass; without one it runs inline.
func (c *PayoutUseCase) RunJob(ctx context.Context, request *model.RunPayoutJobRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	taskTypes := map[string]string{
		"generate": TaskPayoutGenerate,
		"remind":   TaskPayoutRemind,
		"block":    TaskPayoutBlock,
	}

	if c.Tasks != nil {
		info, err := c.Tasks.Enqueue(asynq.NewTask(taskTypes[request.Job], nil), asynq.Unique(time.Minute))
		if err != nil {
			errObj := httpError.NewInternalServerError()
			errObj.Message = fmt.Sprintf("error queueing job %s: %v", request.Job, err)
			result.Error = errObj
			c.Log.Error("payout-usecase", errObj.Message, "RunJob", request.AdminID)
			return result
		}
		result.Data = map[string]interface{}{"job": request.Job, "status": "queued", "taskId": info.ID}
		return result
	}

	var err error
	switch request.Job {
	case "generate":
		err = c.GenerateWeekly(ctx)
	case "remind":
		err = c.SendReminders(ctx)
	case "block":
		err = c.BlockOverdue(ctx)
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = fmt.Sprintf("job %s failed: %v", request.Job, err)
		result.Error = errObj
		c.Log.Error("payout-usecase", errObj.Message, "RunJob", request.AdminID)
		return result
	}

	result.Data = map[string]interface{}{"job": request.Job, "status": "completed"}
	return result
}

// asynq handlers registered on the background worker mux.

func (c *PayoutUseCase) HandleGenerateTask(ctx context.Context, _ *asynq.Task) error {
	return c.GenerateWeekly(ctx)
}

func (c *PayoutUseCase) HandleRemindTask(ctx context.Context, _ *asynq.Task) error {
	return c.SendReminders(ctx)
}

func (c *PayoutUseCase) HandleBlockTask(ctx context.Context, _ *asynq.Task) error {
	return c.BlockOverdue(ctx)
}

func (c *PayoutUseCase) sendPayoutEvent(event *model.PayoutEvent) {
	if err := c.PayoutProducer.SendPayoutEvent(event); err != nil {
		c.Log.Error("payout-usecase", fmt.Sprintf("error publishing %s event: %v", event.Type, err), "sendPayoutEvent", event.RiderID)
	}
}
