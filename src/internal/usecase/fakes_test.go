package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/utils"
)

// In-memory stores mirroring the conditional-update semantics of the
// MySQL repositories, safe for concurrent use.

type fakeOrderStore struct {
	mu        sync.Mutex
	orders    map[string]*entity.Order
	timeline  map[string][]entity.TimelineEntry
	insertErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:   map[string]*entity.Order{},
		timeline: map[string][]entity.TimelineEntry{},
	}
}

func (s *fakeOrderStore) Insert(_ context.Context, o *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) Claim(_ context.Context, orderID, riderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != entity.OrderPending || o.RiderID != nil {
		return false, nil
	}
	rid := riderID
	o.RiderID = &rid
	o.Status = entity.OrderAssigned
	return true, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, orderID string, from, to entity.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if to == entity.OrderDelivered {
		now := time.Now().UTC()
		o.DeliveredAt = &now
	}
	return true, nil
}

func (s *fakeOrderStore) RequestNegotiation(_ context.Context, orderID, riderID string, price int64, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != entity.OrderPending {
		return false, nil
	}
	if o.NegotiationStatus != entity.NegotiationNone && o.NegotiationStatus != entity.NegotiationRejected {
		return false, nil
	}
	now := time.Now().UTC()
	o.NegotiationStatus = entity.NegotiationRequested
	o.NegotiationRiderID = &riderID
	o.NegotiationPrice = &price
	o.NegotiationReason = &reason
	o.NegotiationRequestedAt = &now
	o.NegotiationResolvedAt = nil
	return true, nil
}

func (s *fakeOrderStore) AcceptNegotiation(_ context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != entity.OrderPending || o.RiderID != nil || o.NegotiationStatus != entity.NegotiationRequested {
		return false, nil
	}
	now := time.Now().UTC()
	o.Price = *o.NegotiationPrice
	o.RiderID = o.NegotiationRiderID
	o.Status = entity.OrderAssigned
	o.NegotiationStatus = entity.NegotiationAccepted
	o.NegotiationResolvedAt = &now
	return true, nil
}

func (s *fakeOrderStore) RejectNegotiation(_ context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.NegotiationStatus != entity.NegotiationRequested {
		return false, nil
	}
	now := time.Now().UTC()
	o.NegotiationStatus = entity.NegotiationRejected
	o.NegotiationResolvedAt = &now
	return true, nil
}

func (s *fakeOrderStore) SetPriceByAdmin(_ context.Context, orderID string, price int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status == entity.OrderDelivered || o.Status == entity.OrderCancelled {
		return false, nil
	}
	now := time.Now().UTC()
	o.Price = price
	o.NegotiationStatus = entity.NegotiationAdminUpdated
	o.NegotiationResolvedAt = &now
	return true, nil
}

func (s *fakeOrderStore) SetOtp(_ context.Context, orderID, code string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != entity.OrderDelivering {
		return false, nil
	}
	if o.OtpCode != nil && o.OtpExpiresAt != nil && o.OtpExpiresAt.After(time.Now().UTC()) {
		return false, nil
	}
	o.OtpCode = &code
	o.OtpExpiresAt = &expiresAt
	return true, nil
}

func (s *fakeOrderStore) MarkDeliveredByOtp(_ context.Context, orderID string, proofPhotoURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != entity.OrderDelivering {
		return false, nil
	}
	now := time.Now().UTC()
	o.Status = entity.OrderDelivered
	o.OtpVerifiedAt = &now
	o.DeliveredAt = &now
	if proofPhotoURL != "" {
		o.ProofPhotoURL = &proofPhotoURL
	}
	return true, nil
}

func (s *fakeOrderStore) SetFinancial(_ context.Context, orderID string, fin entity.OrderFinancial) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.SettledAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	o.GrossAmount = &fin.GrossAmount
	o.CommissionRatePct = &fin.CommissionRatePct
	o.CommissionAmount = &fin.CommissionAmount
	o.RiderNetAmount = &fin.RiderNetAmount
	o.SettledAt = &now
	return true, nil
}

func (s *fakeOrderStore) Cancel(_ context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || (o.Status != entity.OrderPending && o.Status != entity.OrderAssigned) {
		return false, nil
	}
	o.Status = entity.OrderCancelled
	o.RiderID = nil
	if o.NegotiationStatus == entity.NegotiationRequested {
		now := time.Now().UTC()
		o.NegotiationStatus = entity.NegotiationRejected
		o.NegotiationResolvedAt = &now
	}
	return true, nil
}

func (s *fakeOrderStore) AppendTimeline(_ context.Context, orderID string, status entity.OrderStatus, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline[orderID] = append(s.timeline[orderID], entity.TimelineEntry{
		OrderID:   orderID,
		Status:    status,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *fakeOrderStore) Timeline(_ context.Context, orderID string) ([]entity.TimelineEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.TimelineEntry(nil), s.timeline[orderID]...), nil
}

func (s *fakeOrderStore) DeliveredBetween(_ context.Context, from, to time.Time) ([]entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Order
	for _, o := range s.orders {
		if o.Status == entity.OrderDelivered && o.DeliveredAt != nil &&
			!o.DeliveredAt.Before(from) && o.DeliveredAt.Before(to) {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeRiderStore struct {
	mu     sync.Mutex
	riders map[string]*entity.Rider
}

func newFakeRiderStore(riders ...*entity.Rider) *fakeRiderStore {
	s := &fakeRiderStore{riders: map[string]*entity.Rider{}}
	for _, r := range riders {
		cp := *r
		s.riders[r.RiderID] = &cp
	}
	return s
}

func (s *fakeRiderStore) FindByID(_ context.Context, riderID string) (*entity.Rider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.riders[riderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRiderStore) FindByIDs(_ context.Context, riderIDs []string) ([]entity.Rider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Rider
	for _, id := range riderIDs {
		if r, ok := s.riders[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRiderStore) SetOnline(_ context.Context, riderID string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.riders[riderID]; ok {
		r.Online = online
	}
	return nil
}

func (s *fakeRiderStore) TouchLastSeen(_ context.Context, riderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.riders[riderID]; ok {
		r.LastSeenAt = time.Now().UTC()
	}
	return nil
}

func (s *fakeRiderStore) IncrementAcceptStreak(_ context.Context, riderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.riders[riderID]; ok {
		r.AcceptStreak++
	}
	return nil
}

func (s *fakeRiderStore) ResetAcceptStreak(_ context.Context, riderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.riders[riderID]; ok {
		r.AcceptStreak = 0
	}
	return nil
}

func (s *fakeRiderStore) SetPaymentBlocked(_ context.Context, riderID string, blocked bool, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.riders[riderID]; ok {
		r.PaymentBlocked = blocked
		r.AccountDeactivated = blocked
		if blocked {
			r.Online = false
			r.BlockedReason = &reason
			r.BlockedAt = &at
		} else {
			r.BlockedReason = nil
			r.BlockedAt = nil
		}
	}
	return nil
}

func (s *fakeRiderStore) ActiveRiderIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for id, r := range s.riders {
		if !r.AccountDeactivated {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeWalletStore struct {
	mu       sync.Mutex
	balances map[string]int64
	txs      []entity.WalletTransaction
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{balances: map[string]int64{}}
}

func (s *fakeWalletStore) Find(_ context.Context, userID string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.Wallet{ID: "w-" + userID, UserID: userID, Balance: balance}, nil
}

func (s *fakeWalletStore) Transactions(_ context.Context, walletID string, limit int) ([]entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.WalletTransaction
	for _, tx := range s.txs {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *fakeWalletStore) Credit(_ context.Context, userID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] += amount
	s.txs = append(s.txs, entity.WalletTransaction{
		WalletID: "w-" + userID, Amount: amount, Type: txType,
		OrderID: orderID, PayoutID: payoutID, Description: description,
	})
	return nil
}

func (s *fakeWalletStore) Debit(_ context.Context, userID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[userID] < amount {
		return repository.ErrInsufficientBalance
	}
	s.balances[userID] -= amount
	s.txs = append(s.txs, entity.WalletTransaction{
		WalletID: "w-" + userID, Amount: -amount, Type: txType,
		OrderID: orderID, PayoutID: payoutID, Description: description,
	})
	return nil
}

func (s *fakeWalletStore) DebitedForOrder(_ context.Context, userID, orderID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, tx := range s.txs {
		if tx.WalletID == "w-"+userID && tx.OrderID != nil && *tx.OrderID == orderID && tx.Amount < 0 {
			total += -tx.Amount
		}
	}
	return total, nil
}

type fakeTransactionStore struct {
	mu   sync.Mutex
	rows []*entity.Transaction
}

func (s *fakeTransactionStore) Insert(_ context.Context, t *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *fakeTransactionStore) CompleteByPayout(_ context.Context, payoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.PayoutID != nil && *row.PayoutID == payoutID && row.Status == entity.TxPending {
			row.Status = entity.TxCompleted
		}
	}
	return nil
}

type fakePayoutStore struct {
	mu      sync.Mutex
	payouts map[string]*entity.RiderPayout // keyed by rider+weekStart
	orders  map[string][]entity.PayoutOrder
}

func newFakePayoutStore() *fakePayoutStore {
	return &fakePayoutStore{
		payouts: map[string]*entity.RiderPayout{},
		orders:  map[string][]entity.PayoutOrder{},
	}
}

func payoutKey(riderID string, weekStart time.Time) string {
	return riderID + "|" + weekStart.Format(time.RFC3339)
}

func (s *fakePayoutStore) Upsert(_ context.Context, riderID string, weekStart, weekEnd time.Time) (*entity.RiderPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := payoutKey(riderID, weekStart)
	if p, ok := s.payouts[key]; ok {
		cp := *p
		return &cp, nil
	}
	p := &entity.RiderPayout{
		ID:        payoutKey("payout", weekStart) + "-" + riderID,
		RiderID:   riderID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Status:    entity.PayoutPending,
	}
	s.payouts[key] = p
	cp := *p
	return &cp, nil
}

func (s *fakePayoutStore) FindByID(_ context.Context, payoutID string) (*entity.RiderPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payouts {
		if p.ID == payoutID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakePayoutStore) FindForRiderWeek(_ context.Context, riderID string, weekStart time.Time) (*entity.RiderPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payouts[payoutKey(riderID, weekStart)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakePayoutStore) ListByRider(_ context.Context, riderID string, limit int) ([]entity.RiderPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.RiderPayout
	for _, p := range s.payouts {
		if p.RiderID == riderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePayoutStore) Orders(_ context.Context, payoutID string) ([]entity.PayoutOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.PayoutOrder(nil), s.orders[payoutID]...), nil
}

func (s *fakePayoutStore) AppendOrder(_ context.Context, payoutID string, po entity.PayoutOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders[payoutID] {
		if existing.OrderID == po.OrderID {
			return nil
		}
	}
	s.orders[payoutID] = append(s.orders[payoutID], po)
	// recompute totals from the full order list, never increment
	for _, p := range s.payouts {
		if p.ID != payoutID {
			continue
		}
		p.GrossTotal, p.CommissionTotal, p.NetTotal, p.OrderCount = 0, 0, 0, 0
		for _, o := range s.orders[payoutID] {
			p.GrossTotal += o.GrossAmount
			p.CommissionTotal += o.CommissionAmount
			p.NetTotal += o.RiderNetAmount
			p.OrderCount++
		}
	}
	return nil
}

func (s *fakePayoutStore) MarkPaid(_ context.Context, payoutID, markedBy string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payouts {
		if p.ID == payoutID && p.Status == entity.PayoutPending {
			p.Status = entity.PayoutPaid
			p.PaidAt = &at
			p.MarkedPaidBy = &markedBy
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePayoutStore) PendingForWeek(_ context.Context, weekStart time.Time) ([]entity.RiderPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.RiderPayout
	for _, p := range s.payouts {
		if p.Status == entity.PayoutPending && p.WeekStart.Equal(weekStart) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeDenyList struct {
	mu      sync.Mutex
	entries []entity.BlockedCredential
}

func (s *fakeDenyList) Add(_ context.Context, rider *entity.Rider, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entity.BlockedCredential{
		RiderID: rider.RiderID, Email: rider.Email,
		MobileNumber: rider.MobileNumber, Reason: reason,
	})
	return nil
}

func (s *fakeDenyList) Exists(_ context.Context, email, mobileNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Email == email || e.MobileNumber == mobileNumber {
			return true, nil
		}
	}
	return false, nil
}

type fakeLocationIndex struct {
	mu        sync.Mutex
	positions map[string][2]float64 // lng, lat
}

func newFakeLocationIndex() *fakeLocationIndex {
	return &fakeLocationIndex{positions: map[string][2]float64{}}
}

func (s *fakeLocationIndex) Update(_ context.Context, riderID string, lng, lat float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[riderID] = [2]float64{lng, lat}
	return nil
}

func (s *fakeLocationIndex) Remove(_ context.Context, riderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, riderID)
	return nil
}

func (s *fakeLocationIndex) Search(_ context.Context, lng, lat, radiusKm float64) ([]entity.RiderDistance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.RiderDistance
	for id, pos := range s.positions {
		d := utils.HaversineKm(lat, lng, pos[1], pos[0])
		if d <= radiusKm {
			out = append(out, entity.RiderDistance{RiderID: id, DistanceKm: d, Lat: pos[1], Lng: pos[0]})
		}
	}
	return out, nil
}

type recordingOrderEvents struct {
	mu     sync.Mutex
	events []*model.OrderLifecycleEvent
}

func (r *recordingOrderEvents) SendLifecycle(event *model.OrderLifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingOrderEvents) byType(eventType string) []*model.OrderLifecycleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.OrderLifecycleEvent
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordingDispatchEvents struct {
	mu     sync.Mutex
	events []*model.OrderAvailableEvent
}

func (r *recordingDispatchEvents) SendOrderAvailable(event *model.OrderAvailableEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type recordingPayoutEvents struct {
	mu     sync.Mutex
	events []*model.PayoutEvent
}

func (r *recordingPayoutEvents) SendPayoutEvent(event *model.PayoutEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPayoutEvents) byType(eventType string) []*model.PayoutEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PayoutEvent
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fixedDistance struct {
	km  float64
	err error
}

func (d fixedDistance) RoadDistanceKm(context.Context, float64, float64, float64, float64) (float64, error) {
	return d.km, d.err
}

type fakeTaskEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (f *fakeTaskEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-" + task.Type(), Type: task.Type()}, nil
}
