package usecase

import (
	"context"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
)

// Store contracts consumed by the usecases. The repository package
// provides the MySQL/Redis implementations; tests plug in-memory fakes.

type OrderStore interface {
	Insert(ctx context.Context, o *entity.Order) error
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	Claim(ctx context.Context, orderID, riderID string) (bool, error)
	UpdateStatus(ctx context.Context, orderID string, from, to entity.OrderStatus) (bool, error)
	RequestNegotiation(ctx context.Context, orderID, riderID string, price int64, reason string) (bool, error)
	AcceptNegotiation(ctx context.Context, orderID string) (bool, error)
	RejectNegotiation(ctx context.Context, orderID string) (bool, error)
	SetPriceByAdmin(ctx context.Context, orderID string, price int64) (bool, error)
	SetOtp(ctx context.Context, orderID, code string, expiresAt time.Time) (bool, error)
	MarkDeliveredByOtp(ctx context.Context, orderID string, proofPhotoURL string) (bool, error)
	SetFinancial(ctx context.Context, orderID string, fin entity.OrderFinancial) (bool, error)
	Cancel(ctx context.Context, orderID string) (bool, error)
	AppendTimeline(ctx context.Context, orderID string, status entity.OrderStatus, note string) error
	Timeline(ctx context.Context, orderID string) ([]entity.TimelineEntry, error)
	DeliveredBetween(ctx context.Context, from, to time.Time) ([]entity.Order, error)
}

type RiderStore interface {
	FindByID(ctx context.Context, riderID string) (*entity.Rider, error)
	FindByIDs(ctx context.Context, riderIDs []string) ([]entity.Rider, error)
	SetOnline(ctx context.Context, riderID string, online bool) error
	TouchLastSeen(ctx context.Context, riderID string) error
	IncrementAcceptStreak(ctx context.Context, riderID string) error
	ResetAcceptStreak(ctx context.Context, riderID string) error
	SetPaymentBlocked(ctx context.Context, riderID string, blocked bool, reason string, at time.Time) error
	ActiveRiderIDs(ctx context.Context) ([]string, error)
}

type RiderLocationIndex interface {
	Update(ctx context.Context, riderID string, lng, lat float64) error
	Remove(ctx context.Context, riderID string) error
	Search(ctx context.Context, lng, lat, radiusKm float64) ([]entity.RiderDistance, error)
}

type WalletStore interface {
	Find(ctx context.Context, userID string) (*entity.Wallet, error)
	Transactions(ctx context.Context, walletID string, limit int) ([]entity.WalletTransaction, error)
	Credit(ctx context.Context, userID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error
	Debit(ctx context.Context, userID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error
	DebitedForOrder(ctx context.Context, userID, orderID string) (int64, error)
}

type TransactionStore interface {
	Insert(ctx context.Context, t *entity.Transaction) error
	CompleteByPayout(ctx context.Context, payoutID string) error
}

type PayoutStore interface {
	Upsert(ctx context.Context, riderID string, weekStart, weekEnd time.Time) (*entity.RiderPayout, error)
	FindByID(ctx context.Context, payoutID string) (*entity.RiderPayout, error)
	FindForRiderWeek(ctx context.Context, riderID string, weekStart time.Time) (*entity.RiderPayout, error)
	ListByRider(ctx context.Context, riderID string, limit int) ([]entity.RiderPayout, error)
	Orders(ctx context.Context, payoutID string) ([]entity.PayoutOrder, error)
	AppendOrder(ctx context.Context, payoutID string, po entity.PayoutOrder) error
	MarkPaid(ctx context.Context, payoutID, markedBy string, at time.Time) (bool, error)
	PendingForWeek(ctx context.Context, weekStart time.Time) ([]entity.RiderPayout, error)
}

type DenyListStore interface {
	Add(ctx context.Context, rider *entity.Rider, reason string) error
	Exists(ctx context.Context, email, mobileNumber string) (bool, error)
}

// DistanceProvider is the external road-distance service; callers fall
// back to a straight-line estimate when it errors.
type DistanceProvider interface {
	RoadDistanceKm(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (float64, error)
}

// Event publisher contracts; sends are fire-and-forget after the domain
// state committed.

type OrderEvents interface {
	SendLifecycle(event *model.OrderLifecycleEvent) error
}

type DispatchEvents interface {
	SendOrderAvailable(event *model.OrderAvailableEvent) error
}

type PayoutEvents interface {
	SendPayoutEvent(event *model.PayoutEvent) error
}
