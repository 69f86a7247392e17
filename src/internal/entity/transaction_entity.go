package entity

import "time"

type TransactionType string

const (
	TxOrderPayment   TransactionType = "order_payment"
	TxCommission     TransactionType = "commission"
	TxRiderPayout    TransactionType = "rider_payout"
	TxRefund         TransactionType = "refund"
	TxStreakBonus    TransactionType = "streak_bonus"
	TxReferralReward TransactionType = "referral_reward"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"
)

// Transaction is the admin-facing accounting ledger, independent of
// wallet state. One row per money movement.
type Transaction struct {
	ID          string            `db:"id"`
	Type        TransactionType   `db:"type"`
	Status      TransactionStatus `db:"status"`
	Amount      int64             `db:"amount"`
	UserID      *string           `db:"user_id"`
	RiderID     *string           `db:"rider_id"`
	OrderID     *string           `db:"order_id"`
	PayoutID    *string           `db:"payout_id"`
	Description string            `db:"description"`
	CreatedAt   time.Time         `db:"created_at"`
}
