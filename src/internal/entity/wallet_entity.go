package entity

import "time"

type Wallet struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Balance     int64     `db:"balance"`
	LastUpdated time.Time `db:"last_updated"`
}

type WalletTxType string

const (
	WalletTxTopup       WalletTxType = "topup"
	WalletTxPayment     WalletTxType = "order_payment"
	WalletTxRefund      WalletTxType = "refund"
	WalletTxRiderEarn   WalletTxType = "rider_earning"
	WalletTxStreakBonus WalletTxType = "streak_bonus"
)

// WalletTransaction is one signed ledger row; the wallet balance always
// equals the running sum of these amounts.
type WalletTransaction struct {
	ID          string       `db:"id"`
	WalletID    string       `db:"wallet_id"`
	Amount      int64        `db:"amount"` // signed, smallest currency unit
	Type        WalletTxType `db:"type"`
	OrderID     *string      `db:"order_id"`
	PayoutID    *string      `db:"payout_id"`
	Description string       `db:"description"`
	CreatedAt   time.Time    `db:"created_at"`
}
