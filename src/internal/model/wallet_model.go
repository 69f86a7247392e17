package model

import "time"

type WalletRequest struct {
	UserID string `json:"-" validate:"required"`
}

type TopupRequest struct {
	UserID string `json:"-" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type WalletTransactionInfo struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId,omitempty"`
	PayoutID    string    `json:"payoutId,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type WalletResponse struct {
	UserID       string                  `json:"userId"`
	Balance      int64                   `json:"balance"`
	Transactions []WalletTransactionInfo `json:"transactions,omitempty"`
	LastUpdated  time.Time               `json:"lastUpdated"`
}
