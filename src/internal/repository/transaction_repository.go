package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type TransactionRepository struct {
	DB mysql.DBInterface
}

func NewTransactionRepository(db mysql.DBInterface) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Insert(ctx context.Context, t *entity.Transaction) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, status, amount, user_id, rider_id, order_id, payout_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Type, t.Status, t.Amount, t.UserID, t.RiderID, t.OrderID, t.PayoutID, t.Description, t.CreatedAt,
	)
	return err
}

// CompleteByPayout moves pending payout accruals to completed once the
// rider settles the week.
func (r *TransactionRepository) CompleteByPayout(ctx context.Context, payoutID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE transactions SET status = ? WHERE payout_id = ? AND type = ? AND status = ?`,
		entity.TxCompleted, payoutID, entity.TxRiderPayout, entity.TxPending,
	)
	return err
}

func (r *TransactionRepository) ListByOrder(ctx context.Context, orderID string) ([]entity.Transaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var txs []entity.Transaction
	err = db.SelectContext(ctx, &txs, `
		SELECT id, type, status, amount, user_id, rider_id, order_id, payout_id, description, created_at
		FROM transactions WHERE order_id = ? ORDER BY created_at ASC`, orderID)
	return txs, err
}
