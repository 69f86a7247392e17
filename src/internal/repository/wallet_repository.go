package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{DB: db}
}

func (r *WalletRepository) Find(ctx context.Context, userID string) (*entity.Wallet, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var w entity.Wallet
	err = db.GetContext(ctx, &w, `
		SELECT id, user_id, balance, last_updated FROM wallets WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) Transactions(ctx context.Context, walletID string, limit int) ([]entity.WalletTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var txs []entity.WalletTransaction
	err = db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, amount, type, order_id, payout_id, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, walletID, limit)
	return txs, err
}

// Credit adds to the balance and records the transaction row in one
// database transaction; neither exists without the other.
func (r *WalletRepository) Credit(ctx context.Context, userID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error {
	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		walletID, err := r.lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE wallets SET balance = balance + ?, last_updated = ? WHERE id = ?`,
			amount, time.Now().UTC(), walletID,
		); err != nil {
			return err
		}
		return r.insertTx(ctx, tx, walletID, amount, txType, orderID, payoutID, description)
	})
}

// Debit subtracts from the balance; the conditional update refuses to
// take the balance negative and the whole unit rolls back on failure.
func (r *WalletRepository) Debit(ctx context.Context, userID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error {
	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		walletID, err := r.lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE wallets SET balance = balance - ?, last_updated = ?
			WHERE id = ? AND balance >= ?`,
			amount, time.Now().UTC(), walletID, amount,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInsufficientBalance
		}
		return r.insertTx(ctx, tx, walletID, -amount, txType, orderID, payoutID, description)
	})
}

// DebitedForOrder sums what a user has paid toward an order, for refunds.
func (r *WalletRepository) DebitedForOrder(ctx context.Context, userID, orderID string) (int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}
	var total int64
	err = db.GetContext(ctx, &total, `
		SELECT COALESCE(-SUM(t.amount), 0)
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = ? AND t.order_id = ? AND t.amount < 0`,
		userID, orderID,
	)
	return total, err
}

func (r *WalletRepository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID string) (string, error) {
	var walletID string
	err := tx.GetContext(ctx, &walletID, `
		SELECT id FROM wallets WHERE user_id = ? FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return walletID, err
}

func (r *WalletRepository) insertTx(ctx context.Context, tx *sqlx.Tx, walletID string, amount int64, txType entity.WalletTxType, orderID, payoutID *string, description string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, amount, type, order_id, payout_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), walletID, amount, txType, orderID, payoutID, description, time.Now().UTC(),
	)
	return err
}
