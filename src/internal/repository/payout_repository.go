package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type PayoutRepository struct {
	DB mysql.DBInterface
}

func NewPayoutRepository(db mysql.DBInterface) *PayoutRepository {
	return &PayoutRepository{DB: db}
}

const payoutColumns = `
	id, rider_id, week_start, week_end, status, paid_at, marked_paid_by,
	payment_reference_code, gross_total, commission_total, net_total, order_count,
	created_at, updated_at`

// Upsert creates the (rider, week) payout if missing and returns it.
// Re-running generation hits the unique key and changes nothing, so the
// reference code stays stable for the payout's lifetime.
func (r *PayoutRepository) Upsert(ctx context.Context, riderID string, weekStart, weekEnd time.Time) (*entity.RiderPayout, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	refCode := newReferenceCode()
	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, `
		INSERT INTO rider_payouts (id, rider_id, week_start, week_end, status, payment_reference_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id`,
		uuid.NewString(), riderID, weekStart, weekEnd, entity.PayoutPending, refCode, now, now,
	)
	if err != nil {
		return nil, err
	}
	return r.FindForRiderWeek(ctx, riderID, weekStart)
}

func (r *PayoutRepository) FindByID(ctx context.Context, payoutID string) (*entity.RiderPayout, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var p entity.RiderPayout
	err = db.GetContext(ctx, &p, `SELECT `+payoutColumns+` FROM rider_payouts WHERE id = ?`, payoutID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayoutRepository) FindForRiderWeek(ctx context.Context, riderID string, weekStart time.Time) (*entity.RiderPayout, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var p entity.RiderPayout
	err = db.GetContext(ctx, &p, `
		SELECT `+payoutColumns+` FROM rider_payouts WHERE rider_id = ? AND week_start = ?`,
		riderID, weekStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayoutRepository) ListByRider(ctx context.Context, riderID string, limit int) ([]entity.RiderPayout, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var payouts []entity.RiderPayout
	err = db.SelectContext(ctx, &payouts, `
		SELECT `+payoutColumns+` FROM rider_payouts
		WHERE rider_id = ? ORDER BY week_start DESC LIMIT ?`,
		riderID, limit)
	return payouts, err
}

func (r *PayoutRepository) Orders(ctx context.Context, payoutID string) ([]entity.PayoutOrder, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var orders []entity.PayoutOrder
	err = db.SelectContext(ctx, &orders, `
		SELECT payout_id, order_id, delivered_at, gross_amount, commission_amount, rider_net_amount
		FROM rider_payout_orders
		WHERE payout_id = ?
		ORDER BY delivered_at ASC`, payoutID)
	return orders, err
}

// AppendOrder adds one settled order (unique by order id, so replays are
// no-ops) and recomputes the totals from the full order list in the same
// transaction. Totals are never incremented in place.
func (r *PayoutRepository) AppendOrder(ctx context.Context, payoutID string, po entity.PayoutOrder) error {
	return r.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT IGNORE INTO rider_payout_orders
				(payout_id, order_id, delivered_at, gross_amount, commission_amount, rider_net_amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			payoutID, po.OrderID, po.DeliveredAt, po.GrossAmount, po.CommissionAmount, po.RiderNetAmount,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE rider_payouts p
			SET p.gross_total      = (SELECT COALESCE(SUM(gross_amount), 0) FROM rider_payout_orders WHERE payout_id = p.id),
			    p.commission_total = (SELECT COALESCE(SUM(commission_amount), 0) FROM rider_payout_orders WHERE payout_id = p.id),
			    p.net_total        = (SELECT COALESCE(SUM(rider_net_amount), 0) FROM rider_payout_orders WHERE payout_id = p.id),
			    p.order_count      = (SELECT COUNT(*) FROM rider_payout_orders WHERE payout_id = p.id),
			    p.updated_at       = NOW()
			WHERE p.id = ?`, payoutID,
		)
		return err
	})
}

// MarkPaid flips a pending payout to paid; zero rows means it was
// already paid, which callers treat as success.
func (r *PayoutRepository) MarkPaid(ctx context.Context, payoutID, markedBy string, at time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE rider_payouts
		SET status = ?, paid_at = ?, marked_paid_by = ?, updated_at = NOW()
		WHERE id = ? AND status = ?`,
		entity.PayoutPaid, at, markedBy, payoutID, entity.PayoutPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// PendingForWeek lists payouts of one week still unpaid, for reminders
// and the blocking batch.
func (r *PayoutRepository) PendingForWeek(ctx context.Context, weekStart time.Time) ([]entity.RiderPayout, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var payouts []entity.RiderPayout
	err = db.SelectContext(ctx, &payouts, `
		SELECT `+payoutColumns+` FROM rider_payouts
		WHERE week_start = ? AND status = ?`,
		weekStart, entity.PayoutPending)
	return payouts, err
}

func newReferenceCode() string {
	compact := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PAY-" + compact[:16]
}
