package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type RiderRepository struct {
	DB mysql.DBInterface
}

func NewRiderRepository(db mysql.DBInterface) *RiderRepository {
	return &RiderRepository{DB: db}
}

const riderColumns = `
	rider_id, full_name, email, mobile_number, national_id,
	online, vehicle_type, car_tier, services, search_radius_km, accept_streak,
	gold_until, payment_blocked, account_deactivated, blocked_reason, blocked_at,
	last_seen_at, created_at`

func (r *RiderRepository) FindByID(ctx context.Context, riderID string) (*entity.Rider, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var rider entity.Rider
	err = db.GetContext(ctx, &rider, `SELECT `+riderColumns+` FROM riders WHERE rider_id = ?`, riderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *RiderRepository) FindByIDs(ctx context.Context, riderIDs []string) ([]entity.Rider, error) {
	if len(riderIDs) == 0 {
		return nil, nil
	}
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	query, args, err := sqlx.In(`SELECT `+riderColumns+` FROM riders WHERE rider_id IN (?)`, riderIDs)
	if err != nil {
		return nil, err
	}
	var riders []entity.Rider
	err = db.SelectContext(ctx, &riders, db.Rebind(query), args...)
	return riders, err
}

func (r *RiderRepository) SetOnline(ctx context.Context, riderID string, online bool) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE riders SET online = ?, last_seen_at = NOW() WHERE rider_id = ?`,
		online, riderID,
	)
	return err
}

func (r *RiderRepository) TouchLastSeen(ctx context.Context, riderID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE riders SET last_seen_at = NOW() WHERE rider_id = ?`, riderID)
	return err
}

func (r *RiderRepository) IncrementAcceptStreak(ctx context.Context, riderID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE riders SET accept_streak = accept_streak + 1 WHERE rider_id = ?`, riderID)
	return err
}

func (r *RiderRepository) ResetAcceptStreak(ctx context.Context, riderID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE riders SET accept_streak = 0 WHERE rider_id = ?`, riderID)
	return err
}

// SetPaymentBlocked flips both the payment block and the account
// deactivation together; the blocking batch and the unblock path are the
// only writers.
func (r *RiderRepository) SetPaymentBlocked(ctx context.Context, riderID string, blocked bool, reason string, at time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	if blocked {
		_, err = db.ExecContext(ctx, `
			UPDATE riders
			SET payment_blocked = TRUE, account_deactivated = TRUE, online = FALSE,
			    blocked_reason = ?, blocked_at = ?
			WHERE rider_id = ?`,
			reason, at, riderID,
		)
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE riders
		SET payment_blocked = FALSE, account_deactivated = FALSE,
		    blocked_reason = NULL, blocked_at = NULL
		WHERE rider_id = ?`,
		riderID,
	)
	return err
}

// ActiveRiderIDs lists riders eligible for a weekly payout record.
func (r *RiderRepository) ActiveRiderIDs(ctx context.Context) ([]string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var ids []string
	err = db.SelectContext(ctx, &ids, `
		SELECT rider_id FROM riders WHERE account_deactivated = FALSE`)
	return ids, err
}
