package repository

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

// DenyListRepository records the identity credentials of defaulted riders
// so a blocked rider cannot re-register under a fresh account.
type DenyListRepository struct {
	DB mysql.DBInterface
}

func NewDenyListRepository(db mysql.DBInterface) *DenyListRepository {
	return &DenyListRepository{DB: db}
}

// Add stores email and phone normalized for exact-match lookup; the
// national id goes in only as a bcrypt digest.
func (r *DenyListRepository) Add(ctx context.Context, rider *entity.Rider, reason string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	idHash := ""
	if rider.NationalID != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(rider.NationalID), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		idHash = string(hash)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO blocked_credentials (rider_id, email, mobile_number, national_id_hash, reason, created_at)
		VALUES (?, LOWER(?), ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE reason = VALUES(reason)`,
		rider.RiderID, rider.Email, rider.MobileNumber, idHash, reason, time.Now().UTC(),
	)
	return err
}

// Exists is the registration-time check against the deny-list.
func (r *DenyListRepository) Exists(ctx context.Context, email, mobileNumber string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	var count int
	err = db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM blocked_credentials
		WHERE email = LOWER(?) OR mobile_number = ?`,
		email, mobileNumber,
	)
	return count > 0, err
}
