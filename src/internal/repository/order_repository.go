package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

var ErrNotFound = errors.New("record not found")

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `
	id, customer_id, rider_id,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	price, original_price, service_type, preferred_vehicle_type, payment_method, distance_km,
	status,
	negotiation_status, negotiation_rider_id, negotiation_price, negotiation_reason,
	negotiation_requested_at, negotiation_resolved_at,
	otp_code, otp_expires_at, otp_verified_at, delivered_at, proof_photo_url,
	recipient_name, recipient_phone,
	gross_amount, commission_rate_pct, commission_amount, rider_net_amount, settled_at,
	created_at, updated_at`

func (r *OrderRepository) Insert(ctx context.Context, o *entity.Order) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id,
			pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			price, original_price, service_type, preferred_vehicle_type, payment_method, distance_km,
			status, negotiation_status, recipient_name, recipient_phone,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerID,
		o.PickupAddress, o.PickupLat, o.PickupLng,
		o.DropoffAddress, o.DropoffLat, o.DropoffLng,
		o.Price, o.OriginalPrice, o.ServiceType, o.PreferredVehicleType, o.PaymentMethod, o.DistanceKm,
		o.Status, o.NegotiationStatus, o.RecipientName, o.RecipientPhone,
		o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var o entity.Order
	err = db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Claim is the atomic accept: it only succeeds while the order is still
// pending and unassigned, so two racing riders get exactly one winner.
func (r *OrderRepository) Claim(ctx context.Context, orderID, riderID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET rider_id = ?, status = ?, updated_at = NOW()
		WHERE id = ? AND status = ? AND rider_id IS NULL`,
		riderID, entity.OrderAssigned, orderID, entity.OrderPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// UpdateStatus moves the order forward with a compare-and-swap on the
// current status; a lost race surfaces as rows affected == 0.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to entity.OrderStatus) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?,
		    delivered_at = CASE WHEN ? = 'delivered' THEN NOW() ELSE delivered_at END,
		    updated_at = NOW()
		WHERE id = ? AND status = ?`,
		to, to, orderID, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// RequestNegotiation records a rider's price request; only one may be
// outstanding and only while the order is still pending.
func (r *OrderRepository) RequestNegotiation(ctx context.Context, orderID, riderID string, price int64, reason string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET negotiation_status = ?, negotiation_rider_id = ?, negotiation_price = ?,
		    negotiation_reason = ?, negotiation_requested_at = NOW(), negotiation_resolved_at = NULL,
		    updated_at = NOW()
		WHERE id = ? AND status = ? AND negotiation_status IN (?, ?)`,
		entity.NegotiationRequested, riderID, price, reason,
		orderID, entity.OrderPending, entity.NegotiationNone, entity.NegotiationRejected,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// AcceptNegotiation commits the requested price and the requesting rider
// in one conditional write. It fails if the order left pending (e.g. a
// direct accept won the race) so a stale response cannot mutate a
// committed order.
func (r *OrderRepository) AcceptNegotiation(ctx context.Context, orderID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET price = negotiation_price,
		    rider_id = negotiation_rider_id,
		    status = ?,
		    negotiation_status = ?,
		    negotiation_resolved_at = NOW(),
		    updated_at = NOW()
		WHERE id = ? AND status = ? AND rider_id IS NULL AND negotiation_status = ?`,
		entity.OrderAssigned, entity.NegotiationAccepted,
		orderID, entity.OrderPending, entity.NegotiationRequested,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// RejectNegotiation clears an outstanding request, price untouched.
func (r *OrderRepository) RejectNegotiation(ctx context.Context, orderID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET negotiation_status = ?, negotiation_resolved_at = NOW(), updated_at = NOW()
		WHERE id = ? AND negotiation_status = ?`,
		entity.NegotiationRejected, orderID, entity.NegotiationRequested,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetPriceByAdmin overrides the binding price and clears any in-flight
// negotiation. The original price column is never touched.
func (r *OrderRepository) SetPriceByAdmin(ctx context.Context, orderID string, price int64) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET price = ?,
		    negotiation_status = ?,
		    negotiation_resolved_at = NOW(),
		    updated_at = NOW()
		WHERE id = ? AND status NOT IN (?, ?)`,
		price, entity.NegotiationAdminUpdated,
		orderID, entity.OrderDelivered, entity.OrderCancelled,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetOtp issues a delivery code; duplicate generation while a live code
// exists is refused so the caller can surface a conflict.
func (r *OrderRepository) SetOtp(ctx context.Context, orderID, code string, expiresAt time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET otp_code = ?, otp_expires_at = ?, updated_at = NOW()
		WHERE id = ? AND status = ? AND (otp_code IS NULL OR otp_expires_at < NOW())`,
		code, expiresAt, orderID, entity.OrderDelivering,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// MarkDeliveredByOtp completes the order after a verified code.
func (r *OrderRepository) MarkDeliveredByOtp(ctx context.Context, orderID string, proofPhotoURL string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, otp_verified_at = NOW(), delivered_at = NOW(),
		    proof_photo_url = NULLIF(?, ''), updated_at = NOW()
		WHERE id = ? AND status = ?`,
		entity.OrderDelivered, proofPhotoURL, orderID, entity.OrderDelivering,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetFinancial writes the settlement split exactly once; a second call
// affects zero rows and the caller treats that as already settled.
func (r *OrderRepository) SetFinancial(ctx context.Context, orderID string, fin entity.OrderFinancial) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET gross_amount = ?, commission_rate_pct = ?, commission_amount = ?,
		    rider_net_amount = ?, settled_at = NOW(), updated_at = NOW()
		WHERE id = ? AND settled_at IS NULL`,
		fin.GrossAmount, fin.CommissionRatePct, fin.CommissionAmount,
		fin.RiderNetAmount, orderID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Cancel terminates the order from pending or assigned, detaching the
// rider and clearing any outstanding negotiation in the same write.
func (r *OrderRepository) Cancel(ctx context.Context, orderID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?,
		    rider_id = NULL,
		    negotiation_status = CASE WHEN negotiation_status = ? THEN ? ELSE negotiation_status END,
		    negotiation_resolved_at = CASE WHEN negotiation_status = ? THEN NOW() ELSE negotiation_resolved_at END,
		    updated_at = NOW()
		WHERE id = ? AND status IN (?, ?)`,
		entity.OrderCancelled,
		entity.NegotiationRequested, entity.NegotiationRejected,
		entity.NegotiationRequested,
		orderID, entity.OrderPending, entity.OrderAssigned,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *OrderRepository) AppendTimeline(ctx context.Context, orderID string, status entity.OrderStatus, note string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO order_timeline (order_id, status, note, created_at)
		VALUES (?, ?, ?, NOW())`,
		orderID, status, note,
	)
	return err
}

func (r *OrderRepository) Timeline(ctx context.Context, orderID string) ([]entity.TimelineEntry, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var entries []entity.TimelineEntry
	err = db.SelectContext(ctx, &entries, `
		SELECT id, order_id, status, note, created_at
		FROM order_timeline
		WHERE order_id = ?
		ORDER BY id ASC`, orderID,
	)
	return entries, err
}

// DeliveredBetween lists settled orders in [from, to) for payout generation.
func (r *OrderRepository) DeliveredBetween(ctx context.Context, from, to time.Time) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	var orders []entity.Order
	err = db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = ? AND delivered_at >= ? AND delivered_at < ?
		ORDER BY delivered_at ASC`,
		entity.OrderDelivered, from, to,
	)
	return orders, err
}
