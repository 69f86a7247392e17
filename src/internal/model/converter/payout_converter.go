package converter

import (
	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
)

func PayoutToResponse(p *entity.RiderPayout, orders []entity.PayoutOrder) *model.PayoutResponse {
	resp := &model.PayoutResponse{
		ID:                   p.ID,
		RiderID:              p.RiderID,
		WeekStart:            p.WeekStart,
		WeekEnd:              p.WeekEnd,
		Status:               string(p.Status),
		PaidAt:               p.PaidAt,
		PaymentReferenceCode: p.PaymentReferenceCode,
		GrossTotal:           p.GrossTotal,
		CommissionTotal:      p.CommissionTotal,
		NetTotal:             p.NetTotal,
		DueAt:                p.DueAt(),
		GraceDeadline:        p.GraceDeadline(),
	}
	if p.MarkedPaidBy != nil {
		resp.MarkedPaidBy = *p.MarkedPaidBy
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, model.PayoutOrderInfo{
			OrderID:          o.OrderID,
			DeliveredAt:      o.DeliveredAt,
			GrossAmount:      o.GrossAmount,
			CommissionAmount: o.CommissionAmount,
			RiderNetAmount:   o.RiderNetAmount,
		})
	}
	return resp
}

func WalletToResponse(w *entity.Wallet, txs []entity.WalletTransaction) *model.WalletResponse {
	resp := &model.WalletResponse{
		UserID:      w.UserID,
		Balance:     w.Balance,
		LastUpdated: w.LastUpdated,
	}
	for _, t := range txs {
		info := model.WalletTransactionInfo{
			ID:          t.ID,
			Amount:      t.Amount,
			Type:        string(t.Type),
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		}
		if t.OrderID != nil {
			info.OrderID = *t.OrderID
		}
		if t.PayoutID != nil {
			info.PayoutID = *t.PayoutID
		}
		resp.Transactions = append(resp.Transactions, info)
	}
	return resp
}

func RiderToResponse(r *entity.Rider) *model.RiderResponse {
	return &model.RiderResponse{
		RiderID:            r.RiderID,
		FullName:           r.FullName,
		Online:             r.Online,
		VehicleType:        r.VehicleType,
		CarTier:            r.CarTier,
		Services:           r.Services,
		SearchRadiusKm:     r.SearchRadiusKm,
		AcceptStreak:       r.AcceptStreak,
		PaymentBlocked:     r.PaymentBlocked,
		AccountDeactivated: r.AccountDeactivated,
	}
}
