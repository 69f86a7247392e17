package converter

import (
	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
)

func OrderToResponse(o *entity.Order, timeline []entity.TimelineEntry) *model.OrderResponse {
	resp := &model.OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Pickup: model.LocationInfo{
			Address:   o.PickupAddress,
			Latitude:  o.PickupLat,
			Longitude: o.PickupLng,
		},
		Dropoff: model.LocationInfo{
			Address:   o.DropoffAddress,
			Latitude:  o.DropoffLat,
			Longitude: o.DropoffLng,
		},
		Price:                o.Price,
		OriginalPrice:        o.OriginalPrice,
		ServiceType:          string(o.ServiceType),
		PreferredVehicleType: o.PreferredVehicleType,
		PaymentMethod:        o.PaymentMethod,
		DistanceKm:           o.DistanceKm,
		Status:               string(o.Status),
		CreatedAt:            o.CreatedAt,
	}

	if o.RiderID != nil {
		resp.RiderID = *o.RiderID
	}

	if o.NegotiationStatus != entity.NegotiationNone {
		n := &model.NegotiationInfo{
			Status:      string(o.NegotiationStatus),
			RequestedAt: o.NegotiationRequestedAt,
			ResolvedAt:  o.NegotiationResolvedAt,
		}
		if o.NegotiationRiderID != nil {
			n.RiderID = *o.NegotiationRiderID
		}
		if o.NegotiationPrice != nil {
			n.Price = *o.NegotiationPrice
		}
		if o.NegotiationReason != nil {
			n.Reason = *o.NegotiationReason
		}
		resp.Negotiation = n
	}

	if o.OtpExpiresAt != nil || o.DeliveredAt != nil {
		d := &model.DeliveryInfo{
			OtpExpiresAt:  o.OtpExpiresAt,
			OtpVerifiedAt: o.OtpVerifiedAt,
			DeliveredAt:   o.DeliveredAt,
		}
		if o.ProofPhotoURL != nil {
			d.ProofPhotoURL = *o.ProofPhotoURL
		}
		if o.RecipientName != nil {
			d.RecipientName = *o.RecipientName
		}
		if o.RecipientPhone != nil {
			d.RecipientPhone = *o.RecipientPhone
		}
		resp.Delivery = d
	}

	// financial only appears once the order is settled
	if o.Settled() {
		resp.Financial = &model.FinancialInfo{
			GrossAmount:       *o.GrossAmount,
			CommissionRatePct: *o.CommissionRatePct,
			CommissionAmount:  *o.CommissionAmount,
			RiderNetAmount:    *o.RiderNetAmount,
		}
	}

	for _, t := range timeline {
		resp.Timeline = append(resp.Timeline, model.TimelineInfo{
			Status:    string(t.Status),
			Note:      t.Note,
			CreatedAt: t.CreatedAt,
		})
	}

	return resp
}

func OrderToLifecycleEvent(eventID, eventType string, o *entity.Order) *model.OrderLifecycleEvent {
	e := &model.OrderLifecycleEvent{
		EventID:    eventID,
		Type:       eventType,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Price:      o.Price,
	}
	if o.RiderID != nil {
		e.RiderID = *o.RiderID
	}
	return e
}
