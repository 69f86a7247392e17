package messaging

import (
	"dispatch-service/src/internal/model"
	"dispatch-service/src/pkg/kafka"
	"dispatch-service/src/pkg/log"
)

// DispatchProducer fans out "new order available" notifications, one
// event per matched rider.
type DispatchProducer struct {
	OrderAvailableProducer Producer[*model.OrderAvailableEvent]
}

func NewDispatchProducer(producer kafka.Producer, log log.Log) *DispatchProducer {
	return &DispatchProducer{
		OrderAvailableProducer: Producer[*model.OrderAvailableEvent]{
			Producer: producer,
			Topic:    "dispatch-notifications",
			Log:      log,
		},
	}
}

func (p *DispatchProducer) SendOrderAvailable(event *model.OrderAvailableEvent) error {
	return p.OrderAvailableProducer.Send(event)
}
