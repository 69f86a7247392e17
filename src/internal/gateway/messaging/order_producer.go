package messaging

import (
	"dispatch-service/src/internal/model"
	"dispatch-service/src/pkg/kafka"
	"dispatch-service/src/pkg/log"
)

// OrderProducer publishes order lifecycle events. All sends happen after
// the domain transition committed; failures are logged by the caller and
// never propagated.
type OrderProducer struct {
	LifecycleProducer Producer[*model.OrderLifecycleEvent]
}

func NewOrderProducer(producer kafka.Producer, log log.Log) *OrderProducer {
	return &OrderProducer{
		LifecycleProducer: Producer[*model.OrderLifecycleEvent]{
			Producer: producer,
			Topic:    "order-events",
			Log:      log,
		},
	}
}

func (p *OrderProducer) SendLifecycle(event *model.OrderLifecycleEvent) error {
	return p.LifecycleProducer.Send(event)
}
