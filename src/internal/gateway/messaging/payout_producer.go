package messaging

import (
	"dispatch-service/src/internal/model"
	"dispatch-service/src/pkg/kafka"
	"dispatch-service/src/pkg/log"
)

type PayoutProducer struct {
	EventProducer Producer[*model.PayoutEvent]
}

func NewPayoutProducer(producer kafka.Producer, log log.Log) *PayoutProducer {
	return &PayoutProducer{
		EventProducer: Producer[*model.PayoutEvent]{
			Producer: producer,
			Topic:    "payout-events",
			Log:      log,
		},
	}
}

func (p *PayoutProducer) SendPayoutEvent(event *model.PayoutEvent) error {
	return p.EventProducer.Send(event)
}
