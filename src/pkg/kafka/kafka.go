package kafka

import (
	"strings"
	"time"

	"github.com/IBM/sarama"

	"dispatch-service/src/pkg/log"
)

// Producer is the event-bus surface the gateway layer depends on.
// Failures are the caller's to log; the bus never blocks domain commits.
type Producer interface {
	Publish(topic string, key, value []byte) error
	Close() error
}

type Cfg struct {
	KafkaUrl      string
	KafkaUsername string
	KafkaPassword string
	AppName       string
}

type syncProducer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewProducer(cfg Cfg, logger log.Log) (Producer, error) {
	config := sarama.NewConfig()
	config.ClientID = cfg.AppName
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = 500 * time.Millisecond
	config.Producer.Return.Successes = true

	if cfg.KafkaUsername != "" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		config.Net.SASL.User = cfg.KafkaUsername
		config.Net.SASL.Password = cfg.KafkaPassword
	}

	producer, err := sarama.NewSyncProducer(strings.Split(cfg.KafkaUrl, ","), config)
	if err != nil {
		return nil, err
	}

	return &syncProducer{producer: producer, log: logger}, nil
}

func (p *syncProducer) Publish(topic string, key, value []byte) error {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (p *syncProducer) Close() error {
	return p.producer.Close()
}
