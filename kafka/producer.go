package kafka

import (
	"context"
	"encoding/json"
	"log"

	"checkout-service/models"

	"github.com/segmentio/kafka-go"
)

// Producer publishes checkout reconciliation events.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[CheckoutService][KafkaProducer] initialized topic=%s brokers=%v", topic, brokers)
	return &Producer{writer: w, topic: topic}
}

// SendReconciliationAlert publishes a charge-reconciliation event keyed by
// charge id.
func (p *Producer) SendReconciliationAlert(evt models.ReconciliationEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(evt.ChargeID),
		Value: data,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("[CheckoutService][KafkaProducer] failed to publish reconciliation alert charge=%s topic=%s err=%v", evt.ChargeID, p.topic, err)
		return err
	}
	log.Printf("[CheckoutService][KafkaProducer] reconciliation alert published charge=%s reason=%q topic=%s", evt.ChargeID, evt.Reason, p.topic)
	return nil
}

func (p *Producer) Close() error {
	log.Printf("[CheckoutService][KafkaProducer] closing writer topic=%s", p.topic)
	return p.writer.Close()
}
