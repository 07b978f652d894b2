package notify

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// KafkaSender publishes payment events keyed by transaction id so all events
// of one transaction land on the same partition.
type KafkaSender struct {
	writer *kafka.Writer
}

func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (s *KafkaSender) Send(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.TransactionID),
		Value: value,
	})
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
