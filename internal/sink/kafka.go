package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/ridesim/internal/models"
)

// Kafka publishes records as JSON to two topics, one per record shape.
type Kafka struct {
	requests *kafka.Writer
	updates  *kafka.Writer
	timeout  time.Duration
}

func NewKafka(brokers []string, requestTopic, updateTopic string) *Kafka {
	return &Kafka{
		requests: kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: requestTopic, Balancer: &kafka.LeastBytes{}}),
		updates:  kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: updateTopic, Balancer: &kafka.LeastBytes{}}),
		timeout:  2 * time.Second,
	}
}

func (k *Kafka) PublishRequest(ctx context.Context, rec models.PassengerRequestRecord) error {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return k.requests.WriteMessages(ctx, kafka.Message{Key: []byte(rec.RequestID), Value: b})
}

func (k *Kafka) PublishDriverUpdate(ctx context.Context, rec models.DriverUpdateRecord) error {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return k.updates.WriteMessages(ctx, kafka.Message{Key: []byte(rec.DriverID), Value: b})
}

func (k *Kafka) Close() error {
	err := k.requests.Close()
	if e := k.updates.Close(); err == nil {
		err = e
	}
	return err
}
