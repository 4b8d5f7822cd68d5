// Package publish streams collected article records to downstream consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/exp/slog"

	"wikidump/pkg/wikipedia"
)

// KafkaWriter defines the interface for a Kafka message writer.
// This allows for easy mocking in unit tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the JSON payload published for every article.
type Message struct {
	ID     int              `json:"id"`
	Record wikipedia.Record `json:"record"`
}

// KafkaPublisher writes one message per article, keyed by article id.
type KafkaPublisher struct {
	log    *slog.Logger
	writer KafkaWriter
	count  int
}

// NewKafkaPublisher creates a publisher writing to topic on broker.
// Messages are written synchronously, one at a time.
func NewKafkaPublisher(lg *slog.Logger, broker, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{log: lg, writer: w}
}

// Publish sends the record of article id.
func (p *KafkaPublisher) Publish(ctx context.Context, id int, rec wikipedia.Record) error {
	value, err := json.Marshal(Message{ID: id, Record: rec})
	if err != nil {
		return fmt.Errorf("marshal article %d: %w", id, err)
	}

	msg := kafka.Message{
		Key:     []byte(strconv.Itoa(id)),
		Value:   value,
		Headers: []kafka.Header{{Key: "content-type", Value: []byte("application/json")}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write article %d: %w", id, err)
	}

	p.count++
	p.log.DebugCtx(ctx, "article published", slog.Int("id", id), slog.Int("published", p.count))
	return nil
}

// Published is the number of records written so far.
func (p *KafkaPublisher) Published() int { return p.count }

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	p.log.Info("kafka publisher closed", slog.Int("published", p.count))
	return nil
}
