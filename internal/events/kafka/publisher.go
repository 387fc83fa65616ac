package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/events"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/mapping"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic receives ledger events when no topic is configured.
const DefaultTopic = "ledger_events"

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes committed ledger events to a Kafka topic, one message per
// record keyed by the record's account. Every change to an account therefore
// lands on one partition in commit order, including the receiving leg of a transfer.
type Publisher struct {
	writer messageWriter
}

var _ events.EventPublisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// legPayload is the JSON body of one message: a single record of a committed
// operation. Legs of one transfer share EventID and CorrelationID.
type legPayload struct {
	EventID       string                  `json:"eventID"`
	Type          domain.LedgerEventType  `json:"type"`
	CorrelationID string                  `json:"correlationID,omitempty"`
	Legs          int                     `json:"legs"`
	Record        dto.TransactionResponse `json:"record"`
	OccurredAt    time.Time               `json:"occurredAt"`
}

func buildMessages(event domain.LedgerEvent) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(event.Records))
	for _, rec := range event.Records {
		data, err := json.Marshal(legPayload{
			EventID:       event.EventID,
			Type:          event.Type,
			CorrelationID: event.CorrelationID,
			Legs:          len(event.Records),
			Record:        mapping.ToTransactionResponse(rec),
			OccurredAt:    event.OccurredAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode event %s: %w", event.EventID, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(rec.AccountID),
			Value: data,
			Time:  event.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
				{Key: "event_id", Value: []byte(event.EventID)},
			},
		})
	}
	return msgs, nil
}

// Publish writes all legs of the event in one batch.
func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	msgs, err := buildMessages(event)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
