package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Event types emitted on the platform topic.
const (
	UserSignedUp = "user.signed_up"
	UserVerified = "user.verified"
	StoryCreated = "story.created"
	StoryDeleted = "story.deleted"
)

// Publisher is the best-effort event sink; callers log failures and
// move on, nothing in the request path depends on delivery.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type envelope struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, eventType string, payload any) error {
	if p == nil || p.writer == nil {
		return nil
	}
	b, err := json.Marshal(envelope{Type: eventType, At: time.Now().UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(eventType),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
