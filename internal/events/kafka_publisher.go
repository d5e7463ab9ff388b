package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers     []string
	Topic       string
	MaxFailures uint32
	OpenTimeout time.Duration
}

// KafkaPublisher writes events as JSON, keyed by entity id, behind a circuit
// breaker so a dead broker does not stall request handling.
type KafkaPublisher struct {
	writer MessageWriter
	cb     *gobreaker.CircuitBreaker
	log    *zap.Logger
}

func NewKafkaPublisher(cfg KafkaConfig, log *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
	}
	return newKafkaPublisher(w, cfg, log)
}

func newKafkaPublisher(w MessageWriter, cfg KafkaConfig, log *zap.Logger) *KafkaPublisher {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	st := gobreaker.Settings{
		Name:        "kafka-events",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &KafkaPublisher{
		writer: w,
		cb:     gobreaker.NewCircuitBreaker(st),
		log:    log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(e.EntityID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}

	_, err = p.cb.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		p.log.Warn("kafka publish failed", zap.String("type", string(e.Type)), zap.Error(err))
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) State() gobreaker.State {
	return p.cb.State()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
