package kafka

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"

	"ats-gateway/internal/config"
	"ats-gateway/internal/events"
	"ats-gateway/internal/pkg/logger"
)

const writeTimeout = 5 * time.Second

var ErrNotConfigured = errors.New("kafka publisher not configured")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

// Publisher writes record-change events to a single topic, keyed by
// resource and record id so changes to one record stay ordered.
type Publisher struct {
	writer messageWriter
	topic  string
	lggr   logger.Logger
}

func NewPublisher(cfg config.KafkaConfig, lggr logger.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if lggr == nil {
		lggr = logger.Nop()
	}
	writer := &sdk.Writer{
		Addr:         sdk.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		RequiredAcks: sdk.RequireAll,
		Balancer:     &sdk.Hash{},
		WriteTimeout: writeTimeout,
	}
	return newPublisher(writer, cfg.Topic, lggr), nil
}

func newPublisher(w messageWriter, topic string, lggr logger.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, lggr: lggr.Named("kafka")}
}

func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	if p == nil || p.writer == nil {
		return ErrNotConfigured
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(e.Key()),
		Value: value,
		Headers: []sdk.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		p.lggr.Warnw("kafka publish failed", "topic", p.topic, "key", e.Key(), "err", err)
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
