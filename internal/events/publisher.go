// Package events publishes analysis events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"ai-speech-delivery-service/internal/models"
	"ai-speech-delivery-service/internal/observability/metrics"
)

// Default topic names.
const (
	DefaultTopicCritique = "speech.delivery.critique"
	DefaultTopicReport   = "speech.delivery.report"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes critique and report events to separate Kafka topics.
type Publisher struct {
	writerCritique messageWriter
	writerReport   messageWriter
	principal      string
	topicCritique  string
	topicReport    string
	enabled        bool
	metrics        *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers       []string
	TopicCritique string
	TopicReport   string
	Principal     string
	Enabled       bool
}

// New creates a Kafka event publisher. A nil or disabled config yields log-only mode.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			topicCritique: DefaultTopicCritique,
			topicReport:   DefaultTopicReport,
			metrics:       m,
		}
	}

	topicCritique := orDefault(cfg.TopicCritique, DefaultTopicCritique)
	topicReport := orDefault(cfg.TopicReport, DefaultTopicReport)

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:     cfg.Principal,
			topicCritique: topicCritique,
			topicReport:   topicReport,
			metrics:       m,
		}
	}

	// Longer dial timeout for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicCritique", topicCritique).
		Str("topicReport", topicReport).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerCritique: newWriter(topicCritique),
		writerReport:   newWriter(topicReport),
		principal:      cfg.Principal,
		topicCritique:  topicCritique,
		topicReport:    topicReport,
		enabled:        true,
		metrics:        m,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Enabled reports whether events reach Kafka.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// PublishCritique publishes one persona's critique, keyed by analysis ID.
func (p *Publisher) PublishCritique(ctx context.Context, event models.CritiqueEvent) error {
	return p.publish(ctx, p.writerCritique, p.topicCritique, event.EventType, event.AnalysisID, event)
}

// PublishReport publishes the assembled report, keyed by analysis ID.
func (p *Publisher) PublishReport(ctx context.Context, event models.ReportEvent) error {
	return p.publish(ctx, p.writerReport, p.topicReport, event.EventType, event.AnalysisID, event)
}

func (p *Publisher) publish(ctx context.Context, writer messageWriter, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		Int("bytes", len(payload)).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var errs []error
	if p.writerCritique != nil {
		if err := p.writerCritique.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing critique writer")
			errs = append(errs, err)
		}
	}
	if p.writerReport != nil {
		if err := p.writerReport.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing report writer")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
