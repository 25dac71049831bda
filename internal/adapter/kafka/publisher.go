// Package kafka publishes finished trend summaries to a sink topic so
// downstream consumers (dashboards, alerting) can react without polling the
// tool server. The publisher is optional and feature-flagged in config.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/air-quality-trends/internal/config"
	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

// Publisher produces one message per analyzed city to the summary topic.
// It implements tools.SummaryPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured summary topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// citySummary is the wire shape of one published summary message.
type citySummary struct {
	City        string             `json:"city"`
	Result      domain.TrendResult `json:"result"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// PublishSummary serializes every city result of a summary and writes them to
// the sink topic in a single WriteMessages call.
func (p *Publisher) PublishSummary(ctx context.Context, summary *domain.AnalysisSummary) error {
	if summary == nil || len(summary.Cities) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(summary.Cities))
	for city, result := range summary.Cities {
		msg, err := serializeToMessage(citySummary{
			City:        city,
			Result:      result,
			GeneratedAt: summary.GeneratedAt,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a city summary into a Kafka message keyed by
// city name, so per-city ordering is preserved across partitions.
func serializeToMessage(cs citySummary) (kafkago.Message, error) {
	data, err := json.Marshal(cs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize city summary: %w", err)
	}
	headers := []kafkago.Header{
		{Key: "generated_at", Value: []byte(cs.GeneratedAt.Format(time.RFC3339))},
	}
	if cs.Result.Trend != "" {
		headers = append(headers, kafkago.Header{Key: "trend", Value: []byte(cs.Result.Trend)})
	}
	return kafkago.Message{
		Key:     []byte(cs.City),
		Value:   data,
		Headers: headers,
	}, nil
}
