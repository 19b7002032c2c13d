// Package event publishes domain events for downstream consumers. Event
// publishing is best-effort: a broker failure is logged and never fails the
// request that produced the event.
package event

import (
	"context"
	"log/slog"

	"github.com/espengetz/brandprotocol/internal/domain"
	"github.com/espengetz/brandprotocol/pkg/kafka"
	"github.com/espengetz/brandprotocol/pkg/logger"
)

// Kafka topics.
const (
	TopicBrands  = "brandprotocol.brands"
	TopicSources = "brandprotocol.sources"
	TopicAssets  = "brandprotocol.assets"
)

// Event types.
const (
	TypeBrandCreated  = "brand.created"
	TypeBrandDeleted  = "brand.deleted"
	TypeSourceCreated = "source.created"
	TypeSourceDeleted = "source.deleted"
	TypeAssetStored   = "asset.stored"
)

const eventSource = "brandprotocol"

// Publisher emits domain events.
type Publisher interface {
	BrandCreated(ctx context.Context, brand *domain.Brand)
	BrandDeleted(ctx context.Context, brandID string)
	SourceCreated(ctx context.Context, source *domain.BrandSource)
	SourceDeleted(ctx context.Context, brandID, sourceID string)
	AssetStored(ctx context.Context, asset *domain.BrandAsset)
}

// KafkaPublisher publishes events through the shared Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewKafkaPublisher creates a Kafka-backed publisher.
func NewKafkaPublisher(producer *kafka.Producer, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: log}
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, eventSource, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", eventType), slog.String("error", err.Error()))
	}
}

func (p *KafkaPublisher) BrandCreated(ctx context.Context, brand *domain.Brand) {
	p.publish(ctx, TopicBrands, TypeBrandCreated, brand.ID, "brand", brand)
}

func (p *KafkaPublisher) BrandDeleted(ctx context.Context, brandID string) {
	p.publish(ctx, TopicBrands, TypeBrandDeleted, brandID, "brand", map[string]string{"brand_id": brandID})
}

func (p *KafkaPublisher) SourceCreated(ctx context.Context, source *domain.BrandSource) {
	payload := map[string]string{
		"source_id": source.ID,
		"brand_id":  source.BrandID,
		"type":      source.Type,
		"name":      source.Name,
	}
	p.publish(ctx, TopicSources, TypeSourceCreated, source.ID, "brand_source", payload)
}

func (p *KafkaPublisher) SourceDeleted(ctx context.Context, brandID, sourceID string) {
	payload := map[string]string{"source_id": sourceID, "brand_id": brandID}
	p.publish(ctx, TopicSources, TypeSourceDeleted, sourceID, "brand_source", payload)
}

func (p *KafkaPublisher) AssetStored(ctx context.Context, asset *domain.BrandAsset) {
	p.publish(ctx, TopicAssets, TypeAssetStored, asset.ID, "brand_asset", asset)
}

// NoopPublisher discards all events. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) BrandCreated(context.Context, *domain.Brand)        {}
func (NoopPublisher) BrandDeleted(context.Context, string)               {}
func (NoopPublisher) SourceCreated(context.Context, *domain.BrandSource) {}
func (NoopPublisher) SourceDeleted(context.Context, string, string)      {}
func (NoopPublisher) AssetStored(context.Context, *domain.BrandAsset)    {}
