package consumer

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"pricing-service/internal/config"
)

// FormulaInvalidator drops the cached formula for a product type.
type FormulaInvalidator interface {
	Invalidate(ctx context.Context, productType string) error
}

// Consumer listens for pricing formula change events published by other
// instances and invalidates the local formula cache, keeping cached
// formulas eventually consistent with admin edits.
type Consumer struct {
	cache FormulaInvalidator
}

func NewConsumer(cache FormulaInvalidator) *Consumer {
	return &Consumer{cache: cache}
}

// StartKafkaConsumer starts a Kafka consumer to listen for formula events
func (c *Consumer) StartKafkaConsumer() {
	formulaReader := config.NewKafkaReader(config.FormulaTopic, "pricing-service-group")

	for {
		ctx := context.Background()
		msg, err := formulaReader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage handles one formula event. Keys look like
// "formula.updated.<productType>" or "formula.deleted.<productType>";
// both actions invalidate the cached formula for that product type.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	parts := strings.SplitN(string(msg.Key), ".", 3)
	if len(parts) != 3 || parts[0] != "formula" {
		log.Error().Msgf("Unknown formula event key: %s", string(msg.Key))
		return
	}

	action := parts[1]
	productType := parts[2]

	switch action {
	case "updated", "deleted":
		if err := c.cache.Invalidate(ctx, productType); err != nil {
			log.Error().Msgf("Error invalidating cached formula for product type %s: %v", productType, err)
			return
		}
		log.Info().Msgf("Invalidated cached formula for product type %s", productType)
	default:
		log.Error().Msgf("Unknown formula event action: %s", action)
	}
}
