// Package stockalert watches order.created events and flags products whose
// inventory fell to or below a threshold, so sellers can be notified before
// they hit zero.
package stockalert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/artisan-market/internal/catalog"
	kafkax "github.com/ariefcatur/artisan-market/internal/kafka"
	"github.com/ariefcatur/artisan-market/internal/orders"
	"github.com/ariefcatur/artisan-market/internal/redisx"
)

type Service struct {
	Catalog   *catalog.Repo
	Redis     *redis.Client
	Threshold int
}

// HandleOrderCreated is the consumer handler. Events are deduplicated by
// event id so redeliveries do not re-alert.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "stockalert", env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.DecodePayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, it := range p.Items {
		if seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true

		prod, err := s.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			// product may have been deleted since the order; nothing to alert
			slog.Warn("stockalert: product lookup failed", "product", it.ProductID, "err", err)
			continue
		}
		if prod.Inventory <= s.Threshold {
			if err := s.Redis.SAdd(ctx, redisx.KeyLowStock, prod.ID).Err(); err != nil {
				return err
			}
			slog.Warn("low stock",
				"product", prod.ID,
				"name", prod.Name,
				"inventory", prod.Inventory,
				"order", p.OrderID)
		} else {
			// restocked since the last alert
			_ = s.Redis.SRem(ctx, redisx.KeyLowStock, prod.ID).Err()
		}
	}
	return nil
}
