package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/events"
	kafkax "github.com/ariefcatur/go-bookshop-checkout.git/internal/kafka"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service turns checkout events into customer notifications. Delivery is a
// log-based simulation; the interesting part is the dedup so a redelivered
// event never notifies twice.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleEvent is wired as the consumer handler for both checkout topics.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case events.EventOrderConfirmed:
		p, err := kafkax.UnwrapPayload[events.OrderConfirmedPayload](env.Payload)
		if err != nil {
			return err
		}
		log.Printf("notify customer %s: order %s confirmed, paid %.2f via %s",
			p.OwnerID, p.OrderID, p.TotalAmount, p.Method)
	case events.EventPaymentFailed:
		p, err := kafkax.UnwrapPayload[events.PaymentFailedPayload](env.Payload)
		if err != nil {
			return err
		}
		log.Printf("notify customer %s: payment via %s for order %s failed (%s), order kept for retry",
			p.OwnerID, p.Method, p.OrderID, p.Reason)
	default:
		// other producers on the topic, ignore
	}
	return nil
}
