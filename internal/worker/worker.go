package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

// AuditWorker consumes storefront events and records them in the audit
// log and metrics. It never mutates session state; orders stay in the
// status they were created with.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer) *AuditWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderPlaced(func(ctx context.Context, event *models.OrderPlacedEvent) error {
		util.EventsAuditedTotal.WithLabelValues(models.EventTypeOrderPlaced).Inc()
		log.Printf("Audited order placed: order_id=%s user_id=%d total=%d",
			event.OrderID, event.UserID, event.Total)
		return nil
	})

	eventHandler.OnReviewAdded(func(ctx context.Context, event *models.ReviewAddedEvent) error {
		util.EventsAuditedTotal.WithLabelValues(models.EventTypeReviewAdded).Inc()
		log.Printf("Audited review added: review_id=%d product_id=%d rating=%d",
			event.ReviewID, event.ProductID, event.Rating)
		return nil
	})

	eventHandler.OnUserLoggedIn(func(ctx context.Context, event *models.UserLoggedInEvent) error {
		util.EventsAuditedTotal.WithLabelValues(models.EventTypeUserLoggedIn).Inc()
		log.Printf("Audited login: user_id=%d recommendations=%d",
			event.UserID, event.Recommendations)
		return nil
	})

	return &AuditWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	log.Println("Starting audit worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	log.Println("Stopping audit worker...")
	return w.consumer.Close()
}
