package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%s", event.OrderID), event)
}

// PublishReviewAdded publishes ReviewAdded event
func (ep *EventPublisher) PublishReviewAdded(ctx context.Context, event *models.ReviewAddedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("product-%d", event.ProductID), event)
}

// PublishUserLoggedIn publishes UserLoggedIn event
func (ep *EventPublisher) PublishUserLoggedIn(ctx context.Context, event *models.UserLoggedInEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("user-%d", event.UserID), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onOrderPlaced  func(context.Context, *models.OrderPlacedEvent) error
	onReviewAdded  func(context.Context, *models.ReviewAddedEvent) error
	onUserLoggedIn func(context.Context, *models.UserLoggedInEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// OnReviewAdded registers a handler for ReviewAdded events
func (eh *EventHandler) OnReviewAdded(handler func(context.Context, *models.ReviewAddedEvent) error) {
	eh.onReviewAdded = handler
}

// OnUserLoggedIn registers a handler for UserLoggedIn events
func (eh *EventHandler) OnUserLoggedIn(handler func(context.Context, *models.UserLoggedInEvent) error) {
	eh.onUserLoggedIn = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeReviewAdded:
		if eh.onReviewAdded != nil {
			var event models.ReviewAddedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReviewAdded event: %w", err)
			}
			return eh.onReviewAdded(ctx, &event)
		}

	case models.EventTypeUserLoggedIn:
		if eh.onUserLoggedIn != nil {
			var event models.UserLoggedInEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal UserLoggedIn event: %w", err)
			}
			return eh.onUserLoggedIn(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
