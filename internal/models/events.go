package models

import "time"

// Event types
const (
	EventTypeOrderPlaced  = "ORDER_PLACED"
	EventTypeReviewAdded  = "REVIEW_ADDED"
	EventTypeUserLoggedIn = "USER_LOGGED_IN"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when checkout completes
type OrderPlacedEvent struct {
	BaseEvent
	OrderID        string      `json:"order_id"`
	UserID         int64       `json:"user_id"`
	Total          int64       `json:"total"`
	Items          []OrderItem `json:"items"`
	TrackingNumber string      `json:"tracking_number"`
}

// ReviewAddedEvent published when a review is appended
type ReviewAddedEvent struct {
	BaseEvent
	ReviewID  int64 `json:"review_id"`
	ProductID int64 `json:"product_id"`
	UserID    int64 `json:"user_id"`
	Rating    int   `json:"rating"`
}

// UserLoggedInEvent published on each authentication event
type UserLoggedInEvent struct {
	BaseEvent
	UserID          int64 `json:"user_id"`
	Recommendations int   `json:"recommendations"`
}
