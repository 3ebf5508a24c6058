package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/recommend"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error taxonomy is deliberately narrow: unknown-id mutations are no-ops,
// not errors. Only authentication and lookup failures surface.
var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// EventPublisher publishes storefront domain events.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishReviewAdded(ctx context.Context, event *models.ReviewAddedEvent) error
	PublishUserLoggedIn(ctx context.Context, event *models.UserLoggedInEvent) error
}

// SessionService owns the session state and applies one transition at a
// time. The store itself is pure; the service serializes access, enforces
// the authentication policy, generates identities, and publishes events.
type SessionService struct {
	mu           sync.Mutex
	state        store.State
	fixtures     *catalog.Fixtures
	engine       *recommend.Engine
	publisher    EventPublisher
	logger       *zap.Logger
	nextReviewID int64
}

// NewSessionService builds a session over the fixture data. The publisher
// may be nil, in which case events are skipped.
func NewSessionService(fixtures *catalog.Fixtures, engine *recommend.Engine, publisher EventPublisher) *SessionService {
	nextReviewID := int64(1)
	for _, r := range fixtures.Reviews {
		if r.ID >= nextReviewID {
			nextReviewID = r.ID + 1
		}
	}

	return &SessionService{
		state: store.New(store.Seed{
			Products:   fixtures.Products,
			Categories: fixtures.Categories(),
			Orders:     fixtures.Orders,
			Reviews:    fixtures.Reviews,
		}),
		fixtures:     fixtures,
		engine:       engine,
		publisher:    publisher,
		logger:       util.GetLogger(),
		nextReviewID: nextReviewID,
	}
}

// Snapshot returns the current session state.
func (s *SessionService) Snapshot() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login authenticates the user with the given email, replaces the
// wishlist with the user's seeded one, and recomputes recommendations.
func (s *SessionService) Login(ctx context.Context, email string) (store.State, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.Login")
	defer span.End()

	user, ok := s.fixtures.UserByEmail(email)
	if !ok || !user.IsActive {
		util.LoginsFailedTotal.Inc()
		return store.State{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	s.mu.Lock()
	s.state = s.state.Apply(store.Login{
		User:     user,
		Wishlist: s.fixtures.WishlistFor(user.ID),
	})

	recommendations := s.recommendFor(user.ID)
	s.state = s.state.Apply(store.SetRecommendations{Products: recommendations})
	snapshot := s.state
	s.mu.Unlock()

	util.LoginsTotal.Inc()
	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.Int("recommendations", len(recommendations)))

	s.publish(ctx, func(p EventPublisher) error {
		return p.PublishUserLoggedIn(ctx, &models.UserLoggedInEvent{
			BaseEvent:       newBaseEvent(models.EventTypeUserLoggedIn),
			UserID:          user.ID,
			Recommendations: len(recommendations),
		})
	})

	return snapshot, nil
}

// Logout clears the authenticated user, cart, and wishlist.
func (s *SessionService) Logout(ctx context.Context) store.State {
	return s.apply(store.Logout{})
}

// Search recomputes the filtered catalog by free-text query.
func (s *SessionService) Search(ctx context.Context, query string) store.State {
	return s.apply(store.SetSearchQuery{Query: query})
}

// SelectCategory recomputes the filtered catalog by category.
func (s *SessionService) SelectCategory(ctx context.Context, category string) store.State {
	return s.apply(store.SetCategory{Category: category})
}

// Sort reorders the current filtered catalog.
func (s *SessionService) Sort(ctx context.Context, order string) store.State {
	return s.apply(store.SetSort{Order: order})
}

// AddToCart adds one unit of a product. Unknown products are ignored.
func (s *SessionService) AddToCart(ctx context.Context, productID int64) store.State {
	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return s.apply(store.AddToCart{ProductID: productID})
}

// UpdateCartQuantity sets a line's quantity; zero drops the line.
func (s *SessionService) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) store.State {
	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return s.apply(store.UpdateCartQuantity{ProductID: productID, Quantity: quantity})
}

// RemoveFromCart drops a line entirely.
func (s *SessionService) RemoveFromCart(ctx context.Context, productID int64) store.State {
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return s.apply(store.RemoveFromCart{ProductID: productID})
}

// ToggleWishlist flips a product's wishlist membership. Requires an
// authenticated user.
func (s *SessionService) ToggleWishlist(ctx context.Context, productID int64) (store.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated {
		return store.State{}, ErrAuthRequired
	}

	util.WishlistTogglesTotal.Inc()
	s.state = s.state.Apply(store.ToggleWishlist{ProductID: productID})
	return s.state, nil
}

// AddReview appends a review for a product by the authenticated user. The
// verified flag is derived from the user's order history.
func (s *SessionService) AddReview(ctx context.Context, productID int64, rating int, title, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated || s.state.CurrentUser == nil {
		return models.Review{}, ErrAuthRequired
	}
	user := *s.state.CurrentUser

	review := models.Review{
		ID:        s.nextReviewID,
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
		Date:      time.Now().UTC(),
		Verified:  s.hasPurchased(user.ID, productID),
	}
	s.nextReviewID++

	s.state = s.state.Apply(store.AddReview{Review: review})
	util.ReviewsAddedTotal.Inc()

	s.publish(ctx, func(p EventPublisher) error {
		return p.PublishReviewAdded(ctx, &models.ReviewAddedEvent{
			BaseEvent: newBaseEvent(models.EventTypeReviewAdded),
			ReviewID:  review.ID,
			ProductID: review.ProductID,
			UserID:    review.UserID,
			Rating:    review.Rating,
		})
	})

	return review, nil
}

// PlaceOrder freezes the cart into a new processing order, empties the
// cart, and publishes the order event. Rejects unauthenticated sessions
// and empty carts.
func (s *SessionService) PlaceOrder(ctx context.Context, address models.Address) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.PlaceOrder")
	defer span.End()

	s.mu.Lock()

	if !s.state.Authenticated || s.state.CurrentUser == nil {
		s.mu.Unlock()
		util.OrdersRejectedTotal.WithLabelValues("unauthenticated").Inc()
		return models.Order{}, ErrAuthRequired
	}
	if len(s.state.Cart) == 0 {
		s.mu.Unlock()
		util.OrdersRejectedTotal.WithLabelValues("empty_cart").Inc()
		return models.Order{}, ErrEmptyCart
	}

	orderID := newOrderID()
	s.state = s.state.Apply(store.PlaceOrder{
		OrderID:         orderID,
		TrackingNumber:  newTrackingNumber(),
		ShippingAddress: address,
		PlacedAt:        time.Now().UTC(),
	})

	order := s.state.Orders[len(s.state.Orders)-1]
	s.mu.Unlock()

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int64("total", order.Total))

	s.publish(ctx, func(p EventPublisher) error {
		return p.PublishOrderPlaced(ctx, &models.OrderPlacedEvent{
			BaseEvent:      newBaseEvent(models.EventTypeOrderPlaced),
			OrderID:        order.ID,
			UserID:         order.UserID,
			Total:          order.Total,
			Items:          order.Items,
			TrackingNumber: order.TrackingNumber,
		})
	})

	return order, nil
}

// AdminStats summarizes the session for the dashboard.
type AdminStats struct {
	TotalProducts int   `json:"total_products"`
	TotalOrders   int   `json:"total_orders"`
	TotalUsers    int   `json:"total_users"`
	TotalRevenue  int64 `json:"total_revenue"`
}

// Stats computes dashboard totals over the current order log.
func (s *SessionService) Stats() AdminStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var revenue int64
	for _, o := range s.state.Orders {
		revenue += o.Total
	}

	return AdminStats{
		TotalProducts: len(s.state.Products),
		TotalOrders:   len(s.state.Orders),
		TotalUsers:    len(s.fixtures.Users),
		TotalRevenue:  revenue,
	}
}

func (s *SessionService) apply(action store.Action) store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Apply(action)
	return s.state
}

// recommendFor runs the engine. Caller holds the lock.
func (s *SessionService) recommendFor(userID int64) []models.Product {
	start := time.Now()
	recommendations := s.engine.Recommend(userID)
	util.RecommendationLatency.Observe(time.Since(start).Seconds())
	util.RecommendationsComputedTotal.Inc()
	return recommendations
}

// hasPurchased reports whether any order in the log by this user contains
// the product. Caller holds the lock.
func (s *SessionService) hasPurchased(userID, productID int64) bool {
	for _, o := range s.state.Orders {
		if o.UserID != userID {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// publish runs fn against the publisher if one is configured. Publishing
// failures are logged and never fail the originating action.
func (s *SessionService) publish(ctx context.Context, fn func(EventPublisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.logger.Error("Failed to publish event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

func newTrackingNumber() string {
	return "TRK" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
