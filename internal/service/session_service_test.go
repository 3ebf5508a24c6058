package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/recommend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher records published events for assertions.
type fakePublisher struct {
	mu      sync.Mutex
	orders  []*models.OrderPlacedEvent
	logins  []*models.UserLoggedInEvent
	reviews []*models.ReviewAddedEvent
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, e *models.OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, e)
	return nil
}

func (f *fakePublisher) PublishReviewAdded(ctx context.Context, e *models.ReviewAddedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, e)
	return nil
}

func (f *fakePublisher) PublishUserLoggedIn(ctx context.Context, e *models.UserLoggedInEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, e)
	return nil
}

func newTestSession(t *testing.T, publisher EventPublisher) *SessionService {
	t.Helper()
	fixtures, err := catalog.Load("")
	require.NoError(t, err)
	engine := recommend.New(fixtures.Products, fixtures.Interactions, recommend.DefaultLimit)
	return NewSessionService(fixtures, engine, publisher)
}

func TestLoginLoadsWishlistAndRecommendations(t *testing.T) {
	publisher := &fakePublisher{}
	session := newTestSession(t, publisher)
	ctx := context.Background()

	state, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)

	require.True(t, state.Authenticated)
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, int64(2), state.CurrentUser.ID)
	assert.Equal(t, []int64{2, 4}, state.Wishlist)

	// John has seen products 1-4; Jane overlaps and adds product 5, and
	// no unseen catalog product shares a seen category.
	require.Len(t, state.Recommendations, 1)
	assert.Equal(t, int64(5), state.Recommendations[0].ID)

	require.Len(t, publisher.logins, 1)
	assert.Equal(t, int64(2), publisher.logins[0].UserID)
	assert.Equal(t, 1, publisher.logins[0].Recommendations)
}

func TestLoginUnknownUser(t *testing.T) {
	session := newTestSession(t, nil)

	_, err := session.Login(context.Background(), "nobody@email.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginReplacesWishlist(t *testing.T) {
	session := newTestSession(t, nil)
	ctx := context.Background()

	_, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)

	state, err := session.ToggleWishlist(ctx, 6)
	require.NoError(t, err)
	require.True(t, state.InWishlist(6))

	// Logging in again reloads the seeded wishlist, dropping the toggle.
	state, err = session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, state.Wishlist)
}

func TestLogoutClearsSession(t *testing.T) {
	session := newTestSession(t, nil)
	ctx := context.Background()

	_, err := session.Login(ctx, "jane.smith@email.com")
	require.NoError(t, err)
	session.AddToCart(ctx, 1)

	state := session.Logout(ctx)
	assert.False(t, state.Authenticated)
	assert.Empty(t, state.Cart)
	assert.Zero(t, state.CartTotal)
	assert.Empty(t, state.Wishlist)
}

func TestPlaceOrderRequiresAuthentication(t *testing.T) {
	session := newTestSession(t, nil)
	ctx := context.Background()

	session.AddToCart(ctx, 1)
	_, err := session.PlaceOrder(ctx, models.Address{Name: "X"})
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	session := newTestSession(t, nil)
	ctx := context.Background()

	_, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)

	_, err = session.PlaceOrder(ctx, models.Address{Name: "John"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderFreezesCartAndPublishes(t *testing.T) {
	publisher := &fakePublisher{}
	session := newTestSession(t, publisher)
	ctx := context.Background()

	_, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)

	session.AddToCart(ctx, 1)
	session.AddToCart(ctx, 1)
	session.AddToCart(ctx, 3)

	address := models.Address{Name: "John Doe", Street: "123 Tech Street", City: "San Francisco"}
	order, err := session.PlaceOrder(ctx, address)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.True(t, strings.HasPrefix(order.TrackingNumber, "TRK"))
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, int64(2*119999+39999), order.Total)
	assert.Equal(t, address, order.ShippingAddress)
	require.Len(t, order.Items, 2)

	state := session.Snapshot()
	assert.Empty(t, state.Cart)
	assert.Zero(t, state.CartTotal)
	require.Len(t, state.Orders, 3, "two seed orders plus the new one")

	require.Len(t, publisher.orders, 1)
	assert.Equal(t, order.ID, publisher.orders[0].OrderID)
	assert.Equal(t, order.Total, publisher.orders[0].Total)
}

func TestToggleWishlistRequiresAuthentication(t *testing.T) {
	session := newTestSession(t, nil)

	_, err := session.ToggleWishlist(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAddReviewRequiresAuthentication(t *testing.T) {
	session := newTestSession(t, nil)

	_, err := session.AddReview(context.Background(), 1, 5, "Great", "Loved it")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAddReviewValidatesRating(t *testing.T) {
	session := newTestSession(t, nil)
	ctx := context.Background()

	_, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)

	_, err = session.AddReview(ctx, 1, 0, "Bad", "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = session.AddReview(ctx, 1, 6, "Too good", "")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestAddReviewMarksVerifiedPurchases(t *testing.T) {
	publisher := &fakePublisher{}
	session := newTestSession(t, publisher)
	ctx := context.Background()

	_, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)

	// Seed order ORD-001 contains product 1 for this user.
	verified, err := session.AddReview(ctx, 1, 5, "Still great", "Second review")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, int64(4), verified.ID, "ids continue past the seed reviews")
	assert.Equal(t, "John Doe", verified.UserName)

	// Product 6 was never ordered by this user.
	unverified, err := session.AddReview(ctx, 6, 4, "Fun console", "")
	require.NoError(t, err)
	assert.False(t, unverified.Verified)

	require.Len(t, publisher.reviews, 2)
	assert.Equal(t, verified.ID, publisher.reviews[0].ReviewID)
}

func TestStats(t *testing.T) {
	session := newTestSession(t, nil)

	stats := session.Stats()
	assert.Equal(t, 6, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, int64(159998+249999), stats.TotalRevenue)

	// Revenue tracks newly placed orders.
	ctx := context.Background()
	_, err := session.Login(ctx, "john.doe@email.com")
	require.NoError(t, err)
	session.AddToCart(ctx, 6)
	_, err = session.PlaceOrder(ctx, models.Address{Name: "John"})
	require.NoError(t, err)

	stats = session.Stats()
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, int64(159998+249999+49999), stats.TotalRevenue)
}
