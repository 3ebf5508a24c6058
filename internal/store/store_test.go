package store

import (
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() Seed {
	return Seed{
		Products: []models.Product{
			{ID: 1, Name: "iPhone 15 Pro Max", Category: "smartphones", Price: 1000, Rating: 4.8,
				Description: "Latest iPhone with titanium design.", Tags: []string{"5G", "iOS"}},
			{ID: 2, Name: "Sony Headphones", Category: "headphones", Price: 500, Rating: 4.7,
				Description: "Noise canceling headphones.", Tags: []string{"Wireless"}},
			{ID: 3, Name: "PlayStation 5 Console", Category: "gaming", Price: 700, Rating: 4.5,
				Description: "Next-gen gaming console.", Tags: []string{"4K Gaming"}},
			{ID: 4, Name: "Budget Tablet", Category: "tablets", Price: 300, Rating: 3.9,
				Description: "An affordable tablet.", Tags: []string{"Android"}},
		},
		Categories: []string{"smartphones", "headphones", "gaming", "tablets"},
	}
}

func assertCartInvariant(t *testing.T, s State) {
	t.Helper()
	var sum int64
	for _, line := range s.Cart {
		require.Greater(t, line.Quantity, 0, "zero-quantity lines must never persist")
		sum += line.Price * int64(line.Quantity)
	}
	assert.Equal(t, sum, s.CartTotal, "cart total must equal the recomputed line sum")
}

func TestCartTotalInvariantAcrossSequences(t *testing.T) {
	s := New(testSeed())

	actions := []Action{
		AddToCart{ProductID: 1},
		AddToCart{ProductID: 2},
		AddToCart{ProductID: 1},
		UpdateCartQuantity{ProductID: 2, Quantity: 5},
		RemoveFromCart{ProductID: 1},
		AddToCart{ProductID: 3},
		UpdateCartQuantity{ProductID: 3, Quantity: 0},
		UpdateCartQuantity{ProductID: 2, Quantity: -3},
		AddToCart{ProductID: 4},
	}

	for _, a := range actions {
		s = s.Apply(a)
		assertCartInvariant(t, s)
	}
}

func TestAddToCartMergesLines(t *testing.T) {
	s := New(testSeed())

	s = s.Apply(AddToCart{ProductID: 1})
	s = s.Apply(AddToCart{ProductID: 1})

	require.Len(t, s.Cart, 1, "adding the same product twice yields one line")
	assert.Equal(t, 2, s.Cart[0].Quantity)
	assert.Equal(t, int64(2000), s.CartTotal)
}

func TestAddToCartUnknownProductIsNoOp(t *testing.T) {
	s := New(testSeed())
	next := s.Apply(AddToCart{ProductID: 999})

	assert.Empty(t, next.Cart)
	assert.Zero(t, next.CartTotal)
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	s := New(testSeed())
	s = s.Apply(AddToCart{ProductID: 1})

	assert.Equal(t, int64(1000), s.Cart[0].Price)
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	base := New(testSeed()).
		Apply(AddToCart{ProductID: 1}).
		Apply(AddToCart{ProductID: 2})

	viaUpdate := base.Apply(UpdateCartQuantity{ProductID: 1, Quantity: 0})
	viaRemove := base.Apply(RemoveFromCart{ProductID: 1})

	assert.Equal(t, viaRemove.Cart, viaUpdate.Cart)
	assert.Equal(t, viaRemove.CartTotal, viaUpdate.CartTotal)

	// Both are no-ops for ids not present.
	assert.Equal(t, base.Cart, base.Apply(UpdateCartQuantity{ProductID: 999, Quantity: 0}).Cart)
	assert.Equal(t, base.Cart, base.Apply(RemoveFromCart{ProductID: 999}).Cart)
}

func TestUpdateQuantityClampsNegative(t *testing.T) {
	s := New(testSeed()).
		Apply(AddToCart{ProductID: 1}).
		Apply(UpdateCartQuantity{ProductID: 1, Quantity: -4})

	assert.Empty(t, s.Cart)
	assert.Zero(t, s.CartTotal)
}

func TestToggleWishlistIsInvolution(t *testing.T) {
	s := New(testSeed()).Apply(ToggleWishlist{ProductID: 2})

	once := s.Apply(ToggleWishlist{ProductID: 1})
	assert.True(t, once.InWishlist(1))

	twice := once.Apply(ToggleWishlist{ProductID: 1})
	assert.False(t, twice.InWishlist(1))
	assert.Equal(t, s.Wishlist, twice.Wishlist)
}

func TestSortPriceLowThenHighReverses(t *testing.T) {
	s := New(testSeed())

	low := s.Apply(SetSort{Order: models.SortPriceLow})
	high := low.Apply(SetSort{Order: models.SortPriceHigh})

	require.Len(t, low.Filtered, len(high.Filtered))
	for i := range low.Filtered {
		assert.Equal(t, low.Filtered[i].ID, high.Filtered[len(high.Filtered)-1-i].ID)
	}
}

func TestSortOrders(t *testing.T) {
	s := New(testSeed())

	ids := func(products []models.Product) []int64 {
		out := make([]int64, len(products))
		for i, p := range products {
			out[i] = p.ID
		}
		return out
	}

	assert.Equal(t, []int64{4, 2, 3, 1}, ids(s.Apply(SetSort{Order: models.SortPriceLow}).Filtered))
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(s.Apply(SetSort{Order: models.SortPriceHigh}).Filtered))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Apply(SetSort{Order: models.SortRating}).Filtered))
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(s.Apply(SetSort{Order: models.SortNewest}).Filtered))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Apply(SetSort{Order: models.SortFeatured}).Filtered))
}

func TestUnknownSortKeepsOrder(t *testing.T) {
	s := New(testSeed()).Apply(SetSort{Order: "nonsense"})

	require.Len(t, s.Filtered, 4)
	assert.Equal(t, int64(1), s.Filtered[0].ID)
	assert.Equal(t, "nonsense", s.SortBy)
}

func TestSearchMatchesNameDescriptionAndTags(t *testing.T) {
	s := New(testSeed())

	byName := s.Apply(SetSearchQuery{Query: "pro"})
	require.Len(t, byName.Filtered, 1, "only the iPhone name contains 'pro'")
	assert.Equal(t, "iPhone 15 Pro Max", byName.Filtered[0].Name)

	byDescription := s.Apply(SetSearchQuery{Query: "affordable"})
	require.Len(t, byDescription.Filtered, 1)
	assert.Equal(t, int64(4), byDescription.Filtered[0].ID)

	byTag := s.Apply(SetSearchQuery{Query: "wireless"})
	require.Len(t, byTag.Filtered, 1)
	assert.Equal(t, int64(2), byTag.Filtered[0].ID)

	cleared := byName.Apply(SetSearchQuery{Query: ""})
	assert.Len(t, cleared.Filtered, 4, "empty query yields the unfiltered catalog")
}

func TestCategoryFilter(t *testing.T) {
	s := New(testSeed())

	gaming := s.Apply(SetCategory{Category: "gaming"})
	require.Len(t, gaming.Filtered, 1)
	assert.Equal(t, int64(3), gaming.Filtered[0].ID)

	all := gaming.Apply(SetCategory{Category: models.CategoryAll})
	assert.Len(t, all.Filtered, 4)

	// Unrecognized categories fail open: no filtering.
	unknown := s.Apply(SetCategory{Category: "appliances"})
	assert.Len(t, unknown.Filtered, 4)
}

func TestCategoryOverridesSearch(t *testing.T) {
	// Filters replace rather than intersect: the later one wins.
	s := New(testSeed()).
		Apply(SetSearchQuery{Query: "pro"}).
		Apply(SetCategory{Category: "gaming"})

	require.Len(t, s.Filtered, 1)
	assert.Equal(t, int64(3), s.Filtered[0].ID)
}

func TestLoginThenLogoutResetsSession(t *testing.T) {
	user := models.User{ID: 7, Email: "x@example.com", Name: "X"}

	s := New(testSeed()).
		Apply(AddToCart{ProductID: 1}).
		Apply(Login{User: user, Wishlist: []int64{2, 3}})

	require.True(t, s.Authenticated)
	require.NotNil(t, s.CurrentUser)
	assert.Equal(t, []int64{2, 3}, s.Wishlist, "login replaces the wishlist with the seeded one")

	out := s.Apply(Logout{})
	assert.False(t, out.Authenticated)
	assert.Nil(t, out.CurrentUser)
	assert.Empty(t, out.Cart)
	assert.Zero(t, out.CartTotal)
	assert.Empty(t, out.Wishlist)
}

func TestPlaceOrderFreezesCartAndEmptiesIt(t *testing.T) {
	user := models.User{ID: 7, Email: "x@example.com", Name: "X"}
	placedAt := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	s := New(testSeed()).
		Apply(Login{User: user}).
		Apply(AddToCart{ProductID: 1}).
		Apply(AddToCart{ProductID: 1}).
		Apply(AddToCart{ProductID: 2}).
		Apply(PlaceOrder{
			OrderID:         "ORD-TEST",
			TrackingNumber:  "TRK-TEST",
			ShippingAddress: models.Address{Name: "X", City: "Testville"},
			PlacedAt:        placedAt,
		})

	require.Len(t, s.Orders, 1)
	order := s.Orders[0]
	assert.Equal(t, "ORD-TEST", order.ID)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, int64(2500), order.Total)
	assert.Equal(t, placedAt, order.OrderDate)
	require.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderItem{ProductID: 1, Quantity: 2, Price: 1000}, order.Items[0])
	assert.Equal(t, models.OrderItem{ProductID: 2, Quantity: 1, Price: 500}, order.Items[1])

	assert.Empty(t, s.Cart, "checkout empties the cart")
	assert.Zero(t, s.CartTotal)
}

func TestPlaceOrderFailsClosedWhenUnauthenticated(t *testing.T) {
	s := New(testSeed()).Apply(AddToCart{ProductID: 1})

	out := s.Apply(PlaceOrder{OrderID: "ORD-NOPE"})
	assert.Empty(t, out.Orders, "no order may be created without an owner")
	assert.Equal(t, s.Cart, out.Cart)
}

func TestAddReviewAppends(t *testing.T) {
	s := New(testSeed())

	s = s.Apply(AddReview{Review: models.Review{ID: 1, ProductID: 2, Rating: 5, Title: "Great"}})
	s = s.Apply(AddReview{Review: models.Review{ID: 2, ProductID: 2, Rating: 4, Title: "Good"}})

	reviews := s.ReviewsFor(2)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Great", reviews[0].Title)
	assert.Equal(t, "Good", reviews[1].Title)
}

func TestApplyDoesNotMutatePriorState(t *testing.T) {
	s := New(testSeed()).Apply(AddToCart{ProductID: 1})
	cartBefore := s.Cart[0]
	totalBefore := s.CartTotal
	filteredBefore := make([]models.Product, len(s.Filtered))
	copy(filteredBefore, s.Filtered)

	_ = s.Apply(AddToCart{ProductID: 1})
	_ = s.Apply(UpdateCartQuantity{ProductID: 1, Quantity: 9})
	_ = s.Apply(SetSort{Order: models.SortPriceLow})
	_ = s.Apply(ToggleWishlist{ProductID: 1})

	assert.Equal(t, cartBefore, s.Cart[0])
	assert.Equal(t, totalBefore, s.CartTotal)
	assert.Equal(t, filteredBefore, s.Filtered)
	assert.Empty(t, s.Wishlist)
}
