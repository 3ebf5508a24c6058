package store

import (
	"time"

	"storefront-service/internal/models"
)

// Action is one member of the closed set of session transitions. Every
// action is total: applying it always yields a valid next state, possibly
// unchanged.
type Action interface {
	isAction()
}

// Login authenticates a user and replaces the wishlist with the user's
// seeded one (replace, not merge).
type Login struct {
	User     models.User
	Wishlist []int64
}

// Logout clears the authenticated user, the cart, and the wishlist.
type Logout struct{}

// SetSearchQuery recomputes the filtered list by case-insensitive
// substring match on name, description, and tags. An empty query yields
// the unfiltered catalog. The previous category filter is overridden, not
// intersected; see the package notes on filter composition.
type SetSearchQuery struct {
	Query string
}

// SetCategory recomputes the filtered list by exact category match, with
// "all" (or any unrecognized category) selecting the full catalog. The
// previous search filter is overridden, not intersected.
type SetCategory struct {
	Category string
}

// SetSort reorders the current filtered list. Unrecognized orders keep
// the current order.
type SetSort struct {
	Order string
}

// AddToCart adds one unit of a product, merging into an existing line.
// Products not in the catalog are ignored.
type AddToCart struct {
	ProductID int64
}

// RemoveFromCart drops a line entirely regardless of quantity.
type RemoveFromCart struct {
	ProductID int64
}

// UpdateCartQuantity sets (not increments) a line's quantity, clamped to
// zero or more; zero drops the line.
type UpdateCartQuantity struct {
	ProductID int64
	Quantity  int
}

// ClearCart empties the cart.
type ClearCart struct{}

// ToggleWishlist adds the id if absent and removes it if present.
type ToggleWishlist struct {
	ProductID int64
}

// AddReview appends to the review log.
type AddReview struct {
	Review models.Review
}

// PlaceOrder freezes the current cart into a new processing order and
// empties the cart. The caller supplies identity and timestamp so the
// transition stays derivable from state plus action alone. Ignored when
// no user is authenticated.
type PlaceOrder struct {
	OrderID         string
	TrackingNumber  string
	ShippingAddress models.Address
	PlacedAt        time.Time
}

// SetRecommendations stores the engine's current suggestion list.
type SetRecommendations struct {
	Products []models.Product
}

func (Login) isAction()              {}
func (Logout) isAction()             {}
func (SetSearchQuery) isAction()     {}
func (SetCategory) isAction()        {}
func (SetSort) isAction()            {}
func (AddToCart) isAction()          {}
func (RemoveFromCart) isAction()     {}
func (UpdateCartQuantity) isAction() {}
func (ClearCart) isAction()          {}
func (ToggleWishlist) isAction()     {}
func (AddReview) isAction()          {}
func (PlaceOrder) isAction()         {}
func (SetRecommendations) isAction() {}

// Apply computes the next state for one action.
func (s State) Apply(action Action) State {
	switch a := action.(type) {
	case Login:
		user := a.User
		s.CurrentUser = &user
		s.Authenticated = true
		s.Wishlist = append([]int64(nil), a.Wishlist...)
		return s

	case Logout:
		s.CurrentUser = nil
		s.Authenticated = false
		s.Cart = nil
		s.CartTotal = 0
		s.Wishlist = nil
		return s

	case SetSearchQuery:
		s.SearchQuery = a.Query
		if a.Query == "" {
			s.Filtered = s.Products
			return s
		}
		var filtered []models.Product
		for _, p := range s.Products {
			if matchesQuery(p, a.Query) {
				filtered = append(filtered, p)
			}
		}
		s.Filtered = filtered
		return s

	case SetCategory:
		s.SelectedCategory = a.Category
		if a.Category == models.CategoryAll || !s.knownCategory(a.Category) {
			s.Filtered = s.Products
			return s
		}
		var filtered []models.Product
		for _, p := range s.Products {
			if p.Category == a.Category {
				filtered = append(filtered, p)
			}
		}
		s.Filtered = filtered
		return s

	case SetSort:
		s.SortBy = a.Order
		s.Filtered = sortProducts(s.Filtered, a.Order)
		return s

	case AddToCart:
		product, ok := s.productInCatalog(a.ProductID)
		if !ok {
			return s
		}
		cart := make([]models.CartLine, 0, len(s.Cart)+1)
		merged := false
		for _, line := range s.Cart {
			if line.ProductID == a.ProductID {
				line.Quantity++
				merged = true
			}
			cart = append(cart, line)
		}
		if !merged {
			cart = append(cart, models.CartLine{
				ProductID: product.ID,
				Quantity:  1,
				Price:     product.Price,
				Product:   product,
			})
		}
		s.Cart = cart
		s.CartTotal = cartTotal(cart)
		return s

	case RemoveFromCart:
		var cart []models.CartLine
		for _, line := range s.Cart {
			if line.ProductID != a.ProductID {
				cart = append(cart, line)
			}
		}
		s.Cart = cart
		s.CartTotal = cartTotal(cart)
		return s

	case UpdateCartQuantity:
		quantity := a.Quantity
		if quantity < 0 {
			quantity = 0
		}
		var cart []models.CartLine
		for _, line := range s.Cart {
			if line.ProductID == a.ProductID {
				line.Quantity = quantity
			}
			if line.Quantity > 0 {
				cart = append(cart, line)
			}
		}
		s.Cart = cart
		s.CartTotal = cartTotal(cart)
		return s

	case ClearCart:
		s.Cart = nil
		s.CartTotal = 0
		return s

	case ToggleWishlist:
		if s.InWishlist(a.ProductID) {
			var wishlist []int64
			for _, id := range s.Wishlist {
				if id != a.ProductID {
					wishlist = append(wishlist, id)
				}
			}
			s.Wishlist = wishlist
			return s
		}
		wishlist := make([]int64, 0, len(s.Wishlist)+1)
		wishlist = append(wishlist, s.Wishlist...)
		s.Wishlist = append(wishlist, a.ProductID)
		return s

	case AddReview:
		reviews := make([]models.Review, 0, len(s.Reviews)+1)
		reviews = append(reviews, s.Reviews...)
		s.Reviews = append(reviews, a.Review)
		return s

	case PlaceOrder:
		// Fail closed: never synthesize an order without an owner.
		if !s.Authenticated || s.CurrentUser == nil {
			return s
		}
		items := make([]models.OrderItem, 0, len(s.Cart))
		for _, line := range s.Cart {
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}
		order := models.Order{
			ID:              a.OrderID,
			UserID:          s.CurrentUser.ID,
			Status:          models.OrderStatusProcessing,
			Total:           s.CartTotal,
			Items:           items,
			ShippingAddress: a.ShippingAddress,
			OrderDate:       a.PlacedAt,
			TrackingNumber:  a.TrackingNumber,
		}
		orders := make([]models.Order, 0, len(s.Orders)+1)
		orders = append(orders, s.Orders...)
		s.Orders = append(orders, order)
		s.Cart = nil
		s.CartTotal = 0
		return s

	case SetRecommendations:
		s.Recommendations = a.Products
		return s
	}

	return s
}

func (s State) knownCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}
