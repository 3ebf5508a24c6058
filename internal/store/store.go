package store

import (
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// State is one complete session snapshot. Transitions never mutate a
// snapshot in place: Apply derives a new State from the previous one and
// an Action, so a held State stays consistent (cart totals always match
// the line items they were computed from).
type State struct {
	CurrentUser   *models.User
	Authenticated bool

	Products         []models.Product
	Filtered         []models.Product
	Categories       []string
	SelectedCategory string
	SearchQuery      string
	SortBy           string

	Cart      []models.CartLine
	CartTotal int64

	Wishlist []int64

	Reviews []models.Review
	Orders  []models.Order

	Recommendations []models.Product
}

// Seed carries the fixture data a fresh session starts from.
type Seed struct {
	Products   []models.Product
	Categories []string
	Orders     []models.Order
	Reviews    []models.Review
}

// New returns the initial session state: full catalog visible, featured
// order, empty cart and wishlist, no authenticated user.
func New(seed Seed) State {
	return State{
		Products:         seed.Products,
		Filtered:         seed.Products,
		Categories:       seed.Categories,
		SelectedCategory: models.CategoryAll,
		SearchQuery:      "",
		SortBy:           models.SortFeatured,
		Orders:           seed.Orders,
		Reviews:          seed.Reviews,
	}
}

// CartLine returns the cart line for a product, if present.
func (s State) CartLine(productID int64) (models.CartLine, bool) {
	for _, line := range s.Cart {
		if line.ProductID == productID {
			return line, true
		}
	}
	return models.CartLine{}, false
}

// InWishlist reports whether a product id is on the wishlist.
func (s State) InWishlist(productID int64) bool {
	for _, id := range s.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// ReviewsFor returns the reviews for one product in append order.
func (s State) ReviewsFor(productID int64) []models.Review {
	var out []models.Review
	for _, r := range s.Reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// OrdersFor returns the orders owned by a user in append order.
func (s State) OrdersFor(userID int64) []models.Order {
	var out []models.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func (s State) productInCatalog(id int64) (models.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func cartTotal(cart []models.CartLine) int64 {
	var total int64
	for _, line := range cart {
		total += line.Subtotal()
	}
	return total
}

// matchesQuery reports whether a product's name, description, or any tag
// contains the query, case-insensitively.
func matchesQuery(p models.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// sortProducts returns a reordered copy of products. Unrecognized orders
// behave like featured: the slice comes back in its current order. Sorts
// are stable for equal keys.
func sortProducts(products []models.Product, order string) []models.Product {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	switch order {
	case models.SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	case models.SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	case models.SortRating:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	case models.SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	}

	return sorted
}
