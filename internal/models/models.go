package models

import "time"

// Product represents a catalog product. Products are seeded from fixtures
// at startup and never mutated.
type Product struct {
	ID             int64             `json:"id"`
	Slug           string            `json:"slug"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category"`
	Price          int64             `json:"price"`
	OriginalPrice  int64             `json:"original_price"`
	Discount       int               `json:"discount"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	InStock        int               `json:"in_stock"`
	Tags           []string          `json:"tags"`
	Images         []string          `json:"images"`
	Specifications map[string]string `json:"specifications"`
	Features       []string          `json:"features"`
}

// User represents a storefront account from the user roster fixture.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
	JoinDate string `json:"join_date"`
	IsActive bool   `json:"is_active"`
}

// User roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// CartLine aggregates one product within the cart. Price is snapshotted
// at add-time and does not track later catalog changes.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     int64   `json:"price"`
	Product   Product `json:"product"`
}

// Subtotal returns price x quantity for the line.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Address is a shipping address snapshot frozen into an order.
type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// OrderItem is a frozen order line: quantity and price at purchase time,
// independent of later catalog price changes.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

// Order represents a placed order. Orders are immutable after creation;
// no code path advances Status.
type Order struct {
	ID              string      `json:"id"`
	UserID          int64       `json:"user_id"`
	Status          string      `json:"status"`
	Total           int64       `json:"total"`
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
	OrderDate       time.Time   `json:"order_date"`
	TrackingNumber  string      `json:"tracking_number"`
}

// Order statuses. Processing is the only legal creation state.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Review is an append-only product review.
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`
	Helpful   int       `json:"helpful"`
	Verified  bool      `json:"verified"`
}

// UserInteraction is one entry in the read-only interaction log consumed
// by the recommendation engine.
type UserInteraction struct {
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Rating    int    `json:"rating,omitempty"`
}

// Interaction actions
const (
	InteractionPurchase = "purchase"
	InteractionView     = "view"
	InteractionWishlist = "wishlist"
)

// WishlistSeed assigns a product to a user's wishlist in the fixture data.
type WishlistSeed struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
}

// Sort orders accepted by the catalog. Anything unrecognized behaves as
// SortFeatured (no reordering).
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// CategoryAll is the sentinel category selecting the full catalog.
const CategoryAll = "all"
