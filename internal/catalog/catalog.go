package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"storefront-service/internal/models"
)

//go:embed fixtures/*.json
var defaultFixtures embed.FS

// Fixtures holds the read-only seed datasets loaded once at startup.
// Nothing in the service mutates them after Load returns.
type Fixtures struct {
	Products     []models.Product
	Users        []models.User
	Orders       []models.Order
	Reviews      []models.Review
	Wishlists    []models.WishlistSeed
	Interactions []models.UserInteraction

	byID   map[int64]models.Product
	bySlug map[string]models.Product
}

// Load reads the fixture datasets. When dir is non-empty each file is read
// from that directory, otherwise the embedded defaults are used.
func Load(dir string) (*Fixtures, error) {
	f := &Fixtures{}

	loaders := []struct {
		file string
		dst  interface{}
	}{
		{"products.json", &f.Products},
		{"users.json", &f.Users},
		{"orders.json", &f.Orders},
		{"reviews.json", &f.Reviews},
		{"wishlists.json", &f.Wishlists},
		{"interactions.json", &f.Interactions},
	}

	for _, l := range loaders {
		data, err := readFixture(dir, l.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture %s: %w", l.file, err)
		}
		if err := json.Unmarshal(data, l.dst); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", l.file, err)
		}
	}

	f.byID = make(map[int64]models.Product, len(f.Products))
	f.bySlug = make(map[string]models.Product, len(f.Products))
	for _, p := range f.Products {
		f.byID[p.ID] = p
		f.bySlug[p.Slug] = p
	}

	return f, nil
}

func readFixture(dir, name string) ([]byte, error) {
	if dir != "" {
		return os.ReadFile(filepath.Clean(filepath.Join(dir, name)))
	}
	return defaultFixtures.ReadFile("fixtures/" + name)
}

// ProductByID looks up a product by id.
func (f *Fixtures) ProductByID(id int64) (models.Product, bool) {
	p, ok := f.byID[id]
	return p, ok
}

// ProductBySlug looks up a product by slug.
func (f *Fixtures) ProductBySlug(slug string) (models.Product, bool) {
	p, ok := f.bySlug[slug]
	return p, ok
}

// UserByEmail looks up a user by email.
func (f *Fixtures) UserByEmail(email string) (models.User, bool) {
	for _, u := range f.Users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// UserByID looks up a user by id.
func (f *Fixtures) UserByID(id int64) (models.User, bool) {
	for _, u := range f.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Categories returns the distinct product categories in catalog order.
func (f *Fixtures) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range f.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// WishlistFor returns the seeded wishlist product ids for a user.
func (f *Fixtures) WishlistFor(userID int64) []int64 {
	var ids []int64
	for _, w := range f.Wishlists {
		if w.UserID == userID {
			ids = append(ids, w.ProductID)
		}
	}
	return ids
}
