package recommend

import (
	"storefront-service/internal/models"
)

// DefaultLimit caps the suggestion list.
const DefaultLimit = 6

// Engine produces product suggestions from the read-only interaction log
// and the catalog. It blends two strategies: products interacted with by
// users who overlap the target user ("similar users"), then products
// sharing a category with the target user's history. The computation is
// pure; interactions referencing unknown products are dropped at
// resolution time.
type Engine struct {
	catalog      []models.Product
	byID         map[int64]models.Product
	interactions []models.UserInteraction
	limit        int
}

// New builds an engine over the given catalog and interaction log.
// A limit of zero or less falls back to DefaultLimit.
func New(catalog []models.Product, interactions []models.UserInteraction, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	byID := make(map[int64]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	return &Engine{
		catalog:      catalog,
		byID:         byID,
		interactions: interactions,
		limit:        limit,
	}
}

// Recommend returns up to the engine's limit of products the user has not
// interacted with. Candidates keep insertion order: collaborative hits
// first, then category matches; a product qualifying via both appears
// once. An empty result is valid.
func (e *Engine) Recommend(userID int64) []models.Product {
	seen := make(map[int64]bool)
	for _, it := range e.interactions {
		if it.UserID == userID {
			seen[it.ProductID] = true
		}
	}

	// Count shared-product overlap per other user. Action type and
	// recency carry no weight.
	similarity := make(map[int64]int)
	var similarOrder []int64
	for _, it := range e.interactions {
		if it.UserID == userID || !seen[it.ProductID] {
			continue
		}
		if similarity[it.UserID] == 0 {
			similarOrder = append(similarOrder, it.UserID)
		}
		similarity[it.UserID]++
	}

	inCandidates := make(map[int64]bool)
	var candidates []int64
	add := func(productID int64) {
		if !inCandidates[productID] {
			inCandidates[productID] = true
			candidates = append(candidates, productID)
		}
	}

	for _, similarUser := range similarOrder {
		for _, it := range e.interactions {
			if it.UserID == similarUser && !seen[it.ProductID] {
				add(it.ProductID)
			}
		}
	}

	categories := make(map[string]bool)
	for productID := range seen {
		if p, ok := e.byID[productID]; ok {
			categories[p.Category] = true
		}
	}
	for _, p := range e.catalog {
		if categories[p.Category] && !seen[p.ID] {
			add(p.ID)
		}
	}

	var result []models.Product
	for _, id := range candidates {
		product, ok := e.byID[id]
		if !ok {
			continue
		}
		result = append(result, product)
		if len(result) == e.limit {
			break
		}
	}
	return result
}
