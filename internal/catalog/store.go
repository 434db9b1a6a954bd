package catalog

import (
	"context"
	"fmt"
	"sync"

	"beauty/advisor/internal/client"
	"beauty/advisor/internal/domain"
	"beauty/advisor/internal/state"

	log "github.com/sirupsen/logrus"
)

// Store owns the loaded catalog and the persisted selections
type Store struct {
	source     client.CatalogSource
	selections state.SelectionStore

	mu       sync.RWMutex
	products []domain.Product
}

func NewStore(source client.CatalogSource, selections state.SelectionStore) *Store {
	return &Store{
		source:     source,
		selections: selections,
	}
}

// LoadCatalog fetches the products resource and replaces the cached copy.
// Failures are returned as-is; nothing is retried.
func (s *Store) LoadCatalog(ctx context.Context) ([]domain.Product, error) {
	products, err := s.source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	log.Debugf("Loaded catalog with %d products", len(products))
	return products, nil
}

// Products returns the cached catalog, loading it on first use
func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()
	if products != nil {
		return products, nil
	}
	return s.LoadCatalog(ctx)
}

// RestoreSelection reads the visitor's persisted names and resolves them
// against a freshly loaded catalog. Unreadable persisted data restores an
// empty selection.
func (s *Store) RestoreSelection(ctx context.Context, visitorID string) ([]domain.Product, error) {
	names := s.persistedNames(ctx, visitorID)

	products, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	return Intersect(names, products), nil
}

// CurrentSelection is RestoreSelection against the cached catalog. It
// returns the catalog alongside the selection.
func (s *Store) CurrentSelection(ctx context.Context, visitorID string) ([]domain.Product, []domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, nil, err
	}
	return products, Intersect(s.persistedNames(ctx, visitorID), products), nil
}

func (s *Store) persistedNames(ctx context.Context, visitorID string) []string {
	names, err := s.selections.LoadSelection(ctx, visitorID)
	if err != nil {
		log.Warnf("⚠️ Ignoring persisted selection for visitor %s: %v", visitorID, err)
		return nil
	}
	return names
}

// PersistSelection writes the selected names. Storage failures are logged
// and otherwise ignored.
func (s *Store) PersistSelection(ctx context.Context, visitorID string, selected []domain.Product) {
	if err := s.selections.SaveSelection(ctx, visitorID, domain.ProductNames(selected)); err != nil {
		log.Errorf("❌ Failed to persist selection for visitor %s: %v", visitorID, err)
	}
}

// Intersect keeps the names that exist in the catalog, in the order of
// names, dropping duplicates
func Intersect(names []string, products []domain.Product) []domain.Product {
	byName := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p
		}
	}

	selected := make([]domain.Product, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		selected = append(selected, p)
	}
	return selected
}
