package selection

import (
	"strings"

	"beauty/advisor/internal/domain"
)

// Visible returns the products that pass both the category and the search
// predicate, in catalog order
func Visible(catalog []domain.Product, filter domain.Filter) []domain.Product {
	term := NormalizeTerm(filter.Search)

	visible := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if !MatchesCategory(p, filter.Category) || !MatchesSearch(p, term) {
			continue
		}
		visible = append(visible, p)
	}
	return visible
}

func NormalizeTerm(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// MatchesCategory is true for every product when category is empty
func MatchesCategory(p domain.Product, category domain.Category) bool {
	return category == domain.CategoryAll || p.Category == category.String()
}

// MatchesSearch expects an already normalized term; empty matches all
func MatchesSearch(p domain.Product, term string) bool {
	if term == "" {
		return true
	}
	return containsFold(p.Name, term) ||
		containsFold(p.Description, term) ||
		containsFold(p.Brand, term)
}

func containsFold(field, term string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), term)
}
