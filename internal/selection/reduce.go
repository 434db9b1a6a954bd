package selection

import (
	"beauty/advisor/internal/domain"
)

// State is everything the product grid and the selected list render from
type State struct {
	Catalog  []domain.Product
	Filter   domain.Filter
	Selected []domain.Product
	Expanded map[string]bool // Card descriptions currently open
}

func (s State) Visible() []domain.Product {
	return Visible(s.Catalog, s.Filter)
}

func (s State) IsSelected(name string) bool {
	return domain.ContainsProduct(s.Selected, name)
}

// ExpandedNames lists open descriptions in catalog order
func (s State) ExpandedNames() []string {
	names := make([]string, 0, len(s.Expanded))
	for _, p := range s.Catalog {
		if s.Expanded[p.Name] {
			names = append(names, p.Name)
		}
	}
	return names
}

// Reduce computes the next state. The returned flag reports whether the
// selected set changed and must be persisted. The input state is never
// modified.
func Reduce(s State, action Action) (State, bool) {
	next := s
	switch a := action.(type) {
	case Toggle:
		if s.IsSelected(a.Name) {
			next.Selected = without(s.Selected, a.Name)
			return next, true
		}
		p, ok := domain.FindProduct(s.Catalog, a.Name)
		if !ok {
			return s, false
		}
		next.Selected = append(append(make([]domain.Product, 0, len(s.Selected)+1), s.Selected...), p)
		return next, true

	case Remove:
		if !s.IsSelected(a.Name) {
			return s, false
		}
		next.Selected = without(s.Selected, a.Name)
		return next, true

	case Clear:
		// Persisted even when already empty
		next.Selected = []domain.Product{}
		return next, true

	case ToggleDescription:
		expanded := make(map[string]bool, len(s.Expanded)+1)
		for name, open := range s.Expanded {
			if open {
				expanded[name] = true
			}
		}
		if expanded[a.Name] {
			delete(expanded, a.Name)
		} else {
			expanded[a.Name] = true
		}
		next.Expanded = expanded
		return next, false

	case SetCategory:
		next.Filter.Category = a.Category
		return next, false

	case SetSearch:
		next.Filter.Search = a.Term
		return next, false
	}

	return s, false
}

func without(products []domain.Product, name string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}
