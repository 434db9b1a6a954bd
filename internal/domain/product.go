package domain

type Product struct {
	Name        string `json:"name"` // Unique within the catalog
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"` // Image URL
}

// CatalogDocument is the shape of the static products resource
type CatalogDocument struct {
	Products []Product `json:"products"`
}

// ProductNames returns the names of products in order
func ProductNames(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

// FindProduct looks a product up by name
func FindProduct(products []Product, name string) (Product, bool) {
	for _, p := range products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// ContainsProduct reports whether a product with the given name is in the list
func ContainsProduct(products []Product, name string) bool {
	_, ok := FindProduct(products, name)
	return ok
}
