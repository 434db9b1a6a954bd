package domain

// Filter is the transient category + search state of the product grid
type Filter struct {
	Category Category `json:"category"` // Empty means all categories
	Search   string   `json:"search"`   // Case-insensitive substring
}

func (f Filter) IsEmpty() bool {
	return f.Category == CategoryAll && f.Search == ""
}
