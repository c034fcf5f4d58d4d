package types

// Filter represents query parameters for filtering and pagination.
type Filter struct {
	Search string            `json:"search,omitempty"`
	Filter map[string]string `json:"filter,omitempty"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Page   int               `json:"page"`
}

// Value returns a filter value or an empty string.
func (f Filter) Value(key string) string {
	if f.Filter == nil {
		return ""
	}
	return f.Filter[key]
}

// http://localhost:8080/api/orders?search=FIX&status=closed&start_date=2024-01-01&page=2&limit=20
