package models

// FilterDocument is the backend query-filter document compiled from active
// filter entries: field name -> predicate. Predicates are plain JSON
// shapes (exact value, list membership, {"contains": s}, {">=": a, "<=": b})
// plus an optional "and" group of nested OR-groups for serialized-array
// containment.
type FilterDocument map[string]interface{}

// FilterEntry is one active (field, value) filter selection.
type FilterEntry struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

// SortEntry is one active sort selection. The grid allows at most one.
type SortEntry struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// FilterState is the session-local record of filter/sort/pagination
// selections. It is an immutable value: every user interaction produces a
// replacement, never an in-place mutation.
type FilterState struct {
	Filtered []FilterEntry `json:"filtered"`
	Sorted   []SortEntry   `json:"sorted"`
	Page     int64         `json:"page"`
	PageSize int64         `json:"pageSize"`
}

// WithFilter returns a copy with the filter list replaced by the single
// entry. Filtering resets to the first page.
func (s FilterState) WithFilter(entry FilterEntry) FilterState {
	s.Filtered = []FilterEntry{entry}
	s.Page = 0
	return s
}

// WithoutFilter returns a copy with no active filter entries.
func (s FilterState) WithoutFilter() FilterState {
	s.Filtered = nil
	s.Page = 0
	return s
}

// WithSort returns a copy sorted by the single entry.
func (s FilterState) WithSort(entry SortEntry) FilterState {
	s.Sorted = []SortEntry{entry}
	return s
}

// WithPage returns a copy on the given page index.
func (s FilterState) WithPage(page int64) FilterState {
	s.Page = page
	return s
}

// WithPageSize returns a copy with the given page size, back on the first
// page.
func (s FilterState) WithPageSize(size int64) FilterState {
	s.PageSize = size
	s.Page = 0
	return s
}

// SortField is one compiled sort term.
type SortField struct {
	Field string `json:"field"`
	Dir   string `json:"dir"` // "asc" | "desc"
}

// QueryInput is the compiled read request: filter document plus sort and
// pagination window. Derived deterministically from FilterState and the
// page's grid.
type QueryInput struct {
	Filter FilterDocument `json:"queryInput"`
	Sort   []SortField    `json:"sort"`
	Skip   int64          `json:"skip"`
	Limit  int64          `json:"limit"`
}
