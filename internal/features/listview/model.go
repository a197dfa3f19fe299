package listview

import (
	"sync"
	"time"

	"go-console/internal/common/models"
)

// SessionStatus is the fetch-cycle state of a list session.
type SessionStatus string

const (
	StatusLoading SessionStatus = "loading"
	StatusIdle    SessionStatus = "idle"
	StatusError   SessionStatus = "error"
)

// LookupMaps holds the per-field resolved lookup records for the current
// page of rows. Rebuilt wholesale on every fetch cycle.
type LookupMaps struct {
	ModelSelect map[string][]map[string]interface{}
	ArraySelect map[string][]map[string]interface{}
}

// Session is one live list view: a resolved page schema plus everything the
// current fetch cycle produced. Owned by the list service; all access goes
// through it under mu.
type Session struct {
	ID     string            `json:"id"`
	PageID string            `json:"pageId"`
	Schema *models.PageSchema `json:"-"`

	// Query carries the navigation parameters the session was opened with,
	// consumed by @key@ substitution in button templates.
	Query map[string]string `json:"query,omitempty"`

	State models.FilterState `json:"state"`

	Rows    []map[string]interface{} `json:"-"`
	Lookups LookupMaps               `json:"-"`
	Count   int64                    `json:"count"`

	Columns []ProjectedColumn `json:"columns"`
	Cells   [][]Cell          `json:"cells"`

	Status SessionStatus `json:"status"`
	Notice string        `json:"notice,omitempty"`

	// Modals is the stack of nested list sessions opened from this one.
	Modals []*Session `json:"-"`

	LastActive time.Time `json:"-"`

	// fetchSeq counts issued fetches; latestSeq is the highest applied one.
	// Responses with a stale sequence number are discarded.
	fetchSeq  int64
	latestSeq int64

	mu sync.Mutex
}

// Snapshot returns the schema and navigation query the session currently
// points at.
func (s *Session) Snapshot() (*models.PageSchema, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Schema, s.Query
}

// Row returns a copy of the fetched row at index i.
func (s *Session) Row(i int) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.Rows) {
		return nil, false
	}
	row := make(map[string]interface{}, len(s.Rows[i]))
	for k, v := range s.Rows[i] {
		row[k] = v
	}
	return row, true
}

// SessionView is the wire shape of a session returned to clients.
type SessionView struct {
	ID      string                   `json:"id"`
	PageID  string                   `json:"pageId"`
	Name    string                   `json:"name"`
	Status  SessionStatus            `json:"status"`
	Notice  string                   `json:"notice,omitempty"`
	State   models.FilterState       `json:"state"`
	Columns []ProjectedColumn        `json:"columns"`
	Cells   [][]Cell                 `json:"cells"`
	Rows    []map[string]interface{} `json:"rows"`
	Count   int64                    `json:"count"`
	Buttons []ButtonView             `json:"buttons,omitempty"`
	Modals  []*SessionView           `json:"modals,omitempty"`
}

// ButtonView is a rendered action button: a ButtonSpec resolved
// against a row (or the empty row for page-level buttons).
type ButtonView struct {
	Title    string            `json:"title"`
	Action   models.ActionKind `json:"action"`
	Color    string            `json:"color,omitempty"`
	Outline  bool              `json:"outline,omitempty"`
	Icon     string            `json:"icon,omitempty"`
	Confirm  string            `json:"confirm,omitempty"`
	Column   string            `json:"column,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
	Checked  bool              `json:"checked,omitempty"`
}
