package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-console/internal/common/models"
	"go-console/internal/config"
	"go-console/internal/features/page"
	"go-console/internal/features/record"
	"go-console/pkg/queryfilter"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("list session not found")

const defaultPageSize = 10

type ListService interface {
	Open(ctx context.Context, pageID string, roles []string, query map[string]string) (*SessionView, error)
	Get(sessionID string) (*SessionView, error)
	Close(sessionID string) error

	ApplyFilter(ctx context.Context, sessionID string, entry models.FilterEntry) (*SessionView, error)
	ClearFilter(ctx context.Context, sessionID string) (*SessionView, error)
	ApplySort(ctx context.Context, sessionID string, entry models.SortEntry) (*SessionView, error)
	SetPage(ctx context.Context, sessionID string, pageIndex int64) (*SessionView, error)
	SetPageSize(ctx context.Context, sessionID string, size int64) (*SessionView, error)
	Refetch(ctx context.Context, sessionID string) (*SessionView, error)
	SwitchPage(ctx context.Context, sessionID, pageID string, roles []string, query map[string]string) (*SessionView, error)

	OpenModal(ctx context.Context, sessionID, pageID string, roles []string, query map[string]string) (*SessionView, error)
	CloseModal(ctx context.Context, sessionID string) (*SessionView, error)

	ToggleSwitch(ctx context.Context, sessionID, field string, rowIndex int, checked bool) (*SessionView, error)

	// Session exposes the live session to the action dispatcher.
	Session(sessionID string) (*Session, error)

	ReapIdle(ttl time.Duration) int
}

type ListServiceImpl struct {
	PageService page.PageService
	API         record.PageAPI
	Logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	maxPageSize int64
}

func NewListService(pageService page.PageService, api record.PageAPI, cfg *config.Config, logger *zap.Logger) ListService {
	return &ListServiceImpl{
		PageService: pageService,
		API:         api,
		Logger:      logger,
		sessions:    map[string]*Session{},
		maxPageSize: cfg.MaxPageSize,
	}
}

func (s *ListServiceImpl) Open(ctx context.Context, pageID string, roles []string, query map[string]string) (*SessionView, error) {
	sess, err := s.open(ctx, pageID, roles, query)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *ListServiceImpl) open(ctx context.Context, pageID string, roles []string, query map[string]string) (*Session, error) {
	schema, err := s.PageService.Resolve(ctx, pageID, roles)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:     primitive.NewObjectID().Hex(),
		PageID: pageID,
		Schema: schema,
		Query:  query,
		State: models.FilterState{
			PageSize: defaultPageSize,
		},
		Status:     StatusLoading,
		LastActive: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.fetch(ctx, sess)
	return sess, nil
}

func (s *ListServiceImpl) Get(sessionID string) (*SessionView, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *ListServiceImpl) Close(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for _, modal := range sess.Modals {
		delete(s.sessions, modal.ID)
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *ListServiceImpl) Session(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *ListServiceImpl) ApplyFilter(ctx context.Context, sessionID string, entry models.FilterEntry) (*SessionView, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) {
		sess.State = sess.State.WithFilter(entry)
	})
}

func (s *ListServiceImpl) ClearFilter(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) {
		sess.State = sess.State.WithoutFilter()
	})
}

func (s *ListServiceImpl) ApplySort(ctx context.Context, sessionID string, entry models.SortEntry) (*SessionView, error) {
	return s.mutate(ctx, sessionID, func(sess *Session) {
		sess.State = sess.State.WithSort(entry)
	})
}

func (s *ListServiceImpl) SetPage(ctx context.Context, sessionID string, pageIndex int64) (*SessionView, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.Status == StatusLoading {
		// Pagination is locked while a fetch is in flight.
		sess.mu.Unlock()
		return s.view(sess), nil
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	sess.State = sess.State.WithPage(pageIndex)
	sess.LastActive = time.Now()
	sess.mu.Unlock()

	s.fetch(ctx, sess)
	return s.view(sess), nil
}

func (s *ListServiceImpl) SetPageSize(ctx context.Context, sessionID string, size int64) (*SessionView, error) {
	if size <= 0 {
		size = defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	return s.mutate(ctx, sessionID, func(sess *Session) {
		sess.State = sess.State.WithPageSize(size)
	})
}

func (s *ListServiceImpl) Refetch(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.mutate(ctx, sessionID, func(*Session) {})
}

// SwitchPage points an existing session at a different page. Nothing from
// the previous page survives: filter state, rows and lookups all reset.
func (s *ListServiceImpl) SwitchPage(ctx context.Context, sessionID, pageID string, roles []string, query map[string]string) (*SessionView, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	schema, err := s.PageService.Resolve(ctx, pageID, roles)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.PageID = pageID
	sess.Schema = schema
	sess.Query = query
	sess.State = models.FilterState{PageSize: defaultPageSize}
	sess.Rows = nil
	sess.Lookups = LookupMaps{}
	sess.Columns = nil
	sess.Cells = nil
	sess.Count = 0
	sess.Notice = ""
	sess.Status = StatusLoading
	sess.LastActive = time.Now()
	sess.mu.Unlock()

	s.fetch(ctx, sess)
	return s.view(sess), nil
}

func (s *ListServiceImpl) OpenModal(ctx context.Context, sessionID, pageID string, roles []string, query map[string]string) (*SessionView, error) {
	parent, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	child, err := s.open(ctx, pageID, roles, query)
	if err != nil {
		return nil, err
	}

	parent.mu.Lock()
	parent.Modals = append(parent.Modals, child)
	parent.LastActive = time.Now()
	parent.mu.Unlock()

	return s.view(parent), nil
}

func (s *ListServiceImpl) CloseModal(ctx context.Context, sessionID string) (*SessionView, error) {
	parent, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	parent.mu.Lock()
	if n := len(parent.Modals); n > 0 {
		top := parent.Modals[n-1]
		parent.Modals = parent.Modals[:n-1]
		s.mu.Lock()
		delete(s.sessions, top.ID)
		s.mu.Unlock()
	}
	parent.LastActive = time.Now()
	parent.mu.Unlock()

	return s.view(parent), nil
}

// ToggleSwitch applies a switch button's toggle optimistically and reverts
// it if the backing call fails.
func (s *ListServiceImpl) ToggleSwitch(ctx context.Context, sessionID, field string, rowIndex int, checked bool) (*SessionView, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	btn := switchButtonSpec(sess.Schema, field)
	if btn == nil {
		sess.mu.Unlock()
		return nil, fmt.Errorf("no switch button bound to column %q", field)
	}
	if rowIndex < 0 || rowIndex >= len(sess.Rows) {
		sess.mu.Unlock()
		return nil, fmt.Errorf("row index %d out of range", rowIndex)
	}
	row := sess.Rows[rowIndex]
	prev := row[field]
	row[field] = checked
	schema := sess.Schema
	sess.LastActive = time.Now()
	sess.mu.Unlock()

	_, callErr := s.API.Call(ctx, schema, btn.API, map[string]interface{}{
		"id":  row["id"],
		field: checked,
	})

	sess.mu.Lock()
	if callErr != nil {
		row[field] = prev
		sess.Notice = callErr.Error()
		s.Logger.Warn("switch toggle reverted",
			zap.String("page", sess.PageID),
			zap.String("field", field),
			zap.Error(callErr))
	}
	sess.Columns, sess.Cells = Project(schema, sess.Lookups, sess.Rows)
	sess.mu.Unlock()

	return s.view(sess), nil
}

// ReapIdle drops sessions (and their modal children) with no activity
// within ttl. Returns how many were removed.
func (s *ListServiceImpl) ReapIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.LastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.Logger.Info("reaped idle list sessions", zap.Int("count", removed))
	}
	return removed
}

// mutate applies a state change under the session lock and runs a fetch
// cycle with the new state.
func (s *ListServiceImpl) mutate(ctx context.Context, sessionID string, change func(*Session)) (*SessionView, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	change(sess)
	sess.LastActive = time.Now()
	sess.mu.Unlock()

	s.fetch(ctx, sess)
	return s.view(sess), nil
}

// fetch runs one fetch cycle: compile query, read, resolve lookups, project.
// Each cycle gets a sequence number; results of superseded cycles are
// discarded so an out-of-order response can never overwrite newer state.
func (s *ListServiceImpl) fetch(ctx context.Context, sess *Session) {
	sess.mu.Lock()
	sess.fetchSeq++
	seq := sess.fetchSeq
	sess.Status = StatusLoading
	sess.Notice = ""
	schema := sess.Schema
	state := sess.State
	sess.mu.Unlock()

	q := buildQuery(schema, state)

	rows, count, err := s.API.Query(ctx, schema, q)
	var lookups LookupMaps
	if err == nil {
		lookups, err = ResolveLookups(ctx, s.API, schema, rows)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if seq <= sess.latestSeq {
		// A later cycle already applied its results.
		return
	}
	sess.latestSeq = seq

	if err != nil {
		// Prior rows stay on screen; the failure surfaces as a notice.
		sess.Status = StatusIdle
		sess.Notice = err.Error()
		s.Logger.Error("fetch cycle failed",
			zap.String("page", sess.PageID),
			zap.Error(err))
		return
	}

	sess.Rows = rows
	sess.Count = count
	sess.Lookups = lookups
	sess.Columns, sess.Cells = Project(schema, lookups, rows)
	sess.Status = StatusIdle
}

// buildQuery compiles the session state into a typed read request.
func buildQuery(schema *models.PageSchema, state models.FilterState) models.QueryInput {
	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	q := models.QueryInput{
		Filter: queryfilter.Compile(state.Filtered, schema.Grid),
		Skip:   state.Page * pageSize,
		Limit:  pageSize,
	}

	for _, sorted := range state.Sorted {
		dir := "asc"
		if sorted.Desc {
			dir = "desc"
		}
		q.Sort = append(q.Sort, models.SortField{Field: sorted.ID, Dir: dir})
	}
	if len(q.Sort) == 0 && schema.DefaultSort == "" {
		q.Sort = []models.SortField{{Field: "createdAt", Dir: "desc"}}
	}

	return q
}

// view snapshots a session into its wire shape, recursing into modals.
func (s *ListServiceImpl) view(sess *Session) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	v := &SessionView{
		ID:      sess.ID,
		PageID:  sess.PageID,
		Name:    sess.Schema.Name,
		Status:  sess.Status,
		Notice:  sess.Notice,
		State:   sess.State,
		Columns: sess.Columns,
		Cells:   sess.Cells,
		Rows:    sess.Rows,
		Count:   sess.Count,
		Buttons: pageButtons(sess.Schema),
	}
	for _, modal := range sess.Modals {
		v.Modals = append(v.Modals, s.view(modal))
	}
	return v
}

// pageButtons renders the page-level action bar. Hidden page-level buttons
// render disabled instead of vanishing.
func pageButtons(schema *models.PageSchema) []ButtonView {
	var views []ButtonView
	for i := range schema.Buttons {
		b := &schema.Buttons[i]
		if b.Column != "" || b.ShowOnFormOnly {
			continue
		}
		view := ButtonView{
			Title:   b.Title,
			Action:  b.Action,
			Color:   b.Color,
			Outline: b.Outline,
			Icon:    b.Icon,
			Confirm: b.Confirm,
		}
		if b.Action == models.ActionDisable {
			view.Disabled = true
		}
		if b.HideExpression != "" {
			if hidden := evalHide(b.HideExpression); hidden {
				view.Disabled = true
			}
		}
		views = append(views, view)
	}
	return views
}

func switchButtonSpec(schema *models.PageSchema, field string) *models.ButtonSpec {
	for i := range schema.Buttons {
		if schema.Buttons[i].Column == field && schema.Buttons[i].Action == models.ActionSwitch {
			return &schema.Buttons[i]
		}
	}
	return nil
}
