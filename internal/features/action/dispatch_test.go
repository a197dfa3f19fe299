package action

import (
	"context"
	"errors"
	"testing"

	"go-console/internal/common/models"
	"go-console/internal/config"
	"go-console/internal/features/listview"
	"go-console/internal/features/record"
	"go-console/internal/features/report"

	"go.uber.org/zap"
)

type fakePages struct {
	schemas map[string]*models.PageSchema
}

func (f *fakePages) Resolve(_ context.Context, pageID string, _ []string) (*models.PageSchema, error) {
	s, ok := f.schemas[pageID]
	if !ok {
		return nil, errors.New("page not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakePages) CreatePage(context.Context, *models.PageSchema) error { return nil }
func (f *fakePages) ListPages(context.Context) ([]models.PageSchema, error) {
	return nil, nil
}
func (f *fakePages) UpdatePage(context.Context, *models.PageSchema) error { return nil }
func (f *fakePages) DeletePage(context.Context, string) error             { return nil }
func (f *fakePages) AddColumn(context.Context, string, string) (*models.PageSchema, error) {
	return nil, nil
}
func (f *fakePages) RemoveColumn(context.Context, string, string) (*models.PageSchema, error) {
	return nil, nil
}
func (f *fakePages) MoveColumn(context.Context, string, string, int) (*models.PageSchema, error) {
	return nil, nil
}
func (f *fakePages) CopyColumn(context.Context, string, string) (*models.PageSchema, error) {
	return nil, nil
}

type apiCall struct {
	op      string
	payload map[string]interface{}
}

type fakeAPI struct {
	rows    []map[string]interface{}
	calls   []apiCall
	result  *record.CallResult
	failOps map[string]bool
}

func (f *fakeAPI) Call(_ context.Context, _ *models.PageSchema, opName string, payload map[string]interface{}) (*record.CallResult, error) {
	f.calls = append(f.calls, apiCall{op: opName, payload: payload})
	if f.failOps[opName] {
		return nil, errors.New("call failed")
	}
	if f.result != nil {
		return f.result, nil
	}
	return &record.CallResult{Data: f.rows}, nil
}

func (f *fakeAPI) Query(_ context.Context, _ *models.PageSchema, _ models.QueryInput) ([]map[string]interface{}, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Publish(sessionID, kind string, _ interface{}) {
	f.events = append(f.events, sessionID+":"+kind)
}

func invoiceSchema() *models.PageSchema {
	return &models.PageSchema{
		PageID:     "invoices",
		Name:       "Invoices",
		Collection: "invoices",
		Read:       "invoices.read",
		Grid: []models.ColumnSpec{
			{Field: "code", Name: "Code", Type: models.ColumnTypeString},
			{Field: "paid", Name: "Paid", Type: models.ColumnTypeBoolean},
		},
		Buttons: []models.ButtonSpec{
			{Title: "Approve", Action: models.ActionAPI, API: "approve", Confirm: "Approve #code# for $10?", APIData: `{"source": "console"}`},
			{Title: "Export", Action: models.ActionReport, API: "invoices.read", ReportName: "invoices"},
			{Title: "Pick", Action: models.ActionListModal, ModalQuery: `{"page": "customers", "ref": "#code#"}`},
			{Title: "Open", Action: models.ActionURL, URL: "#/invoices/$?mode=@mode@"},
			{Title: "Paid", Action: models.ActionSwitch, Column: "paid", API: "setPaid"},
			{Title: "Frozen", Action: models.ActionDisable},
			{Title: "Broken", Action: models.ActionAPI, API: "approve", APIData: `{"bad json`},
			{Title: "Hidden", Action: models.ActionAPI, API: "approve", HideExpression: `row.paid == true`},
			{Title: "Assign", Action: models.ActionListModal, EmbedURL: true, ModalQuery: `{"page": "customers", "region": "#region#"}`},
		},
		APIs: []models.Operation{
			{Name: "approve", Kind: models.OperationUpdate, Collection: "invoices"},
			{Name: "setPaid", Kind: models.OperationUpdate, Collection: "invoices"},
		},
	}
}

func customersSchema() *models.PageSchema {
	return &models.PageSchema{
		PageID:     "customers",
		Name:       "Customers",
		Collection: "customers",
		Grid: []models.ColumnSpec{
			{Field: "name", Name: "Name", Type: models.ColumnTypeString},
		},
	}
}

type testHarness struct {
	svc      ActionService
	api      *fakeAPI
	notifier *fakeNotifier
	lists    listview.ListService
	session  string
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	api := &fakeAPI{rows: []map[string]interface{}{
		{"id": int64(1), "code": "INV-1", "paid": false},
		{"id": int64(2), "code": "INV-2", "paid": true},
	}}
	pages := &fakePages{schemas: map[string]*models.PageSchema{
		"invoices":  invoiceSchema(),
		"customers": customersSchema(),
	}}
	cfg := &config.Config{MaxPageSize: 100}
	logger := zap.NewNop()

	lists := listview.NewListService(pages, api, cfg, logger)
	reports := report.NewReportService(api, logger)
	notifier := &fakeNotifier{}

	view, err := lists.Open(context.Background(), "invoices", nil, map[string]string{
		"mode":  "edit",
		"embed": "region=emea",
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	return &testHarness{
		svc:      NewActionService(lists, api, reports, notifier, logger),
		api:      api,
		notifier: notifier,
		lists:    lists,
		session:  view.ID,
	}
}

func TestDispatchConfirmHandshake(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 0, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeConfirmRequired {
		t.Fatalf("Dispatch() outcome = %q", res.Outcome)
	}
	// The dollar amount is literal text, not a row-id placeholder.
	if res.Confirm != "Approve INV-1 for $10?" {
		t.Errorf("Dispatch() confirm = %q", res.Confirm)
	}

	callsBefore := len(h.api.calls)
	res, err = h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 0, Row: 0, Confirmed: true}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeNotice {
		t.Errorf("Dispatch() outcome = %q", res.Outcome)
	}
	if len(h.api.calls) <= callsBefore {
		t.Fatal("Dispatch() confirmed press issued no call")
	}

	call := h.api.calls[callsBefore]
	if call.op != "approve" {
		t.Errorf("Dispatch() called op %q", call.op)
	}
	if call.payload["code"] != "INV-1" || call.payload["source"] != "console" {
		t.Errorf("Dispatch() payload = %v", call.payload)
	}
	if len(h.notifier.events) == 0 {
		t.Error("Dispatch() api action published no refresh")
	}
}

func TestDispatchAPIOpenURL(t *testing.T) {
	h := newHarness(t)
	h.api.result = &record.CallResult{OpenURL: "https://pay.example/42", Target: "_blank"}

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 0, Row: 0, Confirmed: true}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeOpenURL || res.URL != "https://pay.example/42" || res.Target != "_blank" {
		t.Errorf("Dispatch() = %+v", res)
	}
	// A new-tab directive keeps the list on screen, so it still refreshes.
	if len(h.notifier.events) == 0 {
		t.Error("Dispatch() new-tab open url published no refresh")
	}
}

func TestDispatchAPISameTabNavigationSkipsRefetch(t *testing.T) {
	h := newHarness(t)
	h.api.result = &record.CallResult{OpenURL: "/elsewhere"}

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 0, Row: 0, Confirmed: true}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeOpenURL || res.URL != "/elsewhere" {
		t.Fatalf("Dispatch() = %+v", res)
	}
	if len(h.notifier.events) != 0 {
		t.Errorf("Dispatch() same-tab navigation still published refresh: %v", h.notifier.events)
	}
}

func TestDispatchMalformedTemplate(t *testing.T) {
	h := newHarness(t)

	callsBefore := len(h.api.calls)
	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 6, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeNotice || res.Notice == "" {
		t.Errorf("Dispatch() = %+v", res)
	}
	if len(h.api.calls) != callsBefore {
		t.Error("Dispatch() malformed template still issued a call")
	}
}

func TestDispatchHiddenButton(t *testing.T) {
	h := newHarness(t)

	// Row 1 is paid, so the hide expression fires.
	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 7, Row: 1}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeNone {
		t.Errorf("Dispatch() hidden outcome = %q", res.Outcome)
	}
}

func TestDispatchDisable(t *testing.T) {
	h := newHarness(t)

	callsBefore := len(h.api.calls)
	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 5, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeNone || len(h.api.calls) != callsBefore {
		t.Errorf("Dispatch() disable outcome = %q, calls = %d", res.Outcome, len(h.api.calls)-callsBefore)
	}
}

func TestDispatchListModal(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 2, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeModal || res.ModalType != "list" {
		t.Fatalf("Dispatch() = %+v", res)
	}
	if res.Modal == nil || res.Modal.PageID != "customers" {
		t.Fatalf("Dispatch() modal = %+v", res.Modal)
	}
}

func TestDispatchModalEmbedMerge(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 8, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeModal || res.Modal == nil || res.Modal.PageID != "customers" {
		t.Fatalf("Dispatch() = %+v", res)
	}

	// Embedded query parameters substitute into the modal query as row fields.
	child, err := h.lists.Session(res.Modal.ID)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if child.Query["region"] != "emea" {
		t.Errorf("modal session query = %v", child.Query)
	}
}

func TestDispatchURL(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 3, Row: 1}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeOpenURL {
		t.Fatalf("Dispatch() outcome = %q", res.Outcome)
	}
	if res.URL != "/invoices/2?mode=edit" {
		t.Errorf("Dispatch() url = %q", res.URL)
	}
}

func TestDispatchSwitch(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 4, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeDone {
		t.Fatalf("Dispatch() outcome = %q, notice = %q", res.Outcome, res.Notice)
	}

	last := h.api.calls[len(h.api.calls)-1]
	if last.op != "setPaid" || last.payload["paid"] != true || last.payload["id"] != int64(1) {
		t.Errorf("Dispatch() switch call = %+v", last)
	}
}

func TestDispatchSwitchFailureNotice(t *testing.T) {
	h := newHarness(t)
	h.api.failOps = map[string]bool{"setPaid": true}

	res, err := h.svc.Dispatch(context.Background(), h.session, DispatchRequest{Button: 4, Row: 0}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Outcome != OutcomeNotice || res.Notice == "" {
		t.Errorf("Dispatch() = %+v", res)
	}
}
