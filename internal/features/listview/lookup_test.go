package listview

import (
	"context"
	"reflect"
	"testing"

	"go-console/internal/common/models"
	"go-console/internal/features/record"
)

type fakeAPI struct {
	calls   []apiCall
	data    map[string][]map[string]interface{}
	failOn  string
	failErr error
}

type apiCall struct {
	op      string
	payload map[string]interface{}
}

func (f *fakeAPI) Call(_ context.Context, _ *models.PageSchema, opName string, payload map[string]interface{}) (*record.CallResult, error) {
	f.calls = append(f.calls, apiCall{op: opName, payload: payload})
	if opName == f.failOn {
		return nil, f.failErr
	}
	return &record.CallResult{Data: f.data[opName]}, nil
}

func (f *fakeAPI) Query(_ context.Context, _ *models.PageSchema, _ models.QueryInput) ([]map[string]interface{}, int64, error) {
	return nil, 0, nil
}

func lookupSchema() *models.PageSchema {
	return &models.PageSchema{
		PageID:     "orders",
		Collection: "orders",
		Grid: []models.ColumnSpec{
			{Field: "customer", Type: models.ColumnTypeInteger, ModelSelect: true, ModelSelectAPI: "customers"},
			{Field: "tags", Type: models.ColumnTypeInteger, ArraySelect: true, ModelSelectAPI: "tags"},
			{Field: "code", Type: models.ColumnTypeString},
		},
		APIs: []models.Operation{
			{Name: "customers", Kind: models.OperationLookup, Collection: "customers"},
			{Name: "tags", Kind: models.OperationLookup, Collection: "tags"},
		},
	}
}

func TestResolveLookupsDedup(t *testing.T) {
	api := &fakeAPI{data: map[string][]map[string]interface{}{
		"customers": {{"id": int64(1), "name": "Acme"}, {"id": int64(2), "name": "Globex"}},
	}}
	schema := &models.PageSchema{
		Grid: []models.ColumnSpec{
			{Field: "customer", Type: models.ColumnTypeInteger, ModelSelect: true, ModelSelectAPI: "customers"},
		},
		APIs: []models.Operation{{Name: "customers", Kind: models.OperationLookup, Collection: "customers"}},
	}
	rows := []map[string]interface{}{
		{"customer": int64(1)},
		{"customer": int64(2)},
		{"customer": int64(1)},
	}

	maps, err := ResolveLookups(context.Background(), api, schema, rows)
	if err != nil {
		t.Fatalf("ResolveLookups() error = %v", err)
	}

	if len(api.calls) != 1 {
		t.Fatalf("ResolveLookups() issued %d calls, want 1", len(api.calls))
	}
	q := api.calls[0].payload["queryInput"].(map[string]interface{})
	wantIDs := []interface{}{int64(1), int64(2)}
	if !reflect.DeepEqual(q["id"], wantIDs) {
		t.Errorf("ResolveLookups() ids = %v, want %v", q["id"], wantIDs)
	}
	if len(maps.ModelSelect["customer"]) != 2 {
		t.Errorf("ResolveLookups() stored %d records", len(maps.ModelSelect["customer"]))
	}
}

func TestResolveLookupsSkipsEmptyColumns(t *testing.T) {
	api := &fakeAPI{data: map[string][]map[string]interface{}{}}
	rows := []map[string]interface{}{
		{"customer": nil, "tags": "", "code": "A1"},
		{"code": "A2"},
	}

	_, err := ResolveLookups(context.Background(), api, lookupSchema(), rows)
	if err != nil {
		t.Fatalf("ResolveLookups() error = %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("ResolveLookups() issued %d calls for empty id sets", len(api.calls))
	}
}

func TestResolveLookupsArraySubsetConcat(t *testing.T) {
	api := &fakeAPI{data: map[string][]map[string]interface{}{
		"tags": {{"id": int64(3), "name": "vip"}},
	}}
	rows := []map[string]interface{}{
		{"tags": "[3,7]"},
		{"tags": "[3]"},
		{"tags": "[7,9]"},
	}

	_, err := ResolveLookups(context.Background(), api, lookupSchema(), rows)
	if err != nil {
		t.Fatalf("ResolveLookups() error = %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("ResolveLookups() issued %d calls, want 1", len(api.calls))
	}

	q := api.calls[0].payload["queryInput"].(map[string]interface{})
	// [3] is already a subset after the first row; [7,9] is appended whole.
	wantIDs := []interface{}{int64(3), int64(7), int64(7), int64(9)}
	if !reflect.DeepEqual(q["id"], wantIDs) {
		t.Errorf("ResolveLookups() ids = %v, want %v", q["id"], wantIDs)
	}
}

func TestParseArrayIDs(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []interface{}
	}{
		{name: "serialized numbers", in: "[1,2,3]", want: []interface{}{int64(1), int64(2), int64(3)}},
		{name: "single id", in: "[7]", want: []interface{}{int64(7)}},
		{name: "empty brackets", in: "[]", want: nil},
		{name: "empty string", in: "", want: nil},
		{name: "nil", in: nil, want: nil},
		{name: "string ids", in: "[a,b]", want: []interface{}{"a", "b"}},
		{name: "native slice", in: []interface{}{1, 2}, want: []interface{}{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArrayIDs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseArrayIDs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
