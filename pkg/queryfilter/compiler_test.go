package queryfilter

import (
	"reflect"
	"testing"
	"time"

	"go-console/internal/common/models"
)

func testGrid() []models.ColumnSpec {
	return []models.ColumnSpec{
		{Field: "name", Name: "Name", Type: models.ColumnTypeString},
		{Field: "code", Name: "Code", Type: models.ColumnTypeString, StringID: true},
		{Field: "sku", Name: "SKU", Type: models.ColumnTypeStringID},
		{Field: "amount", Name: "Amount", Type: models.ColumnTypeNumber, FilterRange: true},
		{Field: "qty", Name: "Qty", Type: models.ColumnTypeInteger},
		{Field: "active", Name: "Active", Type: models.ColumnTypeBoolean},
		{Field: "createdAt", Name: "Created", Type: models.ColumnTypeDate},
		{Field: "period", Name: "Period", Type: models.ColumnTypeDate, FilterRange: true},
		{Field: "owner", Name: "Owner", Type: models.ColumnTypeNumber, ModelSelect: true, ModelSelectAPI: "find_user"},
		{Field: "tags", Name: "Tags", Type: models.ColumnTypeNumber, ArraySelect: true, ModelSelectAPI: "find_tag"},
		{Field: "misc", Name: "Misc", Type: "json"},
	}
}

func TestCompile(t *testing.T) {
	grid := testGrid()

	tests := []struct {
		name    string
		entries []models.FilterEntry
		want    models.FilterDocument
	}{
		{
			name:    "string contains",
			entries: []models.FilterEntry{{ID: "name", Value: "john"}},
			want:    models.FilterDocument{"name": map[string]interface{}{"contains": "john"}},
		},
		{
			name:    "stringID flag exact match",
			entries: []models.FilterEntry{{ID: "code", Value: "AB-1"}},
			want:    models.FilterDocument{"code": "AB-1"},
		},
		{
			name:    "stringID type exact match",
			entries: []models.FilterEntry{{ID: "sku", Value: "X99"}},
			want:    models.FilterDocument{"sku": "X99"},
		},
		{
			name:    "number exact coerces string",
			entries: []models.FilterEntry{{ID: "qty", Value: "42"}},
			want:    models.FilterDocument{"qty": float64(42)},
		},
		{
			name:    "boolean coerces to number",
			entries: []models.FilterEntry{{ID: "active", Value: true}},
			want:    models.FilterDocument{"active": float64(1)},
		},
		{
			name:    "range lower bound only",
			entries: []models.FilterEntry{{ID: "amount", Value: []interface{}{float64(5), nil}}},
			want:    models.FilterDocument{"amount": map[string]interface{}{">=": float64(5)}},
		},
		{
			name:    "range upper bound only",
			entries: []models.FilterEntry{{ID: "amount", Value: []interface{}{"", "100"}}},
			want:    models.FilterDocument{"amount": map[string]interface{}{"<=": float64(100)}},
		},
		{
			name:    "range both bounds",
			entries: []models.FilterEntry{{ID: "amount", Value: []interface{}{float64(5), float64(100)}}},
			want:    models.FilterDocument{"amount": map[string]interface{}{">=": float64(5), "<=": float64(100)}},
		},
		{
			name:    "date range passes bounds verbatim",
			entries: []models.FilterEntry{{ID: "period", Value: []interface{}{float64(1000), float64(2000)}}},
			want:    models.FilterDocument{"period": map[string]interface{}{">=": float64(1000), "<=": float64(2000)}},
		},
		{
			name:    "modelSelect list membership",
			entries: []models.FilterEntry{{ID: "owner", Value: []interface{}{float64(1), float64(2)}}},
			want:    models.FilterDocument{"owner": []interface{}{float64(1), float64(2)}},
		},
		{
			name:    "modelSelect empty list omitted",
			entries: []models.FilterEntry{{ID: "owner", Value: []interface{}{}}},
			want:    models.FilterDocument{},
		},
		{
			name:    "unknown column ignored",
			entries: []models.FilterEntry{{ID: "ghost", Value: "x"}},
			want:    models.FilterDocument{},
		},
		{
			name:    "unrecognized type falls back to contains",
			entries: []models.FilterEntry{{ID: "misc", Value: "blob"}},
			want:    models.FilterDocument{"misc": map[string]interface{}{"contains": "blob"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(tt.entries, grid)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompileArraySelect(t *testing.T) {
	grid := testGrid()

	got := Compile([]models.FilterEntry{
		{ID: "tags", Value: []interface{}{float64(3), float64(7)}},
	}, grid)

	and, ok := got["and"].([]interface{})
	if !ok || len(and) != 1 {
		t.Fatalf("expected one and-group, got %#v", got)
	}
	group, ok := and[0].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected group shape %#v", and[0])
	}
	or, ok := group["or"].([]interface{})
	if !ok {
		t.Fatalf("expected or list, got %#v", group)
	}
	if len(or) != 8 {
		t.Fatalf("expected 8 containment clauses (4 per id), got %d", len(or))
	}

	wantPatterns := []string{
		"[3]", ",3]", "[3,", ",3,",
		"[7]", ",7]", "[7,", ",7,",
	}
	for i, clause := range or {
		m := clause.(map[string]interface{})
		pred, ok := m["tags"].(map[string]interface{})
		if !ok {
			t.Fatalf("clause %d: unexpected shape %#v", i, clause)
		}
		if pred["contains"] != wantPatterns[i] {
			t.Errorf("clause %d: contains = %v, want %v", i, pred["contains"], wantPatterns[i])
		}
	}
}

func TestCompileArraySelectScalarFallback(t *testing.T) {
	got := Compile([]models.FilterEntry{{ID: "tags", Value: "7"}}, testGrid())
	want := models.FilterDocument{"tags": map[string]interface{}{"contains": "7"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompileSingleDateExpandsToDay(t *testing.T) {
	// 2024-03-15 10:30 UTC
	ms := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC).UnixMilli()

	got := Compile([]models.FilterEntry{{ID: "createdAt", Value: float64(ms)}}, testGrid())

	wantStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	wantEnd := time.Date(2024, 3, 15, 23, 59, 59, 999000000, time.UTC).UnixMilli()
	want := models.FilterDocument{
		"createdAt": map[string]interface{}{">=": wantStart, "<=": wantEnd},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() = %#v, want %#v", got, want)
	}
}

func TestCompileIsPure(t *testing.T) {
	grid := testGrid()
	entries := []models.FilterEntry{
		{ID: "name", Value: "a"},
		{ID: "amount", Value: []interface{}{float64(1), float64(2)}},
	}

	first := Compile(entries, grid)
	second := Compile(entries, grid)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("compiling the same entries twice differs: %#v vs %#v", first, second)
	}
}
