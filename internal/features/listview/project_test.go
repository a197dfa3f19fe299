package listview

import (
	"testing"

	"go-console/internal/common/models"
)

func projectOne(t *testing.T, col models.ColumnSpec, lookups LookupMaps, row map[string]interface{}) Cell {
	t.Helper()
	schema := &models.PageSchema{Grid: []models.ColumnSpec{col}}
	_, cells := Project(schema, lookups, []map[string]interface{}{row})
	if len(cells) != 1 || len(cells[0]) != 1 {
		t.Fatalf("Project() produced %v", cells)
	}
	return cells[0][0]
}

func TestEnumPrecedenceOverModelSelect(t *testing.T) {
	col := models.ColumnSpec{
		Field:          "status",
		Type:           models.ColumnTypeInteger,
		Enumable:       true,
		Items:          []models.EnumItem{{Key: "Active", Value: 1}},
		ModelSelect:    true,
		ModelSelectAPI: "statuses",
	}
	lookups := LookupMaps{ModelSelect: map[string][]map[string]interface{}{
		"status": {{"id": 1, "name": "FROM LOOKUP"}},
	}}

	cell := projectOne(t, col, lookups, map[string]interface{}{"status": int64(1)})
	if cell.Text != "Active" {
		t.Errorf("enum column rendered %q, want %q", cell.Text, "Active")
	}
}

func TestBooleanEnumRendering(t *testing.T) {
	col := models.ColumnSpec{
		Field:    "active",
		Type:     models.ColumnTypeBoolean,
		Enumable: true,
		Items: []models.EnumItem{
			{Key: "No", Value: 0},
			{Key: "Yes", Value: 1},
		},
	}

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "numeric one", value: int64(1), want: "Yes"},
		{name: "numeric zero", value: int64(0), want: "No"},
		{name: "native true", value: true, want: "Yes"},
		{name: "native false", value: false, want: "No"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := projectOne(t, col, LookupMaps{}, map[string]interface{}{"active": tt.value})
			if cell.Text != tt.want {
				t.Errorf("boolean enum rendered %q, want %q", cell.Text, tt.want)
			}
		})
	}
}

func TestEnumEmptyItemsMarker(t *testing.T) {
	col := models.ColumnSpec{Field: "status", Type: models.ColumnTypeInteger, Enumable: true}

	cell := projectOne(t, col, LookupMaps{}, map[string]interface{}{"status": int64(1)})
	if cell.Text != NoEnumItems {
		t.Errorf("empty enum rendered %q, want %q", cell.Text, NoEnumItems)
	}
}

func TestBindButtonTitleFromEnum(t *testing.T) {
	schema := &models.PageSchema{
		Grid: []models.ColumnSpec{{
			Field:      "state",
			Type:       models.ColumnTypeInteger,
			Enumable:   true,
			BindButton: true,
			Items: []models.EnumItem{
				{Key: "Activate", Value: 0},
				{Key: "Deactivate", Value: 1},
			},
		}},
		Buttons: []models.ButtonSpec{
			{Title: "Toggle", Action: models.ActionAPI, Column: "state", API: "toggle"},
		},
	}

	_, cells := Project(schema, LookupMaps{}, []map[string]interface{}{
		{"state": int64(0)},
		{"state": int64(1)},
	})

	if cells[0][0].Kind != CellButtons || len(cells[0][0].Buttons) != 1 {
		t.Fatalf("bindButton cell = %+v", cells[0][0])
	}
	if got := cells[0][0].Buttons[0].Title; got != "Activate" {
		t.Errorf("row 0 button title = %q, want %q", got, "Activate")
	}
	if got := cells[1][0].Buttons[0].Title; got != "Deactivate" {
		t.Errorf("row 1 button title = %q, want %q", got, "Deactivate")
	}
}

func TestModelSelectRendering(t *testing.T) {
	col := models.ColumnSpec{
		Field:          "customer",
		Type:           models.ColumnTypeInteger,
		ModelSelect:    true,
		ModelSelectAPI: "customers",
	}
	lookups := LookupMaps{ModelSelect: map[string][]map[string]interface{}{
		"customer": {{"id": int64(1), "name": "Acme"}},
	}}

	cell := projectOne(t, col, lookups, map[string]interface{}{"customer": int64(1)})
	if cell.Text != "Acme" {
		t.Errorf("modelSelect rendered %q, want %q", cell.Text, "Acme")
	}

	// Unresolved id falls back to the raw value.
	cell = projectOne(t, col, lookups, map[string]interface{}{"customer": int64(9)})
	if cell.Text != "9" {
		t.Errorf("unresolved modelSelect rendered %q, want %q", cell.Text, "9")
	}
}

func TestArraySelectRendering(t *testing.T) {
	col := models.ColumnSpec{
		Field:          "tags",
		Type:           models.ColumnTypeInteger,
		ArraySelect:    true,
		ModelSelectAPI: "tags",
	}
	lookups := LookupMaps{ArraySelect: map[string][]map[string]interface{}{
		"tags": {
			{"id": int64(3), "name": "vip"},
			{"id": int64(7), "name": "new"},
		},
	}}

	cell := projectOne(t, col, lookups, map[string]interface{}{"tags": "[3,7]"})
	if cell.Text != "vip, new" {
		t.Errorf("arraySelect rendered %q, want %q", cell.Text, "vip, new")
	}

	// Unmatched ids render as bracketed placeholders.
	cell = projectOne(t, col, lookups, map[string]interface{}{"tags": "[3,9]"})
	if cell.Text != "vip, [9]" {
		t.Errorf("arraySelect rendered %q, want %q", cell.Text, "vip, [9]")
	}
}

func TestDateRendering(t *testing.T) {
	col := models.ColumnSpec{Field: "createdAt", Type: models.ColumnTypeDate}

	// 2024-03-15T00:00:00Z in epoch millis.
	cell := projectOne(t, col, LookupMaps{}, map[string]interface{}{"createdAt": int64(1710460800000)})
	if cell.Text != "15/03/2024" {
		t.Errorf("date rendered %q, want %q", cell.Text, "15/03/2024")
	}
}

func TestNumberRendering(t *testing.T) {
	plain := models.ColumnSpec{Field: "total", Type: models.ColumnTypeNumber}
	grouped := models.ColumnSpec{Field: "total", Type: models.ColumnTypeNumber, FormatNumber: true}

	cell := projectOne(t, plain, LookupMaps{}, map[string]interface{}{"total": float64(0)})
	if cell.Text != "0" {
		t.Errorf("literal zero rendered %q, want %q", cell.Text, "0")
	}

	cell = projectOne(t, grouped, LookupMaps{}, map[string]interface{}{"total": float64(1234567.5)})
	if cell.Text != "1,234,567.5" {
		t.Errorf("grouped number rendered %q, want %q", cell.Text, "1,234,567.5")
	}
}

func TestObjectValueStringified(t *testing.T) {
	col := models.ColumnSpec{Field: "meta", Type: models.ColumnTypeString}

	cell := projectOne(t, col, LookupMaps{}, map[string]interface{}{
		"meta": map[string]interface{}{"a": float64(1)},
	})
	if cell.Text != `{"a":1}` {
		t.Errorf("object value rendered %q", cell.Text)
	}
}

func TestProgressBucket(t *testing.T) {
	values := []float64{0, 24, 25, 49, 50, 74, 75, 100}
	want := []int{0, 0, 1, 1, 2, 2, 3, 3}
	wantReversed := []int{3, 3, 2, 2, 1, 1, 0, 0}

	for i, v := range values {
		if got := ProgressBucket(v, false); got != want[i] {
			t.Errorf("ProgressBucket(%v, false) = %d, want %d", v, got, want[i])
		}
		if got := ProgressBucket(v, true); got != wantReversed[i] {
			t.Errorf("ProgressBucket(%v, true) = %d, want %d", v, got, wantReversed[i])
		}
	}
}

func TestFilterInputKinds(t *testing.T) {
	tests := []struct {
		name string
		col  models.ColumnSpec
		want string
	}{
		{name: "enum", col: models.ColumnSpec{Filterable: true, Enumable: true}, want: "enum"},
		{name: "model select", col: models.ColumnSpec{Filterable: true, ModelSelect: true}, want: "modelSelect"},
		{name: "array select", col: models.ColumnSpec{Filterable: true, ArraySelect: true}, want: "arraySelect"},
		{name: "number range", col: models.ColumnSpec{Filterable: true, Type: models.ColumnTypeNumber, FilterRange: true}, want: "numberRange"},
		{name: "single date", col: models.ColumnSpec{Filterable: true, Type: models.ColumnTypeDate}, want: "date"},
		{name: "plain text", col: models.ColumnSpec{Filterable: true, Type: models.ColumnTypeString}, want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fi := filterInput(&tt.col)
			if fi == nil || fi.Kind != tt.want {
				t.Errorf("filterInput() = %+v, want kind %q", fi, tt.want)
			}
		})
	}

	if fi := filterInput(&models.ColumnSpec{Filterable: false}); fi != nil {
		t.Errorf("filterInput() on non-filterable column = %+v", fi)
	}
}
