package listview

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-console/internal/common/models"
	"go-console/pkg/hidexpr"
)

// NoEnumItems is rendered in place of a value when an enumable column
// declares no items.
const NoEnumItems = "NO ENUM LIST"

// CellKind tags the render shape of a projected cell.
type CellKind string

const (
	CellText     CellKind = "text"
	CellButtons  CellKind = "buttons"
	CellImage    CellKind = "image"
	CellProgress CellKind = "progress"
	CellSwitch   CellKind = "switch"
)

// Cell is one rendered grid cell.
type Cell struct {
	Kind    CellKind     `json:"kind"`
	Text    string       `json:"text,omitempty"`
	Value   interface{}  `json:"value,omitempty"`
	Color   string       `json:"color,omitempty"`
	Images  []string     `json:"images,omitempty"`
	Level   int          `json:"level,omitempty"`
	Checked bool         `json:"checked,omitempty"`
	Buttons []ButtonView `json:"buttons,omitempty"`
}

// FilterInput describes the filter widget a column offers.
type FilterInput struct {
	Kind    string            `json:"kind"`
	Options []models.EnumItem `json:"options,omitempty"`
}

// ProjectedColumn is one column of the rendered grid.
type ProjectedColumn struct {
	Field  string       `json:"field"`
	Title  string       `json:"title"`
	Filter *FilterInput `json:"filter,omitempty"`
}

// Project turns raw rows into rendered columns and cells using the current
// lookup maps. Pure over its inputs.
func Project(schema *models.PageSchema, lookups LookupMaps, rows []map[string]interface{}) ([]ProjectedColumn, [][]Cell) {
	type boundColumn struct {
		col    *models.ColumnSpec
		render func(map[string]interface{}) Cell
	}

	var bound []boundColumn
	var columns []ProjectedColumn
	for i := range schema.Grid {
		col := &schema.Grid[i]
		if col.HideExpression != "" {
			if hidden, err := hidexpr.Eval(col.HideExpression, map[string]interface{}{}); err == nil && hidden {
				continue
			}
		}
		bound = append(bound, boundColumn{col: col, render: cellRenderer(col, schema, lookups)})
		columns = append(columns, ProjectedColumn{
			Field:  col.Field,
			Title:  col.Name,
			Filter: filterInput(col),
		})
	}

	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		line := make([]Cell, len(bound))
		for c, bc := range bound {
			line[c] = bc.render(row)
		}
		cells[r] = line
	}

	return columns, cells
}

// cellRenderer builds the per-row render function for a column. Rendering
// precedence is enumable, then modelSelect, then arraySelect, then the
// declared type.
func cellRenderer(col *models.ColumnSpec, schema *models.PageSchema, lookups LookupMaps) func(map[string]interface{}) Cell {
	switch {
	case col.Enumable:
		return enumRenderer(col, schema)
	case col.ModelSelect:
		return modelSelectRenderer(col, lookups.ModelSelect[col.Field])
	case col.ArraySelect:
		return arraySelectRenderer(col, lookups.ArraySelect[col.Field])
	}

	switch col.Type {
	case models.ColumnTypeDate:
		return func(row map[string]interface{}) Cell {
			v, ok := row[col.Field]
			if !ok || v == nil {
				return Cell{Kind: CellText}
			}
			return Cell{Kind: CellText, Text: formatDate(asInt64(v)), Color: col.Color}
		}
	case models.ColumnTypeNumber, models.ColumnTypeInteger:
		return func(row map[string]interface{}) Cell {
			v, ok := row[col.Field]
			if !ok || v == nil {
				return Cell{Kind: CellText}
			}
			text := formatScalar(v)
			if col.FormatNumber {
				text = groupThousands(asFloat(v))
			}
			return Cell{Kind: CellText, Text: text, Value: v, Color: col.Color}
		}
	case models.ColumnTypeBoolean:
		if btn := switchButton(col, schema); btn != nil {
			return func(row map[string]interface{}) Cell {
				return Cell{Kind: CellSwitch, Checked: truthyValue(row[col.Field])}
			}
		}
		return func(row map[string]interface{}) Cell {
			return Cell{Kind: CellText, Text: formatScalar(row[col.Field]), Color: col.Color}
		}
	}

	switch col.Display {
	case models.DisplayImage:
		return func(row map[string]interface{}) Cell {
			return Cell{Kind: CellImage, Images: imageList(row[col.Field])}
		}
	case models.DisplayProgressbar:
		return func(row map[string]interface{}) Cell {
			v := asFloat(row[col.Field])
			return Cell{
				Kind:  CellProgress,
				Value: v,
				Level: ProgressBucket(v, col.ReverseColor),
			}
		}
	}

	return func(row map[string]interface{}) Cell {
		return Cell{Kind: CellText, Text: formatValue(row[col.Field]), Color: col.Color}
	}
}

func enumRenderer(col *models.ColumnSpec, schema *models.PageSchema) func(map[string]interface{}) Cell {
	if len(col.Items) == 0 {
		return func(map[string]interface{}) Cell {
			return Cell{Kind: CellText, Text: NoEnumItems}
		}
	}

	return func(row map[string]interface{}) Cell {
		item := matchEnumItem(col, row[col.Field])

		if col.BindButton {
			title := ""
			if item != nil {
				title = item.Key
			}
			return Cell{Kind: CellButtons, Buttons: columnButtons(col.Field, schema, row, title)}
		}

		if item == nil {
			return Cell{Kind: CellText}
		}
		return Cell{Kind: CellText, Text: item.Key, Color: col.Color}
	}
}

// matchEnumItem finds the declared item for a stored value. Boolean columns
// match on truthiness; everything else on string-coerced equality.
func matchEnumItem(col *models.ColumnSpec, value interface{}) *models.EnumItem {
	for i := range col.Items {
		item := &col.Items[i]
		if col.Type == models.ColumnTypeBoolean {
			if truthyValue(item.Value) == truthyValue(value) {
				return item
			}
			continue
		}
		if looseEqual(item.Value, value) {
			return item
		}
	}
	return nil
}

func modelSelectRenderer(col *models.ColumnSpec, records []map[string]interface{}) func(map[string]interface{}) Cell {
	display := col.Select
	if display == "" {
		display = "name"
	}

	return func(row map[string]interface{}) Cell {
		v, ok := row[col.Field]
		if !ok || isFalsy(v) {
			return Cell{Kind: CellText}
		}
		for _, rec := range records {
			if looseEqual(rec["id"], v) {
				return Cell{Kind: CellText, Text: formatValue(rec[display]), Color: col.Color}
			}
		}
		// Unresolved ids fall back to the raw value.
		return Cell{Kind: CellText, Text: formatValue(v), Color: col.Color}
	}
}

func arraySelectRenderer(col *models.ColumnSpec, records []map[string]interface{}) func(map[string]interface{}) Cell {
	display := col.Select
	if display == "" {
		display = "name"
	}

	return func(row map[string]interface{}) Cell {
		ids := ParseArrayIDs(row[col.Field])
		if len(ids) == 0 {
			return Cell{Kind: CellText}
		}
		var parts []string
		for _, id := range ids {
			matched := false
			for _, rec := range records {
				if looseEqual(rec["id"], id) {
					parts = append(parts, formatValue(rec[display]))
					matched = true
					break
				}
			}
			if !matched {
				parts = append(parts, "["+formatScalar(id)+"]")
			}
		}
		return Cell{Kind: CellText, Text: strings.Join(parts, ", "), Color: col.Color}
	}
}

// columnButtons renders the buttons bound to a cell. An overriding title
// replaces each button's declared one (enum-driven per-state labels).
func columnButtons(field string, schema *models.PageSchema, row map[string]interface{}, title string) []ButtonView {
	var views []ButtonView
	for i := range schema.Buttons {
		b := &schema.Buttons[i]
		if b.Column != field {
			continue
		}
		if b.HideExpression != "" {
			if hidden, err := hidexpr.Eval(b.HideExpression, row); err == nil && hidden {
				continue
			}
		}
		view := ButtonView{
			Title:   b.Title,
			Action:  b.Action,
			Color:   b.Color,
			Outline: b.Outline,
			Icon:    b.Icon,
			Confirm: b.Confirm,
			Column:  b.Column,
		}
		if title != "" {
			view.Title = title
		}
		if b.Action == models.ActionSwitch {
			view.Checked = truthyValue(row[field])
		}
		if b.Action == models.ActionDisable {
			view.Disabled = true
		}
		views = append(views, view)
	}
	return views
}

func switchButton(col *models.ColumnSpec, schema *models.PageSchema) *models.ButtonSpec {
	for i := range schema.Buttons {
		if schema.Buttons[i].Column == col.Field && schema.Buttons[i].Action == models.ActionSwitch {
			return &schema.Buttons[i]
		}
	}
	return nil
}

// filterInput mirrors the rendering precedence to pick the filter widget.
func filterInput(col *models.ColumnSpec) *FilterInput {
	if !col.Filterable {
		return nil
	}
	switch {
	case col.Enumable:
		return &FilterInput{Kind: "enum", Options: col.Items}
	case col.ModelSelect:
		return &FilterInput{Kind: "modelSelect"}
	case col.ArraySelect:
		return &FilterInput{Kind: "arraySelect"}
	}
	switch col.Type {
	case models.ColumnTypeNumber, models.ColumnTypeInteger:
		if col.FilterRange {
			return &FilterInput{Kind: "numberRange"}
		}
		return &FilterInput{Kind: "number"}
	case models.ColumnTypeDate:
		if col.FilterRange {
			return &FilterInput{Kind: "dateRange"}
		}
		return &FilterInput{Kind: "date"}
	case models.ColumnTypeBoolean:
		return &FilterInput{Kind: "boolean"}
	}
	return &FilterInput{Kind: "text"}
}

// evalHide evaluates a hide expression against the empty row. Broken
// expressions do not hide.
func evalHide(expr string) bool {
	hidden, err := hidexpr.Eval(expr, map[string]interface{}{})
	return err == nil && hidden
}

// ProgressBucket maps a 0-100 value onto four color bands.
func ProgressBucket(value float64, reverse bool) int {
	bucket := int(value / 25)
	if bucket > 3 {
		bucket = 3
	}
	if bucket < 0 {
		bucket = 0
	}
	if reverse {
		bucket = 3 - bucket
	}
	return bucket
}

func formatDate(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("02/01/2006")
}

// groupThousands renders a number with comma separators in the integer part.
func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if dot := strings.Index(s, "."); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func imageList(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []interface{}:
		var urls []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				urls = append(urls, s)
			}
		}
		return urls
	case []string:
		return val
	}
	return nil
}

// formatValue renders a raw cell value, JSON-encoding structured values.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return formatScalar(v)
	}
}

func formatScalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// looseEqual compares values the way loosely-typed row data requires:
// numerics by value, everything else by string coercion.
func looseEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aNum := numericValue(a)
	bf, bNum := numericValue(b)
	if aNum && bNum {
		return af == bf
	}
	return formatScalar(a) == formatScalar(b)
}

func numericValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}

func asFloat(v interface{}) float64 {
	if f, ok := numericValue(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}

func asInt64(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func truthyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0" && val != "false"
	default:
		if f, ok := numericValue(v); ok {
			return f != 0
		}
	}
	return true
}
