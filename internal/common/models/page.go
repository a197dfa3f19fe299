package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColumnType is the closed set of value types a grid column can declare.
type ColumnType string

const (
	ColumnTypeString   ColumnType = "string"
	ColumnTypeNumber   ColumnType = "number"
	ColumnTypeInteger  ColumnType = "integer"
	ColumnTypeBoolean  ColumnType = "boolean"
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeStringID ColumnType = "stringID"
)

// Known reports whether t is one of the declared column types. Anything
// else falls back to substring-filter / raw-text behavior.
func (t ColumnType) Known() bool {
	switch t {
	case ColumnTypeString, ColumnTypeNumber, ColumnTypeInteger, ColumnTypeBoolean, ColumnTypeDate, ColumnTypeStringID:
		return true
	}
	return false
}

type DisplayKind string

const (
	DisplayDefault     DisplayKind = "default"
	DisplayImage       DisplayKind = "image"
	DisplayProgressbar DisplayKind = "progressbar"
)

type ActionKind string

const (
	ActionAPI       ActionKind = "api"
	ActionReport    ActionKind = "report"
	ActionFormModal ActionKind = "formModal"
	ActionListModal ActionKind = "listModal"
	ActionURL       ActionKind = "url"
	ActionSwitch    ActionKind = "switch"
	ActionDisable   ActionKind = "disable"
)

type ButtonKind string

const (
	ButtonKindSubmit ButtonKind = "submit"
	ButtonKindButton ButtonKind = "button"
	ButtonKindSwitch ButtonKind = "switch"
)

// EnumItem is one key/value pair of an enumable column's declared list.
// Key is the display label; Value is the stored value it maps to.
type EnumItem struct {
	Key   string      `json:"key" bson:"key"`
	Value interface{} `json:"value" bson:"value"`
}

// ColumnSpec is one grid column definition. The JSON shape is the wire
// format shared with the page editor and must stay stable.
//
// At most one of Enumable/ModelSelect/ArraySelect drives rendering;
// precedence is enumable > modelSelect > arraySelect > plain type.
type ColumnSpec struct {
	Field            string      `json:"field" bson:"field"`
	Name             string      `json:"name" bson:"name"`
	Type             ColumnType  `json:"type" bson:"type"`
	Color            string      `json:"color,omitempty" bson:"color,omitempty"`
	Filterable       bool        `json:"filterable" bson:"filterable"`
	FilterRange      bool        `json:"filterRange" bson:"filterRange"`
	Enumable         bool        `json:"enumable" bson:"enumable"`
	Items            []EnumItem  `json:"items,omitempty" bson:"items,omitempty"`
	ModelSelect      bool        `json:"modelSelect" bson:"modelSelect"`
	ArraySelect      bool        `json:"arraySelect" bson:"arraySelect"`
	ModelSelectAPI   string      `json:"modelSelectApi,omitempty" bson:"modelSelectApi,omitempty"`
	ModelSelectField string      `json:"modelSelectField,omitempty" bson:"modelSelectField,omitempty"`
	Select           string      `json:"select,omitempty" bson:"select,omitempty"`
	Display          DisplayKind `json:"display,omitempty" bson:"display,omitempty"`
	ReverseColor     bool        `json:"reverseColor" bson:"reverseColor"`
	FormatNumber     bool        `json:"formatNumber" bson:"formatNumber"`
	BindButton       bool        `json:"bindButton" bson:"bindButton"`
	StringID         bool        `json:"stringID" bson:"stringID"`
	HideExpression   string      `json:"hideExpression,omitempty" bson:"hideExpression,omitempty"`
	Roles            []string    `json:"roles,omitempty" bson:"roles,omitempty"`
}

// ButtonSpec is one declarative action button. Column-bound buttons
// (Column != "") render inside cells and are hidden from the page-level
// action bar.
type ButtonSpec struct {
	Title          string     `json:"title" bson:"title"`
	Action         ActionKind `json:"action" bson:"action"`
	Type           ButtonKind `json:"type" bson:"type"`
	Column         string     `json:"column,omitempty" bson:"column,omitempty"`
	HideExpression string     `json:"hideExpression,omitempty" bson:"hideExpression,omitempty"`
	Confirm        string     `json:"confirm,omitempty" bson:"confirm,omitempty"`
	API            string     `json:"api,omitempty" bson:"api,omitempty"`
	APIData        string     `json:"apiData,omitempty" bson:"apiData,omitempty"`
	URL            string     `json:"url,omitempty" bson:"url,omitempty"`
	EmbedURL       bool       `json:"embedUrl" bson:"embedUrl"`
	ModalQuery     string     `json:"modalQuery,omitempty" bson:"modalQuery,omitempty"`
	ReportName     string     `json:"reportName,omitempty" bson:"reportName,omitempty"`
	Color          string     `json:"color,omitempty" bson:"color,omitempty"`
	Outline        bool       `json:"outline" bson:"outline"`
	Icon           string     `json:"icon,omitempty" bson:"icon,omitempty"`
	ShowOnFormOnly bool       `json:"showOnFormOnly" bson:"showOnFormOnly"`
}

// OperationKind classifies a page operation reference.
type OperationKind string

const (
	OperationRead   OperationKind = "read"
	OperationLookup OperationKind = "lookup"
	OperationUpdate OperationKind = "update"
)

// Operation maps an operation ref name (as used by ColumnSpec.ModelSelectAPI,
// ButtonSpec.API and PageSchema.Read) to a backing collection.
type Operation struct {
	Name       string        `json:"name" bson:"name"`
	Kind       OperationKind `json:"kind" bson:"kind"`
	Collection string        `json:"collection" bson:"collection"`
}

// PageSchema is one page descriptor: grid columns, buttons, operation refs
// and per-page configuration. Immutable once resolved for a render cycle.
type PageSchema struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PageID      string             `json:"id" bson:"page_id"`
	Name        string             `json:"name" bson:"name"`
	Collection  string             `json:"collection" bson:"collection"`
	Read        string             `json:"read" bson:"read"`
	DefaultSort string             `json:"defaultSort,omitempty" bson:"defaultSort,omitempty"`
	Grid        []ColumnSpec       `json:"grid" bson:"grid"`
	Buttons     []ButtonSpec       `json:"buttons" bson:"buttons"`
	APIs        []Operation        `json:"apis,omitempty" bson:"apis,omitempty"`
	Roles       []string           `json:"roles,omitempty" bson:"roles,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Column returns the grid column whose field matches, or nil.
func (p *PageSchema) Column(field string) *ColumnSpec {
	for i := range p.Grid {
		if p.Grid[i].Field == field {
			return &p.Grid[i]
		}
	}
	return nil
}

// OperationRef resolves an operation name against the page. The page's
// read ref resolves to the page collection even when not listed in APIs.
func (p *PageSchema) OperationRef(name string) *Operation {
	for i := range p.APIs {
		if p.APIs[i].Name == name {
			return &p.APIs[i]
		}
	}
	if name != "" && name == p.Read {
		return &Operation{Name: name, Kind: OperationRead, Collection: p.Collection}
	}
	return nil
}
