package page

import (
	"go-console/internal/common/models"
)

// GridColumnRequest targets a single grid column in editor operations.
type GridColumnRequest struct {
	Field string `json:"field"`
}

// MoveColumnRequest shifts a grid column left or right.
type MoveColumnRequest struct {
	Field string `json:"field"`
	// Dir is -1 for left, +1 for right.
	Dir int `json:"dir"`
}

// defaultColumn is the blank column the editor starts a new grid entry from.
func defaultColumn(field string) models.ColumnSpec {
	return models.ColumnSpec{
		Field:      field,
		Name:       field,
		Type:       models.ColumnTypeString,
		Filterable: true,
	}
}
