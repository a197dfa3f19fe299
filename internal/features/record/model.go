package record

import (
	"context"

	"go-console/internal/common/models"
)

// CallResult is the normalized response of a page operation call. Read and
// lookup calls fill Data/Count; update-style calls fill Message and may
// instruct the client to open a URL.
type CallResult struct {
	Data    []map[string]interface{} `json:"data,omitempty"`
	Count   int64                    `json:"count,omitempty"`
	Message string                   `json:"message,omitempty"`
	OpenURL string                   `json:"open_url,omitempty"`
	Target  string                   `json:"target,omitempty"`
}

// PageAPI executes a named operation of a page against its backing
// collection. The list view and the action dispatcher both go through this.
type PageAPI interface {
	Call(ctx context.Context, schema *models.PageSchema, opName string, payload map[string]interface{}) (*CallResult, error)
	Query(ctx context.Context, schema *models.PageSchema, q models.QueryInput) ([]map[string]interface{}, int64, error)
}
