package action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go-console/internal/common/models"
	"go-console/internal/features/listview"
	"go-console/internal/features/notify"
	"go-console/internal/features/record"
	"go-console/internal/features/report"
	"go-console/pkg/hidexpr"

	"go.uber.org/zap"
)

type ActionService interface {
	Dispatch(ctx context.Context, sessionID string, req DispatchRequest, roles []string) (*DispatchResult, error)
}

type ActionServiceImpl struct {
	Lists    listview.ListService
	API      record.PageAPI
	Reports  report.ReportService
	Notifier notify.Notifier
	Logger   *zap.Logger
}

func NewActionService(
	lists listview.ListService,
	api record.PageAPI,
	reports report.ReportService,
	notifier notify.Notifier,
	logger *zap.Logger,
) ActionService {
	return &ActionServiceImpl{
		Lists:    lists,
		API:      api,
		Reports:  reports,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Dispatch interprets a button press against the clicked row.
func (s *ActionServiceImpl) Dispatch(ctx context.Context, sessionID string, req DispatchRequest, roles []string) (*DispatchResult, error) {
	sess, err := s.Lists.Session(sessionID)
	if err != nil {
		return nil, err
	}

	schema, query := sess.Snapshot()
	if req.Button < 0 || req.Button >= len(schema.Buttons) {
		return nil, fmt.Errorf("button index %d out of range", req.Button)
	}
	btn := &schema.Buttons[req.Button]

	row := map[string]interface{}{}
	if req.Row >= 0 {
		r, ok := sess.Row(req.Row)
		if !ok {
			return nil, fmt.Errorf("row index %d out of range", req.Row)
		}
		row = r
	}

	if btn.HideExpression != "" {
		if hidden, evalErr := hidexpr.Eval(btn.HideExpression, row); evalErr == nil && hidden {
			return &DispatchResult{Outcome: OutcomeNone, Notice: "action unavailable"}, nil
		}
	}

	if btn.Action == models.ActionDisable {
		return &DispatchResult{Outcome: OutcomeNone}, nil
	}

	if btn.Confirm != "" && !req.Confirmed {
		return &DispatchResult{
			Outcome: OutcomeConfirmRequired,
			Confirm: SubstituteRow(btn.Confirm, row),
		}, nil
	}

	switch btn.Action {
	case models.ActionAPI:
		return s.dispatchAPI(ctx, sessionID, schema, btn, row, query)
	case models.ActionReport:
		return s.dispatchReport(ctx, schema, btn, row, query, req.Format)
	case models.ActionFormModal, models.ActionListModal:
		return s.dispatchModal(ctx, sessionID, btn, row, query, roles)
	case models.ActionURL:
		return dispatchURL(btn, row, query), nil
	case models.ActionSwitch:
		return s.dispatchSwitch(ctx, sessionID, btn, req.Row, row)
	default:
		return nil, fmt.Errorf("unrecognized action %q", btn.Action)
	}
}

func (s *ActionServiceImpl) dispatchAPI(ctx context.Context, sessionID string, schema *models.PageSchema, btn *models.ButtonSpec, row map[string]interface{}, query map[string]string) (*DispatchResult, error) {
	payload, err := buildPayload(btn, row, query)
	if err != nil {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	res, err := s.API.Call(ctx, schema, btn.API, payload)
	if err != nil {
		s.Logger.Warn("action call failed",
			zap.String("page", schema.PageID),
			zap.String("op", btn.API),
			zap.Error(err))
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	result := &DispatchResult{Outcome: OutcomeNotice, Notice: res.Message}
	if result.Notice == "" {
		result.Notice = "Success"
	}
	if res.OpenURL != "" {
		result.Outcome = OutcomeOpenURL
		result.URL = res.OpenURL
		result.Target = res.Target
	}

	// A same-tab navigation directive leaves the list behind; only refetch
	// when the session stays on screen.
	if res.OpenURL == "" || res.Target == "_blank" {
		if _, err := s.Lists.Refetch(ctx, sessionID); err == nil {
			s.Notifier.Publish(sessionID, notify.EventRefresh, nil)
		}
	}

	return result, nil
}

func (s *ActionServiceImpl) dispatchReport(ctx context.Context, schema *models.PageSchema, btn *models.ButtonSpec, row map[string]interface{}, query map[string]string, format string) (*DispatchResult, error) {
	payload, err := buildPayload(btn, row, query)
	if err != nil {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	file, err := s.Reports.Generate(ctx, schema, btn.API, payload, btn.ReportName, format)
	if err != nil {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	return &DispatchResult{Outcome: OutcomeDownload, File: file}, nil
}

func (s *ActionServiceImpl) dispatchModal(ctx context.Context, sessionID string, btn *models.ButtonSpec, row map[string]interface{}, query map[string]string, roles []string) (*DispatchResult, error) {
	merged, err := mergeEmbed(btn, row, query)
	if err != nil {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	doc, err := parseModalQuery(btn, merged)
	if err != nil {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	modalType, _ := doc["modalType"].(string)
	if modalType == "" {
		modalType = "form"
	}
	if btn.Action == models.ActionListModal {
		modalType = "list"
	}

	if modalType != "list" {
		return &DispatchResult{Outcome: OutcomeModal, ModalType: modalType, Form: doc}, nil
	}

	pageID, _ := doc["page"].(string)
	if pageID == "" {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: "modal query names no page"}, nil
	}

	modalQuery := map[string]string{}
	for k, v := range doc {
		modalQuery[k] = templateValue(v)
	}

	view, err := s.Lists.OpenModal(ctx, sessionID, pageID, roles, modalQuery)
	if err != nil {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: err.Error()}, nil
	}

	result := &DispatchResult{Outcome: OutcomeModal, ModalType: modalType}
	if n := len(view.Modals); n > 0 {
		result.Modal = view.Modals[n-1]
	}
	return result, nil
}

func dispatchURL(btn *models.ButtonSpec, row map[string]interface{}, query map[string]string) *DispatchResult {
	target := SubstituteURL(btn.URL, row, query)
	target = strings.TrimPrefix(target, "#")
	return &DispatchResult{Outcome: OutcomeOpenURL, URL: target}
}

func (s *ActionServiceImpl) dispatchSwitch(ctx context.Context, sessionID string, btn *models.ButtonSpec, rowIndex int, row map[string]interface{}) (*DispatchResult, error) {
	if btn.Column == "" {
		return nil, fmt.Errorf("switch action requires a bound column")
	}
	checked := !truthy(row[btn.Column])

	view, err := s.Lists.ToggleSwitch(ctx, sessionID, btn.Column, rowIndex, checked)
	if err != nil {
		return nil, err
	}
	if view.Notice != "" {
		return &DispatchResult{Outcome: OutcomeNotice, Notice: view.Notice}, nil
	}
	return &DispatchResult{Outcome: OutcomeDone}, nil
}

// buildPayload merges the clicked row, any embedded query parameters, and
// the button's apiData template into one call payload.
func buildPayload(btn *models.ButtonSpec, row map[string]interface{}, query map[string]string) (map[string]interface{}, error) {
	merged, err := mergeEmbed(btn, row, query)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]interface{}, len(merged))
	for k, v := range merged {
		payload[k] = v
	}

	if btn.APIData != "" {
		substituted := SubstituteRow(btn.APIData, merged)
		var extra map[string]interface{}
		if err := json.Unmarshal([]byte(substituted), &extra); err != nil {
			return nil, fmt.Errorf("invalid apiData template: %w", err)
		}
		for k, v := range extra {
			payload[k] = v
		}
	}

	return payload, nil
}

// mergeEmbed overlays embedded query parameters onto a copy of the row so
// templates can reference them as row fields. The session row itself is
// never mutated.
func mergeEmbed(btn *models.ButtonSpec, row map[string]interface{}, query map[string]string) (map[string]interface{}, error) {
	if !btn.EmbedURL {
		return row, nil
	}
	embed := query["embed"]
	if embed == "" {
		return row, nil
	}

	values, err := url.ParseQuery(embed)
	if err != nil {
		return nil, fmt.Errorf("invalid embed parameters: %w", err)
	}

	merged := make(map[string]interface{}, len(row)+len(values))
	for k, v := range row {
		merged[k] = v
	}
	for k := range values {
		merged[k] = values.Get(k)
	}
	return merged, nil
}

func parseModalQuery(btn *models.ButtonSpec, row map[string]interface{}) (map[string]interface{}, error) {
	if btn.ModalQuery == "" {
		return map[string]interface{}{}, nil
	}
	substituted := SubstituteRow(btn.ModalQuery, row)
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(substituted), &doc); err != nil {
		return nil, fmt.Errorf("invalid modal query template: %w", err)
	}
	return doc, nil
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0" && val != "false"
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	}
	return true
}
