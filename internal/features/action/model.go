package action

import (
	"go-console/internal/features/listview"
	"go-console/internal/features/report"
)

// DispatchRequest identifies a button press inside a list session. Row is
// the fetched-row index, or -1 for page-level buttons.
type DispatchRequest struct {
	Button    int    `json:"button"`
	Row       int    `json:"row"`
	Confirmed bool   `json:"confirmed"`
	Format    string `json:"format,omitempty"`
}

// Dispatch outcomes.
const (
	OutcomeNone            = "none"
	OutcomeConfirmRequired = "confirmRequired"
	OutcomeDone            = "done"
	OutcomeNotice          = "notice"
	OutcomeOpenURL         = "openUrl"
	OutcomeModal           = "modal"
	OutcomeDownload        = "download"
)

// DispatchResult tells the client what happened and what to do next.
type DispatchResult struct {
	Outcome   string                 `json:"outcome"`
	Confirm   string                 `json:"confirm,omitempty"`
	Notice    string                 `json:"notice,omitempty"`
	URL       string                 `json:"url,omitempty"`
	Target    string                 `json:"target,omitempty"`
	ModalType string                 `json:"modalType,omitempty"`
	Modal     *listview.SessionView  `json:"modal,omitempty"`
	Form      map[string]interface{} `json:"form,omitempty"`
	File      *report.ReportFile     `json:"-"`
}
