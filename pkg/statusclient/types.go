package statusclient

import "errors"

// ErrInvalidSummary reports a summary payload that decoded but cannot be applied.
var ErrInvalidSummary = errors.New("invalid status summary")

// Summary is the decoded status payload of a background operation.
type Summary struct {
	Running        bool     `json:"running"`
	StatusList     []string `json:"status_list"`
	InstrumentList []string `json:"instrument_list"`
	ActiveList     []string `json:"active_list"`
	FinishedCount  int      `json:"finished_count"`
	Errors         []string `json:"errors"`
	StartTime      int64    `json:"start_time"`
}

// summaryWire mirrors Summary with the required fields as pointers so absent
// keys can be told apart from zero values.
type summaryWire struct {
	Running        *bool    `json:"running"`
	StatusList     []string `json:"status_list"`
	InstrumentList []string `json:"instrument_list"`
	ActiveList     []string `json:"active_list"`
	FinishedCount  *int     `json:"finished_count"`
	Errors         []string `json:"errors"`
	StartTime      *int64   `json:"start_time"`
}

// FinishedPage is one slice of the finished-entry log.
type FinishedPage struct {
	Items []string `json:"finished_page"`
}
