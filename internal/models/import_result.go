package models

// MaxReportErrorLines caps the per-row error lines kept in an ImportReport.
const MaxReportErrorLines = 10

// ImportReport is the outcome of one spreadsheet import run.
type ImportReport struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
	Cancelled bool     `json:"cancelled,omitempty"`
}
