package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ImportStatusUploaded   = "uploaded"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

type ImportSession struct {
	ID           int       `db:"id" json:"id"`
	SessionCode  string    `db:"session_code" json:"session_code"`
	UserID       int       `db:"user_id" json:"user_id"`
	Filename     string    `db:"filename" json:"filename"`
	FilePath     string    `db:"file_path" json:"file_path"`
	TotalRows    int       `db:"total_rows" json:"total_rows"`
	Succeeded    int       `db:"succeeded" json:"succeeded"`
	FailedRows   int       `db:"failed_rows" json:"failed_rows"`
	Status       string    `db:"status" json:"status"`
	ErrorLines   string    `db:"error_lines" json:"-"` // JSON-encoded []string
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ImportCancelledMessage is the error message stored on a completed session
// whose run was cancelled.
const ImportCancelledMessage = "import cancelled"

// Report rebuilds the stored import outcome. A corrupted error_lines column
// yields the totals with no error lines, plus the decode error.
func (s ImportSession) Report() (ImportReport, error) {
	report := ImportReport{
		Total:     s.TotalRows,
		Succeeded: s.Succeeded,
		Failed:    s.FailedRows,
		Errors:    []string{},
		Cancelled: s.Status == ImportStatusCompleted && s.ErrorMessage == ImportCancelledMessage,
	}
	if s.ErrorLines != "" {
		var lines []string
		if err := json.Unmarshal([]byte(s.ErrorLines), &lines); err != nil {
			return report, fmt.Errorf("session %s: invalid error_lines: %w", s.SessionCode, err)
		}
		if lines != nil {
			report.Errors = lines
		}
	}
	return report, nil
}

// ImportTaskPayload is the asynq payload of a queued contact import.
type ImportTaskPayload struct {
	SessionCode string `json:"session_code"`
	FilePath    string `json:"file_path"`
}
