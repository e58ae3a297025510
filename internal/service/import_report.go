package service

import (
	"fmt"

	"contacts-admin/internal/models"
)

// Finalize builds the import report with the default error line cap.
func Finalize(total, succeeded, failed int, errorLines []string) models.ImportReport {
	return FinalizeWithLimit(models.MaxReportErrorLines, total, succeeded, failed, errorLines)
}

// FinalizeWithLimit keeps at most limit error lines and, when more rows
// failed than that, appends a summary line with the remainder.
func FinalizeWithLimit(limit, total, succeeded, failed int, errorLines []string) models.ImportReport {
	if limit <= 0 {
		limit = models.MaxReportErrorLines
	}

	kept := errorLines
	if len(kept) > limit {
		kept = kept[:limit]
	}

	errs := make([]string, 0, len(kept)+1)
	errs = append(errs, kept...)
	if failed > limit {
		errs = append(errs, fmt.Sprintf("... and %d more errors", failed-limit))
	}

	return models.ImportReport{
		Total:     total,
		Succeeded: succeeded,
		Failed:    failed,
		Errors:    errs,
	}
}
