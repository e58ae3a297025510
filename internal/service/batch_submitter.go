package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"contacts-admin/internal/models"
)

// ContactCreator persists one canonical record. A returned error means the
// call itself failed; a rejected record comes back as CreateResult.Success=false.
type ContactCreator interface {
	Create(ctx context.Context, record models.ContactRecord) (models.CreateResult, error)
}

// CreatorFunc adapts a plain function to ContactCreator.
type CreatorFunc func(ctx context.Context, record models.ContactRecord) (models.CreateResult, error)

func (fn CreatorFunc) Create(ctx context.Context, record models.ContactRecord) (models.CreateResult, error) {
	return fn(ctx, record)
}

// ContactSource lists stored contacts for export.
type ContactSource interface {
	FetchAll(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error)
}

// ProgressFunc receives a completion percentage in [0,100].
type ProgressFunc func(percent int)

// SubmitResult is the tally of one Submit call.
type SubmitResult struct {
	Processed  int
	Succeeded  int
	Failed     int
	ErrorLines []string
	Cancelled  bool
}

// BatchSubmitter feeds validation outcomes to a creator one at a time, in row
// order, and records a line for every failed row.
type BatchSubmitter struct {
	maxErrorLines int
	logger        *logrus.Logger
}

func NewBatchSubmitter(maxErrorLines int, logger *logrus.Logger) *BatchSubmitter {
	if maxErrorLines <= 0 {
		maxErrorLines = models.MaxReportErrorLines
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BatchSubmitter{maxErrorLines: maxErrorLines, logger: logger}
}

// Submit processes outcomes sequentially. Invalid outcomes are counted as
// failures without calling the creator. A failing row never stops the batch.
// Cancelling ctx stops before the next create; a create already issued runs to
// completion and is counted.
func (s *BatchSubmitter) Submit(ctx context.Context, outcomes []ValidationOutcome, creator ContactCreator, onProgress ProgressFunc) SubmitResult {
	result := SubmitResult{ErrorLines: []string{}}
	total := len(outcomes)

	for _, outcome := range outcomes {
		if ctx.Err() != nil {
			result.Cancelled = true
			s.logger.WithFields(logrus.Fields{
				"processed": result.Processed,
				"total":     total,
			}).Warn("Contact import cancelled")
			break
		}

		if line, ok := s.submitOne(ctx, outcome, creator); ok {
			result.Succeeded++
		} else {
			result.Failed++
			if len(result.ErrorLines) < s.maxErrorLines {
				result.ErrorLines = append(result.ErrorLines, line)
			}
		}
		result.Processed++

		if onProgress != nil {
			onProgress(result.Processed * 100 / total)
		}
	}

	return result
}

func (s *BatchSubmitter) submitOne(ctx context.Context, outcome ValidationOutcome, creator ContactCreator) (string, bool) {
	if !outcome.Valid() {
		return outcome.Reason, false
	}

	res, err := callCreate(context.WithoutCancel(ctx), creator, *outcome.Record)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"row":   outcome.Row,
			"error": err.Error(),
		}).Warn("Contact create call failed")
		return fmt.Sprintf("Row %d: %v", outcome.Row, err), false
	}
	if !res.Success {
		message := res.Message
		if message == "" {
			message = "unknown error"
		}
		s.logger.WithFields(logrus.Fields{
			"row":     outcome.Row,
			"message": message,
		}).Debug("Contact rejected by backend")
		return fmt.Sprintf("Row %d: %s", outcome.Row, message), false
	}

	return "", true
}

// callCreate turns a panicking creator into an ordinary row failure.
func callCreate(ctx context.Context, creator ContactCreator, record models.ContactRecord) (res models.CreateResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return creator.Create(ctx, record)
}
