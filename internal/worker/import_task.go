package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"contacts-admin/internal/models"
	"contacts-admin/internal/service"
)

const TypeContactImport = "contact:import"

// NewImportTask builds the queued import of a staged session. Imports are
// never retried: a second run would create the same contacts again.
func NewImportTask(session *models.ImportSession) (*asynq.Task, error) {
	payload, err := json.Marshal(models.ImportTaskPayload{
		SessionCode: session.SessionCode,
		FilePath:    session.FilePath,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeContactImport, payload, asynq.MaxRetry(0)), nil
}

type ImportTaskHandler struct {
	imports *service.ImportService
	logger  *logrus.Logger
}

func NewImportTaskHandler(imports *service.ImportService, logger *logrus.Logger) *ImportTaskHandler {
	return &ImportTaskHandler{
		imports: imports,
		logger:  logger,
	}
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload models.ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.WithField("session", payload.SessionCode)
	log.Info("Starting contact import")

	report, err := h.imports.Run(ctx, payload.SessionCode)
	if err != nil {
		log.WithError(err).Error("Contact import failed")
		return fmt.Errorf("import %s: %v: %w", payload.SessionCode, err, asynq.SkipRetry)
	}

	log.WithFields(logrus.Fields{
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"cancelled": report.Cancelled,
	}).Info("Contact import finished")

	return nil
}
