package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"contacts-admin/internal/config"
	"contacts-admin/internal/middleware"
	"contacts-admin/internal/models"
	"contacts-admin/internal/repository"
	"contacts-admin/internal/service"
	"contacts-admin/internal/utils"
	"contacts-admin/internal/worker"
)

// maxExportedSessions bounds the import history workbook.
const maxExportedSessions = 10000

// TaskEnqueuer is the part of *asynq.Client the import handler uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ImportHandler struct {
	sessionRepo  *repository.ImportSessionRepository
	imports      *service.ImportService
	excelService *service.ExcelService
	queue        TaskEnqueuer
	cfg          *config.Config
	logger       *logrus.Logger
}

// NewImportHandler creates the import endpoints. With a nil queue every
// import runs inside the request.
func NewImportHandler(
	sessionRepo *repository.ImportSessionRepository,
	imports *service.ImportService,
	excelService *service.ExcelService,
	queue TaskEnqueuer,
	cfg *config.Config,
	logger *logrus.Logger,
) *ImportHandler {
	return &ImportHandler{
		sessionRepo:  sessionRepo,
		imports:      imports,
		excelService: excelService,
		queue:        queue,
		cfg:          cfg,
		logger:       logger,
	}
}

func (h *ImportHandler) ImportContacts(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	if err := h.imports.CheckFile(fileHeader.Filename, fileHeader.Size); err != nil {
		return fileErrorResponse(c, err)
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}

	ctx := c.UserContext()
	session, err := h.imports.Stage(ctx, middleware.UserID(c), service.ImportFile{Name: fileHeader.Filename, Data: data})
	if err != nil {
		if service.IsFileError(err) {
			return fileErrorResponse(c, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to stage import", err)
	}

	if h.queue == nil || c.Query("mode") == "sync" {
		report, err := h.imports.Run(ctx, session.SessionCode)
		if err != nil {
			if service.IsFileError(err) {
				return fileErrorResponse(c, err)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Import failed", err)
		}
		return utils.SuccessResponse(c, "Import completed", fiber.Map{
			"session_code": session.SessionCode,
			"report":       report,
		})
	}

	task, err := worker.NewImportTask(session)
	if err == nil {
		_, err = h.queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		if updateErr := h.sessionRepo.UpdateStatus(ctx, session.SessionCode, models.ImportStatusFailed, err.Error()); updateErr != nil {
			h.logger.WithError(updateErr).WithField("session", session.SessionCode).Error("Failed to mark import session failed")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import", err)
	}

	h.logger.WithField("session", session.SessionCode).Info("Contact import queued")

	return c.Status(fiber.StatusAccepted).JSON(utils.Response{
		Success: true,
		Message: "Import queued",
		Data:    fiber.Map{"session": session},
	})
}

func (h *ImportHandler) GetImports(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	sessions, total, err := h.sessionRepo.GetSessions(c.UserContext(), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import sessions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Import sessions retrieved successfully", sessions, pagination)
}

func (h *ImportHandler) GetImport(c *fiber.Ctx) error {
	session, err := h.sessionRepo.GetSessionByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return sessionErrorResponse(c, err)
	}

	report, err := session.Report()
	if err != nil {
		h.logger.WithError(err).WithField("session", session.SessionCode).Warn("Stored import report is corrupted")
	}

	return utils.SuccessResponse(c, "Import session retrieved successfully", fiber.Map{
		"session": session,
		"report":  report,
	})
}

func (h *ImportHandler) GetProgress(c *fiber.Ctx) error {
	code := c.Params("code")
	progress, err := h.imports.Progress(c.UserContext(), code)
	if err != nil {
		return sessionErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Import progress retrieved successfully", fiber.Map{
		"session_code": code,
		"progress":     progress,
	})
}

func (h *ImportHandler) ExportImports(c *fiber.Ctx) error {
	sessions, _, err := h.sessionRepo.GetSessions(c.UserContext(), maxExportedSessions, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import sessions", err)
	}

	data, err := h.excelService.ExportImportSessions(sessions)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export import sessions", err)
	}

	return sendWorkbook(c, service.ExportFileName("Import_Oturumlari", h.cfg.ExportDateLayout, time.Now()), data)
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func fileErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	if errors.Is(err, service.ErrFileTooLarge) {
		status = fiber.StatusRequestEntityTooLarge
	}
	return utils.ErrorResponse(c, status, err.Error(), nil)
}

func sessionErrorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import session not found", nil)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import session", err)
}
