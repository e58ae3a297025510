package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"contacts-admin/internal/config"
	"contacts-admin/internal/middleware"
	"contacts-admin/internal/models"
	"contacts-admin/internal/repository"
	"contacts-admin/internal/service"
	"contacts-admin/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ContactHandler struct {
	contactRepo  *repository.ContactRepository
	creator      service.ContactCreator
	validator    *service.ContactValidator
	exporter     *service.ContactExporter
	excelService *service.ExcelService
	logger       *logrus.Logger
}

// NewContactHandler serves listings from the local repository; creates and
// exports go through backend.
func NewContactHandler(
	contactRepo *repository.ContactRepository,
	backend service.ContactBackend,
	excelService *service.ExcelService,
	cfg *config.Config,
	logger *logrus.Logger,
) *ContactHandler {
	return &ContactHandler{
		contactRepo:  contactRepo,
		creator:      backend,
		validator:    service.NewContactValidator(cfg.ImportDefaultCategoryID),
		exporter:     service.NewContactExporter(backend, excelService, cfg.ExportFilePrefix, cfg.ExportDateLayout, logger),
		excelService: excelService,
		logger:       logger,
	}
}

func (h *ContactHandler) GetContacts(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	contacts, total, err := h.contactRepo.FindAll(c.UserContext(), params.Limit, offset, params.Filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve contacts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Contacts retrieved successfully", contacts, pagination)
}

func (h *ContactHandler) GetContact(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact ID", err)
	}

	contact, err := h.contactRepo.FindByID(c.UserContext(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve contact", err)
	}
	if contact == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
	}

	return utils.SuccessResponse(c, "Contact retrieved successfully", contact)
}

// CreateContact validates one contact and hands it to the backend. A record
// the backend refuses is answered with 422 and the backend's message.
func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var req models.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	record, err := h.validator.FromRequest(req)
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name and surname are required", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact", err)
	}

	result, err := h.creator.Create(c.UserContext(), record)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create contact", err)
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = "Contact was rejected"
		}
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, message, nil)
	}

	h.logger.WithFields(logrus.Fields{
		"contact_id": result.ID,
		"user_id":    middleware.UserID(c),
	}).Info("Contact created")

	return utils.CreatedResponse(c, "Contact created successfully", fiber.Map{"id": result.ID})
}

func (h *ContactHandler) ExportContacts(c *fiber.Ctx) error {
	filename, data, err := h.exporter.Export(c.UserContext(), utils.GetContactFilter(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export contacts", err)
	}
	return sendWorkbook(c, filename, data)
}

func (h *ContactHandler) DownloadTemplate(c *fiber.Ctx) error {
	data, err := h.excelService.GenerateContactTemplate()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}
	return sendWorkbook(c, service.TemplateFileName, data)
}

func sendWorkbook(c *fiber.Ctx, filename string, data []byte) error {
	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
