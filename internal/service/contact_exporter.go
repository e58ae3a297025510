package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"contacts-admin/internal/models"
)

// ContactExporter fetches contacts from a source and serializes them.
type ContactExporter struct {
	source ContactSource
	excel  *ExcelService
	prefix string
	layout string
	now    func() time.Time
	logger *logrus.Logger
}

func NewContactExporter(source ContactSource, excel *ExcelService, prefix, layout string, logger *logrus.Logger) *ContactExporter {
	if prefix == "" {
		prefix = "Kisiler"
	}
	if layout == "" {
		layout = "02.01.2006"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ContactExporter{
		source: source,
		excel:  excel,
		prefix: prefix,
		layout: layout,
		now:    time.Now,
		logger: logger,
	}
}

// Export returns the download file name and the workbook bytes.
func (e *ContactExporter) Export(ctx context.Context, filter models.ContactFilter) (string, []byte, error) {
	contacts, err := e.source.FetchAll(ctx, filter)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	data, err := e.excel.ExportContacts(contacts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build export: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"count":       len(contacts),
		"search":      filter.Search,
		"category_id": filter.CategoryID,
	}).Info("Contacts exported")

	return ExportFileName(e.prefix, e.layout, e.now()), data, nil
}
