package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"contacts-admin/internal/models"
)

// Progress checkpoints of an import run.
const (
	progressParsed    = 25
	progressValidated = 50
	progressDone      = 100
)

var allowedImportExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// ImportFile is an uploaded spreadsheet held in memory.
type ImportFile struct {
	Name string
	Data []byte
}

type ImporterConfig struct {
	MaxFileSize       int64
	DefaultCategoryID int
	MaxErrorLines     int
}

// ContactImporter runs the whole import pipeline for one file: parse, map,
// validate, submit and summarize.
type ContactImporter struct {
	excel     *ExcelService
	mapper    *ColumnMapper
	validator *ContactValidator
	submitter *BatchSubmitter
	creator   ContactCreator
	cfg       ImporterConfig
	logger    *logrus.Logger
}

func NewContactImporter(excel *ExcelService, creator ContactCreator, cfg ImporterConfig, logger *logrus.Logger) *ContactImporter {
	if cfg.MaxErrorLines <= 0 {
		cfg.MaxErrorLines = models.MaxReportErrorLines
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ContactImporter{
		excel:     excel,
		mapper:    NewColumnMapper(FieldAliases),
		validator: NewContactValidator(cfg.DefaultCategoryID),
		submitter: NewBatchSubmitter(cfg.MaxErrorLines, logger),
		creator:   creator,
		cfg:       cfg,
		logger:    logger,
	}
}

// CheckFile rejects files by extension and size before anything is parsed.
func (imp *ContactImporter) CheckFile(name string, size int64) error {
	if !allowedImportExtensions[strings.ToLower(filepath.Ext(name))] {
		return ErrUnsupportedFile
	}
	if imp.cfg.MaxFileSize > 0 && size > imp.cfg.MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// Import runs the pipeline and returns the report. File-level problems are
// returned as errors before any record is created; row failures only show up
// in the report.
func (imp *ContactImporter) Import(ctx context.Context, file ImportFile, onProgress ProgressFunc) (*models.ImportReport, error) {
	progress := newProgressTracker(onProgress)

	if err := imp.CheckFile(file.Name, int64(len(file.Data))); err != nil {
		return nil, err
	}

	rows, err := imp.excel.ReadRows(file.Data)
	if err != nil {
		imp.logger.WithFields(logrus.Fields{
			"file":  file.Name,
			"error": err.Error(),
		}).Error("Failed to read import workbook")
		return nil, err
	}
	progress.report(progressParsed)

	outcomes := make([]ValidationOutcome, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, imp.validator.Validate(imp.mapper.Map(row), row.Number))
	}
	progress.report(progressValidated)

	imp.logger.WithFields(logrus.Fields{
		"file": file.Name,
		"rows": len(outcomes),
	}).Info("Contact import started")

	result := imp.submitter.Submit(ctx, outcomes, imp.creator, func(percent int) {
		progress.report(progressValidated + percent/2)
	})

	total := len(outcomes)
	if result.Cancelled {
		total = result.Processed
	}
	report := FinalizeWithLimit(imp.cfg.MaxErrorLines, total, result.Succeeded, result.Failed, result.ErrorLines)
	report.Cancelled = result.Cancelled
	progress.report(progressDone)

	imp.logger.WithFields(logrus.Fields{
		"file":      file.Name,
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"cancelled": report.Cancelled,
	}).Info("Contact import finished")

	return &report, nil
}

// progressTracker forwards only non-decreasing percentages.
type progressTracker struct {
	fn   ProgressFunc
	last int
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	return &progressTracker{fn: fn, last: -1}
}

func (p *progressTracker) report(percent int) {
	if p.fn == nil || percent < p.last {
		return
	}
	if percent > progressDone {
		percent = progressDone
	}
	p.last = percent
	p.fn(percent)
}
