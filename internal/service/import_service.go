package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"contacts-admin/internal/models"
	"contacts-admin/internal/repository"
)

// ImportService tracks import runs as persisted sessions around ContactImporter.
type ImportService struct {
	sessions   *repository.ImportSessionRepository
	importer   *ContactImporter
	progress   *RedisProgressStore
	uploadPath string
	logger     *logrus.Logger
}

// NewImportService wires the session store. progress may be nil, in which case
// live progress is only known from the session status.
func NewImportService(sessions *repository.ImportSessionRepository, importer *ContactImporter, progress *RedisProgressStore, uploadPath string, logger *logrus.Logger) *ImportService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ImportService{
		sessions:   sessions,
		importer:   importer,
		progress:   progress,
		uploadPath: uploadPath,
		logger:     logger,
	}
}

// NewSessionCode returns a short unique import session code.
func NewSessionCode() string {
	return "IMPORT-" + strings.ToUpper(uuid.New().String()[:8])
}

// Stage validates the upload, saves it under the upload path and records an
// uploaded session for it.
func (s *ImportService) Stage(ctx context.Context, userID int, file ImportFile) (*models.ImportSession, error) {
	if err := s.importer.CheckFile(file.Name, int64(len(file.Data))); err != nil {
		return nil, err
	}

	code := NewSessionCode()
	if err := os.MkdirAll(s.uploadPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	filePath := filepath.Join(s.uploadPath, code+strings.ToLower(filepath.Ext(file.Name)))
	if err := os.WriteFile(filePath, file.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	session := &models.ImportSession{
		SessionCode: code,
		UserID:      userID,
		Filename:    filepath.Base(file.Name),
		FilePath:    filePath,
		Status:      models.ImportStatusUploaded,
		ErrorLines:  "[]",
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to create import session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session": code,
		"file":    session.Filename,
		"user_id": userID,
	}).Info("Import session staged")

	return session, nil
}

// Run imports the staged file of a session and stores the report. Sessions
// that already finished are not run again.
func (s *ImportService) Run(ctx context.Context, code string) (*models.ImportReport, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", code, err)
	}

	if session.Status == models.ImportStatusCompleted || session.Status == models.ImportStatusFailed {
		s.logger.WithFields(logrus.Fields{
			"session": code,
			"status":  session.Status,
		}).Info("Import session already finished, skipping")
		report, err := session.Report()
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"session": code,
				"error":   err.Error(),
			}).Warn("Stored import report is corrupted")
		}
		return &report, nil
	}

	if err := s.sessions.UpdateStatus(ctx, code, models.ImportStatusProcessing, ""); err != nil {
		return nil, fmt.Errorf("failed to mark session processing: %w", err)
	}

	data, err := os.ReadFile(session.FilePath)
	if err != nil {
		s.fail(ctx, code, err)
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	var onProgress ProgressFunc
	if s.progress != nil {
		onProgress = s.progress.Reporter(ctx, code)
	}

	report, err := s.importer.Import(ctx, ImportFile{Name: session.Filename, Data: data}, onProgress)
	if err != nil {
		s.fail(ctx, code, err)
		return nil, err
	}

	if err := s.sessions.Complete(context.WithoutCancel(ctx), code, *report); err != nil {
		return report, fmt.Errorf("failed to store import report: %w", err)
	}
	return report, nil
}

// Progress returns the live percentage of a session.
func (s *ImportService) Progress(ctx context.Context, code string) (int, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if session.Status == models.ImportStatusCompleted || session.Status == models.ImportStatusFailed {
		return progressDone, nil
	}

	if s.progress != nil {
		percent, ok, err := s.progress.Get(ctx, code)
		if err != nil {
			return 0, err
		}
		if ok {
			return percent, nil
		}
	}
	return 0, nil
}

func (s *ImportService) fail(ctx context.Context, code string, cause error) {
	if err := s.sessions.UpdateStatus(context.WithoutCancel(ctx), code, models.ImportStatusFailed, cause.Error()); err != nil {
		s.logger.WithFields(logrus.Fields{
			"session": code,
			"error":   err.Error(),
		}).Error("Failed to mark import session failed")
	}
}

// CheckFile applies the importer's extension and size limits.
func (s *ImportService) CheckFile(name string, size int64) error {
	return s.importer.CheckFile(name, size)
}
