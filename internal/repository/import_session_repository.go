package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"contacts-admin/internal/models"
)

type ImportSessionRepository struct {
	db *sqlx.DB
}

func NewImportSessionRepository(db *sqlx.DB) *ImportSessionRepository {
	return &ImportSessionRepository{db: db}
}

const importSessionColumns = `id, session_code, user_id, filename, file_path, total_rows,
	succeeded, failed_rows, status, error_lines, error_message, created_at, updated_at`

func (r *ImportSessionRepository) CreateSession(ctx context.Context, session *models.ImportSession) error {
	query := `INSERT INTO import_sessions (session_code, user_id, filename, file_path,
	          total_rows, succeeded, failed_rows, status, error_lines, error_message)
	          VALUES (:session_code, :user_id, :filename, :file_path,
	          :total_rows, :succeeded, :failed_rows, :status, :error_lines, :error_message)`
	result, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = int(id)
	return nil
}

func (r *ImportSessionRepository) GetSessionByCode(ctx context.Context, code string) (*models.ImportSession, error) {
	var session models.ImportSession
	query := "SELECT " + importSessionColumns + " FROM import_sessions WHERE session_code = ? LIMIT 1"
	if err := r.db.GetContext(ctx, &session, query, code); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ImportSessionRepository) GetSessions(ctx context.Context, limit, offset int) ([]models.ImportSession, int, error) {
	var sessions []models.ImportSession
	var total int

	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_sessions"); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + importSessionColumns + " FROM import_sessions ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	if err := r.db.SelectContext(ctx, &sessions, query, limit, offset); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// UpdateStatus moves a session to status, recording errMsg when non-empty.
func (r *ImportSessionRepository) UpdateStatus(ctx context.Context, code, status, errMsg string) error {
	query := `UPDATE import_sessions SET status = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE session_code = ?`
	return r.exec(ctx, query, status, errMsg, code)
}

// Complete stores the final report of a session and marks it completed.
func (r *ImportSessionRepository) Complete(ctx context.Context, code string, report models.ImportReport) error {
	lines, err := json.Marshal(report.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode error lines: %w", err)
	}

	errMsg := ""
	if report.Cancelled {
		errMsg = models.ImportCancelledMessage
	}

	query := `UPDATE import_sessions SET total_rows = ?, succeeded = ?, failed_rows = ?,
	          error_lines = ?, status = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE session_code = ?`
	return r.exec(ctx, query, report.Total, report.Succeeded, report.Failed,
		string(lines), models.ImportStatusCompleted, errMsg, code)
}

func (r *ImportSessionRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
