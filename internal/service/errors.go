package service

import "errors"

// File-level import failures. They are returned before any row is processed.
var (
	ErrUnsupportedFile    = errors.New("unsupported file type, only .xlsx and .xls are accepted")
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
	ErrEmptyWorkbook      = errors.New("workbook has no rows")
	ErrUnreadableWorkbook = errors.New("workbook could not be read")
)

// ErrNameRequired rejects a single-contact request without name or surname.
var ErrNameRequired = errors.New("name and surname are required")
