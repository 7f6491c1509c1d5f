package services

import (
	"errors"

	"github.com/sjperalta/sitetrack-api/internal/workbook"
)

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrValidation   = errors.New("validation failed")
	// ErrLockTimeout is the store's busy condition, surfaced as-is
	ErrLockTimeout = workbook.ErrLockTimeout
	// ErrCellTooLong is text the workbook cannot hold without truncation
	ErrCellTooLong = workbook.ErrCellTooLong
)
