package analyses

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyText           = errors.New("text is required")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrFileTooLarge        = errors.New("file too large")
)
