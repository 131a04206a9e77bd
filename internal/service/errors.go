package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermission         = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCredential  = errors.New("identity credential rejected")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrPersist            = errors.New("failed to save dataset")
	ErrQueueStopped       = errors.New("import queue stopped")
)
