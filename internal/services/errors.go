package services

import "errors"

var (
	ErrSessionNotFound  = errors.New("interview session not found")
	ErrSessionCompleted = errors.New("interview session already completed")
	ErrSessionBusy      = errors.New("interview session is being updated")
	ErrEmptyAnswer      = errors.New("answer is empty")
	ErrVoiceUnavailable = errors.New("voice synthesis is not configured")
	ErrUnsupportedFile  = errors.New("unsupported resume file type")
	ErrFileTooLarge     = errors.New("resume file too large")
)
