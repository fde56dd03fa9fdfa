package domain

import "errors"

var (
	ErrUnknownRole  = errors.New("unknown role")
	ErrNoSession    = errors.New("no active session")
	ErrNotFound     = errors.New("record not found")
	ErrTransport    = errors.New("transport failure")
	ErrRejected     = errors.New("request rejected")
	ErrPromptClosed = errors.New("prompt is no longer pending")
	ErrQueueFull    = errors.New("mail queue full")
)
