package session

import "errors"

var (
	ErrSessionClosed  = errors.New("session: closed")
	ErrAlreadyRunning = errors.New("session: already running")
)
