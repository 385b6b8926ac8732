package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ScriptRun is one recorded execution of an automation script.
type ScriptRun struct {
	ID         string
	ScriptID   string
	Success    bool
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}
