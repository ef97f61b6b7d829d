package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined to
	// submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when Render runs without a prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
)
