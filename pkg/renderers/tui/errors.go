package tui

import "errors"

var (
	// ErrAborted is returned when the user interrupts a prompt with Ctrl+C.
	// The CLI treats it as a clean exit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when a session runs without a prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
)
