package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while hosting games.
//
// Runtime errors include:
//   - Not found: no game is registered under the id
//   - Capacity: the manager already hosts its maximum number of games
//   - Stopped: the game's runner no longer accepts commands
//   - Invalid settings: the game could not be created from the settings
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// GameID identifies the affected game, if any.
	GameID string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	ErrCodeGameNotFound    RuntimeErrorCode = "GAME_NOT_FOUND"
	ErrCodeGameExists      RuntimeErrorCode = "GAME_EXISTS"
	ErrCodeCapacity        RuntimeErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeStopped         RuntimeErrorCode = "RUNNER_STOPPED"
	ErrCodeInvalidSettings RuntimeErrorCode = "INVALID_SETTINGS"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.GameID != "" {
		msg += fmt.Sprintf(" (game=%s)", e.GameID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsNotFoundError reports whether err is a missing game error.
// Uses errors.As to handle wrapped errors.
func IsNotFoundError(err error) bool { return hasCode(err, ErrCodeGameNotFound) }

// IsCapacityError reports whether err is a capacity error.
func IsCapacityError(err error) bool { return hasCode(err, ErrCodeCapacity) }

// IsStoppedError reports whether err comes from a stopped runner.
func IsStoppedError(err error) bool { return hasCode(err, ErrCodeStopped) }

// IsInvalidSettingsError reports whether err rejected game settings.
func IsInvalidSettingsError(err error) bool { return hasCode(err, ErrCodeInvalidSettings) }

func newNotFoundError(gameID string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeGameNotFound, Message: "no such game", GameID: gameID}
}

func newGameExistsError(gameID string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeGameExists, Message: "duplicate game id", GameID: gameID}
}

func newCapacityError(limit int) *RuntimeError {
	return &RuntimeError{Code: ErrCodeCapacity, Message: fmt.Sprintf("already hosting %d games", limit)}
}

func newStoppedError(gameID string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeStopped, Message: "runner is not accepting commands", GameID: gameID}
}

func newInvalidSettingsError(err error) *RuntimeError {
	return &RuntimeError{Code: ErrCodeInvalidSettings, Message: "cannot create game", Err: err}
}
