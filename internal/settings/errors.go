package settings

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// Validation error codes
const (
	ErrCodeRead    = "S001" // file could not be read
	ErrCodeParse   = "S002" // document is not valid YAML/CUE
	ErrCodeSchema  = "S003" // document violates the schema
	ErrCodeRole    = "S101" // unknown role
	ErrCodeRoleSet = "S102" // unknown role set
	ErrCodeMod     = "S103" // unknown modifier
	ErrCodePhase   = "S104" // unknown phase
	ErrCodeGame    = "S105" // settings rejected by the game
)

// ValidationError is one problem found in a settings file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Error collects every problem found while loading one file.
type Error struct {
	Path   string
	Errors []ValidationError
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d settings error(s)", len(e.Errors))
	for _, ve := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(ve.Error())
	}
	return b.String()
}

// fromCUE flattens a CUE error into validation errors, one per position.
func fromCUE(err error, code string) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		}
		if ve.Field == "" {
			ve.Field = "settings"
		}
		if pos := e.Position(); pos.IsValid() {
			ve.Line = pos.Line()
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "settings", Message: err.Error(), Code: code})
	}
	return out
}
