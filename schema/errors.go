package schema

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a formulation failure.
type ErrorKind string

// All formulation error kinds.
const (
	KindDuplicateIngredient ErrorKind = "DUPLICATE_INGREDIENT"
	KindInfeasible          ErrorKind = "INFEASIBLE"
	KindUnbounded           ErrorKind = "UNBOUNDED"
	KindTimeout             ErrorKind = "TIMEOUT"
	KindInvalidInput        ErrorKind = "INVALID_INPUT"
	KindSolverFailure       ErrorKind = "SOLVER_FAILURE"
)

// Sentinels for errors.Is matching against a FormulationError of the same kind.
var (
	ErrDuplicateIngredient = errors.New("duplicate ingredient")
	ErrInfeasible          = errors.New("requirements are infeasible")
	ErrUnbounded           = errors.New("problem is unbounded")
	ErrTimeout             = errors.New("solver time budget exceeded")
	ErrInvalidInput        = errors.New("invalid input")
	ErrSolverFailure       = errors.New("solver failure")
)

var kindSentinels = map[ErrorKind]error{
	KindDuplicateIngredient: ErrDuplicateIngredient,
	KindInfeasible:          ErrInfeasible,
	KindUnbounded:           ErrUnbounded,
	KindTimeout:             ErrTimeout,
	KindInvalidInput:        ErrInvalidInput,
	KindSolverFailure:       ErrSolverFailure,
}

// FormulationError is the structured error returned by catalog construction and formulation.
type FormulationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *FormulationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *FormulationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *FormulationError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// NewError creates a FormulationError with the given kind and message.
func NewError(kind ErrorKind, format string, args ...any) *FormulationError {
	return &FormulationError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps cause in a FormulationError with the given kind and message.
func WrapError(kind ErrorKind, message string, cause error) *FormulationError {
	return &FormulationError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches a debugging key/value pair and returns the error.
func (e *FormulationError) WithContext(key string, value any) *FormulationError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// KindOf extracts the error kind from err, or "" when err is not a FormulationError.
func KindOf(err error) ErrorKind {
	var fe *FormulationError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
