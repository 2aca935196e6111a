package intbound

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers classify failures with errors.Is / errors.As.
var (
	// ErrDivisionByZero reports a zero denominator or a zero-valued divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrSingular reports a linear system without a unique solution.
	ErrSingular = errors.New("no unique solution exists for the system of equations")

	// ErrDomain reports an argument outside the domain of an operation.
	ErrDomain = errors.New("argument out of domain")

	// ErrRemainderShape reports a remainder against 1+x^2 that the family
	// cannot integrate. The search treats it like ErrSingular.
	ErrRemainderShape = fmt.Errorf("%w: cannot integrate remainder", ErrDomain)

	// ErrNotImplemented reports an unsupported special-function parity.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotANumber reports Value() on an expression with unknowns.
	ErrNotANumber = errors.New("expression is not a number")

	// ErrNotSupported reports a product or quotient of two symbolic expressions.
	ErrNotSupported = errors.New("operation on two symbolic expressions not supported")

	// ErrNoSolution is matched by every *NoSolutionError.
	ErrNoSolution = errors.New("no solution found")

	// ErrUnknownFamily reports a family keyword that is not recognised.
	ErrUnknownFamily = errors.New("unknown family")

	// ErrInvalidInput reports malformed numeric input.
	ErrInvalidInput = errors.New("invalid input")
)

// NoSolutionError is returned when a search exhausts its iteration cap.
type NoSolutionError struct {
	Family string
	Limit  int
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("%s: no solution found within the limit of %d", e.Family, e.Limit)
}

// Is makes errors.Is(err, ErrNoSolution) true.
func (e *NoSolutionError) Is(target error) bool { return target == ErrNoSolution }

// ErrorClass groups failures by what the caller should do about them.
type ErrorClass string

const (
	// ClassUsage: unknown family keyword or bad invocation.
	ClassUsage ErrorClass = "usage"
	// ClassNoSolution: try a larger limit.
	ClassNoSolution ErrorClass = "no_solution"
	// ClassInvalidInput: fix the input.
	ClassInvalidInput ErrorClass = "invalid_input"
	// ClassInternal: a bug or an unsupported parity.
	ClassInternal ErrorClass = "internal"
)

// Classify maps err onto an ErrorClass; nil maps to "".
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return ClassInvalidInput
	case errors.Is(err, ErrUnknownFamily):
		return ClassUsage
	case errors.Is(err, ErrNoSolution):
		return ClassNoSolution
	}
	return ClassInternal
}
