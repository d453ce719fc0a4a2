package qevolve

import "errors"

// Errors returned by the circuit constructors. Callers should test with errors.Is;
// returned errors wrap these with the offending value.
var (
	ErrUnsupportedMethod     = errors.New("unsupported time evolution method")
	ErrMalformedTerm         = errors.New("operator is not a single Pauli term")
	ErrNonNumericCoefficient = errors.New("term coefficient is not numeric")
	ErrZeroCoefficient       = errors.New("term coefficient is zero")
	ErrPositionOutOfRange    = errors.New("position out of range")
	ErrInvalidTrotterOrder   = errors.New("trotter order must be positive")

	ErrUnboundParameter = errors.New("gate parameter is symbolic")
	ErrUnsupportedGate  = errors.New("unsupported gate")
	ErrParse            = errors.New("parse error")
)
