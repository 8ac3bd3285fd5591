package finance

import "errors"

// Engine errors
var (
	// ErrInvalidParameter is returned when a schedule is requested with
	// non-positive principal or term, or a negative interest rate.
	ErrInvalidParameter = errors.New("parámetro inválido")

	// ErrDataUnavailable is returned by callers when a loan or its payments
	// cannot be read. The engine itself never derives results from partial data.
	ErrDataUnavailable = errors.New("datos no disponibles")
)
