// Package domain holds the error kinds shared by the price pipeline.
package domain

import "errors"

var (
	// ErrNoDataFound means the provider returned nothing usable for the request.
	// Provider failures are reported with this error as well.
	ErrNoDataFound = errors.New("no data found")

	// ErrInsufficientData means the table is too short for the requested computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMalformedInput means the input does not have the expected shape.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDivisionByZero means a ratio was requested against a zero base price.
	ErrDivisionByZero = errors.New("division by zero")
)
