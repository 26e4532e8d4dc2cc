package hdc

import "errors"

// The four error kinds shared across this module. Every package wraps one
// of these with fmt.Errorf("...: %w: detail", kind) rather than declaring
// its own error types, so a caller anywhere can do
// errors.Is(err, hdc.ErrContractViolation) regardless of which package
// produced it.
var (
	// ErrContractViolation marks an input outside a declared range: a
	// dimension below 10000, fewer than 2 quantisation levels, a percentage
	// outside (0,100], an unrecognised alphabet or distance method, a
	// dim/alphabet mismatch between operands, a duplicate Space insert, or
	// a user insert under a reserved name.
	ErrContractViolation = errors.New("hdc: contract violation")

	// ErrMissingPrerequisite marks an operation that depends on a prior
	// Fit/Insert that never happened: querying an edge before Graph.Fit,
	// predicting before MLModel.Fit, or looking up a level/weight vector
	// that was never built.
	ErrMissingPrerequisite = errors.New("hdc: missing prerequisite")

	// ErrDataShape marks a row/label mismatch, a non-numeric cell, an empty
	// test index set, fewer than two distinct classes, or fewer than three
	// training rows.
	ErrDataShape = errors.New("hdc: data shape")

	// ErrIO marks a file that could not be opened or read.
	ErrIO = errors.New("hdc: io")
)
