package calculator

import "errors"

// Common errors.
var (
	// ErrInvalidParameters is returned when a calculator's hyperparameters
	// cannot be parsed, reference an unknown calculator, or request an
	// unsupported gradient origin.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrInvalidSelection is returned when a selection references columns
	// or entries the calculator cannot honor.
	ErrInvalidSelection = errors.New("invalid selection")
)
