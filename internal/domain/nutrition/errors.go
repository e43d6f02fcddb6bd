package nutrition

import "errors"

// Domain errors for nutrition resolution

var (
	ErrInvalidConfidence = errors.New("confidence must be between 0.0 and 1.0")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrEmptyName         = errors.New("ingredient name is required")
)
