package costing

import "errors"

var (
	// ErrInvalidQuantity indicates a purchase quantity that is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrUnknownUnit indicates a unit outside the supported enumeration.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrDivisionByZero indicates a unit price requested for a non-positive gram weight.
	ErrDivisionByZero = errors.New("gram weight must be greater than zero")

	// ErrNegativePrice indicates a negative currency amount.
	ErrNegativePrice = errors.New("price must not be negative")

	// ErrNegativeQuantity indicates a negative recipe line quantity.
	ErrNegativeQuantity = errors.New("line quantity must not be negative")

	// ErrUnknownOverheadMode indicates an overhead mode outside fixed/percent.
	ErrUnknownOverheadMode = errors.New("unknown overhead mode")

	// ErrEmptyIngredient indicates a purchase without an ingredient name.
	ErrEmptyIngredient = errors.New("ingredient name must not be empty")
)
