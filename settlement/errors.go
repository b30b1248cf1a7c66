package settlement

import "errors"

var (
	// ErrIncompleteAllocation means no allocation carries both a payment
	// method and a positive amount at submit time.
	ErrIncompleteAllocation = errors.New("no payment allocation with method and amount")

	// ErrTooManyAllocations means the form already holds the maximum of
	// two payment slices.
	ErrTooManyAllocations = errors.New("transaction already has the maximum number of payment allocations")
)
