package logic

import "errors"

// Error message constants for the checkout domain.
const (
	ErrMsgInvalidQuantity   = "quantity must be positive"
	ErrMsgOutOfStock        = "requested quantity exceeds available stock"
	ErrMsgUnknownProduct    = "product does not exist"
	ErrMsgInsufficientStock = "not enough stock to decrement"
	ErrMsgInvalidCatalog    = "invalid catalog data"
)

// Sentinels returned by the core. Callers match them with errors.Is; the
// returned errors usually wrap them with the offending product name.
var (
	ErrInvalidQuantity   = errors.New(ErrMsgInvalidQuantity)
	ErrOutOfStock        = errors.New(ErrMsgOutOfStock)
	ErrUnknownProduct    = errors.New(ErrMsgUnknownProduct)
	ErrInsufficientStock = errors.New(ErrMsgInsufficientStock)
	ErrInvalidCatalog    = errors.New(ErrMsgInvalidCatalog)
)
