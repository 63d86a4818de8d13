package models

import "errors"

// Error taxonomy for the order core. Handlers match these with errors.Is and
// translate them to HTTP status codes; nothing here is retried automatically
// because every one of them means invalid input or invalid state.
var (
	ErrValidation          = errors.New("validation failed")
	ErrItemUnavailable     = errors.New("menu item is not available")
	ErrNotFound            = errors.New("order not found")
	ErrInvalidTransition   = errors.New("illegal order status transition")
	ErrDiscrepancyTooLarge = errors.New("cash discrepancy exceeds the allowed limit")
	ErrSessionClosed       = errors.New("closing session is already completed")
)
