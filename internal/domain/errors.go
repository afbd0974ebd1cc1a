package domain

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidSelection    = errors.New("invalid configuration selection")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrProductNotFound     = errors.New("product not found")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderConflict       = errors.New("order conflict")
	ErrUnauthorized        = errors.New("unauthorized owner")
	ErrReconcileInProgress = errors.New("cart reconciliation already in progress")
	ErrStaleCart           = errors.New("cart not cleared after checkout")
)
