package domain

import "errors"

// Sentinel errors raised by the core services. The API error handler maps
// each of these to a deterministic HTTP status.
var (
	ErrEmailExists        = errors.New("email already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountBlocked     = errors.New("account has been blocked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("invalid role for this account")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
	ErrHasSubordinates    = errors.New("account still has created accounts")

	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvoiceNumberExists  = errors.New("invoice number already exists")
	ErrInvalidInvoiceNumber = errors.New("invalid invoice number")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)
