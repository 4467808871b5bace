package service

import "errors"

// Not-found errors map to HTTP 404 at the API layer, the rest of the
// validation errors to 400.
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrEquipmentNotFound  = errors.New("equipment not found")
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrOrderNotFound      = errors.New("order not found")

	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidDate       = errors.New("invalid date value")

	ErrClientHasNoEmail = errors.New("client has no email address")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
