package service

import "errors"

var (
	ErrOfferInactive    = errors.New("offer is missing or inactive")
	ErrCapacityExceeded = errors.New("daily capacity for this offer is exhausted")
	ErrNotFound         = errors.New("not found")
	ErrInvalidDecision  = errors.New("unknown decision")
	ErrUnauthorized     = errors.New("unauthorized")
)
