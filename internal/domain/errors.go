package domain

import "errors"

var (
	ErrDepotNotFound           = errors.New("depot not found")
	ErrRouteNotFound           = errors.New("route not found")
	ErrInvalidPoint            = errors.New("invalid collection point")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
