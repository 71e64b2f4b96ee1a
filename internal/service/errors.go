package service

import "errors"

// Failures that route a wake cycle to the default sleep.
var (
	ErrConnectivityTimeout = errors.New("connectivity timeout")
	ErrAddressResolution   = errors.New("address resolution failed")
	ErrSocketAllocation    = errors.New("socket allocation failed")
	ErrConnection          = errors.New("connection failed")
	ErrSend                = errors.New("send failed")
	ErrNoPayload           = errors.New("no payload in response")
	ErrInvalidPort         = errors.New("invalid port")
)

// failureKind names a cycle failure for logs and event metadata.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrConnectivityTimeout):
		return "connectivity_timeout"
	case errors.Is(err, ErrAddressResolution):
		return "address_resolution_failed"
	case errors.Is(err, ErrSocketAllocation):
		return "socket_allocation_failed"
	case errors.Is(err, ErrConnection):
		return "connection_failed"
	case errors.Is(err, ErrSend):
		return "send_failed"
	case errors.Is(err, ErrNoPayload):
		return "no_payload"
	case errors.Is(err, ErrInvalidPort):
		return "invalid_port"
	default:
		return "other"
	}
}
