package domain

import "errors"

var (
	ErrIOUnavailable      = errors.New("interface enumeration unavailable")
	ErrToolUnavailable    = errors.New("external tool unavailable")
	ErrToolTimeout        = errors.New("external tool timed out")
	ErrNetworkUnreachable = errors.New("network unreachable")
)
