package domain

import "errors"

var (
	// ErrInvalidAddress means the upstream rejected the address itself,
	// distinct from a transient failure.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUpstream means a data source the pipeline cannot degrade
	// around failed.
	ErrUpstream = errors.New("upstream failure")
)
