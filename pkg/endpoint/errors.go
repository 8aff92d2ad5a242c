package endpoint

import "errors"

var (
	// ErrNilStart indicates an endpoint was configured without a start
	// function.
	ErrNilStart = errors.New("endpoint.nil_start")

	// ErrIncompleteRedirects indicates a redirect pair missing one of its
	// paths.
	ErrIncompleteRedirects = errors.New("endpoint.incomplete_redirects")

	// ErrUnknownEndpoint indicates a name outside the fixed endpoint set.
	ErrUnknownEndpoint = errors.New("endpoint.unknown_endpoint")
)
