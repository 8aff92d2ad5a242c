package cookie

import "errors"

var (
	// ErrCookieNotFound indicates the request carried no cookie by that name.
	ErrCookieNotFound = errors.New("cookie.not_found")
)
