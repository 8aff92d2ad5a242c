package credentials

// Error is a fatal failure tagged with the FailCode that classifies it:
// store unreachability (DATABASE_ERROR), token minting failure
// (SESSION_ID_ERROR), or engine-lifecycle violations. Unlike a Receipt it
// terminates the request pipeline early.
type Error struct {
	Code FailCode
	Err  error
}

// NewError wraps a cause with a classifying fail code.
func NewError(code FailCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
