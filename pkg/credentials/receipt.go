package credentials

// Receipt is the uniform outcome of a user-store operation: who it was
// about, whether it succeeded, and why not. Expected negatives are encoded
// here rather than as errors.
type Receipt struct {
	Username   string   `json:"username"`
	Success    bool     `json:"success"`
	FailReason FailCode `json:"failReason"`
}

// NewReceipt creates a receipt for the given username with FailNone.
func NewReceipt(username string) *Receipt {
	return &Receipt{Username: username, FailReason: FailNone}
}

// SetSuccess records the outcome and returns the receipt for chaining.
func (r *Receipt) SetSuccess(success bool) *Receipt {
	r.Success = success
	return r
}

// SetFailReason records the failure code and returns the receipt for chaining.
func (r *Receipt) SetFailReason(code FailCode) *Receipt {
	r.FailReason = code
	return r
}

// Fail marks the receipt unsuccessful with the given code.
func (r *Receipt) Fail(code FailCode) *Receipt {
	return r.SetSuccess(false).SetFailReason(code)
}
