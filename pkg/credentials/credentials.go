package credentials

import "net/url"

// Credentials is the transient field bag carried through a single request.
// All fields are optional; emptiness means the caller never supplied them.
type Credentials struct {
	Username    string
	Password    string
	NewUsername string
	NewPassword string

	// Derived by the hasher during mutation flows.
	Salt       string
	Iterations int
	Hash       string
}

// Row is the persisted projection of a credential set: exactly the columns
// a user record stores.
type Row struct {
	Username   string
	Hash       string
	Salt       string
	Iterations int
}

// FromForm builds credentials from URL-encoded form values.
func FromForm(values url.Values) *Credentials {
	return &Credentials{
		Username:    values.Get("username"),
		Password:    values.Get("password"),
		NewUsername: values.Get("newUsername"),
		NewPassword: values.Get("newPassword"),
	}
}

func (c *Credentials) HasUsername() bool    { return c != nil && c.Username != "" }
func (c *Credentials) HasPassword() bool    { return c != nil && c.Password != "" }
func (c *Credentials) HasNewUsername() bool { return c != nil && c.NewUsername != "" }
func (c *Credentials) HasNewPassword() bool { return c != nil && c.NewPassword != "" }
func (c *Credentials) HasSalt() bool        { return c != nil && c.Salt != "" }

// DatabaseReady reports whether every persisted column has a value.
func (c *Credentials) DatabaseReady() bool {
	return c != nil && c.Username != "" && c.Iterations > 0 && c.Salt != "" && c.Hash != ""
}

// Row returns the persisted projection of the credentials.
func (c *Credentials) Row() Row {
	return Row{
		Username:   c.Username,
		Hash:       c.Hash,
		Salt:       c.Salt,
		Iterations: c.Iterations,
	}
}

// Copy duplicates the caller-supplied fields only. Authenticate-then-mutate
// flows verify against the copy's sibling so derived salt/hash state from the
// verification step never leaks into the follow-up operation.
func (c *Credentials) Copy() *Credentials {
	if c == nil {
		return nil
	}
	return &Credentials{
		Username:    c.Username,
		Password:    c.Password,
		NewUsername: c.NewUsername,
		NewPassword: c.NewPassword,
	}
}
