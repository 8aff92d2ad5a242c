package credentials_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit/pkg/credentials"
)

func TestFromForm(t *testing.T) {
	values, err := url.ParseQuery("username=alice&password=pw1&newUsername=bob&newPassword=pw2")
	require.NoError(t, err)

	c := credentials.FromForm(values)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, "pw1", c.Password)
	assert.Equal(t, "bob", c.NewUsername)
	assert.Equal(t, "pw2", c.NewPassword)
}

func TestDatabaseReady(t *testing.T) {
	tests := []struct {
		name  string
		c     credentials.Credentials
		ready bool
	}{
		{"empty", credentials.Credentials{}, false},
		{"username only", credentials.Credentials{Username: "alice"}, false},
		{"missing hash", credentials.Credentials{Username: "alice", Salt: "s", Iterations: 1}, false},
		{"missing salt", credentials.Credentials{Username: "alice", Hash: "h", Iterations: 1}, false},
		{"zero iterations", credentials.Credentials{Username: "alice", Salt: "s", Hash: "h"}, false},
		{"complete", credentials.Credentials{Username: "alice", Salt: "s", Hash: "h", Iterations: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ready, tt.c.DatabaseReady())
		})
	}
}

func TestCopy(t *testing.T) {
	t.Run("copies caller fields only", func(t *testing.T) {
		orig := &credentials.Credentials{
			Username:    "alice",
			Password:    "pw1",
			NewUsername: "bob",
			NewPassword: "pw2",
			Salt:        "derived-salt",
			Hash:        "derived-hash",
			Iterations:  20000,
		}

		c := orig.Copy()
		assert.Equal(t, "alice", c.Username)
		assert.Equal(t, "pw1", c.Password)
		assert.Equal(t, "bob", c.NewUsername)
		assert.Equal(t, "pw2", c.NewPassword)
		assert.Empty(t, c.Salt)
		assert.Empty(t, c.Hash)
		assert.Zero(t, c.Iterations)
	})

	t.Run("mutations do not alias", func(t *testing.T) {
		orig := &credentials.Credentials{Username: "alice", Password: "pw1"}
		c := orig.Copy()
		c.Password = "changed"
		assert.Equal(t, "pw1", orig.Password)
	})

	t.Run("nil copy", func(t *testing.T) {
		var c *credentials.Credentials
		assert.Nil(t, c.Copy())
	})
}

func TestRow(t *testing.T) {
	c := &credentials.Credentials{
		Username:    "alice",
		Password:    "secret",
		NewPassword: "secret2",
		Salt:        "salt",
		Hash:        "hash",
		Iterations:  20000,
	}

	row := c.Row()
	assert.Equal(t, "alice", row.Username)
	assert.Equal(t, "salt", row.Salt)
	assert.Equal(t, "hash", row.Hash)
	assert.Equal(t, 20000, row.Iterations)
}

func TestReceiptWireShape(t *testing.T) {
	receipt := credentials.NewReceipt("alice").Fail(credentials.FailPasswordInvalid)

	data, err := json.Marshal(receipt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice","success":false,"failReason":"PASSWORD_INVALID"}`, string(data))
}

func TestFailCodeNames(t *testing.T) {
	tests := []struct {
		code credentials.FailCode
		name string
	}{
		{credentials.FailNone, "NONE"},
		{credentials.FailUsernameRequired, "USERNAME_REQUIRED"},
		{credentials.FailPasswordRequired, "PASSWORD_REQUIRED"},
		{credentials.FailNewUsernameRequired, "NEW_USERNAME_REQUIRED"},
		{credentials.FailNewPasswordRequired, "NEW_PASSWORD_REQUIRED"},
		{credentials.FailUserExists, "USER_EXISTS"},
		{credentials.FailUserDNE, "USER_DNE"},
		{credentials.FailPasswordInvalid, "PASSWORD_INVALID"},
		{credentials.FailNotAuthenticated, "NOT_AUTHENTICATED"},
		{credentials.FailSessionID, "SESSION_ID_ERROR"},
		{credentials.FailDatabase, "DATABASE_ERROR"},
		{credentials.FailStillStarting, "STILL_STARTING"},
		{credentials.FailNotStarted, "NOT_STARTED"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.code.String())
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := assert.AnError
	err := credentials.NewError(credentials.FailDatabase, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DATABASE_ERROR")

	var ferr *credentials.Error
	require.ErrorAs(t, error(err), &ferr)
	assert.Equal(t, credentials.FailDatabase, ferr.Code)
}
