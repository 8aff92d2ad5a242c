package credentials

import "fmt"

// FailCode classifies the expected negative outcomes of user-store and
// session operations. It is a closed set: every Receipt carries exactly one.
type FailCode int

const (
	FailNone FailCode = iota
	FailUsernameRequired
	FailPasswordRequired
	FailNewUsernameRequired
	FailNewPasswordRequired
	FailUserExists
	FailUserDNE
	FailPasswordInvalid
	FailNotAuthenticated
	FailSessionID
	FailDatabase
	FailStillStarting
	FailNotStarted
)

var failCodeNames = map[FailCode]string{
	FailNone:                "NONE",
	FailUsernameRequired:    "USERNAME_REQUIRED",
	FailPasswordRequired:    "PASSWORD_REQUIRED",
	FailNewUsernameRequired: "NEW_USERNAME_REQUIRED",
	FailNewPasswordRequired: "NEW_PASSWORD_REQUIRED",
	FailUserExists:          "USER_EXISTS",
	FailUserDNE:             "USER_DNE",
	FailPasswordInvalid:     "PASSWORD_INVALID",
	FailNotAuthenticated:    "NOT_AUTHENTICATED",
	FailSessionID:           "SESSION_ID_ERROR",
	FailDatabase:            "DATABASE_ERROR",
	FailStillStarting:       "STILL_STARTING",
	FailNotStarted:          "NOT_STARTED",
}

func (c FailCode) String() string {
	if name, ok := failCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("FailCode(%d)", int(c))
}

// MarshalJSON serializes the code by name so wire receipts stay readable.
func (c FailCode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
