// Package credentials defines the transient credential bag, the persisted
// row projection, and the receipt/fail-code taxonomy shared by every authkit
// operation.
//
// Expected negative outcomes (missing fields, wrong password, duplicate
// usernames) are never surfaced as Go errors; they travel as a Receipt with a
// specific FailCode. Errors are reserved for fatal conditions such as an
// unreachable store.
package credentials
