// Package userstore persists user records and implements the credential
// mutation and verification operations over a pluggable Storage backend.
//
// Three backends ship with the package: SQLite (the default, a local file),
// PostgreSQL (over a pgx pool), and an in-memory map. The Store layered on
// top owns validation, hashing, and the receipt taxonomy; backends only move
// rows and report the two sentinel conditions (user exists / user absent).
package userstore
