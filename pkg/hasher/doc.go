// Package hasher implements the credential hashing protocol: salted
// PBKDF2-SHA256 derivation with configurable iteration count and output
// length, and constant-time verification against stored rows.
package hasher
