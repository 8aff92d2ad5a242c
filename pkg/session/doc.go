// Package session provides cookie-backed server-side sessions with a dual
// anon/auth cookie model.
//
// Every unauthenticated visitor gets a long-lived anonymous session
// proactively (when enabled). Login mints a separate authenticated session
// under its own cookie with its own timeout policy; the authenticated
// session adopts the anonymous session's data map by reference, so state
// written before login remains visible after it. Logout destroys only the
// authenticated session and falls back to whatever the anon cookie still
// names.
//
// Liveness is checked lazily: each resolution pings the session against its
// idle timeout and absolute expiry, dropping it from the registry and
// clearing the cookie client-side when either has passed.
package session
