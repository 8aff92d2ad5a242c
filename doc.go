// Package authkit is a pluggable authentication and session-management
// middleware for net/http pipelines.
//
// It authenticates credentials against a persisted user store (SQLite by
// default, PostgreSQL or in-memory via options), derives and verifies
// salted PBKDF2 password hashes, tracks anonymous and authenticated
// sessions through two cookies with independent timeout policies, and
// exposes a fixed set of account endpoints (add-user, login, logout,
// change-password, ...) each driven by a configurable four-stage pipeline.
//
// Minimal usage:
//
//	engine, err := authkit.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.Start()
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", home)
//	http.ListenAndServe(":8080", engine.Middleware(mux))
//
// Requests to <namespace>/<endpoint> (default namespace /auth) are handled
// by the engine; everything else passes through with the caller's session
// attached to the request context.
package authkit
