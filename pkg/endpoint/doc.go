// Package endpoint implements the per-operation request pipeline and the
// router that feeds it.
//
// Each of the nine fixed endpoints runs a strictly sequential four-stage
// pipeline: the store operation (start), a fixed internal reaction (session
// promotion on login, demotion on logout), a replaceable user reaction, and
// a terminal stage that either 303-redirects on a configured success/failure
// pair or leaves the response alone. The continuation after the pipeline
// runs exactly once; fatal errors skip straight to the error handler.
package endpoint
