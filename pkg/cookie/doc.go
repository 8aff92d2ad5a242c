// Package cookie is a thin helper around net/http cookies: a Manager with
// shared default attributes, functional per-call options, and a Clear that
// reliably deletes cookies client-side.
package cookie
