// Package resource implements the generic upstream CRUD client.
//
// A Transport owns the base URL, fixed headers and the Basic credential. A
// Client binds a Transport to one resource Config. Operations never return a Go
// error: the outcome is a Result whose Failure distinguishes a received non-2xx
// response (FailureServer, body kept verbatim), a missing response
// (FailureTransport) and a request that could not be built or decoded
// (FailureLocal).
package resource
