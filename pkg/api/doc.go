// Package api defines the request and response messages of the Slipwise
// Connect services. Messages are plain structs serialized as JSON; monetary
// amounts are decimal numbers in major currency units.
package api
