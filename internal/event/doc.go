// Package event provides the per-instance synchronous event bus.
//
// All engine components communicate through the bus rather than by direct
// calls. Subscriptions are keyed by (event name, namespace) pairs so a
// plugin can detach every handler it registered with a single
// Off(".namespace") call. Fire invokes handlers in registration order and
// never short-circuits; composing call sites inspect the returned Results
// to decide whether a handler cancelled the pending default action.
package event
