// Package events provides a synchronous in-memory event bus.
//
// Handlers subscribe to a named event with On and receive the payload of
// every Emit for that event, in subscription order, on the emitting
// goroutine. On returns a subscription id; pass it to Off to unsubscribe.
package events
