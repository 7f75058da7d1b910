// Package notifier provides a synchronous, in-process named-event emitter.
//
// Listeners are registered for an event name with On (or for every event with
// OnAny) and are invoked synchronously, in registration order, every time Emit
// is called with that name. Registration returns an unsubscribe function.
//
// The emitter is re-entrant: a listener may emit further events, register new
// listeners or unsubscribe itself. Emit iterates over a snapshot of the
// listeners taken at call time, so changes made during dispatch only affect
// later emissions.
//
// # Usage
//
//	e := notifier.New[string]()
//	off := e.On("greeting", func(name, payload string) {
//	    fmt.Println(payload)
//	})
//	defer off()
//
//	e.Emit("greeting", "hello")
//
// # Error Handling
//
// A panicking listener does not abort dispatch. The panic is recovered,
// wrapped in a *ListenerPanicError and passed to the handler configured with
// WithErrorHandler; without a handler it is dropped.
package notifier
