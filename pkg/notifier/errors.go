package notifier

import "fmt"

// ListenerPanicError reports a panic recovered from a listener.
type ListenerPanicError struct {
	Event      string
	ListenerID string
	Value      any
}

func (e *ListenerPanicError) Error() string {
	return fmt.Sprintf("notifier: listener %s for event %q panicked: %v", e.ListenerID, e.Event, e.Value)
}
