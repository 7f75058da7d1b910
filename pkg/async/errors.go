package async

import "errors"

var (
	ErrTimeout        = errors.New("async: operation timed out waiting for future completion")
	ErrAwaitCancelled = errors.New("async: wait for future completion was cancelled")
	ErrPanicked       = errors.New("async: function panicked")
)
