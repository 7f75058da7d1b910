package broadcast

import "errors"

var (
	ErrClosed        = errors.New("broadcast: broadcaster is closed")
	ErrEncodeMessage = errors.New("broadcast: failed to encode message")
	ErrDecodeMessage = errors.New("broadcast: failed to decode message")
	ErrPublishFailed = errors.New("broadcast: failed to publish message")
)
