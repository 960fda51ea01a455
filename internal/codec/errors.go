package codec

import "errors"

var (
	ErrCorruptPayload   = errors.New("corrupt poll payload")
	ErrCapacityExceeded = errors.New("payload exceeds slot capacity")
	ErrStateTooLarge    = errors.New("poll state has too many voters")
)
