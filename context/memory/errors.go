package memory

import "errors"

var errClosed = errors.New("memory context closed")
