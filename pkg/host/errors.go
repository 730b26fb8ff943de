package host

import "errors"

// ErrNoGlobalHost is returned by PopGlobal when the ambient host stack is
// empty - a front-end popped more hosts than it pushed.
var ErrNoGlobalHost = errors.New("no global host to pop")
