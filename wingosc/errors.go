package wingosc

// TransportError reports a socket-level failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Cause returns the underlying socket error.
func (e *TransportError) Cause() error { return e.Err }

// Unwrap returns the underlying socket error.
func (e *TransportError) Unwrap() error { return e.Err }
