package kernel

// Error describes an IPL error. Errors are declared as package-level pointers
// to Error so they can be returned and compared before any allocator is
// available and so that callers can match them by identity.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the same IPL error. It allows *Error values to
// be matched with errors.Is after being wrapped by host-side tools.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t == e
}
