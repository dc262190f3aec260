package consolebridge

import "fmt"

// FallbackMessage is surfaced when a failed call carries no usable message.
const FallbackMessage = "internal error"

// RemoteError -> a call that reached the other side and failed there.
// Error returns the remote message verbatim, the other fields say where it
// came from.
type RemoteError struct {
	Module     string
	Bridge     string
	Method     string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Detail annotates the message with the call address and transport status.
func (e *RemoteError) Detail() string {
	return fmt.Sprintf("%s.%s.%s: status %d: %s", e.Module, e.Bridge, e.Method, e.StatusCode, e.Message)
}
