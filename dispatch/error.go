package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"consolebridge"
)

// Error -> a failure with the status the transport should report.
// Bridge methods may return it to pick their own status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Status maps err to a status and the message shown to the caller.
func Status(err error) (int, string) {
	var de *Error
	if errors.As(err, &de) {
		return de.Status, de.Message
	}
	msg := err.Error()
	if msg == "" {
		msg = consolebridge.FallbackMessage
	}
	return http.StatusInternalServerError, msg
}

type failure struct {
	Message string `json:"message"`
}

// FailureBody is the {"message": ...} payload of a failed call.
func FailureBody(msg string) []byte {
	bs, _ := json.Marshal(failure{Message: msg})
	return bs
}
