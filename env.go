package consolebridge

import "os"

// DefaultHostKey is the variable the embedded desktop host sets to the
// address of its ipc socket.
const DefaultHostKey = "CONSOLE_HOST_SOCKET"

// Environment tells whether the process runs inside the embedded desktop host.
type Environment interface {
	Embedded() bool
}

// EnvFunc adapts a predicate to Environment.
type EnvFunc func() bool

func (f EnvFunc) Embedded() bool {
	return f()
}

// StaticEnv always answers the same.
type StaticEnv bool

func (e StaticEnv) Embedded() bool {
	return bool(e)
}

// ProcessEnv reads the host marker from the process environment on every call.
type ProcessEnv struct {
	// Key defaults to DefaultHostKey
	Key string
	// Lookup defaults to os.LookupEnv
	Lookup func(key string) (string, bool)
}

func (e ProcessEnv) Embedded() bool {
	key := e.Key
	if key == "" {
		key = DefaultHostKey
	}
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	val, ok := lookup(key)
	return ok && val != ""
}
