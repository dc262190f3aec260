package consolebridge

import "go.uber.org/zap"

const (
	ModeDesktop = "desktop"
	ModeWeb     = "web"
)

// Pair holds the desktop and the web implementation of the same capability.
type Pair[T any] struct {
	Desktop T
	Web     T
}

// Mode names the implementation env selects.
func Mode(env Environment) string {
	if env.Embedded() {
		return ModeDesktop
	}
	return ModeWeb
}

// Select returns the member of pair matching env.
func Select[T any](env Environment, pair Pair[T]) T {
	mode := Mode(env)
	zap.L().Debug("bridge mode selected", zap.String("mode", mode))
	if mode == ModeDesktop {
		return pair.Desktop
	}
	return pair.Web
}
