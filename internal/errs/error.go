package errs

import (
	"errors"
	"fmt"
)

var (
	ErrReadLenData       = errors.New("consolebridge: could not read the length data")
	ErrFrameTooShort     = errors.New("consolebridge: frame is shorter than its header")
	ErrFrameTooLarge     = errors.New("consolebridge: frame exceeds the maximum size")
	ErrInvalidAddress    = errors.New("consolebridge: invalid address, want module.bridge.method")
	ErrInvalidBridge     = errors.New("consolebridge: bridge must be a non-nil value with exported methods")
	ErrNoOrigin          = errors.New("consolebridge: no rpc origin configured")
	ErrMessageIdMismatch = errors.New("consolebridge: response message id does not match the request")
)

var ErrProtoDeserializeTyp = errors.New("serialize: deserialization target must be a pointer")

var (
	ErrNoInstanceAvailable = errors.New("loadbalance: no service instance available")
	ErrRegistryClosed      = errors.New("registry: registry is closed")
)

func UnknownSerializer(code byte) error {
	return fmt.Errorf("consolebridge: unknown serializer %d", code)
}

func UnknownCompressor(code byte) error {
	return fmt.Errorf("consolebridge: unknown compressor %d", code)
}

func UnknownCodec(name string) error {
	return fmt.Errorf("consolebridge: unknown codec %q", name)
}

func InvalidFrameField(field, val string) error {
	return fmt.Errorf("consolebridge: %s %q contains a frame separator", field, val)
}
