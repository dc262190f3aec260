package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sort"
	"sync"

	"consolebridge"
	"consolebridge/internal/errs"
	"consolebridge/message"

	"github.com/gotomicro/ekit/bean/option"
	"go.uber.org/zap"
)

var (
	_ consolebridge.Proxy = (*Dispatcher)(nil)
	_ Handler             = (*Dispatcher)(nil)

	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	null        = json.RawMessage("null")
)

// Handler runs one decoded call. Returned errors are meant for Status.
type Handler interface {
	Dispatch(ctx context.Context, module, bridge, method string, args []json.RawMessage) (json.RawMessage, error)
}

// Dispatcher routes module.bridge.method to methods of registered bridge
// values. It is what the embedded host exposes, and it is itself a Proxy
// for running the desktop side in the same process.
type Dispatcher struct {
	mutex   sync.RWMutex
	bridges map[string]*reflectionStub
	logger  *zap.Logger
}

func DispatcherWithLogger(logger *zap.Logger) option.Option[Dispatcher] {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func NewDispatcher(opts ...option.Option[Dispatcher]) *Dispatcher {
	res := &Dispatcher{
		bridges: make(map[string]*reflectionStub, 8),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Register exposes every exported method of impl under module.bridge.
func (d *Dispatcher) Register(module, bridge string, impl any) error {
	if module == "" || bridge == "" || impl == nil {
		return errs.ErrInvalidBridge
	}
	val := reflect.ValueOf(impl)
	typ := val.Type()
	if val.NumMethod() == 0 {
		return errs.ErrInvalidBridge
	}
	methods := make(map[string]reflect.Value, val.NumMethod())
	for i := 0; i < val.NumMethod(); i++ {
		methods[typ.Method(i).Name] = val.Method(i)
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.bridges[module+"."+bridge] = &reflectionStub{
		methods: methods,
		logger:  d.logger,
	}
	return nil
}

func (d *Dispatcher) MustRegister(module, bridge string, impl any) {
	if err := d.Register(module, bridge, impl); err != nil {
		panic(err)
	}
}

// Addresses lists every exposed module.bridge.method.
func (d *Dispatcher) Addresses() []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	res := make([]string, 0, len(d.bridges)*4)
	for key, stub := range d.bridges {
		for name := range stub.methods {
			res = append(res, key+"."+name)
		}
	}
	sort.Strings(res)
	return res
}

// Dispatch runs one call. Returned errors are meant for Status.
func (d *Dispatcher) Dispatch(ctx context.Context, module, bridge, method string,
	args []json.RawMessage) (json.RawMessage, error) {
	d.mutex.RLock()
	stub, ok := d.bridges[module+"."+bridge]
	d.mutex.RUnlock()
	if !ok {
		return nil, NotFound("bridge %s.%s not found", module, bridge)
	}
	return stub.invoke(ctx, method, args)
}

// Invoke marshals args the way the host ipc channel would and calls the
// bridge directly. Failures become a status and a {"message"} body, the
// transport itself never fails.
func (d *Dispatcher) Invoke(ctx context.Context, req *message.Request) (*message.Response, error) {
	args := make([]json.RawMessage, 0, len(req.Args))
	for _, arg := range req.Args {
		bs, err := json.Marshal(arg)
		if err != nil {
			return &message.Response{
				StatusCode: http.StatusBadRequest,
				Data:       FailureBody(err.Error()),
			}, nil
		}
		args = append(args, bs)
	}
	data, err := d.Dispatch(ctx, req.Module, req.Bridge, req.Method, args)
	if err != nil {
		status, msg := Status(err)
		return &message.Response{StatusCode: status, Data: FailureBody(msg)}, nil
	}
	return &message.Response{StatusCode: http.StatusOK, Data: data}, nil
}

type reflectionStub struct {
	methods map[string]reflect.Value
	logger  *zap.Logger
}

func (s *reflectionStub) invoke(ctx context.Context, name string,
	args []json.RawMessage) (res json.RawMessage, err error) {
	method, ok := s.methods[name]
	if !ok {
		return nil, NotFound("method %s not found", name)
	}
	typ := method.Type()
	if ctx == nil {
		ctx = context.Background()
	}

	in := make([]reflect.Value, 0, typ.NumIn())
	offset := 0
	if typ.NumIn() > 0 && typ.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
		offset = 1
	}
	if want := typ.NumIn() - offset; want != len(args) {
		return nil, BadRequest("method %s expects %d args, got %d", name, want, len(args))
	}
	for i, arg := range args {
		param := reflect.New(typ.In(offset + i))
		if er := json.Unmarshal(arg, param.Interface()); er != nil {
			return nil, BadRequest("method %s arg %d: %v", name, i, er)
		}
		in = append(in, param.Elem())
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("bridge method panicked", zap.String("method", name), zap.Any("panic", r))
			res, err = nil, &Error{Status: http.StatusInternalServerError, Message: consolebridge.FallbackMessage}
		}
	}()
	out := method.Call(in)

	if n := len(out); n > 0 && typ.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return null, nil
	}
	return json.Marshal(out[0].Interface())
}
