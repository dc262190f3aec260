// consolectl calls one bridge method and prints the result, over the ipc
// socket when run inside the desktop host and over HTTP otherwise.
//
//	consolectl -module capital -method GetTransactions '[{"limit":5}]'
//	consolectl -module pilot -method RunCommand status
//	consolectl -address stock.StockBridge.AdjustStock sku-1 -2
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"consolebridge"
	"consolebridge/config"
	"consolebridge/console"
	"consolebridge/message"

	"go.uber.org/zap"
)

type options struct {
	address string
	module  string
	bridge  string
	method  string
	mode    string
	envFile string
	timeout time.Duration
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.address, "address", "", "module.bridge.method, replaces -module, -bridge and -method")
	flag.StringVar(&opts.module, "module", "", "module name, e.g. capital")
	flag.StringVar(&opts.bridge, "bridge", "", "bridge name, defaults to <Module>Bridge")
	flag.StringVar(&opts.method, "method", "", "method name")
	flag.StringVar(&opts.mode, "mode", "auto", "auto, desktop or web")
	flag.StringVar(&opts.envFile, "env", ".env", "dotenv file")
	flag.DurationVar(&opts.timeout, "timeout", 0, "give up after this long, 0 waits forever")
	flag.BoolVar(&opts.verbose, "v", false, "log every call")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, opts, flag.Args(), os.Stdout); err != nil {
		var re *consolebridge.RemoteError
		if errors.As(err, &re) {
			fmt.Fprintln(os.Stderr, re.Detail())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(ctx context.Context, opts options, rawArgs []string, w io.Writer) error {
	module, bridge, method, err := target(opts)
	if err != nil {
		return err
	}
	env, err := environment(opts.mode)
	if err != nil {
		return err
	}
	args, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}
	cfg, err := config.LoadClient(opts.envFile)
	if err != nil {
		return err
	}
	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer func() {
		_ = logger.Sync()
	}()

	proxy, closer, err := console.Dial(cfg, env, console.WithLogger(logger))
	if err != nil {
		return err
	}
	defer closer.Close()

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	stub := consolebridge.NewStub(proxy, module, bridge)
	logger.Debug("calling", zap.String("module", stub.Module()), zap.String("bridge", stub.Bridge()),
		zap.String("method", method), zap.Int("args", len(args)))
	return call(ctx, stub, method, args, w)
}

// target resolves what to call, either from -address or from -module,
// -bridge and -method.
func target(opts options) (module, bridge, method string, err error) {
	if opts.address != "" {
		if opts.module != "" || opts.bridge != "" || opts.method != "" {
			return "", "", "", errors.New("consolectl: -address can not be combined with -module, -bridge or -method")
		}
		return message.ParseAddress(opts.address)
	}
	if opts.module == "" || opts.method == "" {
		return "", "", "", errors.New("consolectl: -address or -module and -method are required")
	}
	return opts.module, bridgeName(opts.module, opts.bridge), opts.method, nil
}

func call(ctx context.Context, stub *consolebridge.Stub, method string, args []any, w io.Writer) error {
	data, err := stub.Call(ctx, method, args...)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err = json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// environment forces a side when mode is not auto.
func environment(mode string) (consolebridge.Environment, error) {
	switch mode {
	case "", "auto":
		return consolebridge.ProcessEnv{}, nil
	case consolebridge.ModeDesktop:
		return consolebridge.StaticEnv(true), nil
	case consolebridge.ModeWeb:
		return consolebridge.StaticEnv(false), nil
	}
	return nil, fmt.Errorf("consolectl: unknown mode %q", mode)
}

// bridgeName follows the capital -> CapitalBridge naming of the console bridges.
func bridgeName(module, bridge string) string {
	if bridge != "" || module == "" {
		return bridge
	}
	return strings.ToUpper(module[:1]) + module[1:] + "Bridge"
}

// parseArgs accepts either one JSON array holding every argument or one
// positional value per argument. Values that are not JSON are taken as
// strings. Numbers stay json.Number so large integers keep their digits.
func parseArgs(raw []string) ([]any, error) {
	if len(raw) == 1 && strings.HasPrefix(strings.TrimSpace(raw[0]), "[") {
		var args []any
		if err := decodeJSON(raw[0], &args); err != nil {
			return nil, fmt.Errorf("consolectl: args: %w", err)
		}
		return args, nil
	}
	args := make([]any, 0, len(raw))
	for _, r := range raw {
		var v any
		if err := decodeJSON(r, &v); err != nil {
			v = r
		}
		args = append(args, v)
	}
	return args, nil
}

// decodeJSON decodes exactly one JSON value, trailing data is an error.
func decodeJSON(s string, v any) error {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after %q", s)
	}
	return nil
}
