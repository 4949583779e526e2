package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liliang-cn/zadarapy/pkg/client"
	"github.com/liliang-cn/zadarapy/pkg/config"
)

var (
	version = "dev"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut, logger: zap.NewNop()}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(context.Background())
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return 0
	}
	fmt.Fprintln(errOut, exitMessage(err))
	return 1
}

// exitMessage maps an error class to the message shown to the user.
func exitMessage(err error) string {
	var (
		apiErr    *client.APIError
		statusErr *client.StatusError
		connErr   *client.ConnectionError
		decodeErr *client.DecodeError
	)

	switch {
	case errors.Is(err, client.ErrInvalidArgument), errors.Is(err, config.ErrConfig):
		return fmt.Sprintf("There was an error with a parameter passed to the API: %q", err.Error())
	case errors.As(err, &apiErr), errors.As(err, &statusErr),
		errors.As(err, &connErr), errors.As(err, &decodeErr):
		return fmt.Sprintf("There was an error at runtime returned by the API: %q", err.Error())
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// initLogger builds a logger writing to w. Only warnings and errors are
// shown unless verbose is set.
func initLogger(w io.Writer, format string, verbose bool) (*zap.Logger, error) {
	var encoder zapcore.Encoder

	if format == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(w))), nil
}
