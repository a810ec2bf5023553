// Package app implements the if97 command.
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/alexshd/if97"
	"github.com/alexshd/if97/internal/config"
	"github.com/alexshd/if97/internal/logging"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// Exit codes.
const (
	ExitOK         = 0
	ExitDomain     = 1 // the engine refused the inputs
	ExitUsage      = 2
	ExitValidation = 3 // reference cases failed or a load run diverged
	ExitInternal   = 4
)

var errValidationFailed = errors.New("validation failed")

// usageError marks bad command lines.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// env is what every subcommand runs with.
type env struct {
	ctx    context.Context
	out    io.Writer
	logger *slog.Logger
	cfg    config.CLI
}

type command struct {
	summary string
	run     func(e *env, args []string) error
}

var commands = map[string]command{
	"property":   {"evaluate single-phase properties at (P, T)", runProperty},
	"saturation": {"both phases on the saturation line at P or T", runSaturation},
	"info":       {"region envelopes and declared accuracy", runInfo},
	"validate":   {"compare the engine against reference tables", runValidate},
	"bench":      {"concurrent load with bit-level determinism check", runBench},
	"version":    {"print the version", runVersion},
}

func usage(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Usage:")
	_, _ = fmt.Fprintln(out, "  if97 [--log-level LEVEL] <command> [options]")
	_, _ = fmt.Fprintln(out, "\nCommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  %-11s %s\n", name, commands[name].summary)
	}
	_, _ = fmt.Fprintln(out, "\nPressures and temperatures take a unit suffix (10MPa, 200degC); bare")
	_, _ = fmt.Fprintln(out, "numbers are Pa and K. Run 'if97 <command> -h' for command options.")
	_, _ = fmt.Fprintln(out, "\nEnvironment: IF97_LOG_LEVEL, IF97_FIXTURE, NO_COLOR")
}

// RunContext runs the command line argv and returns the exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	cfg, err := config.FromEnv()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "if97:", err)
		return ExitUsage
	}

	fs := flag.NewFlagSet("if97", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(outw)
			return ExitOK
		}
		_, _ = fmt.Fprintln(stderr, "if97:", err)
		usage(stderr)
		return ExitUsage
	}
	if *logLevel != "" {
		lvl, err := config.ParseLevel(*logLevel)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "if97:", err)
			return ExitUsage
		}
		cfg.LogLevel = lvl
	}

	args := fs.Args()
	if len(args) == 0 {
		usage(stderr)
		return ExitUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "if97: unknown command %q\n", args[0])
		usage(stderr)
		return ExitUsage
	}

	e := &env{
		ctx:    ctx,
		out:    outw,
		logger: logging.New(stderr, cfg.LogLevel, cfg.NoColor),
		cfg:    cfg,
	}
	err = cmd.run(e, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	code := exitCode(err)
	if err != nil && !errors.Is(err, errValidationFailed) {
		_, _ = fmt.Fprintln(stderr, strings.TrimPrefix(err.Error(), "if97: "))
	}
	if ferr := outw.Flush(); ferr != nil && code == ExitOK {
		_, _ = fmt.Fprintln(stderr, "if97:", ferr)
		return ExitInternal
	}
	return code
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ue), errors.Is(err, if97.ErrUnknownUnit):
		return ExitUsage
	case if97.IsDomainError(err):
		return ExitDomain
	case errors.Is(err, errValidationFailed):
		return ExitValidation
	default:
		return ExitInternal
	}
}

// newFlagSet returns a subcommand flag set whose usage goes to e.out.
func (e *env) newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.out)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(e.out, "Usage:\n  if97 %s %s\n\nOptions:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// parse wraps flag errors other than -h as usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usagef("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

// engineFlags registers the engine knobs shared by the evaluating commands.
type engineFlags struct {
	satTolerance float64
	method       string
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	def := if97.DefaultConfig()
	fs.Float64Var(&f.satTolerance, "sat-tolerance", def.SaturationTolerance, "saturation-line band half-width in Pa")
	fs.StringVar(&f.method, "method", def.SaturationMethod.String(), "saturation solve: explicit or iterative")
}

func (f *engineFlags) engine(logger *slog.Logger, extra ...if97.Sink) (*if97.Engine, error) {
	if f.satTolerance < 0 {
		return nil, usagef("--sat-tolerance must not be negative")
	}
	method, err := if97.ParseSaturationMethod(f.method)
	if err != nil {
		return nil, usagef("--method: %v", err)
	}

	cfg := if97.DefaultConfig()
	cfg.SaturationTolerance = f.satTolerance
	cfg.SaturationMethod = method
	cfg.Sink = if97.NewMultiSink(append([]if97.Sink{if97.NewLoggerSink(logger)}, extra...)...)
	return if97.New(cfg), nil
}

func parsePressure(s string) (if97.Quantity, error) {
	q, err := if97.ParseQuantity(s, if97.Pascal)
	if err != nil {
		return if97.Quantity{}, usagef("-p: %v", err)
	}
	return q, nil
}

func parseTemperature(s string) (if97.Quantity, error) {
	q, err := if97.ParseQuantity(s, if97.Kelvin)
	if err != nil {
		return if97.Quantity{}, usagef("-t: %v", err)
	}
	return q, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return usagef("--format must be text or json, got %q", format)
	}
}
