package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"roundtable/internal"
	"roundtable/internal/config"
)

const (
	exitOK      = 0
	exitUsage   = 64
	exitStatic  = 65
	exitNoInput = 66
	exitRuntime = 70
)

type stdPrinter struct {
	out io.Writer
}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(s.out, a...)
}

// cli carries what every subcommand needs
type cli struct {
	cfg    config.Config
	log    *logrus.Logger
	color  *color.Color
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roundtable", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	verbose := fs.Bool("v", false, "log every interpreter phase")
	noColor := fs.Bool("no-color", false, "disable colored diagnostics")
	configPath := fs.String("config", "", "path to a YAML config file")
	maxDepth := fs.Int("max-depth", 0, "maximum call depth")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if *noColor {
		cfg.Color = false
	}
	if *maxDepth > 0 {
		cfg.MaxCallDepth = *maxDepth
	}
	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	c := newCLI(cfg, stdin, stdout, stderr)

	rest := fs.Args()
	if len(rest) == 0 {
		return c.repl()
	}

	switch rest[0] {
	case "check":
		return c.check(rest[1:])
	case "ast":
		return c.dump(rest[1:], internal.DumpTree)
	case "tokens":
		return c.dump(rest[1:], internal.DumpTokens)
	case "help":
		printUsage(stdout)
		return exitOK
	}

	if len(rest) > 1 {
		printUsage(stderr)
		return exitUsage
	}
	return c.runFile(rest[0])
}

func newCLI(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) *cli {
	log := logrus.New()
	log.Out = stderr
	if level, err := cfg.Level(); err == nil {
		log.SetLevel(level)
	}

	col := color.New()
	col.SetOutput(stderr)
	if !cfg.Color {
		col.Disable()
	}

	return &cli{
		cfg:    cfg,
		log:    log,
		color:  col,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

func (c *cli) interpreter(p internal.IPrinter) *internal.Interpreter {
	return internal.NewInterpreter(
		internal.WithPrinter(p),
		internal.WithLogger(c.log),
		internal.WithMaxCallDepth(c.cfg.MaxCallDepth),
	)
}

func (c *cli) runFile(path string) int {
	source, err := readSource(path)
	if err != nil {
		c.color.Println(c.color.Red(err))
		return exitNoInput
	}

	c.log.WithField("file", path).Debug("running script")
	err = c.interpreter(stdPrinter{out: c.stdout}).Run(source)
	return c.report(err)
}

// report prints err and maps it to an exit code
func (c *cli) report(err error) int {
	if err == nil {
		return exitOK
	}

	var staticErr *internal.StaticError
	if errors.As(err, &staticErr) {
		for _, d := range staticErr.Diagnostics() {
			c.color.Println(c.color.Red(d.String()))
		}
		return exitStatic
	}

	var runtimeErr *internal.RuntimeError
	if errors.As(err, &runtimeErr) {
		c.color.Println(c.color.Red(runtimeErr.Error()))
		return exitRuntime
	}

	c.color.Println(c.color.Red(err))
	return exitRuntime
}

func (c *cli) dump(args []string, render func(string, ...internal.Option) (string, error)) int {
	if len(args) != 1 {
		printUsage(c.stderr)
		return exitUsage
	}

	source, err := readSource(args[0])
	if err != nil {
		c.color.Println(c.color.Red(err))
		return exitNoInput
	}

	out, err := render(source, internal.WithLogger(c.log))
	fmt.Fprint(c.stdout, out)
	return c.report(err)
}

func readSource(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: roundtable [flags] [script]")
	fmt.Fprintln(w, "       roundtable [flags] check file...")
	fmt.Fprintln(w, "       roundtable [flags] ast file")
	fmt.Fprintln(w, "       roundtable [flags] tokens file")
	fmt.Fprintln(w, "Without a script an interactive prompt is started.")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -v          log every interpreter phase")
	fmt.Fprintln(w, "  -no-color   disable colored diagnostics")
	fmt.Fprintln(w, "  -config     path to a YAML config file")
	fmt.Fprintln(w, "  -max-depth  maximum call depth")
}
