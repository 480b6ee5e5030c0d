// Command dlsym-demo resolves malloc, printf and free from the running process at
// runtime and calls them through the resolved addresses.
//
// With no flags it prints
//
//	Hello, World!
//	<dlerror() at that point>
//
// and exits 0. It exits 1 without printing to stdout if the handle cannot be acquired.
package main

import (
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v2"

	"github.com/amikos-tech/pure-dlsym/demo"
	"github.com/amikos-tech/pure-dlsym/dl"
)

func main() {
	app := newApp(os.Stderr)
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp(stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "dlsym-demo"
	app.Usage = "call libc through symbols resolved at runtime"
	app.Description = "Opens the C runtime already loaded into this process, resolves malloc, printf and free by name, " +
		"prints a greeting followed by dlerror(), then allocates and frees a small block.\n\n" +
		"Lookups are checked before anything is called. Use --strict to skip the checks and call " +
		"whatever the lookups returned, so a missing symbol crashes the process."
	app.Writer = stderr
	app.ErrWriter = stderr
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "library", Aliases: []string{"l"}, Usage: "module to open instead of the process image"},
		&cli.BoolFlag{Name: "now", Usage: "resolve every symbol when the module is opened (RTLD_NOW)"},
		&cli.BoolFlag{Name: "strict", Usage: "do not check lookups before calling through them"},
		&cli.IntFlag{Name: "alloc-size", Value: demo.DefaultAllocSize, Usage: "bytes passed to malloc"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log each step to stderr"},
		&cli.BoolFlag{Name: "dump", Usage: "dump the resolved symbol table to stderr"},
	}
	app.Action = func(ctx *cli.Context) error {
		return run(ctx, stderr)
	}
	return app
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func run(ctx *cli.Context, stderr io.Writer) error {
	logger := newLogger(stderr, ctx.Bool("verbose"))

	opts := []demo.Option{
		demo.WithStrict(ctx.Bool("strict")),
		demo.WithAllocSize(ctx.Int("alloc-size")),
		demo.WithLogger(logger),
	}
	if ctx.IsSet("library") {
		opts = append(opts, demo.WithLibraryPath(ctx.String("library")))
	}
	if ctx.Bool("now") {
		opts = append(opts, demo.WithMode(dl.ModeNow))
	}

	report, err := demo.Run(opts...)
	if err != nil {
		level.Error(logger).Log("msg", "demonstration failed", "err", err)
		return err
	}

	if ctx.Bool("dump") {
		spew.Fdump(stderr, report)
	}
	return nil
}
