package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	safeen "github.com/behemehal/SafeEn"
)

const usage = `usage: sfn [global flags] <command> [flags] args...

commands:
  dump FILE                 print tables, schemas and rows
  export FILE               write FILE as msgpack or JSON to stdout
  import SRC DST            build DST from an exported snapshot
  convert SRC DST           rewrite SRC in another format

global flags:
`

type config struct {
	Verbose bool
	Bolt    string
	Bucket  string
}

func (c *config) Register(f *flag.FlagSet) {
	f.BoolVarP(&c.Verbose, "verbose", "v", false, "Log per-table progress")
	f.StringVar(&c.Bolt, "bolt", "", "Read and write database images inside this Bolt file instead of plain files")
	f.StringVar(&c.Bucket, "bucket", "safeen", "Bolt bucket holding database images")
}

type app struct {
	config
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
	st     safeen.Storage
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "** %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout}
	gf := flag.NewFlagSet("sfn", flag.ContinueOnError)
	gf.SetOutput(stderr)
	gf.SetInterspersed(false)
	gf.Usage = func() {
		fmt.Fprint(stderr, usage)
		gf.PrintDefaults()
	}
	a.Register(gf)
	if err := gf.Parse(args); err != nil {
		return err
	}
	if gf.NArg() == 0 {
		gf.Usage()
		return flag.ErrHelp
	}

	level := slog.LevelInfo
	if a.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if a.Bolt != "" {
		bst, err := safeen.OpenBoltStorage(a.Bolt, a.Bucket)
		if err != nil {
			return err
		}
		defer bst.Close()
		a.st = bst
	} else {
		a.st = safeen.FileStorage{}
	}

	cmd, rest := gf.Arg(0), gf.Args()[1:]
	switch cmd {
	case "dump":
		return a.dump(rest, stderr)
	case "export":
		return a.export(rest, stderr)
	case "import":
		return a.importCmd(rest, stderr)
	case "convert":
		return a.convert(rest, stderr)
	default:
		gf.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) opts(extra ...safeen.Option) []safeen.Option {
	return append([]safeen.Option{safeen.WithLogger(a.logger), safeen.WithVerbose(a.Verbose)}, extra...)
}

func subFlags(name, args string, stderr io.Writer) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(stderr)
	f.Usage = func() {
		fmt.Fprintf(stderr, "usage: sfn %s [flags] %s\n", name, args)
		f.PrintDefaults()
	}
	return f
}

func parseArgs(f *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	if f.NArg() != n {
		f.Usage()
		return nil, fmt.Errorf("expected %d arguments, got %d", n, f.NArg())
	}
	return f.Args(), nil
}

func (a *app) dump(args []string, stderr io.Writer) error {
	f := subFlags("dump", "FILE", stderr)
	rows := f.BoolP("rows", "r", false, "Print rows")
	stats := f.BoolP("stats", "s", false, "Print size statistics")
	pos, err := parseArgs(f, args, 1)
	if err != nil {
		return err
	}

	db, err := safeen.LoadFrom(a.st, pos[0], a.opts()...)
	if err != nil {
		return err
	}
	flags := safeen.DumpTableHeaders | safeen.DumpSchema
	if *rows {
		flags |= safeen.DumpRows
	}
	if *stats {
		flags |= safeen.DumpStats
	}
	_, err = io.WriteString(a.stdout, db.Dump(flags))
	if err == nil && *stats {
		s := db.Stats()
		_, err = fmt.Fprintf(a.stdout, "total: tables = %d, rows = %d, encoded_size = %d\n", s.Tables, s.Rows, s.EncodedSize)
	}
	return err
}

func (a *app) export(args []string, stderr io.Writer) error {
	f := subFlags("export", "FILE", stderr)
	format := f.StringP("format", "f", "json", "Snapshot encoding: msgpack or json")
	pos, err := parseArgs(f, args, 1)
	if err != nil {
		return err
	}
	enc, err := safeen.ParseEncodingMethod(*format)
	if err != nil {
		return err
	}

	db, err := safeen.LoadFrom(a.st, pos[0], a.opts()...)
	if err != nil {
		return err
	}
	return db.Export(a.stdout, enc)
}

type writeFlags struct {
	legacy   bool
	compress bool
}

func (w *writeFlags) Register(f *flag.FlagSet) {
	f.BoolVar(&w.legacy, "legacy", false, "Write the legacy format (single-level arrays only)")
	f.BoolVarP(&w.compress, "compress", "z", false, "Compress the body with Snappy")
}

func (w *writeFlags) options() ([]safeen.Option, error) {
	if w.legacy && w.compress {
		return nil, errors.New("--legacy and --compress are mutually exclusive")
	}
	var opts []safeen.Option
	if w.legacy {
		opts = append(opts, safeen.WithFormat(safeen.FormatLegacy))
	}
	if w.compress {
		opts = append(opts, safeen.WithCompression(safeen.SnappyCompression))
	}
	return opts, nil
}

func (a *app) importCmd(args []string, stderr io.Writer) error {
	f := subFlags("import", "SRC DST", stderr)
	format := f.StringP("format", "f", "json", "Snapshot encoding: msgpack or json")
	var wf writeFlags
	wf.Register(f)
	pos, err := parseArgs(f, args, 2)
	if err != nil {
		return err
	}
	enc, err := safeen.ParseEncodingMethod(*format)
	if err != nil {
		return err
	}
	wopts, err := wf.options()
	if err != nil {
		return err
	}

	var r io.Reader = a.stdin
	if pos[0] != "-" {
		file, err := os.Open(pos[0])
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}
	db, err := safeen.Import(r, enc, a.opts()...)
	if err != nil {
		return fmt.Errorf("%s: %w", pos[0], err)
	}
	if err := db.SaveTo(a.st, pos[1], a.opts(wopts...)...); err != nil {
		return err
	}
	a.logger.Info("imported", "src", pos[0], "dst", pos[1], "tables", db.TableCount())
	return nil
}

func (a *app) convert(args []string, stderr io.Writer) error {
	f := subFlags("convert", "SRC DST", stderr)
	var wf writeFlags
	wf.Register(f)
	pos, err := parseArgs(f, args, 2)
	if err != nil {
		return err
	}
	wopts, err := wf.options()
	if err != nil {
		return err
	}

	db, err := safeen.LoadFrom(a.st, pos[0], a.opts()...)
	if err != nil {
		return err
	}
	if err := db.SaveTo(a.st, pos[1], a.opts(wopts...)...); err != nil {
		return err
	}
	a.logger.Info("converted", "src", pos[0], "dst", pos[1])
	return nil
}
