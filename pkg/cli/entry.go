package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"

	"github.com/typestub/typestub/internal/ast"
	"github.com/typestub/typestub/internal/cache"
	"github.com/typestub/typestub/internal/config"
	"github.com/typestub/typestub/internal/diagnostics"
	"github.com/typestub/typestub/internal/lexer"
	"github.com/typestub/typestub/internal/parser"
	"github.com/typestub/typestub/internal/pipeline"
	"github.com/typestub/typestub/internal/prettyprinter"
	"github.com/typestub/typestub/internal/version"
)

const usage = `Usage: typestub <command> [options] <file...>

Commands:
  parse    parse stub files and print the resolved tree
  watch    re-parse stub files whenever they change
  help     show this message

Options:
  --target <version>   version the conditional resolver targets (e.g. 3.8)
  --dump <tree|code>   output format for parse (default tree)
  --cache              reuse cached parses from the configured cache file
  --config <path>      config file (default typestub.yaml)
`

type options struct {
	target   version.Version
	dump     string
	useCache bool
	cfg      *config.Config
	files    []string
}

// Run is the process entry point. It exits the process on failure.
func Run() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "parse":
		opts := parseArgs(os.Args[2:])
		os.Exit(runParse(opts))
	case "watch":
		opts := parseArgs(os.Args[2:])
		os.Exit(runWatch(opts))
	case "help", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func parseArgs(args []string) *options {
	opts := &options{dump: "tree"}
	configPath := config.ConfigFileName
	targetArg := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--target":
			if i+1 >= len(args) {
				fatalf("--target needs a value")
			}
			i++
			targetArg = args[i]
		case "--dump":
			if i+1 >= len(args) {
				fatalf("--dump needs a value")
			}
			i++
			opts.dump = args[i]
		case "--cache":
			opts.useCache = true
		case "--config":
			if i+1 >= len(args) {
				fatalf("--config needs a value")
			}
			i++
			configPath = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				fatalf("unknown option %q", args[i])
			}
			opts.files = append(opts.files, args[i])
		}
	}

	if opts.dump != "tree" && opts.dump != "code" {
		fatalf("--dump must be tree or code, got %q", opts.dump)
	}
	if len(opts.files) == 0 {
		fatalf("no input files")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatalf("%v", err)
	}
	opts.cfg = cfg

	target, err := cfg.Target()
	if err != nil {
		fatalf("%v", err)
	}
	if targetArg != "" {
		target, err = version.Parse(targetArg)
		if err != nil {
			fatalf("invalid --target %q: %v", targetArg, err)
		}
	}
	opts.target = target

	for _, file := range opts.files {
		if !cfg.IsSourceFile(file) {
			fmt.Fprintf(os.Stderr, "Warning: %q does not have a recognized stub extension\n", file)
		}
	}
	return opts
}

func runParse(opts *options) int {
	var store *cache.Cache
	if opts.useCache || opts.cfg.Cache.Enabled {
		var err error
		store, err = cache.Open(opts.cfg.Cache.Path)
		if err != nil {
			fatalf("%v", err)
		}
		defer store.Close()
	}

	exitCode := 0
	for _, file := range opts.files {
		if !parseOne(file, opts, store) {
			exitCode = 1
		}
	}
	return exitCode
}

// parseOne parses a single file and prints its dump, reporting whether
// the parse succeeded.
func parseOne(path string, opts *options, store *cache.Cache) bool {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return false
	}

	var unit *ast.Unit
	if store != nil {
		unit, err = store.Get(string(sourceCode), opts.target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}

	if unit == nil {
		ctx := pipeline.NewPipelineContext(string(sourceCode), opts.target)
		ctx.FilePath = path

		processingPipeline := pipeline.New(
			&lexer.LexerProcessor{},
			&parser.ParserProcessor{},
		)
		finalContext := processingPipeline.Run(ctx)
		if finalContext.Failed() {
			for _, e := range finalContext.Errors {
				printDiagnostic(e)
			}
			return false
		}
		unit = finalContext.AstRoot.(*ast.Unit)

		if store != nil {
			if err := store.Put(string(sourceCode), opts.target, unit); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}

	switch opts.dump {
	case "code":
		fmt.Print(prettyprinter.NewCodePrinter().Print(unit))
	default:
		fmt.Print(prettyprinter.NewTreePrinter().Print(unit))
	}
	return true
}

// runWatch parses every file once, then re-parses on each write event.
func runWatch(opts *options) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fatalf("%v", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, file := range opts.files {
		abs, err := filepath.Abs(file)
		if err != nil {
			abs = file
		}
		watched[abs] = true
		// Watch the directory: editors replace files on save, which drops
		// a direct file watch.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			fatalf("watching %s: %v", file, err)
		}
		parseOne(file, opts, nil)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				abs = event.Name
			}
			if watched[abs] {
				fmt.Printf("--- %s\n", event.Name)
				parseOne(event.Name, opts, nil)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// printDiagnostic writes one located error, colored when stderr is a
// terminal.
func printDiagnostic(err *diagnostics.DiagnosticError) {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", err.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", err.Error())
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
