package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dusk-indust/logmerge/internal/config"
	"github.com/dusk-indust/logmerge/internal/logdoc"
	"github.com/dusk-indust/logmerge/internal/logio"
	"github.com/dusk-indust/logmerge/internal/merge"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Inputs   stringList
	Output   string
	Pretty   bool
	Verbose  bool
	ServeMCP bool
	MCPAddr  string
	Version  bool
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	var flags cliFlags

	fs := flag.NewFlagSet("logmerge", flag.ContinueOnError)
	fs.Var(&flags.Inputs, "input", "input JSON log file (repeat per file; positional arguments work too)")
	fs.StringVar(&flags.Output, "output", cfg.Output, "output file path for the merged log")
	fs.BoolVar(&flags.Pretty, "pretty", cfg.Pretty, "pretty print the output JSON with indentation")
	fs.BoolVar(&flags.Verbose, "verbose", cfg.Verbose, "enable verbose output")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server on stdio")
	fs.StringVar(&flags.MCPAddr, "mcp-http", "", "run as MCP server on the given HTTP address")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	if flags.ServeMCP || flags.MCPAddr != "" {
		return runMCP(flags)
	}

	inputs := append([]string(flags.Inputs), fs.Args()...)
	return runMerge(flags, inputs)
}

// runMerge is the loader -> engine -> writer path behind the default
// command. Any failure aborts before the output file is touched.
func runMerge(flags cliFlags, inputs []string) error {
	if len(inputs) < 2 {
		return fmt.Errorf("at least 2 input files are required, got %d", len(inputs))
	}
	if flags.Output == "" {
		return fmt.Errorf("an output file is required (use -output)")
	}

	emit := func(merge.Event) {}
	flush := func() {}
	if flags.Verbose {
		fmt.Printf("Merging %d files...\n", len(inputs))

		reporter := merge.NewProgressReporter()
		done := make(chan struct{})
		go func() {
			for ev := range reporter.Subscribe() {
				fmt.Println(merge.FormatEvent(ev))
			}
			close(done)
		}()

		emit = reporter.Emit
		flush = sync.OnceFunc(func() {
			reporter.Close()
			<-done
		})
		defer flush()
	}

	loader := logio.NewLoader(logio.WithObserver(func(path string, err error) {
		if err != nil {
			emit(merge.Event{Source: path, Status: merge.StatusFailed, Message: err.Error()})
			return
		}
		emit(merge.Event{Source: path, Status: merge.StatusReading})
	}))

	docs, err := loader.LoadAll(context.Background(), inputs)
	if err != nil {
		return err
	}

	engineInputs := make([]merge.Input, len(docs))
	for i, doc := range docs {
		engineInputs[i] = merge.Input{Source: inputs[i], Doc: doc}
	}

	engine := merge.NewEngine(merge.WithProgress(emit))
	result, err := engine.Merge(engineInputs)
	if err != nil {
		return err
	}

	writer := logio.NewWriter(logio.WithPretty(flags.Pretty))
	if err := writer.Write(result.Doc, flags.Output); err != nil {
		return err
	}

	flush()

	if flags.Verbose {
		lineage, _ := logdoc.LineageFrom(result.Doc)
		fmt.Printf("Successfully merged %d files into %s\n", len(inputs), flags.Output)
		fmt.Printf("Total data records: %d\n", result.RecordCount)
		fmt.Printf("Base file: %s\n", lineage.BaseFile)
		fmt.Printf("Additional files: %d\n", len(lineage.AdditionalFiles))
		if !result.Sorted {
			fmt.Println("Records kept in concatenation order (timestamps not comparable)")
		}
	} else {
		fmt.Printf("Merged %d files into %s\n", len(inputs), flags.Output)
	}
	return nil
}
