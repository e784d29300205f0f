// Package main is a headless driver for the inkstone editing engine:
// it reads source markup from a file or stdin, runs a list of editing
// commands through a full editor instance, and prints the synchronized
// source value.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tbraden/inkstone/internal/config"
	"github.com/tbraden/inkstone/internal/dom"
	"github.com/tbraden/inkstone/internal/editor"
	"github.com/tbraden/inkstone/internal/log"
	"github.com/tbraden/inkstone/internal/plugin"
	"github.com/tbraden/inkstone/internal/plugin/lua"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		inputPath   string
		commands    string
		scriptPath  string
		selectStart int
		selectEnd   int
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "path to a YAML or TOML options file")
	flag.StringVar(&inputPath, "in", "-", "input file holding source markup, - for stdin")
	flag.StringVar(&commands, "exec", "", "comma-separated commands to run (e.g. \"selectall,bold\")")
	flag.StringVar(&scriptPath, "script", "", "Lua plugin script to load")
	flag.IntVar(&selectStart, "sel-start", -1, "selection start offset before commands run")
	flag.IntVar(&selectEnd, "sel-end", -1, "selection end offset before commands run")
	flag.BoolVar(&verbose, "v", false, "log to stderr")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("inkstone", version)
		return 0
	}

	opts := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
			return 1
		}
		opts = loaded
	}
	config.ApplyEnv(&opts)

	logger := log.Discard()
	if verbose {
		logger = log.New(log.Config{
			Level:  log.ParseLevel(opts.LogLevel),
			Output: os.Stderr,
		})
	}

	markup, err := readInput(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading input: %v\n", err)
		return 1
	}

	plugins := plugin.NewRegistry()
	if scriptPath != "" {
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading script: %v\n", err)
			return 1
		}
		script, err := lua.NewScript("script", string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := plugins.Register("script", script); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	source := dom.NewMemorySource(markup)
	e, err := editor.New(source,
		editor.WithOptions(opts),
		editor.WithLogger(logger),
		editor.WithPluginRegistry(plugins),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := e.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing editor: %v\n", err)
		return 1
	}
	defer e.Destruct()

	if selectStart >= 0 && selectEnd >= selectStart {
		e.Document().SetSelection(dom.Range{Start: selectStart, End: selectEnd})
	}

	for _, name := range strings.Split(commands, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e.Exec(name, false, nil)
	}

	fmt.Println(source.Value())
	return 0
}

// readInput reads the source markup from a file, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
