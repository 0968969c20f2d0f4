// Stone End is a grid-based text adventure engine driven by level files.
// Usage: stoneend [--version] [--plain] [--script <file>] [--trace] [--debug] <level>
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nathoo/stoneend/cli"
	"github.com/nathoo/stoneend/config"
	"github.com/nathoo/stoneend/engine"
	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/loader"
	"github.com/nathoo/stoneend/logger"
	"github.com/nathoo/stoneend/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: stoneend [--version] [--plain] [--script <file>] [--trace] [--debug] <level directory, .lua or .yml file>"

func main() {
	plain := false
	trace := false
	debug := false
	var levelPath string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("stoneend %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--debug":
			debug = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if levelPath == "" {
				levelPath = args[i]
			}
		}
	}

	if levelPath == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	w, err := loader.Load(levelPath)
	if err != nil {
		logger.WithError(log, err).Error("level failed to load", "level", levelPath)
		var ve *world.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(os.Stderr, "Level %s has %d error(s):\n", levelPath, len(ve.Errors))
			for _, msg := range ve.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", msg)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error loading level: %v\n", err)
		}
		os.Exit(1)
	}

	eng := engine.New(w,
		engine.WithLayout(cfg.LineWidth, cfg.Indent),
		engine.WithDebug(debug || cfg.Debug),
		engine.WithLogger(log),
	)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		runPlain(eng, f, true, trace)
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		runPlain(eng, os.Stdin, false, trace)
		return
	}

	if err := tui.Run(eng, tui.Options{Trace: trace}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runPlain(eng *engine.Engine, in io.Reader, echo, trace bool) {
	if title := header(eng.World); title != "" {
		fmt.Printf("%s\n\n", title)
	}
	c := cli.New(eng)
	c.In = in
	c.EchoInput = echo
	c.Trace = trace
	c.Run()
}

// header renders "Title v1.0 by Author" for the plain front end.
func header(w *world.World) string {
	out := w.Title
	if w.Version != "" {
		out += " v" + w.Version
	}
	if w.Author != "" {
		out += " by " + w.Author
	}
	return out
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
