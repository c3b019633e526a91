// Command tablescope opens a terminal grid over a CSV or JSON file
// (optionally .gz/.bz2/.xz compressed, or a directory of them) and lets
// it be explored with a small SQL-like query language.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/jessevdk/go-flags"

	"github.com/tablescope/tablescope/internal/config"
	"github.com/tablescope/tablescope/internal/tui"
)

type cliOptions struct {
	Config  string `short:"c" long:"config" description:"Path to a YAML settings file" value-name:"path"`
	Compact bool   `long:"compact" description:"Start with compact row rendering"`
	NoAuto  bool   `long:"no-auto-run" description:"Don't auto-execute the default query on load"`
	Version bool   `long:"version" description:"Show this version"`
}

var version = "dev"

func parseOptions(args []string) (*cliOptions, []string) {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options] <path>"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return &opts, rest
}

func main() {
	opts, args := parseOptions(os.Args[1:])
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "tablescope: exactly one file or directory argument is required")
		os.Exit(1)
	}
	path := args[0]

	configPath := opts.Config
	if configPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			configPath = p
		}
	}
	settings := config.Default()
	if configPath != "" {
		settings = config.Load(configPath)
	}
	if opts.Compact {
		settings.CompactByDefault = true
	}
	if opts.NoAuto {
		settings.AutoExecuteOnLoad = false
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Fatalf("tablescope: %v", err)
	}

	app := tui.NewApp(settings)
	if err := app.LoadSource(path, info.IsDir()); err != nil {
		log.Fatalf("tablescope: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("tablescope: initializing terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("tablescope: initializing terminal: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	if err := tui.Run(screen, app); err != nil {
		screen.Fini()
		log.Fatalf("tablescope: %v", err)
	}
}
