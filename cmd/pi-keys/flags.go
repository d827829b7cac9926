// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -kitty, -kitty-flags, -json, -match, -list, -project, -log, -verbose, -version

package main

import (
	"flag"
	"io"
)

type cliArgs struct {
	kitty      bool
	kittySet   bool
	kittyFlags int
	releases   bool
	json       bool
	match      string
	list       bool
	project    string
	logFile    string
	verbose    bool
	version    bool
	args       []string
}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var a cliArgs
	fs := flag.NewFlagSet("pi-keys", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&a.kitty, "kitty", false, "Enable the Kitty keyboard protocol (overrides settings)")
	fs.IntVar(&a.kittyFlags, "kitty-flags", 0, "Kitty progressive enhancement flags (1-31)")
	fs.BoolVar(&a.releases, "releases", false, "Report Kitty key release events")
	fs.BoolVar(&a.json, "json", false, "Print one JSON object per event")
	fs.StringVar(&a.match, "match", "", "Check escaped byte arguments against a key spec and exit")
	fs.BoolVar(&a.list, "list", false, "Print the effective keybindings and exit")
	fs.StringVar(&a.project, "project", "", "Project root for .pi-go/keybindings.yaml (default: cwd)")
	fs.StringVar(&a.logFile, "log", "", "Write logs to this file instead of stderr")
	fs.BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&a.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "kitty" {
			a.kittySet = true
		}
	})
	a.args = fs.Args()
	return a, nil
}
