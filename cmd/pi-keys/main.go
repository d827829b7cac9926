// ABOUTME: CLI entry point for pi-keys, an interactive terminal key inspector
// ABOUTME: Loads settings and bindings, then decodes, matches, lists or inspects live keys

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/mauromedda/pi-keys-go/internal/config"
	"github.com/mauromedda/pi-keys-go/internal/keybindings"
	pilog "github.com/mauromedda/pi-keys-go/internal/log"
	"github.com/mauromedda/pi-keys-go/pkg/tui/key"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	args, err := parseFlags(argv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if args.version {
		fmt.Fprintf(stdout, "pi-keys %s (%s) built %s\n", version, commit, date)
		return 0
	}

	settings, err := config.LoadSettings(config.SettingsFile())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if args.kittySet {
		settings.KittyProtocol = args.kitty
	}
	if args.kittyFlags != 0 {
		settings.KittyFlags = args.kittyFlags
	}

	closeLog, err := setupLogging(args, settings, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	project := args.project
	if project == "" {
		project, _ = os.Getwd()
	}
	mgr := keybindings.New(config.GlobalKeybindingsFile(), config.LocalKeybindingsFile(project))
	reportProblems(mgr)

	switch {
	case args.list:
		return listBindings(mgr, stdout, isTTY(stdout))
	case args.match != "":
		return matchArgs(args, settings.KittyProtocol, mgr, stdout, stderr)
	case len(args.args) > 0:
		return decodeArgs(args, settings.KittyProtocol, mgr, stdout, stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runInteractive(ctx, args, settings, mgr, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func setupLogging(args cliArgs, settings config.Settings, stderr io.Writer) (func(), error) {
	level, err := pilog.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	if args.verbose {
		level = pilog.LevelDebug
	}
	pilog.SetLevel(level)

	if args.logFile == "" {
		pilog.SetOutput(stderr)
		return func() {}, nil
	}
	f, err := os.OpenFile(args.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	pilog.SetOutput(f)
	return func() {
		pilog.SetOutput(stderr)
		_ = f.Close()
	}, nil
}

func reportProblems(mgr *keybindings.Manager) {
	for _, p := range mgr.Validate() {
		pilog.Warn("keybindings: %s", p)
	}
	for _, c := range mgr.Conflicts() {
		pilog.Warn("keybindings: %q is bound to %v", c.Key, c.Actions)
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// listBindings prints the effective bindings, rendered with glamour on a TTY.
func listBindings(mgr *keybindings.Manager, stdout io.Writer, styled bool) int {
	if !styled {
		_, _ = io.WriteString(stdout, mgr.FormatAll())
		return 0
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		_, _ = io.WriteString(stdout, mgr.FormatAll())
		return 0
	}
	out, err := renderer.Render(mgr.FormatMarkdown())
	if err != nil {
		_, _ = io.WriteString(stdout, mgr.FormatAll())
		return 0
	}
	_, _ = io.WriteString(stdout, out)
	return 0
}

// matchArgs checks every argument against the -match spec. The exit code
// is 0 when all of them match, 1 otherwise, 2 on usage errors.
func matchArgs(args cliArgs, kittyActive bool, mgr *keybindings.Manager, stdout, stderr io.Writer) int {
	spec, ok := key.ParseSpec(args.match)
	if !ok {
		fmt.Fprintf(stderr, "error: invalid key spec %q\n", args.match)
		return 2
	}
	if len(args.args) == 0 {
		fmt.Fprintln(stderr, "error: -match needs at least one escaped byte sequence")
		return 2
	}

	p := newPrinter(stdout, args.json, "\n")
	code := 0
	for _, arg := range args.args {
		raw, err := unescape(arg)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		r := decodeReport(raw, kittyActive)
		r.Actions = mgr.ActionsFor(raw, kittyActive)
		r.Spec = spec.String()
		r.Matched = spec.Matches(raw, kittyActive)
		if !r.Matched {
			code = 1
		}
		if err := p.report(r); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	return code
}

// decodeArgs prints a report for each escaped byte sequence argument.
func decodeArgs(args cliArgs, kittyActive bool, mgr *keybindings.Manager, stdout, stderr io.Writer) int {
	p := newPrinter(stdout, args.json, "\n")
	for _, arg := range args.args {
		raw, err := unescape(arg)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		r := decodeReport(raw, kittyActive)
		r.Actions = mgr.ActionsFor(raw, kittyActive)
		if err := p.report(r); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	return 0
}
