// ABOUTME: Live key inspection loop: frames terminal input and prints one report per key
// ABOUTME: Runs the input reader and binding hot-reload concurrently under an errgroup

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/pi-keys-go/internal/config"
	"github.com/mauromedda/pi-keys-go/internal/keybindings"
	pilog "github.com/mauromedda/pi-keys-go/internal/log"
	"github.com/mauromedda/pi-keys-go/pkg/tui/input"
	"github.com/mauromedda/pi-keys-go/pkg/tui/key"
	"github.com/mauromedda/pi-keys-go/pkg/tui/terminal"
)

const watchInterval = time.Second

type inspectOptions struct {
	input input.Options
	// watch is the binding reload poll interval; zero disables it.
	watch time.Duration
}

// inspect prints a report for every key read from r until ctrl+c, EOF or
// ctx cancellation.
func inspect(ctx context.Context, r io.Reader, p printer, mgr *keybindings.Manager, opts inspectOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	kitty := opts.input.KittyProtocol
	buf := input.NewStdinBuffer(r, opts.input, func(ev input.Event) {
		var actions []config.KeyAction
		if !ev.Paste {
			actions = mgr.ActionsFor(ev.Raw, kitty)
		}
		if err := p.report(newReport(ev, actions)); err != nil {
			pilog.Warn("inspector: %v", err)
		}
		if !ev.Paste && key.MatchesKey(ev.Raw, "ctrl+c", kitty) {
			cancel()
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		err := buf.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if opts.watch > 0 {
		g.Go(func() error {
			return mgr.Watch(gctx, opts.watch, func(err error) {
				if err != nil {
					_ = p.notice("keybindings reload failed: %v", err)
					return
				}
				_ = p.notice("keybindings reloaded")
			})
		})
	}
	return g.Wait()
}

func runInteractive(ctx context.Context, args cliArgs, settings config.Settings, mgr *keybindings.Manager, stdout io.Writer) error {
	opts := inspectOptions{
		input: input.Options{ReportReleases: args.releases},
		watch: watchInterval,
	}

	pt := terminal.NewProcessTerminal()
	if !pt.IsTerminal() {
		// Piped input: no modes to negotiate, decode as configured.
		opts.input.KittyProtocol = settings.KittyProtocol
		return inspect(ctx, os.Stdin, newPrinter(stdout, args.json, "\n"), mgr, opts)
	}

	flags := terminal.KittyFlags(settings.KittyFlags)
	if args.releases {
		flags |= terminal.KittyReportEvents
	}
	sess, err := terminal.Open(pt, terminal.Modes{
		Kitty:           settings.KittyProtocol,
		KittyFlags:      flags,
		ModifyOtherKeys: !settings.KittyProtocol,
		BracketedPaste:  true,
	})
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer sess.Close()
	defer terminal.RestoreOnPanic(pt)

	opts.input.KittyProtocol = sess.KittyActive()
	p := newPrinter(pt, args.json, "\r\n")
	mode := "legacy + modifyOtherKeys"
	if sess.KittyActive() {
		mode = "kitty"
	}
	pt.OnResize(func(w, h int) {
		_ = p.notice("resized to %dx%d", w, h)
	})
	defer pt.OnResize(nil)

	_ = p.notice("pi-keys %s: press keys to inspect them, ctrl+c quits (%s)", version, mode)

	return inspect(ctx, pt, p, mgr, opts)
}
