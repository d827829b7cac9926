// ABOUTME: SIGWINCH forwarding for ProcessTerminal on unix systems.
// ABOUTME: One listener per terminal; it is torn down when the callback is cleared.

//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mauromedda/pi-keys-go/internal/log"
)

func (t *ProcessTerminal) startResizeListener() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.winch != nil {
		return
	}
	t.winch = make(chan os.Signal, 1)
	signal.Notify(t.winch, syscall.SIGWINCH)
	go t.forwardResize(t.winch)
}

func (t *ProcessTerminal) stopResizeListener() {
	t.mu.Lock()
	ch := t.winch
	t.winch = nil
	t.mu.Unlock()

	if ch != nil {
		signal.Stop(ch)
		close(ch)
	}
}

func (t *ProcessTerminal) forwardResize(ch <-chan os.Signal) {
	defer RecoverGoroutine(t)
	for range ch {
		t.mu.Lock()
		fn := t.resizeFn
		t.mu.Unlock()
		if fn == nil {
			continue
		}
		w, h, err := t.Size()
		if err != nil {
			log.Debug("terminal: resize: %v", err)
			continue
		}
		fn(w, h)
	}
}
