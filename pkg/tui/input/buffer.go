// ABOUTME: StdinBuffer frames raw terminal bytes into single key sequences and decodes each one.
// ABOUTME: Handles CSI/SS3/ESC-pair framing, lone-ESC timeout, bracketed paste and Kitty releases.

package input

import (
	"bytes"
	"context"
	"io"
	"time"
	"unicode/utf8"

	"github.com/mauromedda/pi-keys-go/internal/log"
	"github.com/mauromedda/pi-keys-go/pkg/tui/key"
)

const (
	readBufSize  = 256
	escTimeout   = 50 * time.Millisecond
	maxSeqLen    = 64
	bracketStart = "\x1b[200~"
	bracketEnd   = "\x1b[201~"
)

// Event is one framed chunk of terminal input.
type Event struct {
	Raw   []byte
	Name  string // canonical key name; empty when unrecognized
	Paste bool   // Raw is bracketed paste content without the markers

	Kitty    key.Event
	HasKitty bool
}

// Options tune how input is decoded.
type Options struct {
	// KittyProtocol reports that the Kitty keyboard protocol was pushed.
	KittyProtocol bool
	// ReportReleases keeps Kitty key-release events instead of dropping them.
	ReportReleases bool
}

// StdinBuffer reads from a reader and dispatches framed events via onEvent.
// Start must not be called concurrently.
type StdinBuffer struct {
	reader  io.Reader
	opts    Options
	onEvent func(Event)
	buf     []byte
}

// NewStdinBuffer creates a StdinBuffer that reads from r and calls onEvent for each event.
func NewStdinBuffer(r io.Reader, opts Options, onEvent func(Event)) *StdinBuffer {
	return &StdinBuffer{
		reader:  r,
		opts:    opts,
		onEvent: onEvent,
		buf:     make([]byte, 0, readBufSize),
	}
}

// Start reads until ctx is cancelled or the reader fails, then flushes what is buffered.
// It blocks; run it in a goroutine if needed.
func (b *StdinBuffer) Start(ctx context.Context) error {
	readCh := make(chan readResult)
	done := make(chan struct{})

	go b.readLoop(readCh, done)
	defer close(done)

	timer := time.NewTimer(escTimeout)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			b.dispatch(true)
		case result, ok := <-readCh:
			if !ok || result.err != nil {
				b.dispatch(true)
				if !ok || result.err == io.EOF {
					return nil
				}
				return result.err
			}
			timer.Stop()
			b.buf = append(b.buf, result.data...)
			if b.dispatch(false) {
				timer.Reset(escTimeout)
			}
		}
	}
}

type readResult struct {
	data []byte
	err  error
}

// readLoop stops when done is closed so cancellation leaks no goroutine past the next read.
func (b *StdinBuffer) readLoop(ch chan<- readResult, done <-chan struct{}) {
	defer close(ch)
	tmp := make([]byte, readBufSize)
	for {
		n, err := b.reader.Read(tmp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, tmp[:n])
			select {
			case ch <- readResult{data: data}:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case ch <- readResult{err: err}:
			case <-done:
			}
			return
		}
	}
}

// dispatch emits every complete event in the buffer. With force set, an
// incomplete prefix is emitted as-is. It reports whether bytes are left
// waiting for the escape timeout.
func (b *StdinBuffer) dispatch(force bool) bool {
	for len(b.buf) > 0 {
		if content, n, ok := b.paste(); ok {
			b.emitPaste(content)
			b.buf = b.buf[n:]
			continue
		} else if n < 0 && !force {
			return false
		}

		n, wait := Frame(b.buf)
		if wait {
			if !force {
				return true
			}
			n = len(b.buf)
		}
		b.emit(b.buf[:n])
		b.buf = b.buf[n:]
	}
	b.buf = b.buf[:0]
	return false
}

// paste extracts bracketed paste content. A negative n means the start
// marker was seen but the end marker has not arrived yet.
func (b *StdinBuffer) paste() ([]byte, int, bool) {
	if !bytes.HasPrefix(b.buf, []byte(bracketStart)) {
		return nil, 0, false
	}
	body := b.buf[len(bracketStart):]
	end := bytes.Index(body, []byte(bracketEnd))
	if end < 0 {
		return nil, -1, false
	}
	return body[:end], len(bracketStart) + end + len(bracketEnd), true
}

func (b *StdinBuffer) emitPaste(content []byte) {
	raw := make([]byte, len(content))
	copy(raw, content)
	b.onEvent(Event{Raw: raw, Paste: true})
}

func (b *StdinBuffer) emit(seq []byte) {
	raw := make([]byte, len(seq))
	copy(raw, seq)

	ev := Event{Raw: raw}
	ev.Name, _ = key.ParseKey(raw, b.opts.KittyProtocol)
	ev.Kitty, ev.HasKitty = key.ParseKittySequence(raw)

	if ev.HasKitty && ev.Kitty.HasEventType && ev.Kitty.EventType == key.EventRelease && !b.opts.ReportReleases {
		return
	}
	if ev.Name == "" {
		log.Debug("input: unrecognized sequence %q", raw)
	}
	b.onEvent(ev)
}

// Frame returns the length of the first key sequence in buf. wait is true
// when buf holds only a prefix that more bytes could complete.
func Frame(buf []byte) (n int, wait bool) {
	if len(buf) == 0 {
		return 0, true
	}

	if buf[0] != 0x1b {
		return runeLen(buf, 0)
	}
	if len(buf) == 1 {
		return 0, true
	}

	switch buf[1] {
	case '[':
		return frameCSI(buf)
	case 'O':
		if len(buf) < 3 {
			return 0, true
		}
		return 3, false
	case 0x1b:
		return 1, false
	}

	// ESC + key: the Alt prefix form, possibly with a multi-byte rune.
	n, wait = runeLen(buf, 1)
	if wait {
		return 0, true
	}
	return 1 + n, false
}

// frameCSI scans parameter bytes up to the final byte. rxvt's '$' suffix and
// the Linux console's doubled bracket are treated as part of the grammar.
func frameCSI(buf []byte) (int, bool) {
	i := 2
	if i < len(buf) && buf[i] == '[' {
		i++
	}
	for ; i < len(buf); i++ {
		if i >= maxSeqLen {
			return 1, false
		}
		c := buf[i]
		switch {
		case c >= 0x30 && c <= 0x3f:
			continue
		case c == '$', c >= 0x40 && c <= 0x7e:
			return i + 1, false
		default:
			// Malformed; give up on the ESC and let the rest parse on its own.
			return 1, false
		}
	}
	return 0, true
}

func runeLen(buf []byte, at int) (int, bool) {
	rest := buf[at:]
	if rest[0] < utf8.RuneSelf {
		return 1, false
	}
	if !utf8.FullRune(rest) {
		if len(rest) < utf8.UTFMax {
			return 0, true
		}
		return 1, false
	}
	r, size := utf8.DecodeRune(rest)
	if r == utf8.RuneError {
		return 1, false
	}
	return size, false
}
