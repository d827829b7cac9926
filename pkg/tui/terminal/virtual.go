// ABOUTME: VirtualTerminal implements Terminal for tests: scripted key input, captured output.
// ABOUTME: It follows the keyboard mode requests it receives the way a Kitty-capable terminal would.

package terminal

import (
	"bytes"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// VirtualTerminal is a fake Terminal for unit tests. Bytes passed to Feed
// come back from Read. Written output is recorded and scanned for Kitty
// push/pop, modifyOtherKeys and bracketed paste requests.
type VirtualTerminal struct {
	inR *io.PipeReader
	inW *io.PipeWriter

	mu       sync.Mutex
	out      bytes.Buffer
	width    int
	height   int
	resizeFn func(width, height int)

	raw        bool
	enterCount int
	exitCount  int

	kittyStack []KittyFlags
	mok        bool
	paste      bool
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions.
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	r, w := io.Pipe()
	return &VirtualTerminal{inR: r, inW: w, width: width, height: height}
}

func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw = true
	v.enterCount++
	return nil
}

func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw = false
	v.exitCount++
	return nil
}

func (v *VirtualTerminal) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height, nil
}

// Read returns bytes passed to Feed, then io.EOF after CloseInput.
func (v *VirtualTerminal) Read(p []byte) (int, error) {
	return v.inR.Read(p)
}

// Write records p and applies any keyboard mode requests in it. Requests
// are expected to arrive whole within a single write.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.out.Write(p)
	v.track(string(p))
	return len(p), nil
}

func (v *VirtualTerminal) OnResize(fn func(width, height int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resizeFn = fn
}

func (v *VirtualTerminal) track(s string) {
	for {
		i := strings.Index(s, "\x1b[")
		if i < 0 {
			return
		}
		s = s[i+2:]

		switch {
		case strings.HasPrefix(s, "?2004h"):
			v.paste = true
		case strings.HasPrefix(s, "?2004l"):
			v.paste = false
		case strings.HasPrefix(s, ">4;") && len(s) >= 5 && s[4] == 'm':
			v.mok = s[3] != '0'
		case strings.HasPrefix(s, ">"), strings.HasPrefix(s, "<"):
			n, ok := kittyStackParam(s[1:])
			if !ok {
				continue
			}
			if s[0] == '>' {
				v.kittyStack = append(v.kittyStack, KittyFlags(n))
				continue
			}
			pop := max(n, 1)
			v.kittyStack = v.kittyStack[:max(len(v.kittyStack)-pop, 0)]
		}
	}
}

// kittyStackParam reads the optional number of a `CSI > n u` or `CSI < n u`.
func kittyStackParam(s string) (int, bool) {
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 || s[end] != 'u' {
		return 0, false
	}
	if end == 0 {
		return 0, true
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// --- Test helpers (not part of Terminal interface) ---

// Feed delivers data as key input. It blocks until a reader consumes it.
func (v *VirtualTerminal) Feed(data []byte) error {
	_, err := v.inW.Write(data)
	return err
}

// CloseInput ends the input stream.
func (v *VirtualTerminal) CloseInput() error {
	return v.inW.Close()
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.out.String()
}

// ClearOutput discards recorded output; mode state is kept.
func (v *VirtualTerminal) ClearOutput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.out.Reset()
}

func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw
}

func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enterCount
}

func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exitCount
}

// KittyStack returns the pushed Kitty flag entries, oldest first.
func (v *VirtualTerminal) KittyStack() []KittyFlags {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.kittyStack)
}

// ModifyOtherKeys reports whether modifyOtherKeys is enabled.
func (v *VirtualTerminal) ModifyOtherKeys() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mok
}

// BracketedPaste reports whether bracketed paste is enabled.
func (v *VirtualTerminal) BracketedPaste() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paste
}

// SetSize changes the dimensions and calls the resize callback, if any.
func (v *VirtualTerminal) SetSize(width, height int) {
	v.mu.Lock()
	v.width, v.height = width, height
	fn := v.resizeFn
	v.mu.Unlock()

	if fn != nil {
		fn(width, height)
	}
}
