// ABOUTME: Windows has no SIGWINCH; ProcessTerminal never reports resizes there.

//go:build windows

package terminal

func (t *ProcessTerminal) startResizeListener() {}

func (t *ProcessTerminal) stopResizeListener() {}
