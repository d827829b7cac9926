// ABOUTME: Keybindings manager resolving raw terminal input to editor actions
// ABOUTME: Merges global and local configs, detects conflicts, validates specs, supports hot-reload

package keybindings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/pi-keys-go/internal/config"
	"github.com/mauromedda/pi-keys-go/internal/log"
	"github.com/mauromedda/pi-keys-go/pkg/tui/key"
	"github.com/mauromedda/pi-keys-go/pkg/tui/width"
)

// ConflictInfo describes a binding conflict where multiple actions share a key.
type ConflictInfo struct {
	Key     string
	Actions []config.KeyAction
}

// Problem is a binding that can never match.
type Problem struct {
	Action     config.KeyAction
	Key        string
	Suggestion string // closest known key name, if any
}

func (p Problem) String() string {
	if p.Suggestion != "" {
		return fmt.Sprintf("%s: %q is not a key (did you mean %q?)", p.Action, p.Key, p.Suggestion)
	}
	return fmt.Sprintf("%s: %q is not a key", p.Action, p.Key)
}

type boundSpec struct {
	raw  string
	spec key.Spec
	ok   bool
}

// Manager resolves raw input bytes to actions using merged keybindings.
// It is safe for concurrent use.
type Manager struct {
	globalPath string
	localPath  string

	mu       sync.RWMutex
	bindings *config.Keybindings
	specs    map[config.KeyAction][]boundSpec
}

// New creates a Manager from global and local keybinding files.
// Local bindings override global ones. Missing files are ignored; invalid
// files are logged and skipped.
func New(globalPath, localPath string) *Manager {
	m := &Manager{globalPath: globalPath, localPath: localPath}
	kb, err := load(globalPath, localPath)
	if err != nil {
		log.Warn("keybindings: %v", err)
	}
	m.set(kb)
	return m
}

// NewFromBindings creates a Manager from an existing Keybindings instance.
func NewFromBindings(kb *config.Keybindings) *Manager {
	m := &Manager{}
	m.set(kb)
	return m
}

// load merges the defaults with each file that exists. Files that fail to
// parse are skipped and reported in the joined error.
func load(paths ...string) (*config.Keybindings, error) {
	kb := config.NewKeybindings()
	var errs []error
	for _, path := range paths {
		if path == "" {
			continue
		}
		overrides, err := config.ReadBindingsFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		kb.Apply(overrides)
	}
	return kb, errors.Join(errs...)
}

func (m *Manager) set(kb *config.Keybindings) {
	specs := make(map[config.KeyAction][]boundSpec, len(kb.Bindings))
	for action, keys := range kb.Bindings {
		bound := make([]boundSpec, 0, len(keys))
		for _, k := range keys {
			s, ok := key.ParseSpec(k)
			if !ok {
				log.Warn("keybindings: %s: cannot parse %q", action, k)
			}
			bound = append(bound, boundSpec{raw: k, spec: s, ok: ok})
		}
		specs[action] = bound
	}

	m.mu.Lock()
	m.bindings = kb
	m.specs = specs
	m.mu.Unlock()
}

// ActionFor returns the first action, in declaration order, whose bindings
// match data, or "" if none does.
func (m *Manager) ActionFor(data []byte, kittyActive bool) config.KeyAction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, action := range config.Actions() {
		if m.matchesLocked(action, data, kittyActive) {
			return action
		}
	}
	return ""
}

// ActionsFor returns every action whose bindings match data, in declaration order.
func (m *Manager) ActionsFor(data []byte, kittyActive bool) []config.KeyAction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []config.KeyAction
	for _, action := range config.Actions() {
		if m.matchesLocked(action, data, kittyActive) {
			out = append(out, action)
		}
	}
	return out
}

func (m *Manager) matchesLocked(action config.KeyAction, data []byte, kittyActive bool) bool {
	for _, b := range m.specs[action] {
		if b.ok && b.spec.Matches(data, kittyActive) {
			return true
		}
	}
	return false
}

// Bindings returns the key specs bound to action.
func (m *Manager) Bindings(action config.KeyAction) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.bindings.GetBindings(action))
}

// Conflicts detects keys bound to multiple actions. Specs are compared in
// canonical form, so "ctrl+shift+p" and "Shift+Control+P" collide.
func (m *Manager) Conflicts() []ConflictInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keyActions := make(map[string][]config.KeyAction)
	for _, action := range config.Actions() {
		for _, b := range m.specs[action] {
			if !b.ok {
				continue
			}
			canon := b.spec.String()
			if !slices.Contains(keyActions[canon], action) {
				keyActions[canon] = append(keyActions[canon], action)
			}
		}
	}

	var conflicts []ConflictInfo
	for k, actions := range keyActions {
		if len(actions) > 1 {
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	slices.SortFunc(conflicts, func(a, b ConflictInfo) int { return strings.Compare(a.Key, b.Key) })
	return conflicts
}

// Validate reports bindings that cannot parse or name no known key, with a
// fuzzy suggestion when a known key name is close.
func (m *Manager) Validate() []Problem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	known := key.KnownKeys()
	var problems []Problem
	for _, action := range config.Actions() {
		for _, b := range m.specs[action] {
			if b.ok && b.spec.Known() {
				continue
			}
			p := Problem{Action: action, Key: b.raw}
			if b.ok {
				if matches := fuzzy.Find(b.spec.Key, known); len(matches) > 0 {
					p.Suggestion = matches[0].Str
				}
			}
			problems = append(problems, p)
		}
	}
	return problems
}

// Reload re-reads the keybinding files. On error the bindings that did
// load are still applied.
func (m *Manager) Reload() error {
	kb, err := load(m.globalPath, m.localPath)
	m.set(kb)
	log.Debug("keybindings: reloaded from %q and %q", m.globalPath, m.localPath)
	if err != nil {
		return fmt.Errorf("reloading keybindings: %w", err)
	}
	return nil
}

// Watch reloads whenever a keybinding file changes, until ctx is done.
// onReload, if non-nil, runs after every reload.
func (m *Manager) Watch(ctx context.Context, interval time.Duration, onReload func(error)) error {
	var paths []string
	for _, p := range []string{m.globalPath, m.localPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		<-ctx.Done()
		return nil
	}

	w := config.NewWatcher(paths, func() {
		err := m.Reload()
		if err != nil {
			log.Warn("keybindings: %v", err)
		}
		if onReload != nil {
			onReload(err)
		}
	})
	w.SetInterval(interval)
	return w.Run(ctx)
}

var categories = []struct {
	name    string
	actions []config.KeyAction
}{
	{"Navigation", []config.KeyAction{
		config.ActionCursorUp, config.ActionCursorDown,
		config.ActionCursorLeft, config.ActionCursorRight,
		config.ActionWordLeft, config.ActionWordRight,
		config.ActionHome, config.ActionEnd,
		config.ActionPageUp, config.ActionPageDown,
	}},
	{"Editing", []config.KeyAction{
		config.ActionDeleteBack, config.ActionDeleteForward,
		config.ActionDeleteWordLeft, config.ActionDeleteLine,
		config.ActionPaste, config.ActionNewLine,
	}},
	{"History", []config.KeyAction{
		config.ActionHistoryUp, config.ActionHistoryDown,
	}},
	{"Mode & Control", []config.KeyAction{
		config.ActionAccept, config.ActionCancel, config.ActionInterrupt,
		config.ActionToggleMode, config.ActionReload, config.ActionCycleModel,
		config.ActionToggleThinking, config.ActionToggleVim,
	}},
}

// FormatAll returns a table of all keybindings grouped by category. The
// key column is padded by display width, so wide characters stay aligned.
func (m *Manager) FormatAll() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col := 0
	for _, keys := range m.bindings.Bindings {
		col = max(col, width.VisibleWidth(strings.Join(keys, ", ")))
	}

	var b strings.Builder
	b.WriteString("Keybindings:\n\n")
	for _, cat := range categories {
		fmt.Fprintf(&b, "## %s\n", cat.name)
		for _, action := range cat.actions {
			keys := m.bindings.GetBindings(action)
			if len(keys) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s  %s\n", width.PadRight(strings.Join(keys, ", "), col), action)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMarkdown returns the bindings as one markdown table per category.
func (m *Manager) FormatMarkdown() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	b.WriteString("# Keybindings\n")
	for _, cat := range categories {
		fmt.Fprintf(&b, "\n## %s\n\n| Keys | Action |\n|---|---|\n", cat.name)
		for _, action := range cat.actions {
			keys := m.bindings.GetBindings(action)
			if len(keys) == 0 {
				continue
			}
			cells := make([]string, len(keys))
			for i, k := range keys {
				cells[i] = "`" + strings.ReplaceAll(k, "|", `\|`) + "`"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", strings.Join(cells, ", "), action)
		}
	}
	return b.String()
}
