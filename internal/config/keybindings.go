// ABOUTME: Keybindings model and YAML loader mapping editor actions to key specs
// ABOUTME: Files override defaults per action; unknown actions are rejected with ErrUnknownAction

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAction is returned when a bindings file names an action that does not exist.
var ErrUnknownAction = errors.New("unknown action")

// KeyAction represents an action that can be bound to keys.
type KeyAction string

const (
	ActionCursorUp       KeyAction = "cursorUp"
	ActionCursorDown     KeyAction = "cursorDown"
	ActionCursorLeft     KeyAction = "cursorLeft"
	ActionCursorRight    KeyAction = "cursorRight"
	ActionWordLeft       KeyAction = "wordLeft"
	ActionWordRight      KeyAction = "wordRight"
	ActionDeleteBack     KeyAction = "deleteBack"
	ActionDeleteForward  KeyAction = "deleteForward"
	ActionDeleteWordLeft KeyAction = "deleteWordLeft"
	ActionDeleteLine     KeyAction = "deleteLine"
	ActionPaste          KeyAction = "paste"
	ActionAccept         KeyAction = "accept"
	ActionCancel         KeyAction = "cancel"
	ActionInterrupt      KeyAction = "interrupt"
	ActionHistoryUp      KeyAction = "historyUp"
	ActionHistoryDown    KeyAction = "historyDown"
	ActionToggleMode     KeyAction = "toggleMode"
	ActionNewLine        KeyAction = "newLine"
	ActionPageUp         KeyAction = "pageUp"
	ActionPageDown       KeyAction = "pageDown"
	ActionHome           KeyAction = "home"
	ActionEnd            KeyAction = "end"
	ActionToggleThinking KeyAction = "toggleThinking"
	ActionCycleModel     KeyAction = "cycleModel"
	ActionToggleVim      KeyAction = "toggleVim"
	ActionReload         KeyAction = "reload"
)

// actionOrder is the declaration order; it decides ties when one key
// matches the bindings of several actions.
var actionOrder = []KeyAction{
	ActionCursorUp,
	ActionCursorDown,
	ActionCursorLeft,
	ActionCursorRight,
	ActionWordLeft,
	ActionWordRight,
	ActionDeleteBack,
	ActionDeleteForward,
	ActionDeleteWordLeft,
	ActionDeleteLine,
	ActionPaste,
	ActionAccept,
	ActionCancel,
	ActionInterrupt,
	ActionHistoryUp,
	ActionHistoryDown,
	ActionToggleMode,
	ActionNewLine,
	ActionPageUp,
	ActionPageDown,
	ActionHome,
	ActionEnd,
	ActionToggleThinking,
	ActionCycleModel,
	ActionToggleVim,
	ActionReload,
}

// Actions returns every known action in declaration order.
func Actions() []KeyAction {
	return slices.Clone(actionOrder)
}

// IsKnownAction reports whether a is a declared action.
func IsKnownAction(a KeyAction) bool {
	return slices.Contains(actionOrder, a)
}

// Keybindings represents the keybindings configuration.
type Keybindings struct {
	Bindings map[KeyAction][]string
}

// NewKeybindings creates a new Keybindings with default bindings.
func NewKeybindings() *Keybindings {
	kb := &Keybindings{
		Bindings: make(map[KeyAction][]string, len(actionOrder)),
	}
	kb.setDefaultBindings()
	return kb
}

func (kb *Keybindings) setDefaultBindings() {
	kb.Bindings[ActionCursorUp] = []string{"up"}
	kb.Bindings[ActionCursorDown] = []string{"down"}
	kb.Bindings[ActionCursorLeft] = []string{"left", "ctrl+b"}
	kb.Bindings[ActionCursorRight] = []string{"right", "ctrl+f"}
	kb.Bindings[ActionWordLeft] = []string{"alt+left", "ctrl+left"}
	kb.Bindings[ActionWordRight] = []string{"alt+right", "ctrl+right"}
	kb.Bindings[ActionDeleteBack] = []string{"backspace"}
	kb.Bindings[ActionDeleteForward] = []string{"delete", "ctrl+d"}
	kb.Bindings[ActionDeleteWordLeft] = []string{"ctrl+w", "alt+backspace"}
	kb.Bindings[ActionDeleteLine] = []string{"ctrl+u"}
	kb.Bindings[ActionPaste] = []string{"ctrl+v"}
	kb.Bindings[ActionAccept] = []string{"enter"}
	kb.Bindings[ActionCancel] = []string{"escape"}
	kb.Bindings[ActionInterrupt] = []string{"ctrl+c"}
	kb.Bindings[ActionHistoryUp] = []string{"ctrl+p"}
	kb.Bindings[ActionHistoryDown] = []string{"ctrl+n"}
	kb.Bindings[ActionToggleMode] = []string{"shift+tab"}
	kb.Bindings[ActionNewLine] = []string{"shift+enter", "alt+enter"}
	kb.Bindings[ActionPageUp] = []string{"pgup"}
	kb.Bindings[ActionPageDown] = []string{"pgdown"}
	kb.Bindings[ActionHome] = []string{"home", "ctrl+a"}
	kb.Bindings[ActionEnd] = []string{"end", "ctrl+e"}
	kb.Bindings[ActionToggleThinking] = []string{"alt+t"}
	kb.Bindings[ActionCycleModel] = []string{"ctrl+shift+p"}
	kb.Bindings[ActionToggleVim] = []string{"ctrl+@"}
	kb.Bindings[ActionReload] = []string{"ctrl+r"}
}

// keyList accepts either a single key spec or a list of them.
type keyList []string

func (l *keyList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = keyList{node.Value}
		return nil
	case yaml.SequenceNode:
		var keys []string
		if err := node.Decode(&keys); err != nil {
			return err
		}
		*l = keys
		return nil
	default:
		return fmt.Errorf("line %d: expected a key or a list of keys", node.Line)
	}
}

// ReadBindingsFile decodes the per-action overrides in path. JSON files are
// accepted too since JSON is valid YAML.
func ReadBindingsFile(path string) (map[KeyAction][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBindings(data)
}

// ParseBindings decodes per-action overrides from YAML.
func ParseBindings(data []byte) (map[KeyAction][]string, error) {
	var raw map[string]keyList
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing keybindings: %w", err)
	}

	out := make(map[KeyAction][]string, len(raw))
	for name, keys := range raw {
		action := KeyAction(name)
		if !IsKnownAction(action) {
			return nil, fmt.Errorf("%w %q", ErrUnknownAction, name)
		}
		out[action] = []string(keys)
	}
	return out, nil
}

// LoadKeybindings loads the defaults overridden by the bindings in path.
func LoadKeybindings(path string) (*Keybindings, error) {
	overrides, err := ReadBindingsFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	kb := NewKeybindings()
	kb.Apply(overrides)
	return kb, nil
}

// Apply replaces the bindings of every action present in overrides.
func (kb *Keybindings) Apply(overrides map[KeyAction][]string) {
	for action, keys := range overrides {
		kb.Bindings[action] = slices.Clone(keys)
	}
}

// GetBindings returns the bindings for an action.
func (kb *Keybindings) GetBindings(action KeyAction) []string {
	if kb == nil {
		return nil
	}
	return kb.Bindings[action]
}

// ExportTemplate renders the bindings as a YAML document in declaration order.
func (kb *Keybindings) ExportTemplate() (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, action := range actionOrder {
		keys, ok := kb.Bindings[action]
		if !ok {
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, k := range keys {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k})
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(action)},
			seq,
		)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("rendering keybindings: %w", err)
	}
	return string(data), nil
}
