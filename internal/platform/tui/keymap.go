package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sky-guardians/internal/core"
)

// PlayKeyMap holds the key bindings of the battlefield view.
type PlayKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextSlot key.Binding
	PrevSlot key.Binding
	Build    key.Binding
	NextKind key.Binding
	Upgrade  key.Binding
	Branch1  key.Binding
	Branch2  key.Binding
	Branch3  key.Binding
	Skill1   key.Binding
	Skill2   key.Binding
	Sell     key.Binding
	Rally    key.Binding
	MoveHero key.Binding
	Ultimate key.Binding
	NextWave key.Binding
	Speed    key.Binding
	Pause    key.Binding
	Bestiary key.Binding
	Shop     key.Binding
	Save     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSlot, k.Build, k.Upgrade, k.NextWave, k.Ultimate, k.Pause, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextSlot, k.PrevSlot},
		{k.Build, k.NextKind, k.Upgrade, k.Branch1, k.Branch2, k.Branch3},
		{k.Skill1, k.Skill2, k.Sell, k.Rally},
		{k.MoveHero, k.Ultimate, k.Shop, k.NextWave},
		{k.Speed, k.Pause, k.Bestiary, k.Save, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "cursor up")),
		Down:     key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "cursor down")),
		Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "cursor left")),
		Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "cursor right")),
		NextSlot: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next slot")),
		PrevSlot: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev slot")),
		Build:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "build")),
		NextKind: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tower kind")),
		Upgrade:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upgrade")),
		Branch1:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "branch 1")),
		Branch2:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "branch 2")),
		Branch3:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "branch 3")),
		Skill1:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "skill 1")),
		Skill2:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "skill 2")),
		Sell:     key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("bksp", "sell")),
		Rally:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rally here")),
		MoveHero: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move hero")),
		Ultimate: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "ultimate")),
		NextWave: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next wave")),
		Speed:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "speed")),
		Pause:    key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Bestiary: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "bestiary")),
		Shop:     key.NewBinding(key.WithKeys(shopKeys...), key.WithHelp("F1-F6", "shop")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "menu")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shopKeys are the shop hotkeys in catalog order.
var shopKeys = []string{"f1", "f2", "f3", "f4", "f5", "f6"}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	Keys PlayKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{Keys: DefaultPlayKeyMap()}
}

// MapKey translates a key message to a play action. For ActionShop the
// second result is the shop item index.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.Action, int) {
	k := km.Keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, 0
	case key.Matches(msg, k.Shop):
		s := msg.String()
		for i, sk := range shopKeys {
			if s == sk {
				return core.ActionShop, i
			}
		}
	}

	bindings := []struct {
		b key.Binding
		a core.Action
	}{
		{k.Up, core.ActionCursorUp},
		{k.Down, core.ActionCursorDown},
		{k.Left, core.ActionCursorLeft},
		{k.Right, core.ActionCursorRight},
		{k.NextSlot, core.ActionNextSlot},
		{k.PrevSlot, core.ActionPrevSlot},
		{k.Build, core.ActionBuild},
		{k.NextKind, core.ActionNextKind},
		{k.Upgrade, core.ActionUpgrade},
		{k.Branch1, core.ActionBranch1},
		{k.Branch2, core.ActionBranch2},
		{k.Branch3, core.ActionBranch3},
		{k.Skill1, core.ActionSkill1},
		{k.Skill2, core.ActionSkill2},
		{k.Sell, core.ActionSell},
		{k.Rally, core.ActionRally},
		{k.MoveHero, core.ActionMoveHero},
		{k.Ultimate, core.ActionUltimate},
		{k.NextWave, core.ActionNextWave},
		{k.Speed, core.ActionSpeed},
		{k.Pause, core.ActionPause},
		{k.Bestiary, core.ActionBestiary},
		{k.Save, core.ActionSave},
		{k.Back, core.ActionBack},
	}
	for _, kb := range bindings {
		if key.Matches(msg, kb.b) {
			return kb.a, 0
		}
	}
	return core.ActionNone, 0
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, item := km.MapKey(msg)
	if action == core.ActionQuit {
		return true
	}
	if action != core.ActionNone {
		frame.Set(action)
		if action == core.ActionShop {
			frame.Item = item
		}
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionRuns
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc", "backspace":
		return MenuActionBack
	case "tab":
		return MenuActionRuns
	}

	return MenuActionNone
}
