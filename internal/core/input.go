package core

// Action represents a semantic player command, abstracted from physical key
// presses. The front-end maps keys to actions and actions to engine calls.
type Action int

const (
	ActionNone       Action = iota
	ActionCursorUp          // W, Up arrow - move the slot/map cursor
	ActionCursorDown        // S, Down arrow
	ActionCursorLeft        // A, Left arrow
	ActionCursorRight       // D, Right arrow
	ActionNextSlot          // ] - jump the cursor to the next build slot
	ActionPrevSlot          // [ - jump the cursor to the previous build slot
	ActionBuild             // Enter on an empty slot - build the selected tower kind
	ActionNextKind          // Tab - cycle the tower kind to build
	ActionUpgrade           // U - upgrade tier 1 to 2
	ActionBranch1           // 1 - pick tier-3 branch 1
	ActionBranch2           // 2 - pick tier-3 branch 2
	ActionBranch3           // 3 - pick tier-3 branch 3
	ActionSkill1            // Z - level the first branch skill
	ActionSkill2            // X - level the second branch skill
	ActionSell              // Backspace - sell the selected tower
	ActionRally             // R - set the rally point at the map cursor
	ActionMoveHero          // M - send the hero to the map cursor
	ActionUltimate          // E - cast the hero ultimate
	ActionNextWave          // N - call the next wave early
	ActionSpeed             // F - cycle game speed 1x/2x/4x
	ActionPause             // P - pause/unpause
	ActionBestiary          // I - open/close the bestiary
	ActionShop              // F1-F6 carry the item index in InputFrame.Item
	ActionSave              // Ctrl+S - save the session
	ActionBack              // Esc - back to menu
	ActionQuit              // Q, Ctrl+C - exit session
)

var actionNames = map[Action]string{
	ActionNone:        "None",
	ActionCursorUp:    "CursorUp",
	ActionCursorDown:  "CursorDown",
	ActionCursorLeft:  "CursorLeft",
	ActionCursorRight: "CursorRight",
	ActionNextSlot:    "NextSlot",
	ActionPrevSlot:    "PrevSlot",
	ActionBuild:       "Build",
	ActionNextKind:    "NextKind",
	ActionUpgrade:     "Upgrade",
	ActionBranch1:     "Branch1",
	ActionBranch2:     "Branch2",
	ActionBranch3:     "Branch3",
	ActionSkill1:      "Skill1",
	ActionSkill2:      "Skill2",
	ActionSell:        "Sell",
	ActionRally:       "Rally",
	ActionMoveHero:    "MoveHero",
	ActionUltimate:    "Ultimate",
	ActionNextWave:    "NextWave",
	ActionSpeed:       "Speed",
	ActionPause:       "Pause",
	ActionBestiary:    "Bestiary",
	ActionShop:        "Shop",
	ActionSave:        "Save",
	ActionBack:        "Back",
	ActionQuit:        "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame collects the actions triggered between two simulation ticks.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Item is the shop slot for ActionShop (0-based).
	Item int
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Item = 0
}
