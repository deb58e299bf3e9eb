package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

// QuickSaveSlot is the save slot used by ctrl+s when no slot was given.
const QuickSaveSlot = "quicksave"

// Screen rows taken by the HUD above and below the battlefield.
const (
	hudTop      = 2
	hudBottom   = 4
	minFieldH   = 8
	cursorStep  = 20.0
	slotSnapRad = 30.0
)

// RunStore persists finished runs and saved sessions.
type RunStore interface {
	RecordRun(s sim.Summary) error
	SaveEngine(slot string, e *sim.Engine) (string, error)
}

// Model is the Bubble Tea model for one run on the battlefield.
type Model struct {
	engine     *sim.Engine
	opts       sim.Options
	store      RunStore
	config     core.RuntimeConfig
	saveSlot   string
	logger     *log.Logger
	keyMapper  *KeyMapper
	help       help.Model
	field      *Field
	palette    *Palette
	screen     *core.Screen
	inputFrame core.InputFrame
	towers     []content.TowerDef

	cursor   core.Vec2
	slot     int // selected build slot, -1 for none
	kind     int // index into towers
	message  string
	lastTick time.Time

	recorded   bool // whether the finished run has been stored
	embedded   bool // run inside a session model: back does not quit
	quitting   bool
	backToMenu bool
}

// NewModel creates a play model for a fresh run. The store may be nil.
func NewModel(opts sim.Options, store RunStore, cfg core.RuntimeConfig) (Model, error) {
	if opts.Seed == 0 {
		opts.Seed = cfg.Seed
	}
	e, err := sim.New(opts)
	if err != nil {
		return Model{}, err
	}
	return NewModelFromEngine(e, opts, store, cfg), nil
}

// NewModelFromEngine wraps an existing engine, such as a restored save.
// Opts are used when the player starts over.
func NewModelFromEngine(e *sim.Engine, opts sim.Options, store RunStore, cfg core.RuntimeConfig) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := help.New()
	h.ShowAll = false

	m := Model{
		engine:     e,
		opts:       opts,
		store:      store,
		config:     cfg,
		saveSlot:   QuickSaveSlot,
		logger:     logger,
		keyMapper:  NewKeyMapper(),
		help:       h,
		field:      NewField(e.Level(), e.Catalog()),
		palette:    NewPalette(e.Level().Background),
		screen:     core.NewScreen(cfg.ScreenW, fieldHeight(cfg.ScreenH)),
		inputFrame: core.NewInputFrame(),
		towers:     e.Catalog().Towers(),
		slot:       -1,
	}
	m.selectSlot(0)
	return m
}

// WithSaveSlot sets the slot ctrl+s writes to.
func (m Model) WithSaveSlot(slot string) Model {
	m.saveSlot = slot
	return m
}

func fieldHeight(screenH int) int {
	return max(minFieldH, screenH-hudTop-hudBottom)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, fieldHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey records the action for the next tick. Quit and help act at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleTick feeds wall time to the engine and applies queued input.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.applyInput()
	if m.backToMenu && !m.embedded {
		return m, tea.Quit
	}

	if !m.lastTick.IsZero() {
		m.engine.Advance(float64(now.Sub(m.lastTick)) / float64(time.Millisecond))
	}
	m.lastTick = now

	m.recordIfFinished()
	return m, tickCmd(m.config.TickRate)
}

// recordIfFinished stores the run summary once the run has ended.
func (m *Model) recordIfFinished() {
	st := m.engine.State()
	if !st.View.Terminal() || m.recorded {
		return
	}
	m.recorded = true
	if m.store == nil {
		return
	}
	if err := m.store.RecordRun(m.engine.Summary()); err != nil {
		m.logger.Warn("could not record run", "run", st.RunID, "error", err)
		m.message = "Run could not be recorded"
	}
}

// applyInput turns the queued actions into engine calls, in action order.
func (m *Model) applyInput() {
	defer m.inputFrame.Clear()
	e := m.engine
	st := e.State()

	for a := core.ActionNone + 1; a <= core.ActionQuit; a++ {
		if !m.inputFrame.Has(a) {
			continue
		}
		if st.View.Terminal() {
			m.applyEndInput(a)
			continue
		}
		switch a {
		case core.ActionCursorUp:
			m.moveCursor(0, -1)
		case core.ActionCursorDown:
			m.moveCursor(0, 1)
		case core.ActionCursorLeft:
			m.moveCursor(-1, 0)
		case core.ActionCursorRight:
			m.moveCursor(1, 0)
		case core.ActionNextSlot:
			m.selectSlot(m.slot + 1)
		case core.ActionPrevSlot:
			if m.slot < 0 {
				m.slot = 0
			}
			m.selectSlot(m.slot - 1)
		case core.ActionNextKind:
			if len(m.towers) > 0 {
				m.kind = (m.kind + 1) % len(m.towers)
				m.message = "Building " + m.towers[m.kind].Name
			}
		case core.ActionBuild:
			m.build()
		case core.ActionUpgrade:
			m.upgrade(-1)
		case core.ActionBranch1, core.ActionBranch2, core.ActionBranch3:
			m.upgrade(int(a - core.ActionBranch1))
		case core.ActionSkill1, core.ActionSkill2:
			m.upgradeSkill(int(a - core.ActionSkill1))
		case core.ActionSell:
			if t, ok := m.selectedTower(); ok {
				refund, err := e.SellTower(t.ID)
				m.report(err, fmt.Sprintf("Sold for %dg", refund))
			}
		case core.ActionRally:
			if t, ok := m.selectedTower(); ok {
				m.report(e.SetRally(t.ID, m.cursor), "Rally point set")
			}
		case core.ActionMoveHero:
			m.report(e.MoveHero(m.cursor), "Hero on the move")
		case core.ActionUltimate:
			m.report(e.CastUltimate(), "Ultimate!")
		case core.ActionNextWave:
			m.report(e.CallNextWave(), "Next wave called")
		case core.ActionSpeed:
			m.message = fmt.Sprintf("Speed %dx", e.ToggleSpeed())
		case core.ActionPause:
			e.SetPaused(!st.Paused)
		case core.ActionBestiary:
			e.SetModal(!st.Modal)
		case core.ActionShop:
			items := e.Catalog().Shop()
			if i := m.inputFrame.Item; i >= 0 && i < len(items) {
				m.report(e.BuyItem(items[i].ID), items[i].Name+" used")
			}
		case core.ActionSave:
			m.save()
		case core.ActionBack:
			if st.Paused {
				m.backToMenu = true
			} else {
				e.SetPaused(true)
				m.message = "Paused, esc again for the menu"
			}
		}
	}
}

// applyEndInput handles the keys of the end-of-run screen.
func (m *Model) applyEndInput(a core.Action) {
	switch a {
	case core.ActionRally:
		m.restart()
	case core.ActionBack:
		m.backToMenu = true
	}
}

func (m *Model) restart() {
	opts := m.opts
	opts.Seed = time.Now().UnixNano()
	e, err := sim.New(opts)
	if err != nil {
		m.message = describe(err)
		return
	}
	m.engine = e
	m.recorded = false
	m.lastTick = time.Time{}
	m.message = ""
}

func (m *Model) save() {
	if m.store == nil {
		m.message = "No database, cannot save"
		return
	}
	if _, err := m.store.SaveEngine(m.saveSlot, m.engine); err != nil {
		m.logger.Warn("save failed", "slot", m.saveSlot, "error", err)
		m.message = "Save failed"
		return
	}
	m.logger.Info("session saved", "slot", m.saveSlot, "run", m.engine.State().RunID)
	m.message = "Saved to " + m.saveSlot
}

func (m *Model) build() {
	if m.slot < 0 {
		m.message = "Move the cursor onto a build slot"
		return
	}
	if _, built := m.selectedTower(); built {
		m.message = "Slot taken: u to upgrade, backspace to sell"
		return
	}
	def := m.towers[m.kind]
	_, err := m.engine.BuildTower(m.slot, def.ID)
	m.report(err, "Built "+def.Name)
}

// upgrade raises the selected tower. A negative branch means the plain
// tier 1 to 2 step.
func (m *Model) upgrade(branch int) {
	t, ok := m.selectedTower()
	if !ok {
		return
	}
	switch {
	case t.Tier == 1:
		m.report(m.engine.UpgradeTower(t.ID, 0), "Upgraded")
	case t.Tier == 2 && branch < 0:
		m.message = "Pick a specialization: 1, 2 or 3"
	case t.Tier == 2:
		m.report(m.engine.UpgradeTower(t.ID, branch), "Specialized")
	default:
		m.message = "Fully upgraded, z/x level skills"
	}
}

func (m *Model) upgradeSkill(i int) {
	t, ok := m.selectedTower()
	if !ok || t.Tier != 3 {
		return
	}
	skills := m.engine.Catalog().MustTower(t.DefID).Stats(3, t.Branch).Skills
	if i >= len(skills) {
		return
	}
	m.report(m.engine.UpgradeSkill(t.ID, skills[i].ID), skills[i].Name+" up")
}

func (m *Model) selectedTower() (*sim.Tower, bool) {
	if m.slot < 0 {
		return nil, false
	}
	return m.engine.State().TowerAt(m.slot)
}

// moveCursor steps the cursor and selects the build slot it lands near.
func (m *Model) moveCursor(dx, dy float64) {
	m.cursor = core.V(
		core.ClampF(m.cursor.X+dx*cursorStep, 0, fieldW),
		core.ClampF(m.cursor.Y+dy*cursorStep, 0, fieldH),
	)
	m.slot = -1
	best := slotSnapRad
	for i, s := range m.engine.Level().BuildSlots {
		if d := s.Dist(m.cursor); d <= best {
			m.slot, best = i, d
		}
	}
}

// selectSlot jumps the cursor to a build slot, wrapping around.
func (m *Model) selectSlot(i int) {
	slots := m.engine.Level().BuildSlots
	if len(slots) == 0 {
		return
	}
	i = ((i % len(slots)) + len(slots)) % len(slots)
	m.slot = i
	m.cursor = slots[i]
}

// report shows ok on success and a readable error otherwise.
func (m *Model) report(err error, ok string) {
	if err != nil {
		m.message = describe(err)
		return
	}
	m.message = ok
}

// describe turns an action error into a HUD message.
func describe(err error) string {
	switch {
	case errors.Is(err, sim.ErrInsufficientFunds):
		return "Not enough gold"
	case errors.Is(err, sim.ErrOnCooldown):
		return "Still on cooldown"
	case errors.Is(err, sim.ErrDebounced):
		return "Too soon, wait a moment"
	}
	msg := strings.TrimPrefix(err.Error(), "sim: ")
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	e := m.engine
	st := e.State()

	var body string
	switch {
	case st.View.Terminal():
		body = lipgloss.PlaceVertical(m.screen.Height(), lipgloss.Center, renderSummary(e.Summary(), m.config.ScreenW))
	case st.Modal:
		body = lipgloss.PlaceVertical(m.screen.Height(), lipgloss.Top, renderBestiary(e.Catalog(), m.config.ScreenW))
	default:
		m.field.Draw(m.screen, st, m.cursor, m.slot)
		body = m.palette.Render(m.screen)
	}

	kind := content.TowerDef{}
	if len(m.towers) > 0 {
		kind = m.towers[m.kind]
	}
	return strings.Join([]string{
		renderStatus(e),
		renderHeroLine(e),
		body,
		renderSelection(e, m.slot, kind),
		renderShop(e),
		messageStyle.Render(m.message),
		m.help.View(m.keyMapper.Keys),
	}, "\n")
}

// Engine returns the engine driving the run.
func (m Model) Engine() *sim.Engine {
	return m.engine
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program for a single run and reports whether the
// player asked to go back to the menu.
func Run(m Model) (backToMenu bool, err error) {
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return fm.BackToMenu(), nil
}
