package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

// BestWaves reports the best wave reached per level. storage.Store
// implements it.
type BestWaves interface {
	BestWave(level int) (int, error)
}

// menuStage is one page of the run setup.
type menuStage int

const (
	stageLevel menuStage = iota
	stageHero
	stageTalent1
	stageTalent2
	stageTalent3
	stageDone
)

// MenuItem is one selectable line of a menu page.
type MenuItem struct {
	ID     string
	Level  int
	Title  string
	Detail string
}

// Selection is the run the player set up in the menu.
type Selection struct {
	Level   int
	Hero    string
	Talents sim.Talents
}

// MenuModel is the Bubble Tea model for the run setup: level, then hero,
// then one talent per tier.
type MenuModel struct {
	cat       *content.Catalog
	best      BestWaves
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	stage  menuStage
	items  []MenuItem
	cursor int
	width  int
	height int
	pick   Selection
	hero   content.HeroDef

	quitting bool
	wantRuns bool
	embedded bool // run inside a session model: leaving the menu does not quit
}

// NewMenuModel creates a new menu model. best may be nil.
func NewMenuModel(cat *content.Catalog, best BestWaves, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		cat:       cat,
		best:      best,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
	}
	m.enter(stageLevel)
	return m
}

// enter switches to a stage and rebuilds its item list.
func (m *MenuModel) enter(stage menuStage) {
	m.stage = stage
	m.cursor = 0
	m.items = nil

	switch stage {
	case stageLevel:
		for _, l := range m.cat.Levels() {
			detail := "endless"
			if !l.Endless() {
				detail = fmt.Sprintf("%d waves", l.Waves)
			}
			detail += fmt.Sprintf(", %s, %dg", l.Theme, l.StartMoney)
			if m.best != nil {
				if w, err := m.best.BestWave(l.ID); err == nil && w > 0 {
					detail += fmt.Sprintf(", best wave %d", w)
				}
			}
			m.items = append(m.items, MenuItem{Level: l.ID, Title: fmt.Sprintf("%2d %s", l.ID, l.Name), Detail: detail})
		}
	case stageHero:
		m.items = append(m.items, MenuItem{Title: "No hero", Detail: "towers only"})
		for _, h := range m.cat.Heroes() {
			m.items = append(m.items, MenuItem{
				ID:     h.ID,
				Title:  h.Name,
				Detail: fmt.Sprintf("%s, %s, hp %.0f atk %.0f", h.Role, strings.ToLower(string(h.Weapon)), h.Stats.HP, h.Stats.Atk),
			})
		}
	case stageTalent1, stageTalent2, stageTalent3:
		tier := int(stage-stageTalent1) + 1
		m.items = append(m.items, MenuItem{Title: "No talent"})
		for _, t := range m.hero.TalentsByTier(tier) {
			m.items = append(m.items, MenuItem{ID: t.ID, Title: t.Name})
		}
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, m.leave()

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionBack:
		if m.stage == stageLevel {
			m.quitting = true
			return m, m.leave()
		}
		m.enter(m.stage - 1)

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		m.choose(m.items[m.cursor])
		if m.stage == stageDone {
			return m, m.leave()
		}

	case MenuActionRuns:
		m.wantRuns = true
		return m, m.leave()
	}

	return m, nil
}

func (m MenuModel) leave() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// choose records the item picked on the current stage and moves on.
func (m *MenuModel) choose(it MenuItem) {
	switch m.stage {
	case stageLevel:
		m.pick.Level = it.Level
		m.enter(stageHero)
	case stageHero:
		m.pick.Hero = it.ID
		m.pick.Talents = sim.Talents{}
		if it.ID == "" {
			m.stage = stageDone
			return
		}
		m.hero = m.cat.MustHero(it.ID)
		m.enter(stageTalent1)
	case stageTalent1:
		m.pick.Talents.T1 = it.ID
		m.enter(stageTalent2)
	case stageTalent2:
		m.pick.Talents.T2 = it.ID
		m.enter(stageTalent3)
	case stageTalent3:
		m.pick.Talents.T3 = it.ID
		m.stage = stageDone
	}
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	menuDetailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m MenuModel) heading() string {
	switch m.stage {
	case stageLevel:
		return "Choose a battlefield"
	case stageHero:
		return "Choose a hero"
	case stageTalent1, stageTalent2, stageTalent3:
		return fmt.Sprintf("%s: tier %d talent", m.hero.Name, int(m.stage-stageTalent1)+1)
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting || m.stage == stageDone {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("S K Y   G U A R D I A N S"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.heading(), m.width))
	b.WriteString("\n\n")

	// Keep the cursor visible on short terminals.
	rows := max(3, m.height-10)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(m.items), start+rows)

	for i := start; i < end; i++ {
		it := m.items[i]
		line := fmt.Sprintf("  %-24s", it.Title)
		if i == m.cursor {
			line = menuSelectedStyle.Render(fmt.Sprintf("> %-24s", it.Title))
		}
		if it.Detail != "" {
			line += " " + menuDetailStyle.Render(it.Detail)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Esc: Back  |  Tab: Runs  |  Q: Quit"
	b.WriteString(centerText(menuDetailStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen run, or nil while the setup is incomplete.
func (m MenuModel) Selected() *Selection {
	if m.stage != stageDone {
		return nil
	}
	s := m.pick
	return &s
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns returns true if user requested the run history.
func (m MenuModel) WantsRuns() bool {
	return m.wantRuns
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection *Selection
	Config    core.RuntimeConfig
	WantsRuns bool
	Quit      bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cat *content.Catalog, best BestWaves, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(cat, best, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsRuns():
		result.WantsRuns = true
	case m.Selected() != nil:
		result.Selection = m.Selected()
	default:
		result.Quit = true
	}
	return result, nil
}
