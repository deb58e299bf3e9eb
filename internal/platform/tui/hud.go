package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

var (
	hudStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hudAccent    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudWarn      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	hudDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	eventStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	messageStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("180"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)
)

const hudSep = " │ "

// ticksToSeconds converts a tick count to whole seconds for display.
func ticksToSeconds(ticks float64) int {
	return int(math.Ceil(ticks / 60))
}

// renderStatus draws the top status line: level, wave, lives, gold, timer
// and the run flags.
func renderStatus(e *sim.Engine) string {
	st := e.State()
	level := e.Level()

	wave := fmt.Sprintf("Wave %d", st.Wave)
	if !level.Endless() {
		wave = fmt.Sprintf("Wave %d/%d", st.Wave, level.Waves)
	}
	parts := []string{
		hudAccent.Render(fmt.Sprintf("L%d %s", level.ID, level.Name)),
		wave,
		fmt.Sprintf("♥ %d", st.Lives),
		fmt.Sprintf("$ %s", humanize.Comma(int64(st.Money))),
		fmt.Sprintf("next %ds", ticksToSeconds(st.WaveTimer)),
		fmt.Sprintf("%dx", st.Speed),
	}
	if st.GoldBuff > 0 {
		parts = append(parts, "gold+")
	}
	if st.Admin {
		parts = append(parts, hudWarn.Render("ADMIN"))
	}
	if st.Paused {
		parts = append(parts, hudWarn.Render("PAUSED"))
	}
	return hudStyle.Render(strings.Join(parts, hudSep))
}

// renderHeroLine draws the hero and the active wave event.
func renderHeroLine(e *sim.Engine) string {
	st := e.State()
	var parts []string

	if h := st.Hero; h != nil {
		name := e.HeroDef().Name
		switch {
		case h.Dead:
			parts = append(parts, hudWarn.Render(fmt.Sprintf("%s down, back in %ds", name, ticksToSeconds(h.Respawn))))
		default:
			parts = append(parts, fmt.Sprintf("%s %s/%s %s", name,
				humanize.Comma(int64(h.HP)), humanize.Comma(int64(h.MaxHP)), strings.ToLower(h.Mode.String())))
		}
		if h.Cooldown > 0 {
			parts = append(parts, fmt.Sprintf("ult %ds", ticksToSeconds(h.Cooldown)))
		} else {
			parts = append(parts, hudAccent.Render("ult ready"))
		}
		if h.Berserk > 0 {
			parts = append(parts, "berserk")
		}
	}
	if ev := st.Event; ev != nil {
		parts = append(parts, eventStyle.Render(fmt.Sprintf("%s: %s", ev.Name, ev.Description)))
	}
	if b := e.Buffs(); b.Speed > 1 {
		parts = append(parts, fmt.Sprintf("aura x%.2f", b.Speed))
	}
	return hudStyle.Render(strings.Join(parts, hudSep))
}

// renderSelection describes the build slot under the cursor.
func renderSelection(e *sim.Engine, slot int, kind content.TowerDef) string {
	if slot < 0 {
		return hudDim.Render(fmt.Sprintf("No slot selected  (build: %s %dg)", kind.Name, kind.T1.Cost))
	}
	t, ok := e.State().TowerAt(slot)
	if !ok {
		return fmt.Sprintf("Slot %d empty  build %s for %dg", slot+1, hudAccent.Render(kind.Name), kind.T1.Cost)
	}

	def := e.Catalog().MustTower(t.DefID)
	stats, err := e.EffectiveStats(t.ID)
	if err != nil {
		return hudWarn.Render(err.Error())
	}
	base := def.Stats(t.Tier, t.Branch)
	parts := []string{
		hudAccent.Render(fmt.Sprintf("%s T%d", base.Name, t.Tier)),
		fmt.Sprintf("dmg %.0f rng %.0f", stats.Damage, stats.Range),
		fmt.Sprintf("kills %d", t.Kills),
	}
	switch t.Tier {
	case 1:
		parts = append(parts, fmt.Sprintf("u: %dg", def.T2.Cost))
	case 2:
		var opts []string
		for i, b := range def.Branches {
			opts = append(opts, fmt.Sprintf("%d %s %dg", i+1, b.Name, b.Cost))
		}
		parts = append(parts, strings.Join(opts, "  "))
	case 3:
		keys := []string{"z", "x"}
		for i, sk := range base.Skills {
			if i >= len(keys) {
				break
			}
			lv := t.Skill(sk.ID)
			if lv >= sk.Max() {
				parts = append(parts, fmt.Sprintf("%s %s max", keys[i], sk.Name))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %s %d/%d %dg", keys[i], sk.Name, lv, sk.Max(), sim.SkillCost(sk, lv)))
		}
	}
	parts = append(parts, fmt.Sprintf("sell %dg", sim.SellRefund(t, e.Config().Economy.SellRefund)))
	return strings.Join(parts, hudSep)
}

// renderShop lists the shop items with their hotkeys and cooldowns.
func renderShop(e *sim.Engine) string {
	st := e.State()
	var parts []string
	for i, item := range e.Catalog().Shop() {
		if i >= len(shopKeys) {
			break
		}
		label := fmt.Sprintf("%s %s %dg", strings.ToUpper(shopKeys[i]), item.Name, item.Cost)
		if cd := st.ItemCooldowns[item.ID]; cd > 0 {
			parts = append(parts, hudDim.Render(fmt.Sprintf("%s (%ds)", label, ticksToSeconds(cd))))
			continue
		}
		parts = append(parts, label)
	}
	return hudStyle.Render(strings.Join(parts, "  "))
}

// renderBestiary lists every enemy kind with its base stats.
func renderBestiary(cat *content.Catalog, width int) string {
	var b strings.Builder
	b.WriteString(hudAccent.Render("BESTIARY"))
	b.WriteString(hudDim.Render("   (i to close)"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%-18s %8s %6s %6s %7s  %s\n", "Name", "HP", "Speed", "Armor", "Reward", "")
	for _, def := range cat.Enemies() {
		var tags []string
		if def.Flying {
			tags = append(tags, "flying")
		}
		if def.Boss {
			tags = append(tags, "boss")
		}
		fmt.Fprintf(&b, "%-18s %8s %6.1f %5.0f%% %7.0f  %s\n",
			def.Name, humanize.Comma(int64(def.HP)), def.Speed, def.Armor*100, def.Reward, strings.Join(tags, ","))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, boxStyle.Render(b.String()))
}

// renderSummary is the end-of-run box.
func renderSummary(s sim.Summary, width int) string {
	title := hudWarn.Render("GAME OVER")
	if s.View == sim.ViewVictory {
		title = hudAccent.Render("VICTORY")
	}
	lines := []string{
		title,
		"",
		fmt.Sprintf("Wave reached   %d", s.Wave),
		fmt.Sprintf("Lives left     %d", s.Lives),
		fmt.Sprintf("Kills          %s", humanize.Comma(int64(s.Kills))),
		fmt.Sprintf("Gold earned    %s", humanize.Comma(int64(s.GoldEarned))),
		fmt.Sprintf("Damage dealt   %s", humanize.Comma(int64(s.DamageDealt))),
		fmt.Sprintf("Time           %s", s.Elapsed.Round(time.Second)),
		"",
		hudDim.Render("r: play again  esc: menu  q: quit"),
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, boxStyle.Render(strings.Join(lines, "\n")))
}
