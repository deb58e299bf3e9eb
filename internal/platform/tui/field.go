package tui

import (
	"math"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

// Battlefield size in world units.
const (
	fieldW = 800.0
	fieldH = 400.0
)

// themeDecor is the scenery drawn on free ground for a terrain theme.
type themeDecor struct {
	glyphs    []rune
	color     core.Color
	threshold float64
}

var decorByTheme = map[content.Theme]themeDecor{
	content.ThemeForest: {[]rune{'♣', '♠', '"'}, core.ColorGreen, 0.66},
	content.ThemeDesert: {[]rune{'.', '∴', '~'}, core.ColorBrown, 0.70},
	content.ThemeSnow:   {[]rune{'*', '·', '^'}, core.ColorWhite, 0.68},
	content.ThemeLava:   {[]rune{'≈', '~', '^'}, core.ColorOrange, 0.72},
	content.ThemeVoid:   {[]rune{'·', '∙', '°'}, core.ColorPurple, 0.70},
}

// Field draws the battlefield of one level into a screen. The scenery layer
// depends only on the level and the screen size, so it is rebuilt on resize
// and reused every frame.
type Field struct {
	level content.LevelDef
	cat   *content.Catalog
	noise opensimplex.Noise

	w, h     int
	scenery  []core.Cell // w*h, zero Rune means free ground
	pathCell []bool
}

// NewField prepares the renderer for a level.
func NewField(level content.LevelDef, cat *content.Catalog) *Field {
	return &Field{
		level: level,
		cat:   cat,
		noise: opensimplex.NewNormalized(int64(level.ID) + 1),
	}
}

// ToCell maps a world position to a screen cell.
func (f *Field) ToCell(p core.Vec2) (int, int) {
	x := int(p.X / fieldW * float64(f.w))
	y := int(p.Y / fieldH * float64(f.h))
	return core.Clamp(x, 0, f.w-1), core.Clamp(y, 0, f.h-1)
}

// CellSize returns the world size of one cell.
func (f *Field) CellSize() core.Vec2 {
	if f.w == 0 || f.h == 0 {
		return core.V(fieldW, fieldH)
	}
	return core.V(fieldW/float64(f.w), fieldH/float64(f.h))
}

func (f *Field) resize(w, h int) {
	if w == f.w && h == f.h && f.scenery != nil {
		return
	}
	f.w, f.h = w, h
	f.scenery = make([]core.Cell, w*h)
	f.pathCell = make([]bool, w*h)

	pathColor := core.ParseColor(f.level.PathColor)
	if pathColor == core.ColorDefault {
		pathColor = core.ColorGray
	}
	for _, path := range f.level.Paths {
		for i := 0; i+1 < len(path); i++ {
			f.stampSegment(path[i], path[i+1], pathColor)
		}
	}

	decor, ok := decorByTheme[f.level.Theme]
	if !ok {
		return
	}
	for y := range h {
		for x := range w {
			if f.pathCell[y*w+x] || f.nearSlot(x, y) {
				continue
			}
			wx := (float64(x) + 0.5) / float64(w) * fieldW
			wy := (float64(y) + 0.5) / float64(h) * fieldH
			v := octaveNoise(f.noise, wx/90, wy/90, 3, 1, 0.5)
			if v < decor.threshold {
				continue
			}
			g := decor.glyphs[int(f.noise.Eval2(wx, wy)*float64(len(decor.glyphs)))%len(decor.glyphs)]
			f.scenery[y*w+x] = core.Cell{Rune: g, Color: decor.color}
		}
	}
}

// octaveNoise layers several noise frequencies for a less regular pattern.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for range octaves {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func (f *Field) stampSegment(a, b core.Vec2, c core.Color) {
	cell := f.CellSize()
	step := math.Min(cell.X, cell.Y) / 2
	n := int(a.Dist(b)/step) + 1
	for i := 0; i <= n; i++ {
		x, y := f.ToCell(a.Lerp(b, float64(i)/float64(n)))
		f.pathCell[y*f.w+x] = true
		f.scenery[y*f.w+x] = core.Cell{Rune: '░', Color: c}
	}
}

func (f *Field) nearSlot(x, y int) bool {
	for _, s := range f.level.BuildSlots {
		sx, sy := f.ToCell(s)
		if abs(sx-x) <= 1 && sy == y {
			return true
		}
	}
	return false
}

// Draw renders the state into the screen. Cursor is the world point under
// the player's cursor; selected is the highlighted build slot or -1.
func (f *Field) Draw(s *core.Screen, st *sim.GameState, cursor core.Vec2, selected int) {
	s.Clear()
	if s.Width() <= 0 || s.Height() <= 0 {
		return
	}
	f.resize(s.Width(), s.Height())

	for y := range f.h {
		for x := range f.w {
			if c := f.scenery[y*f.w+x]; c.Rune != 0 {
				s.SetColored(x, y, c.Rune, c.Color)
			}
		}
	}

	for i, slot := range f.level.BuildSlots {
		if _, built := st.TowerAt(i); built {
			continue
		}
		x, y := f.ToCell(slot)
		color := core.ColorGray
		if i == selected {
			color = core.ColorBrightMagenta
		}
		s.SetColored(x, y, '○', color)
	}

	for _, t := range st.Towers {
		f.drawTower(s, &t, t.Slot == selected)
	}
	for _, e := range st.Enemies {
		if e.Alive() {
			f.drawEnemy(s, &e)
		}
	}
	for _, p := range st.Projectiles {
		x, y := f.ToCell(p.Pos)
		r := '•'
		if p.Kind == content.ProjectileBomb {
			r = 'o'
		}
		s.SetColored(x, y, r, shotColor(&p))
	}
	if h := st.Hero; h != nil {
		x, y := f.ToCell(h.Pos)
		if h.Dead {
			s.SetColored(x, y, 'x', core.ColorGray)
		} else {
			s.SetColored(x, y, '@', core.ColorBrightWhite)
		}
	}
	for _, p := range st.Particles {
		f.drawParticle(s, p)
	}

	if st.Paused && !st.View.Terminal() {
		f.drawBanner(s, "PAUSED  p: resume  esc: menu")
	}

	cx, cy := f.ToCell(cursor)
	cell := s.GetCell(cx, cy)
	if cell.Rune == ' ' {
		cell.Rune = '+'
	}
	s.SetColored(cx, cy, cell.Rune, core.ColorBrightMagenta)
}

func (f *Field) drawTower(s *core.Screen, t *sim.Tower, selected bool) {
	def, ok := f.cat.Tower(t.DefID)
	glyph := 'T'
	if ok && def.Glyph != "" {
		glyph = []rune(def.Glyph)[0]
	}
	color := tierColors[core.Clamp(t.Tier, 1, 3)]
	if selected {
		color = core.ColorBrightMagenta
	}
	x, y := f.ToCell(t.Pos)
	s.SetColored(x, y, glyph, color)

	if t.Rally != nil {
		rx, ry := f.ToCell(*t.Rally)
		s.SetColored(rx, ry, '⚑', core.ColorCyan)
	}
	for _, sol := range t.Soldiers {
		if sol.Dead {
			continue
		}
		sx, sy := f.ToCell(sol.Pos)
		r := 's'
		if sol.Summon {
			r = 'k'
		}
		s.SetColored(sx, sy, r, core.ColorBrightBlue)
	}
}

// shotEffectColors tints shots by the first on-hit effect they carry.
var shotEffectColors = []struct {
	effect sim.Effect
	color  core.Color
}{
	{sim.Teleport{}, core.ColorPurple},
	{sim.Chain{}, core.ColorCyan},
	{sim.Poison{}, core.ColorBrightGreen},
	{sim.Cluster{}, core.ColorOrange},
}

func shotColor(p *sim.Projectile) core.Color {
	for _, sc := range shotEffectColors {
		if p.Effects.Has(sc.effect) {
			return sc.color
		}
	}
	return core.ColorBrightYellow
}

var tierColors = map[int]core.Color{
	1: core.ColorWhite,
	2: core.ColorBrightCyan,
	3: core.ColorBrightYellow,
}

func (f *Field) drawEnemy(s *core.Screen, e *sim.Enemy) {
	glyph := 'e'
	color := core.ColorRed
	if def, ok := f.cat.Enemy(e.Kind); ok {
		if name := []rune(strings.ToLower(def.Name)); len(name) > 0 {
			glyph = name[0]
		}
		if c := core.ParseColor(def.Color); c != core.ColorDefault {
			color = c
		}
	}
	if e.Boss {
		glyph = []rune(strings.ToUpper(string(glyph)))[0]
		color = core.ColorBrightRed
	}
	switch {
	case e.Status.Freeze > 0:
		color = core.ColorBrightCyan
	case e.Status.Burn > 0:
		color = core.ColorOrange
	case e.Status.Poison > 0:
		color = core.ColorBrightGreen
	}
	x, y := f.ToCell(e.Pos)
	s.SetColored(x, y, glyph, color)
}

func (f *Field) drawParticle(s *core.Screen, p sim.Particle) {
	x, y := f.ToCell(p.Pos)
	color := core.ParseColor(p.Color)
	if p.Text != "" {
		s.DrawTextColored(x-len([]rune(p.Text))/2, y, p.Text, color)
		return
	}
	// Screen-wide bursts would paint over everything.
	if p.Radius > 60 {
		return
	}
	s.SetColored(x, y, '∗', color)
}

// drawBanner frames a one-line message in the middle of the field.
func (f *Field) drawBanner(s *core.Screen, text string) {
	w := len([]rune(text)) + 4
	y := s.Height() / 2
	x := (s.Width() - w) / 2
	for row := y - 1; row <= y+1; row++ {
		for col := x; col < x+w; col++ {
			s.Set(col, row, ' ')
		}
	}
	s.DrawBox(core.NewRect(x, y-1, w, 3), core.ColorGray)
	s.DrawTextCentered(y, text, core.ColorBrightYellow)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
