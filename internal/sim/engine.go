package sim

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
)

// Options configure a new run.
type Options struct {
	Catalog *content.Catalog // nil means the embedded tables
	Config  config.SimConfig // zero value means the default balance
	Level   int
	Hero    string // empty runs without a hero
	Talents Talents
	Seed    int64 // 0 seeds from the clock
	Admin   bool
	Logger  *log.Logger // nil discards
}

// Engine owns one run: the committed GameState, the scheduler side-channel
// and the fixed-timestep accumulator. It is not safe for concurrent use; a
// front-end drives it from a single goroutine.
type Engine struct {
	cat     *content.Catalog
	cfg     config.SimConfig
	level   content.LevelDef
	heroDef content.HeroDef
	hero    HeroStats
	rng     *rand.Rand
	log     *log.Logger

	st    *GameState
	sched Scheduler
	buffs Buffs

	acc     float64 // unconsumed wall ms
	clockMs float64 // wall ms fed to Advance and Step
}

// New validates the options and starts a run on wave 1.
func New(opts Options) (*Engine, error) {
	e, err := newEngine(opts)
	if err != nil {
		return nil, err
	}

	st := &GameState{
		RunID:         uuid.NewString(),
		View:          ViewPlaying,
		LevelID:       e.level.ID,
		HeroID:        e.heroDef.ID,
		Money:         float64(e.level.StartMoney),
		Lives:         e.cfg.Balance.StartLives,
		Wave:          1,
		WaveTimer:     e.cfg.Tick.Ticks(e.cfg.Waves.FirstTimerSeconds),
		Speed:         1,
		ItemCooldowns: make(map[string]float64),
		Admin:         opts.Admin,
		NextID:        firstEntityID,
	}
	if opts.Admin {
		st.Money = float64(e.cfg.Admin.Money)
		st.Lives = e.cfg.Admin.Lives
	}
	if e.heroDef.ID != "" {
		st.Hero = &Hero{
			Pos:     e.level.PathEnd(),
			HP:      e.hero.HP,
			MaxHP:   e.hero.HP,
			Mode:    ModeIdle,
			Talents: opts.Talents,
		}
	}
	e.st = st
	e.sched = NewScheduler(e.cfg.Waves)
	e.buffs = ComputeBuffs(st, e.cfg.Balance)

	e.log.Info("run started", "run", st.RunID, "level", e.level.ID, "hero", e.heroDef.ID, "admin", opts.Admin)
	return e, nil
}

// newEngine resolves everything a run reads but never writes.
func newEngine(opts Options) (*Engine, error) {
	cat := opts.Catalog
	if cat == nil {
		cat = content.Default()
	}
	cfg := opts.Config
	if cfg.Tick.Rate == 0 {
		cfg = config.DefaultSimConfig()
	}
	level, ok := cat.Level(opts.Level)
	if !ok {
		return nil, fmt.Errorf("sim: unknown level %d", opts.Level)
	}

	e := &Engine{cat: cat, cfg: cfg, level: level}
	if opts.Hero != "" {
		def, ok := cat.Hero(opts.Hero)
		if !ok {
			return nil, fmt.Errorf("sim: unknown hero %q", opts.Hero)
		}
		if err := validateTalents(def, opts.Talents); err != nil {
			return nil, err
		}
		if !HasUltimate(def.ID) {
			return nil, fmt.Errorf("sim: hero %q has no ultimate", def.ID)
		}
		e.heroDef = def
		e.hero = DeriveHeroStats(def, opts.Talents, cfg.Combat)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed))

	e.log = opts.Logger
	if e.log == nil {
		e.log = log.New(io.Discard)
	}
	return e, nil
}

// world builds the working context for one tick or action on st.
func (e *Engine) world(st *GameState, sched *Scheduler, elapsed float64) *world {
	speed := float64(st.Speed)
	if speed < 1 {
		speed = 1
	}
	return &world{
		st:            st,
		sched:         sched,
		cfg:           e.cfg,
		cat:           e.cat,
		level:         e.level,
		heroDef:       e.heroDef,
		hero:          e.hero,
		buffs:         e.buffs,
		rng:           e.rng,
		log:           e.log,
		speed:         speed,
		elapsed:       elapsed,
		pendingDamage: make(map[EntityID]float64),
		pendingKills:  make(map[EntityID]int),
		leaked:        make(map[EntityID]bool),
	}
}

// Advance feeds wall-clock time into the fixed-timestep accumulator and runs
// as many logical ticks as it covers, at most MaxCatchUp; a larger backlog
// is dropped. While the run is frozen time passes but nothing advances.
// It returns the number of ticks run.
func (e *Engine) Advance(elapsedMs float64) int {
	if elapsedMs <= 0 || math.IsNaN(elapsedMs) {
		return 0
	}
	e.clockMs += elapsedMs
	if e.st.Frozen() {
		e.acc = 0
		return 0
	}

	tickMs := e.cfg.Tick.TickMs()
	limit := e.cfg.Tick.MaxCatchUp
	if limit <= 0 {
		limit = 1
	}
	e.acc += elapsedMs
	n := 0
	for e.acc >= tickMs && n < limit && !e.st.Frozen() {
		e.tick(tickMs)
		e.acc -= tickMs
		n++
	}
	if e.acc >= tickMs {
		e.acc = 0
	}
	return n
}

// Step runs exactly one logical tick covering elapsedMs of wall time,
// unless the run is frozen.
func (e *Engine) Step(elapsedMs float64) {
	if elapsedMs < 0 || math.IsNaN(elapsedMs) {
		elapsedMs = 0
	}
	e.clockMs += elapsedMs
	if e.st.Frozen() {
		return
	}
	e.tick(elapsedMs)
}

// tick computes the next state from a private copy of the committed one and
// commits it whole.
func (e *Engine) tick(elapsed float64) {
	next := e.st.Clone()
	sched := e.sched
	next.Tick++
	next.NowMs += elapsed
	next.Stats.ElapsedMs += elapsed

	w := e.world(next, &sched, elapsed)
	w.decay()
	w.buffs = ComputeBuffs(next, e.cfg.Balance)
	w.schedule()
	w.heroStep()
	w.towers()
	w.enemies()
	w.resolveDeaths()
	w.projectiles()
	w.mergeTowerTallies()

	next.Money += e.cfg.Economy.PassiveIncome * w.speed
	if next.Admin {
		next.Money = float64(e.cfg.Admin.Money)
		next.Lives = e.cfg.Admin.Lives
	}
	w.checkTerminal()

	e.st, e.sched, e.buffs = next, sched, w.buffs
}

// decay runs down the purely time-based counters.
func (w *world) decay() {
	st := w.st
	kept := st.Particles[:0]
	for _, p := range st.Particles {
		p.Life -= w.speed
		if p.Life > 0 {
			kept = append(kept, p)
		}
	}
	st.Particles = kept

	for id, cd := range st.ItemCooldowns {
		if cd -= w.speed; cd > 0 {
			st.ItemCooldowns[id] = cd
		} else {
			delete(st.ItemCooldowns, id)
		}
	}
	st.GoldBuff = math.Max(0, st.GoldBuff-w.speed)

	if fx := st.SkillEffect; fx != nil {
		fx.Timer -= w.speed
		if fx.Timer <= 0 {
			st.SkillEffect = nil
		}
	}
	if h := st.Hero; h != nil && h.Berserk > 0 {
		h.Berserk = math.Max(0, h.Berserk-w.speed)
	}
}

// checkTerminal ends the run on lost lives or a cleared finite level.
func (w *world) checkTerminal() {
	st := w.st
	switch {
	case st.Lives <= 0:
		st.Lives = 0
		st.View = ViewGameOver
	case !w.level.Endless() && st.Wave >= w.level.Waves && w.sched.WaveCleared(st):
		st.View = ViewVictory
	default:
		return
	}
	st.Projectiles = nil
	w.log.Info("run ended", "view", st.View, "wave", st.Wave, "kills", st.Stats.Kills)
}

// State returns the committed snapshot. Callers must treat it as read-only;
// the engine replaces it on every tick and action.
func (e *Engine) State() *GameState {
	return e.st
}

// Scheduler returns a copy of the wave-progress record.
func (e *Engine) Scheduler() Scheduler {
	return e.sched
}

// Buffs returns the aggregate buffs of the last tick. Displays read the same
// value gameplay used.
func (e *Engine) Buffs() Buffs {
	return e.buffs
}

// Level returns the level being played.
func (e *Engine) Level() content.LevelDef {
	return e.level
}

// Config returns the balance the run was started with.
func (e *Engine) Config() config.SimConfig {
	return e.cfg
}

// Catalog returns the content tables the run reads.
func (e *Engine) Catalog() *content.Catalog {
	return e.cat
}

// HeroDef returns the hero's definition; the zero value when playing
// without a hero.
func (e *Engine) HeroDef() content.HeroDef {
	return e.heroDef
}

// HeroStats returns the hero's stats after talents.
func (e *Engine) HeroStats() HeroStats {
	return e.hero
}

// EffectiveStats returns a tower's current effective stats, computed the
// same way the tower pass computes them.
func (e *Engine) EffectiveStats(id EntityID) (TowerStats, error) {
	t, ok := e.st.Tower(id)
	if !ok {
		return TowerStats{}, ErrUnknownTower
	}
	return EffectiveTowerStats(t, e.cat.MustTower(t.DefID), e.buffs, e.st.Event), nil
}

// Summary is the end-of-run record.
type Summary struct {
	RunID       string
	Level       int
	Hero        string
	View        View
	Wave        int
	Lives       int
	Kills       int
	GoldEarned  float64
	DamageDealt float64
	Elapsed     time.Duration
	Admin       bool
}

// Summary returns the run's counters so far.
func (e *Engine) Summary() Summary {
	st := e.st
	return Summary{
		RunID:       st.RunID,
		Level:       st.LevelID,
		Hero:        st.HeroID,
		View:        st.View,
		Wave:        st.Wave,
		Lives:       st.Lives,
		Kills:       st.Stats.Kills,
		GoldEarned:  st.Stats.GoldEarned,
		DamageDealt: st.Stats.DamageDealt,
		Elapsed:     time.Duration(st.Stats.ElapsedMs * float64(time.Millisecond)),
		Admin:       st.Admin,
	}
}
