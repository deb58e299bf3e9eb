// Package sim is the real-time simulation core of Sky Guardians. An Engine
// advances a GameState one fixed logical tick at a time: buffs, wave
// scheduling, the hero, towers and their soldiers, enemies, deaths and
// projectiles, in that order. Every tick works on a private copy of the
// previous state and commits it as a whole.
package sim

import (
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

// EntityID identifies a tower, soldier, enemy or projectile within one run.
// References between entities are always ids, never pointers, so a dangling
// reference shows up as a failed lookup.
type EntityID uint64

const (
	// NoEntity is the zero id: "no reference".
	NoEntity EntityID = 0
	// HeroEntity is the reserved id the hero uses as a blocker.
	HeroEntity    EntityID = 1
	firstEntityID EntityID = 2
)

// FieldCenter is the middle of the 800x400 battlefield.
var FieldCenter = core.V(400, 200)

// View is the top-level state of a run.
type View int

const (
	ViewPlaying View = iota
	ViewGameOver
	ViewVictory
)

func (v View) String() string {
	switch v {
	case ViewPlaying:
		return "PLAYING"
	case ViewGameOver:
		return "GAME_OVER"
	case ViewVictory:
		return "VICTORY"
	}
	return "UNKNOWN"
}

// Terminal reports whether the run has ended.
func (v View) Terminal() bool {
	return v != ViewPlaying
}

// Talents are the hero's picks, one talent id per tier; empty means none.
type Talents struct {
	T1 string
	T2 string
	T3 string
}

// Has reports whether the talent id is picked on any tier.
func (t Talents) Has(id string) bool {
	return id != "" && (t.T1 == id || t.T2 == id || t.T3 == id)
}

// Tower is a placed tower.
type Tower struct {
	ID          EntityID
	DefID       string
	Kind        content.TowerKind
	Slot        int
	Pos         core.Vec2
	Tier        int
	Branch      int // -1 until the tower reaches tier 3
	Skills      map[string]int
	Investment  int
	TotalDamage float64
	Kills       int
	Rally       *core.Vec2
	Soldiers    []Soldier
	LastAttack  float64 // sim clock ms
	LastPayout  float64 // sim clock ms, gold mines only
	SummonTimer float64
}

// Skill returns the level of a branch skill, zero when not learned.
func (t *Tower) Skill(id string) int {
	return t.Skills[id]
}

// Soldier is a melee unit owned by a tower.
type Soldier struct {
	ID      EntityID
	Pos     core.Vec2
	HP      float64
	MaxHP   float64
	Damage  float64
	Dead    bool
	Respawn float64
	Target  EntityID
	Summon  bool
}

// Status holds an enemy's timed effects, in ticks.
type Status struct {
	Freeze     float64
	Burn       float64
	Stun       float64
	Poison     float64
	SlowPct    float64
	SlowStacks int
	SlowTime   float64
	Curse      float64
	CurseAmp   float64
}

// Enemy is a hostile unit walking a path.
type Enemy struct {
	ID        EntityID
	Kind      string
	Pos       core.Vec2
	HP        float64
	MaxHP     float64
	Speed     float64
	Armor     float64
	PathID    int
	PathIndex int
	Flying    bool
	Boss      bool
	Status    Status
	BlockedBy EntityID
	LastHitBy EntityID // tower credited with the kill
}

// Blocked reports whether a soldier or the hero holds the enemy in melee.
func (e *Enemy) Blocked() bool {
	return e.BlockedBy != NoEntity
}

// Release clears the enemy's block.
func (e *Enemy) Release() {
	e.BlockedBy = NoEntity
}

// Alive reports whether the enemy still has hp.
func (e *Enemy) Alive() bool {
	return e.HP > 0
}

// Projectile is a homing shot in flight.
type Projectile struct {
	ID       EntityID
	Pos      core.Vec2
	Target   EntityID
	Aim      core.Vec2 // last known target position
	Speed    float64
	Damage   float64
	Kind     content.ProjectileKind
	Splash   float64
	Ignore   bool     // armor ignore
	Source   EntityID // firing tower; NoEntity for the hero
	FromHero bool
	Effects  EffectList
}

// Particle is a purely visual decaying marker.
type Particle struct {
	Pos     core.Vec2
	Life    float64
	MaxLife float64
	Color   string
	Radius  float64
	Text    string
}

// HeroMode is the hero's movement state.
type HeroMode int

const (
	ModeIdle HeroMode = iota
	ModeMoving
	ModeFighting
)

func (m HeroMode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeMoving:
		return "MOVING"
	case ModeFighting:
		return "FIGHTING"
	}
	return "UNKNOWN"
}

// heroTransitions lists the legal mode changes. Respawn is handled apart:
// it always lands in IDLE.
var heroTransitions = map[HeroMode][]HeroMode{
	ModeIdle:     {ModeMoving, ModeFighting},
	ModeMoving:   {ModeIdle},
	ModeFighting: {ModeIdle, ModeMoving},
}

// CanTransition reports whether the hero may go from one mode to another.
func CanTransition(from, to HeroMode) bool {
	if from == to {
		return true
	}
	for _, m := range heroTransitions[from] {
		if m == to {
			return true
		}
	}
	return false
}

// Hero is the player's controllable champion.
type Hero struct {
	Pos        core.Vec2
	HP         float64
	MaxHP      float64
	Dead       bool
	Respawn    float64
	Mode       HeroMode
	Cooldown   float64 // ultimate cooldown, ticks
	Target     *core.Vec2
	Fighting   EntityID
	LastAttack float64
	Berserk    float64 // ticks of doubled attack left
	Talents    Talents
}

// SetMode changes the hero's mode, ignoring illegal transitions.
func (h *Hero) SetMode(m HeroMode) bool {
	if !CanTransition(h.Mode, m) {
		return false
	}
	h.Mode = m
	if m != ModeFighting {
		h.Fighting = NoEntity
	}
	if m != ModeMoving {
		h.Target = nil
	}
	return true
}

// SkillEffect describes the visual of the last ultimate while it plays.
type SkillEffect struct {
	Kind  string
	Timer float64
	Pos   core.Vec2
}

// EventKind is a timed wave modifier.
type EventKind string

const (
	EventEnemySpeed     EventKind = "ENEMY_SPEED"
	EventEnemyArmor     EventKind = "ENEMY_ARMOR"
	EventHeroCooldown   EventKind = "HERO_CD"
	EventDoubleGold     EventKind = "DOUBLE_GOLD"
	EventForestEntangle EventKind = "FOREST_ENTANGLE"
	EventSandstorm      EventKind = "SANDSTORM"
	EventBlizzard       EventKind = "BLIZZARD"
	EventLavaFlow       EventKind = "LAVA_FLOW"
	EventNullField      EventKind = "NULL_FIELD"
)

// ActiveEvent is the event modifying the current wave.
type ActiveEvent struct {
	Kind        EventKind
	Name        string
	Description string
	Wave        int
}

// Stats are the cumulative counters shown in the run summary.
type Stats struct {
	GoldEarned  float64
	DamageDealt float64
	Kills       int
	ElapsedMs   float64
}

// GameState is the whole committed state of a run.
type GameState struct {
	RunID         string
	View          View
	LevelID       int
	HeroID        string
	Money         float64
	Lives         int
	Wave          int
	Tick          uint64
	NowMs         float64 // sim clock
	Towers        []Tower
	Enemies       []Enemy
	Projectiles   []Projectile
	Particles     []Particle
	Hero          *Hero
	Event         *ActiveEvent
	SkillEffect   *SkillEffect
	GoldBuff      float64
	ItemCooldowns map[string]float64
	WaveTimer     float64
	Speed         int
	Paused        bool
	Modal         bool
	Admin         bool
	Stats         Stats
	NextID        EntityID
}

// Frozen reports whether ticks are suspended.
func (s *GameState) Frozen() bool {
	return s.Paused || s.Modal || s.View.Terminal()
}

func (s *GameState) newID() EntityID {
	if s.NextID < firstEntityID {
		s.NextID = firstEntityID
	}
	id := s.NextID
	s.NextID++
	return id
}

// Tower returns the tower with the given id.
func (s *GameState) Tower(id EntityID) (*Tower, bool) {
	for i := range s.Towers {
		if s.Towers[i].ID == id {
			return &s.Towers[i], true
		}
	}
	return nil, false
}

// TowerAt returns the tower built on a slot.
func (s *GameState) TowerAt(slot int) (*Tower, bool) {
	for i := range s.Towers {
		if s.Towers[i].Slot == slot {
			return &s.Towers[i], true
		}
	}
	return nil, false
}

// Enemy returns the enemy with the given id.
func (s *GameState) Enemy(id EntityID) (*Enemy, bool) {
	for i := range s.Enemies {
		if s.Enemies[i].ID == id {
			return &s.Enemies[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy. Effect lists are shared: they are never
// modified after a projectile is created.
func (s *GameState) Clone() *GameState {
	c := *s

	c.Towers = make([]Tower, len(s.Towers))
	for i, t := range s.Towers {
		t.Skills = cloneSkills(t.Skills)
		if t.Rally != nil {
			r := *t.Rally
			t.Rally = &r
		}
		t.Soldiers = append([]Soldier(nil), t.Soldiers...)
		c.Towers[i] = t
	}
	c.Enemies = append([]Enemy(nil), s.Enemies...)
	c.Projectiles = append([]Projectile(nil), s.Projectiles...)
	c.Particles = append([]Particle(nil), s.Particles...)

	if s.Hero != nil {
		h := *s.Hero
		if h.Target != nil {
			t := *h.Target
			h.Target = &t
		}
		c.Hero = &h
	}
	if s.Event != nil {
		ev := *s.Event
		c.Event = &ev
	}
	if s.SkillEffect != nil {
		fx := *s.SkillEffect
		c.SkillEffect = &fx
	}
	c.ItemCooldowns = make(map[string]float64, len(s.ItemCooldowns))
	for k, v := range s.ItemCooldowns {
		c.ItemCooldowns[k] = v
	}
	return &c
}

func cloneSkills(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// EventActive reports whether the given event modifies the current wave.
func (s *GameState) EventActive(k EventKind) bool {
	return s.Event != nil && s.Event.Kind == k
}
