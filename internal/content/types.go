// Package content holds the read-only game tables: heroes, towers, enemies,
// levels, shop items and the wave roster. Tables are YAML, embedded in the
// binary and overridable from disk, and validated once at load time so the
// simulation can treat a lookup miss as a programming error.
package content

import (
	"github.com/vovakirdan/sky-guardians/internal/core"
)

// Weapon is a hero's weapon class. It decides melee versus ranged behavior
// and the projectile a ranged hero fires.
type Weapon string

const (
	WeaponSword    Weapon = "SWORD"
	WeaponBow      Weapon = "BOW"
	WeaponGun      Weapon = "GUN"
	WeaponMagic    Weapon = "MAGIC"
	WeaponGauntlet Weapon = "GAUNTLET"
	WeaponDagger   Weapon = "DAGGER"
	WeaponStaff    Weapon = "STAFF"
	WeaponShield   Weapon = "SHIELD"
	WeaponOrb      Weapon = "ORB"
)

// Ranged reports whether heroes with this weapon auto-attack from range.
func (w Weapon) Ranged() bool {
	switch w {
	case WeaponBow, WeaponGun, WeaponMagic, WeaponStaff, WeaponOrb:
		return true
	}
	return false
}

// Projectile returns the projectile a ranged hero with this weapon fires.
func (w Weapon) Projectile() ProjectileKind {
	switch w {
	case WeaponGun:
		return ProjectileBomb
	case WeaponMagic, WeaponStaff, WeaponOrb:
		return ProjectileMagic
	default:
		return ProjectileArrow
	}
}

// ProjectileKind is the visual and behavioral class of a projectile.
type ProjectileKind string

const (
	ProjectileNone  ProjectileKind = ""
	ProjectileArrow ProjectileKind = "ARROW"
	ProjectileMagic ProjectileKind = "MAGIC"
	ProjectileBomb  ProjectileKind = "BOMB"
)

// TowerKind selects the per-tick behavior family of a tower.
type TowerKind string

const (
	KindBarracks TowerKind = "barracks"
	KindArcher   TowerKind = "archer"
	KindMage     TowerKind = "mage"
	KindCannon   TowerKind = "cannon"
	KindGoldMine TowerKind = "gold_mine"
	KindSupport  TowerKind = "support"
)

// Theme is a level's terrain decoration. It decides which terrain event can
// occur on event waves.
type Theme string

const (
	ThemeForest Theme = "forest"
	ThemeDesert Theme = "desert"
	ThemeSnow   Theme = "snow"
	ThemeLava   Theme = "lava"
	ThemeVoid   Theme = "void"
)

// ShopEffect is the effect type of a shop item.
type ShopEffect string

const (
	EffectHeal    ShopEffect = "HEAL"
	EffectMana    ShopEffect = "MANA"
	EffectFortify ShopEffect = "FORTIFY"
	EffectBerserk ShopEffect = "BERSERK"
	EffectFreeze  ShopEffect = "FREEZE"
	EffectNuke    ShopEffect = "NUKE"
)

// EndlessWaves is the wave count that marks a level as endless.
const EndlessWaves = 9999

// HeroStats are a hero's base numbers. Respawn and Cooldown are seconds.
type HeroStats struct {
	HP       float64 `yaml:"hp"`
	Atk      float64 `yaml:"atk"`
	Armor    float64 `yaml:"armor"`
	Respawn  float64 `yaml:"respawn"`
	Cooldown float64 `yaml:"cooldown"`
}

// Talent is one node of a hero's talent tree. Tier-1 talents carry flat stat
// modifiers; the behavior of higher tiers is keyed by ID in the simulation.
type Talent struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Tier        int     `yaml:"tier"`
	HP          float64 `yaml:"hp"`
	Atk         float64 `yaml:"atk"`
	Armor       float64 `yaml:"armor"`
	CooldownMul float64 `yaml:"cooldown_mul"`
	Range       float64 `yaml:"range"`
	AttackSpeed float64 `yaml:"attack_speed"`
	MoveSpeed   float64 `yaml:"move_speed"`
	Regen       float64 `yaml:"regen"` // hp per second
}

// HeroDef describes a selectable hero.
type HeroDef struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Role     string    `yaml:"role"`
	Weapon   Weapon    `yaml:"weapon"`
	Ultimate string    `yaml:"ultimate"`
	Color    string    `yaml:"color"`
	Stats    HeroStats `yaml:"stats"`
	Talents  []Talent  `yaml:"talents"`
}

// Talent looks up one of the hero's talents by id.
func (h HeroDef) Talent(id string) (Talent, bool) {
	for _, t := range h.Talents {
		if t.ID == id {
			return t, true
		}
	}
	return Talent{}, false
}

// TalentsByTier returns the hero's talent options for one tier.
func (h HeroDef) TalentsByTier(tier int) []Talent {
	var out []Talent
	for _, t := range h.Talents {
		if t.Tier == tier {
			out = append(out, t)
		}
	}
	return out
}

// SkillDef is an upgradeable branch skill.
type SkillDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Cost     int    `yaml:"cost"`
	MaxLevel int    `yaml:"max_level"`
}

// DefaultSkillMaxLevel is the level cap for skills that do not set one.
const DefaultSkillMaxLevel = 3

// Max returns the skill's level cap.
func (s SkillDef) Max() int {
	if s.MaxLevel <= 0 {
		return DefaultSkillMaxLevel
	}
	return s.MaxLevel
}

// SummonDef describes the minions a tier-3 branch raises periodically.
// The roster size is the CountSkill level, or BaseCount when that is zero.
type SummonDef struct {
	Name       string  `yaml:"name"`
	HP         float64 `yaml:"hp"`
	Damage     float64 `yaml:"damage"`
	CountSkill string  `yaml:"count_skill"`
	BaseCount  int     `yaml:"base_count"`
	HPSkill    string  `yaml:"hp_skill"`
	HPPerLevel float64 `yaml:"hp_per_level"`
}

// TierStats are the base numbers of one tower tier or tier-3 branch.
// Rate is the attack interval in milliseconds.
type TierStats struct {
	Name         string         `yaml:"name"`
	Damage       float64        `yaml:"damage"`
	Range        float64        `yaml:"range"`
	Rate         float64        `yaml:"rate"`
	Cost         int            `yaml:"cost"`
	SoldierHP    float64        `yaml:"soldier_hp"`
	SoldierArmor float64        `yaml:"soldier_armor"`
	Projectile   ProjectileKind `yaml:"projectile"`
	Splash       float64        `yaml:"splash"`
	ArmorIgnore  float64        `yaml:"armor_ignore"`
	Yield        float64        `yaml:"yield"`
	Summon       *SummonDef     `yaml:"summon"`
	Skills       []SkillDef     `yaml:"skills"`
}

// Skill looks up a branch skill by id.
func (t TierStats) Skill(id string) (SkillDef, bool) {
	for _, s := range t.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return SkillDef{}, false
}

// TowerDef describes a buildable tower line.
type TowerDef struct {
	ID       string      `yaml:"id"`
	Kind     TowerKind   `yaml:"kind"`
	Name     string      `yaml:"name"`
	Glyph    string      `yaml:"glyph"`
	T1       TierStats   `yaml:"t1"`
	T2       TierStats   `yaml:"t2"`
	Branches []TierStats `yaml:"branches"`
}

// Stats returns the base stats for a tier; tier 3 uses the chosen branch.
// An out-of-range branch on tier 3 panics: towers only reach tier 3 through
// a validated branch choice.
func (d TowerDef) Stats(tier, branch int) TierStats {
	switch tier {
	case 1:
		return d.T1
	case 2:
		return d.T2
	default:
		if branch < 0 || branch >= len(d.Branches) {
			panic("content: tower " + d.ID + " has no such branch")
		}
		return d.Branches[branch]
	}
}

// EnemyDef describes an enemy kind.
type EnemyDef struct {
	Kind   string  `yaml:"kind"`
	Name   string  `yaml:"name"`
	HP     float64 `yaml:"hp"`
	Speed  float64 `yaml:"speed"`
	Armor  float64 `yaml:"armor"`
	Flying bool    `yaml:"flying"`
	Reward float64 `yaml:"reward"`
	Growth float64 `yaml:"growth"`
	Boss   bool    `yaml:"boss"`
	Color  string  `yaml:"color"`
}

// GrowthModifier returns the per-kind multiplier applied to wave HP scaling.
func (e EnemyDef) GrowthModifier() float64 {
	if e.Growth <= 0 {
		return 1
	}
	return e.Growth
}

// LevelDef describes a playable map.
type LevelDef struct {
	ID         int           `yaml:"id"`
	Name       string        `yaml:"name"`
	Waves      int           `yaml:"waves"`
	StartMoney int           `yaml:"start_money"`
	Theme      Theme         `yaml:"theme"`
	Background string        `yaml:"background"`
	PathColor  string        `yaml:"path_color"`
	Paths      [][]core.Vec2 `yaml:"paths"`
	BuildSlots []core.Vec2   `yaml:"build_slots"`
}

// Endless reports whether the level never reaches a victory condition.
func (l LevelDef) Endless() bool {
	return l.Waves >= EndlessWaves
}

// PathEnd is the hero's home point: the last point of the first path.
func (l LevelDef) PathEnd() core.Vec2 {
	p := l.Paths[0]
	return p[len(p)-1]
}

// ShopItem is a purchasable consumable. Cooldown is in seconds.
type ShopItem struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Cost     int        `yaml:"cost"`
	Effect   ShopEffect `yaml:"effect"`
	Cooldown float64    `yaml:"cooldown"`
}

// Bracket maps every wave up to Until (inclusive) to an enemy kind.
type Bracket struct {
	Until int    `yaml:"until"`
	Kind  string `yaml:"kind"`
}

// WaveTable is the spawn roster.
type WaveTable struct {
	Brackets     []Bracket `yaml:"brackets"`
	Bosses       []string  `yaml:"bosses"`
	EarlyBosses  int       `yaml:"early_bosses"`
	LateBossWave int       `yaml:"late_boss_wave"`
}

// BracketKind returns the fixed enemy kind for a wave, or false once the wave
// is past the last bracket.
func (w WaveTable) BracketKind(wave int) (string, bool) {
	for _, b := range w.Brackets {
		if wave <= b.Until {
			return b.Kind, true
		}
	}
	return "", false
}

// BossPool returns the bosses eligible on a wave.
func (w WaveTable) BossPool(wave int) []string {
	if wave > w.LateBossWave || w.EarlyBosses <= 0 || w.EarlyBosses > len(w.Bosses) {
		return w.Bosses
	}
	return w.Bosses[:w.EarlyBosses]
}
