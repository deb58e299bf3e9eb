package sim

import (
	"math"
	"sort"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
)

// Support tower aura numbers.
const (
	supportDamageBonus = 0.1 // tier 1 and above
	supportRangeBonus  = 0.1 // tier 2 and above
	totemCritPerLevel  = 0.05
	fearSlowBase       = 0.2
	fearSlowPerLevel   = 0.05
	fearWeakBase       = 0.1
	fearWeakPerLevel   = 0.1
	maxDamageReduction = 0.9
	soulLinkBase       = 0.2
	soulHPPerLevel     = 0.2
	soulRegenPerLevel  = 0.1
	lyraSpeedBonus     = 1.0
	lyraDamageBonus    = 0.1
)

// Tier-3 support branches.
const (
	branchBloodlust = 0
	branchFear      = 1
	branchSoulLink  = 2
)

// Buffs are the global multipliers derived from every tower once per tick.
// The same value feeds gameplay and any display of effective stats.
type Buffs struct {
	Range           float64
	Damage          float64
	Speed           float64 // divides attack intervals
	SoldierHP       float64
	SoldierRegen    float64 // hp per tick for every living soldier
	Crit            float64
	EnemySlow       float64
	DamageReduction float64
	TotemBonus      float64 // speed bonus kept after stack and total caps

	maxSlow  float64
	maxSpeed float64
}

// ComputeBuffs scans the towers of a state. Totem speed and fear slow are
// two-stage capped: only the strongest contributors up to the stack limit
// count, and their sum is clamped to an absolute ceiling.
func ComputeBuffs(st *GameState, bal config.BalanceConfig) Buffs {
	b := Buffs{
		Range:     1,
		Damage:    1,
		Speed:     1,
		SoldierHP: 1,
		maxSlow:   bal.MaxTotalSlow,
		maxSpeed:  bal.MaxGlobalSpeedBuff,
	}

	var totems, fearSlow, fearWeak []float64
	for i := range st.Towers {
		t := &st.Towers[i]
		if t.Kind != content.KindSupport {
			continue
		}
		if t.Tier >= 1 {
			b.Damage += supportDamageBonus
		}
		if t.Tier >= 2 {
			b.Range += supportRangeBonus
		}
		if t.Tier < 3 {
			continue
		}
		switch t.Branch {
		case branchBloodlust:
			totems = append(totems, bal.TotemBaseSpeed+float64(t.Skill("totem_speed"))*bal.TotemSpeedPerLevel)
			b.Crit += float64(t.Skill("totem_crit")) * totemCritPerLevel
		case branchFear:
			fearSlow = append(fearSlow, fearSlowBase+float64(t.Skill("fear_slow"))*fearSlowPerLevel)
			fearWeak = append(fearWeak, fearWeakBase+float64(t.Skill("fear_weak"))*fearWeakPerLevel)
		case branchSoulLink:
			b.SoldierHP += soulLinkBase + float64(t.Skill("soul_hp"))*soulHPPerLevel
			b.SoldierRegen += float64(t.Skill("soul_regen")) * soulRegenPerLevel
		}
	}

	b.TotemBonus = stackCapped(totems, bal.MaxTotemStacks, bal.MaxTotemTotal)
	b.Speed += b.TotemBonus
	b.EnemySlow = stackCapped(fearSlow, bal.MaxSlowStacks, bal.MaxTotalSlow)
	b.DamageReduction = stackCapped(fearWeak, bal.MaxSlowStacks, maxDamageReduction)
	b.Crit = math.Min(b.Crit, 1)

	if h := st.Hero; h != nil && !h.Dead && h.Talents.Has("lyra_t2_buff") {
		b.Damage += lyraDamageBonus
	}
	if st.SkillEffect != nil && st.SkillEffect.Kind == fxLyraLight {
		b.Speed += lyraSpeedBonus
	}
	b.Speed = math.Min(b.Speed, bal.MaxGlobalSpeedBuff)
	return b
}

// stackCapped sums the n largest contributions and clamps the result.
func stackCapped(contribs []float64, n int, limit float64) float64 {
	if len(contribs) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(contribs)))
	if n < len(contribs) {
		contribs = contribs[:n]
	}
	sum := 0.0
	for _, c := range contribs {
		sum += c
	}
	return math.Min(sum, limit)
}

// TotalSlow combines the global slow with an enemy's own slow under the
// shared cap.
func (b Buffs) TotalSlow(own float64) float64 {
	return math.Min(b.maxSlow, b.EnemySlow+own)
}

// TowerStats are a tower's effective numbers for the current tick.
type TowerStats struct {
	Range       float64
	Damage      float64
	Rate        float64 // ms between attacks
	Splash      float64
	ArmorIgnore float64
	Projectile  content.ProjectileKind
}

// Skill bonuses folded into effective tower stats.
const (
	sniperRangePerLevel = 50
	gemLaserPerLevel    = 50
	berthaNukePerLevel  = 300
	bankSpeedPerLevel   = 0.1
	sandstormRange      = 0.75
)

// EffectiveTowerStats derives a tower's stats from its tier, the global
// buffs, its skills and the active event. It has no side effects.
func EffectiveTowerStats(t *Tower, def content.TowerDef, b Buffs, ev *ActiveEvent) TowerStats {
	base := def.Stats(t.Tier, t.Branch)

	rng := base.Range*b.Range + float64(t.Skill("sniper_range"))*sniperRangePerLevel
	if ev != nil && ev.Kind == EventSandstorm {
		rng *= sandstormRange
	}
	dmg := base.Damage*b.Damage +
		float64(t.Skill("gem_laser"))*gemLaserPerLevel +
		float64(t.Skill("bertha_nuke"))*berthaNukePerLevel

	speed := b.Speed
	if speed <= 0 {
		speed = 1
	}
	rate := base.Rate / speed
	if lv := t.Skill("bank_speed"); lv > 0 {
		rate /= 1 + float64(lv)*bankSpeedPerLevel
	}
	if b.maxSpeed > 0 {
		rate = math.Max(rate, base.Rate/b.maxSpeed)
	}

	ignore := base.ArmorIgnore
	if t.Skill("mech_armor") > 0 {
		ignore = 1
	}
	return TowerStats{
		Range:       rng,
		Damage:      dmg,
		Rate:        rate,
		Splash:      base.Splash,
		ArmorIgnore: ignore,
		Projectile:  base.Projectile,
	}
}

// Event damage modifiers.
const (
	enemyArmorFactor = 0.8
	nullFieldFactor  = 0.75
)

// EventDamageFactor is the multiplier the active event and the target's
// curse apply to a hit after armor.
func EventDamageFactor(ev *ActiveEvent, fromTower bool, e *Enemy) float64 {
	f := 1.0
	if ev != nil {
		switch ev.Kind {
		case EventEnemyArmor:
			f *= enemyArmorFactor
		case EventNullField:
			if fromTower {
				f *= nullFieldFactor
			}
		}
	}
	if e != nil && e.Status.Curse > 0 {
		f *= 1 + e.Status.CurseAmp
	}
	return f
}
