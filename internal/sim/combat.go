package sim

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

const (
	maxParticles     = 300
	magicFreezeTicks = 30
	lavaImpactDamage = 0.5
	vineBurstPerLvl  = 50
	vineBurstRadius  = 60
)

// world is the working context of one tick or one action: the state being
// built plus everything read-only it is computed from.
type world struct {
	st      *GameState
	sched   *Scheduler
	cfg     config.SimConfig
	cat     *content.Catalog
	level   content.LevelDef
	heroDef content.HeroDef
	hero    HeroStats
	buffs   Buffs
	rng     *rand.Rand
	log     *log.Logger
	speed   float64
	elapsed float64 // wall ms covered by this tick

	pendingDamage map[EntityID]float64
	pendingKills  map[EntityID]int
	leaked        map[EntityID]bool
}

func (w *world) path(id int) []core.Vec2 {
	if id < 0 || id >= len(w.level.Paths) {
		return nil
	}
	return w.level.Paths[id]
}

func (w *world) addParticle(p Particle) {
	if len(w.st.Particles) >= maxParticles {
		return
	}
	w.st.Particles = append(w.st.Particles, p)
}

// puff adds a plain visual burst.
func (w *world) puff(at core.Vec2, color string, radius, life float64) {
	w.addParticle(Particle{Pos: at, Life: life, MaxLife: life, Color: color, Radius: radius})
}

// label adds floating text.
func (w *world) label(at core.Vec2, text, color string) {
	w.addParticle(Particle{Pos: at, Life: 40, MaxLife: 40, Color: color, Text: text})
}

// damage removes up to amt hp from a living enemy and tallies what was
// actually removed. A non-zero source is the tower credited with the hit.
func (w *world) damage(e *Enemy, amt float64, source EntityID) float64 {
	if amt <= 0 || !e.Alive() {
		return 0
	}
	dealt := math.Min(amt, e.HP)
	e.HP -= dealt
	if e.HP < 1e-9 {
		e.HP = 0
	}
	w.st.Stats.DamageDealt += dealt
	if source != NoEntity {
		w.pendingDamage[source] += dealt
		e.LastHitBy = source
	}
	return dealt
}

// projectiles moves every projectile toward its target's current position
// and resolves the ones that arrive this tick.
func (w *world) projectiles() {
	st := w.st
	kept := st.Projectiles[:0:0]
	for _, p := range st.Projectiles {
		target, ok := st.Enemy(p.Target)
		if ok && !target.Alive() {
			ok = false
		}
		switch {
		case ok:
			p.Aim = target.Pos
		case p.Kind != content.ProjectileBomb:
			continue
		default:
			target = nil
		}

		step := p.Speed * w.speed
		if p.Pos.Dist(p.Aim) <= step {
			w.impact(&p, target, p.Aim)
			continue
		}
		p.Pos, _ = p.Pos.MoveToward(p.Aim, step)
		kept = append(kept, p)
	}
	st.Projectiles = kept
}

// impact resolves one projectile arriving at a point; target is nil when a
// bomb lost its target in flight.
func (w *world) impact(p *Projectile, target *Enemy, at core.Vec2) {
	st := w.st
	fromTower := p.Source != NoEntity
	lava := st.EventActive(EventLavaFlow)

	if p.Splash > 0 {
		w.puff(at, "#f59e0b", p.Splash, 25)
		for i := range st.Enemies {
			e := &st.Enemies[i]
			if !e.Alive() || e.Pos.Dist(at) > p.Splash {
				continue
			}
			w.damage(e, p.Damage*EventDamageFactor(st.Event, fromTower, e), p.Source)
			if lava {
				w.damage(e, lavaImpactDamage, NoEntity)
			}
		}
		h := &hit{w: w, p: p, target: target, at: at, damage: p.Damage}
		p.Effects.resolve(h, stageCluster, stageCluster)
		if target != nil {
			p.Effects.resolve(h, stagePoison, stageTalent)
		}
		return
	}
	if target == nil {
		return
	}

	dmg := p.Damage
	if p.Ignore {
		w.puff(at.Add(core.V(0, -10)), "#c084fc", 4, 8)
	} else {
		dmg *= 1 - target.Armor
	}
	dmg *= EventDamageFactor(st.Event, fromTower, target)

	h := &hit{w: w, p: p, target: target, at: at, damage: dmg}
	p.Effects.resolve(h, stageExecute, stageExecute)
	w.damage(target, h.damage, p.Source)
	if lava {
		w.damage(target, lavaImpactDamage, NoEntity)
	}
	if p.Kind == content.ProjectileMagic {
		target.Status.Freeze = math.Max(target.Status.Freeze, magicFreezeTicks)
	}
	p.Effects.resolve(h, stagePoison, stageTalent)
	if p.FromHero {
		w.puff(at, w.heroDef.Color, 6, 8)
	}
}

// resolveDeaths pays out dead enemies, charges lives for the ones that left
// the map and keeps the rest.
func (w *world) resolveDeaths() {
	st := w.st

	market, vine := 0, 0
	for i := range st.Towers {
		market += st.Towers[i].Skill("market_discount")
		vine += st.Towers[i].Skill("vine_aoe")
	}

	// Poisoned enemies burst on death; the bursts land before payout so
	// their victims are paid out in the same pass.
	if vine > 0 {
		var bursts []core.Vec2
		for i := range st.Enemies {
			if e := &st.Enemies[i]; !e.Alive() && e.Status.Poison > 0 {
				bursts = append(bursts, e.Pos)
			}
		}
		for _, at := range bursts {
			w.puff(at, "#10b981", 40, 15)
			for i := range st.Enemies {
				if o := &st.Enemies[i]; o.Alive() && o.Pos.Dist(at) < vineBurstRadius {
					w.damage(o, float64(vine*vineBurstPerLvl), NoEntity)
				}
			}
		}
	}

	kept := make([]Enemy, 0, len(st.Enemies))
	for _, e := range st.Enemies {
		switch {
		case !e.Alive():
			def := w.cat.MustEnemy(e.Kind)
			reward := def.Reward * (1 + float64(market)*w.cfg.Economy.MarketBonusPerLevel)
			if st.GoldBuff > 0 {
				reward *= 2
			}
			if st.EventActive(EventDoubleGold) {
				reward *= 2
			}
			st.Money += reward
			st.Stats.GoldEarned += reward
			st.Stats.Kills++
			if e.LastHitBy != NoEntity {
				w.pendingKills[e.LastHitBy]++
			}
			w.puff(e.Pos, def.Color, 10, 20)
			w.heroLost(e.ID)
		case w.leaked[e.ID]:
			if e.Boss {
				st.Lives = 0
				w.log.Warn("boss reached the gate", "kind", e.Kind, "wave", st.Wave)
			} else {
				st.Lives = max(0, st.Lives-1)
			}
			w.heroLost(e.ID)
		default:
			kept = append(kept, e)
		}
	}
	st.Enemies = kept
}

// heroLost drops the hero out of a fight with an enemy that is gone.
func (w *world) heroLost(id EntityID) {
	if h := w.st.Hero; h != nil && h.Fighting == id {
		h.SetMode(ModeIdle)
	}
}

// mergeTowerTallies folds the per-tower damage and kill counters collected
// during the tick into the tower records.
func (w *world) mergeTowerTallies() {
	for i := range w.st.Towers {
		t := &w.st.Towers[i]
		t.TotalDamage += w.pendingDamage[t.ID]
		t.Kills += w.pendingKills[t.ID]
	}
}
