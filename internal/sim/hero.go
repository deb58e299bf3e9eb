package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

// HeroStats are a hero's numbers after tier-1 talents.
type HeroStats struct {
	HP          float64
	Atk         float64
	Armor       float64
	Cooldown    float64 // ultimate cooldown, seconds
	Respawn     float64 // seconds
	Range       float64
	AttackSpeed float64 // fraction added to attack frequency
	MoveSpeed   float64 // units per tick at speed 1
	Regen       float64 // extra hp per second
	Ranged      bool
	Projectile  content.ProjectileKind
}

// DeriveHeroStats folds the picked talents into a hero's base stats.
func DeriveHeroStats(def content.HeroDef, picks Talents, cb config.CombatConfig) HeroStats {
	s := HeroStats{
		HP:         def.Stats.HP,
		Atk:        def.Stats.Atk,
		Armor:      def.Stats.Armor,
		Cooldown:   def.Stats.Cooldown,
		Respawn:    def.Stats.Respawn,
		Ranged:     def.Weapon.Ranged(),
		Projectile: def.Weapon.Projectile(),
	}
	moveBonus := 0.0
	for _, id := range []string{picks.T1, picks.T2, picks.T3} {
		t, ok := def.Talent(id)
		if !ok {
			continue
		}
		s.HP += t.HP
		s.Atk += t.Atk
		s.Armor += t.Armor
		s.Range += t.Range
		s.AttackSpeed += t.AttackSpeed
		s.Regen += t.Regen
		moveBonus += t.MoveSpeed
		if t.CooldownMul > 0 {
			s.Cooldown *= t.CooldownMul
		}
	}
	if s.Ranged {
		s.Range += cb.HeroRangedRange
	} else {
		s.Range += cb.HeroMeleeRange
	}
	s.MoveSpeed = cb.HeroMoveSpeed * (1 + moveBonus)
	return s
}

// validateTalents checks that each pick belongs to the hero and sits on the
// tier it was picked for.
func validateTalents(def content.HeroDef, picks Talents) error {
	for tier, id := range []string{picks.T1, picks.T2, picks.T3} {
		if id == "" {
			continue
		}
		t, ok := def.Talent(id)
		if !ok {
			return fmt.Errorf("sim: hero %s has no talent %q", def.ID, id)
		}
		if t.Tier != tier+1 {
			return fmt.Errorf("sim: talent %q is tier %d, picked as tier %d", id, t.Tier, tier+1)
		}
	}
	return nil
}

// Hero talent tuning.
const (
	yukiCritChance      = 0.33
	sakuraExecuteBelow  = 0.4
	sakuraExecuteMul    = 3
	kaelCritChance      = 0.4
	kaelCritMul         = 1.5
	lifestealFraction   = 0.5
	thornsFraction      = 0.5
	gromRegenBonus      = 1.0
	adminRegen          = 1000
	sakuraSplashRadius  = 60
	heroAttackBaseMs    = 1000
	heroAttackPerCdSec  = 10
	heroProjectileLift  = 15
	tamamoFreezeTicks   = 120
	tamamoCharmTicks    = 90
	tamamoCharmChance   = 0.15
	vexBurnTicks        = 300
	vexSpreadTicks      = 120
	vexSpreadRadius     = 60
	piercingFraction    = 0.5
	piercingRadius      = 20
	cleaveFraction      = 0.5
	cleaveRadius        = 40
	berserkAttackFactor = 2
)

// heroEffects are the on-hit talents applied by the hero's shots and melee
// swings alike.
func heroEffects(picks Talents) EffectList {
	var fx EffectList
	if picks.Has("kael_t2_poison") {
		fx = append(fx, Poison{Ticks: poisonTicks})
	}
	if picks.Has("tamamo_t2_charm") {
		fx = append(fx, Stun{Ticks: tamamoCharmTicks, Chance: tamamoCharmChance})
	}
	if picks.Has("tamamo_t2_slow") {
		fx = append(fx, Freeze{Ticks: tamamoFreezeTicks})
	}
	if picks.Has("vex_t1_dot") {
		fx = append(fx, Burn{Ticks: vexBurnTicks})
	}
	if picks.Has("vex_t2_spread") {
		fx = append(fx, Burn{Ticks: vexSpreadTicks, Radius: vexSpreadRadius})
	}
	if picks.Has("yuki_t2_pierce") {
		fx = append(fx, Pierce{Fraction: piercingFraction, Radius: piercingRadius})
	}
	if picks.Has("ibaraki_t2_cleave") {
		fx = append(fx, Pierce{Fraction: cleaveFraction, Radius: cleaveRadius})
	}
	return fx
}

// heroHitDamage rolls the hero's damage against one target.
func (w *world) heroHitDamage(target *Enemy) float64 {
	h := w.st.Hero
	dmg := w.hero.Atk
	if h.Berserk > 0 {
		dmg *= berserkAttackFactor
	}
	if h.Talents.Has("yuki_t2_crit") && w.rng.Float64() < yukiCritChance {
		dmg *= 2
	}
	if h.Talents.Has("sakura_t2_headshot") && target.HP < target.MaxHP*sakuraExecuteBelow {
		dmg *= sakuraExecuteMul
	}
	if h.Talents.Has("kael_t2_crit") && w.rng.Float64() < kaelCritChance {
		dmg *= kaelCritMul
	}
	return dmg
}

// heroStep is the hero controller: cooldown, respawn, movement, regen and
// the ranged auto-attack.
func (w *world) heroStep() {
	st := w.st
	h := st.Hero
	if h == nil {
		return
	}
	if h.Cooldown > 0 {
		h.Cooldown = math.Max(0, h.Cooldown-w.speed)
	}
	if st.Admin {
		h.Cooldown = 0
	}

	if w.speed > 1 {
		h.LastAttack -= w.elapsed * (w.speed - 1)
	}

	if h.Dead {
		h.Respawn = math.Max(0, h.Respawn-w.speed)
		if st.Admin {
			h.Respawn = 0
		}
		if h.Respawn <= 0 {
			w.respawnHero()
		}
		return
	}

	if h.Mode == ModeFighting && !w.heroHolds(h.Fighting) {
		h.SetMode(ModeIdle)
	}

	if h.Mode == ModeMoving && h.Target != nil {
		next, arrived := h.Pos.MoveToward(*h.Target, w.hero.MoveSpeed*w.speed)
		h.Pos = next
		if arrived {
			h.SetMode(ModeIdle)
		}
	}

	if h.Mode != ModeFighting && h.HP < h.MaxHP {
		regen := (w.cfg.Combat.HeroRegen + w.hero.Regen/w.cfg.Tick.Ticks(1)) * w.speed
		if h.Talents.Has("grom_t1_regen") && h.HP < h.MaxHP*0.5 {
			regen += gromRegenBonus * w.speed
		}
		if st.Admin {
			regen += adminRegen
		}
		h.HP = math.Min(h.MaxHP, h.HP+regen)
	}

	if w.hero.Ranged && h.Mode == ModeIdle {
		w.heroShoot()
	}
}

// heroHolds reports whether the enemy is alive and held by the hero.
func (w *world) heroHolds(id EntityID) bool {
	e, ok := w.st.Enemy(id)
	return ok && e.Alive() && e.BlockedBy == HeroEntity
}

func (w *world) heroShoot() {
	st, h := w.st, w.st.Hero
	rate := (heroAttackBaseMs - w.heroDef.Stats.Cooldown*heroAttackPerCdSec) / w.buffs.Speed / (1 + w.hero.AttackSpeed)
	if st.NowMs-h.LastAttack <= rate {
		return
	}
	var target *Enemy
	for i := range st.Enemies {
		if e := &st.Enemies[i]; e.Alive() && e.Pos.Dist(h.Pos) < w.hero.Range {
			target = e
			break
		}
	}
	if target == nil {
		return
	}
	h.LastAttack = st.NowMs

	p := Projectile{
		ID:       st.newID(),
		Pos:      h.Pos.Add(core.V(0, -heroProjectileLift)),
		Target:   target.ID,
		Aim:      target.Pos,
		Speed:    w.cfg.Combat.HeroProjectileSpeed,
		Damage:   w.heroHitDamage(target),
		Kind:     w.hero.Projectile,
		FromHero: true,
		Effects:  heroEffects(h.Talents),
	}
	if h.Talents.Has("sakura_t2_splash") {
		p.Splash = sakuraSplashRadius
	}
	st.Projectiles = append(st.Projectiles, p)
}

func (w *world) respawnHero() {
	h := w.st.Hero
	h.Dead = false
	h.HP = h.MaxHP
	h.Respawn = 0
	h.Mode = ModeIdle
	h.Fighting = NoEntity
	h.Target = nil
	h.Pos = w.level.PathEnd()
	w.log.Info("hero respawned", "hero", w.heroDef.ID)
}

func (w *world) killHero() {
	h := w.st.Hero
	h.HP = 0
	h.Dead = true
	h.Respawn = w.cfg.Tick.Ticks(w.hero.Respawn)
	h.Mode = ModeIdle
	h.Fighting = NoEntity
	h.Target = nil
	w.log.Info("hero died", "hero", w.heroDef.ID, "respawn_ticks", h.Respawn)
}

// heroBlockRange is how close an enemy must come for the hero to hold it.
func (w *world) heroBlockRange() float64 {
	cb := w.cfg.Combat
	switch {
	case w.hero.Ranged:
		return cb.HeroRangedBlockRange
	case w.st.Hero.Talents.Has("grom_t2_taunt"):
		return cb.HeroMeleeBlockRange * 2
	default:
		return cb.HeroMeleeBlockRange
	}
}

// heroEngage makes the hero hold an enemy if it is free and close enough.
// Melee heroes only hold ground enemies.
func (w *world) heroEngage(e *Enemy) bool {
	h := w.st.Hero
	if h == nil || h.Dead || h.Mode != ModeIdle || h.Fighting != NoEntity || e.Blocked() {
		return false
	}
	if !w.hero.Ranged && e.Flying {
		return false
	}
	if e.Pos.Dist(h.Pos) >= w.heroBlockRange() {
		return false
	}
	if !h.SetMode(ModeFighting) {
		return false
	}
	h.Fighting = e.ID
	e.BlockedBy = HeroEntity
	return true
}

// heroTrade rolls one tick of the hero's melee exchange with the enemy it
// holds.
func (w *world) heroTrade(e *Enemy) {
	h, cb := w.st.Hero, w.cfg.Combat

	if w.rng.Float64() < cb.HeroTradeChance*w.speed && e.Status.Stun <= 0 {
		if h.Talents.Has("rin_t2_thorns") {
			w.damage(e, cb.EnemyMeleeDamage*thornsFraction, NoEntity)
		}
		h.HP -= cb.EnemyMeleeDamage
	}
	if w.rng.Float64() < cb.HeroTradeChance*w.speed {
		dmg := w.heroHitDamage(e)
		if h.Talents.Has("ibaraki_t2_lifesteal") {
			h.HP = math.Min(h.MaxHP, h.HP+dmg*lifestealFraction)
		}
		w.damage(e, dmg, NoEntity)
		swing := &hit{w: w, p: &Projectile{FromHero: true}, target: e, at: e.Pos, damage: dmg}
		heroEffects(h.Talents).resolve(swing, stagePoison, stageTalent)
		w.puff(e.Pos, "#fbbf24", 8, 8)
	}
	if h.HP <= 0 {
		e.Release()
		w.killHero()
	}
}
