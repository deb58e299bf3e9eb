package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

// Tower skill tuning.
const (
	headshotPerLevel   = 0.02
	poisonTicks        = 120
	vineSlowPerLevel   = 0.1
	teleportPerLevel   = 0.05
	teleportSteps      = 5
	chainRadius        = 100
	chainFraction      = 0.7
	chainStunTicks     = 10
	teslaStunPerLevel  = 30
	cursePerLevel      = 0.1
	curseTicks         = 180
	arcaneCritPerLevel = 0.1
	critMultiplier     = 2

	paladinHealPerLevel = 100.0 / 300
	paladinArmorPerLvl  = 0.05
	sinCritChance       = 0.2
	sinDodgePerLevel    = 0.15
	whirlPerLevel       = 0.1
	whirlRadius         = 50
	burnAuraRadius      = 50
	burnAuraTicks       = 60
	lyraHealRadius      = 120
	lyraHealPerTick     = 0.5
	snapDistance        = 2

	bankInterestPerLvl = 0.01
	gemMoneyPerLevel   = 2
	smugglePerLevel    = 0.05
)

// rallyPoint is the formation slot of a tower's i-th soldier.
func rallyPoint(t *Tower, i int) core.Vec2 {
	if t.Rally != nil {
		return t.Rally.Add(core.V(float64(i%3-1)*15, float64(i/3)*15))
	}
	return t.Pos.Add(core.V(float64(i-1)*20, 30+float64(i%2)*10))
}

// towerEffects lists the on-hit effects a tower's skills put on its shots.
func towerEffects(t *Tower) EffectList {
	var fx EffectList
	if lv := t.Skill("sniper_headshot"); lv > 0 {
		fx = append(fx, Headshot{Chance: float64(lv) * headshotPerLevel})
	}
	if t.Skill("ranger_poison") > 0 {
		fx = append(fx, Poison{Ticks: poisonTicks})
	}
	if lv := t.Skill("vine_slow"); lv > 0 {
		fx = append(fx, Slow{Amount: float64(lv) * vineSlowPerLevel})
	}
	if lv := t.Skill("arcane_teleport"); lv > 0 {
		fx = append(fx, Teleport{Chance: float64(lv) * teleportPerLevel, Steps: teleportSteps})
	}
	if lv := t.Skill("tesla_chain"); lv > 0 {
		fx = append(fx, Chain{Count: lv, Radius: chainRadius, Fraction: chainFraction, Stun: chainStunTicks})
	}
	if lv := t.Skill("tesla_stun"); lv > 0 {
		fx = append(fx, Stun{Ticks: float64(lv) * teslaStunPerLevel})
	}
	if lv := t.Skill("necro_curse"); lv > 0 {
		fx = append(fx, Curse{Amp: float64(lv) * cursePerLevel, Ticks: curseTicks})
	}
	if t.Skill("bertha_cluster") > 0 {
		fx = append(fx, Cluster{})
	}
	return fx
}

// towers runs the tower pass: summons, soldiers, mines and ranged attacks.
func (w *world) towers() {
	st := w.st
	for i := range st.Towers {
		t := &st.Towers[i]
		def := w.cat.MustTower(t.DefID)
		base := def.Stats(t.Tier, t.Branch)
		stats := EffectiveTowerStats(t, def, w.buffs, st.Event)

		if w.speed > 1 {
			t.LastAttack -= w.elapsed * (w.speed - 1)
			t.LastPayout -= w.elapsed * (w.speed - 1)
		}

		if base.Summon != nil {
			w.summon(t, base.Summon)
		}
		if len(t.Soldiers) > 0 {
			w.soldiers(t, base)
		}
		if t.Kind == content.KindGoldMine {
			w.mine(t, base, stats)
		}
		if t.Kind != content.KindBarracks && stats.Damage > 0 && stats.Projectile != content.ProjectileNone {
			w.fire(t, stats)
		}
	}
}

func (w *world) summon(t *Tower, sd *content.SummonDef) {
	limit := sd.BaseCount
	if lv := t.Skill(sd.CountSkill); lv > 0 {
		limit = lv
	}
	if limit <= 0 {
		return
	}
	t.SummonTimer += w.speed
	if t.SummonTimer <= w.cfg.Combat.SummonIntervalTicks {
		return
	}
	t.SummonTimer = 0

	alive := 0
	for _, s := range t.Soldiers {
		if !s.Dead {
			alive++
		}
	}
	if alive >= limit {
		return
	}
	hp := sd.HP + float64(t.Skill(sd.HPSkill))*sd.HPPerLevel
	t.Soldiers = append(t.Soldiers, Soldier{
		ID:     w.st.newID(),
		Pos:    t.Pos,
		HP:     hp,
		MaxHP:  hp,
		Damage: sd.Damage,
		Summon: true,
	})
}

// soldiers updates a tower's melee roster. Dead summons are dropped.
func (w *world) soldiers(t *Tower, base content.TierStats) {
	st, cb := w.st, w.cfg.Combat
	throw := t.Skill("barb_throw") > 0
	reach := cb.EngageRange
	if throw {
		reach = cb.ThrowRange
	}

	for j := range t.Soldiers {
		s := &t.Soldiers[j]
		rally := rallyPoint(t, j)
		if !s.Summon {
			s.MaxHP = base.SoldierHP * w.buffs.SoldierHP
			s.Damage = base.Damage
		}

		if s.Dead {
			if s.Summon {
				continue
			}
			s.Respawn -= w.speed
			if s.Respawn <= 0 {
				*s = Soldier{ID: s.ID, Pos: rally, HP: s.MaxHP, MaxHP: s.MaxHP, Damage: s.Damage}
			}
			continue
		}

		w.healSoldier(t, s)

		if t.Skill("ele_burn") > 0 {
			for k := range st.Enemies {
				if e := &st.Enemies[k]; e.Pos.Dist(s.Pos) < burnAuraRadius {
					e.Status.Burn = math.Max(e.Status.Burn, burnAuraTicks)
				}
			}
		}

		if s.Pos.Dist(rally) > cb.LeashRange {
			w.releaseSoldierTarget(s)
		}

		var target *Enemy
		if s.Target != NoEntity {
			if e, ok := st.Enemy(s.Target); ok && e.Alive() && (!e.Flying || throw) && e.Pos.Dist(s.Pos) <= cb.TargetDropRange {
				target = e
			} else {
				w.releaseSoldierTarget(s)
			}
		}
		if target == nil {
			target = w.acquire(s, rally, throw)
		}

		switch {
		case target == nil:
			if s.Pos.Dist(rally) > snapDistance {
				s.Pos, _ = s.Pos.MoveToward(rally, cb.ReturnSpeed*w.speed)
			} else {
				s.Pos = rally
			}
		case target.Pos.Dist(s.Pos) <= reach:
			w.melee(t, s, target, base)
		default:
			s.Pos, _ = s.Pos.MoveToward(target.Pos, cb.ChaseSpeed*w.speed)
		}

		if s.HP <= 0 {
			w.releaseSoldierTarget(s)
			s.HP = 0
			s.Dead = true
			s.Respawn = cb.SoldierRespawnTicks
		}
	}

	kept := t.Soldiers[:0]
	for _, s := range t.Soldiers {
		if !(s.Summon && s.Dead) {
			kept = append(kept, s)
		}
	}
	t.Soldiers = kept
}

func (w *world) healSoldier(t *Tower, s *Soldier) {
	heal := float64(t.Skill("paladin_heal")) * paladinHealPerLevel * w.speed
	heal += w.buffs.SoldierRegen * w.speed
	if h := w.st.Hero; h != nil && !h.Dead && h.Talents.Has("lyra_t2_heal") && h.Pos.Dist(s.Pos) < lyraHealRadius {
		heal += lyraHealPerTick * w.speed
	}
	if heal > 0 && s.HP < s.MaxHP {
		s.HP = math.Min(s.MaxHP, s.HP+heal)
	}
}

// releaseSoldierTarget drops a soldier's target and frees the enemy if the
// soldier was the one holding it.
func (w *world) releaseSoldierTarget(s *Soldier) {
	if s.Target == NoEntity {
		return
	}
	if e, ok := w.st.Enemy(s.Target); ok && e.BlockedBy == s.ID {
		e.Release()
	}
	s.Target = NoEntity
}

// acquire picks the closest eligible enemy within aggro range that is still
// inside the leash around the soldier's rally point.
func (w *world) acquire(s *Soldier, rally core.Vec2, throw bool) *Enemy {
	cb := w.cfg.Combat
	var best *Enemy
	bestDist := math.Inf(1)
	for i := range w.st.Enemies {
		e := &w.st.Enemies[i]
		if !e.Alive() || (e.Flying && !throw) {
			continue
		}
		if e.Blocked() && e.BlockedBy != s.ID {
			continue
		}
		if e.Pos.Dist(rally) > cb.LeashRange {
			continue
		}
		if d := e.Pos.Dist(s.Pos); d < cb.AggroRange && d < bestDist {
			best, bestDist = e, d
		}
	}
	if best != nil {
		s.Target = best.ID
	}
	return best
}

// melee resolves one tick of a soldier in contact with its target: the
// soldier pins ground enemies, then both sides roll to land a hit.
func (w *world) melee(t *Tower, s *Soldier, target *Enemy, base content.TierStats) {
	cb := w.cfg.Combat
	if !target.Flying && (!target.Blocked() || target.BlockedBy == s.ID) {
		target.BlockedBy = s.ID
		if dir, ok := target.Pos.Sub(s.Pos).Normalized(); ok {
			target.Pos = s.Pos.Add(dir.Scale(cb.BlockDistance))
		}
	}

	if w.rng.Float64() < cb.MeleeHitChance*w.speed {
		dmg := s.Damage * w.buffs.Damage
		if lv := t.Skill("sin_crit"); lv > 0 && w.rng.Float64() < sinCritChance {
			dmg *= 1.5 + float64(lv)*0.5
		}
		if lv := t.Skill("barb_whirl"); lv > 0 && w.rng.Float64() < float64(lv)*whirlPerLevel {
			for i := range w.st.Enemies {
				if e := &w.st.Enemies[i]; e.Pos.Dist(s.Pos) < whirlRadius {
					w.damage(e, dmg, t.ID)
				}
			}
			w.puff(s.Pos, "#fca5a5", 30, 10)
		} else {
			w.damage(target, dmg, t.ID)
		}
		w.puff(target.Pos, "#ffffff", 4, 5)
	}

	if w.rng.Float64() < cb.RetaliationChance*w.speed && target.Status.Stun <= 0 {
		dmg := cb.EnemyMeleeDamage * (1 - w.buffs.DamageReduction)
		armor := base.SoldierArmor + float64(t.Skill("paladin_armor"))*paladinArmorPerLvl
		if armor > 0 {
			dmg = math.Max(1, dmg*(1-armor))
		}
		if lv := t.Skill("sin_dodge"); lv > 0 && w.rng.Float64() < float64(lv)*sinDodgePerLevel {
			return
		}
		s.HP -= dmg
	}
}

// mine pays out a gold mine on its own timer.
func (w *world) mine(t *Tower, base content.TierStats, stats TowerStats) {
	st := w.st
	if st.NowMs-t.LastPayout <= stats.Rate {
		return
	}
	t.LastPayout = st.NowMs

	amount := base.Yield
	if amount <= 0 {
		amount = w.cfg.Economy.Yield(t.Tier)
	}
	if t.Tier == 3 && t.Branch == 0 {
		if lv := t.Skill("bank_interest"); lv > 0 {
			amount += math.Min(math.Floor(amount*bankInterestPerLvl*float64(lv)), w.cfg.Economy.BankInterestCap)
		}
	}
	if t.Tier == 3 && t.Branch == 2 {
		amount += float64(t.Skill("gem_money") * gemMoneyPerLevel)
	}
	if lv := t.Skill("market_smuggle"); lv > 0 && w.rng.Float64() < float64(lv)*smugglePerLevel {
		st.Lives = min(w.maxLives(), st.Lives+1)
		w.label(t.Pos.Add(core.V(0, -40)), "+1 Life", "#f87171")
	}
	if st.GoldBuff > 0 {
		amount *= 2
	}
	st.Money += amount
	st.Stats.GoldEarned += amount
	w.puff(t.Pos.Add(core.V(0, -10)), "#fcd34d", 15, 30)
	w.label(t.Pos.Add(core.V(0, -30)), fmt.Sprintf("+%dg", int(amount)), "#fbbf24")
}

func (w *world) maxLives() int {
	if w.st.Admin {
		return w.cfg.Admin.Lives
	}
	return w.cfg.Balance.MaxLives
}

// fire launches a tower's shots at the first enemy in range once its attack
// interval has elapsed on the sim clock.
func (w *world) fire(t *Tower, stats TowerStats) {
	st := w.st
	if st.NowMs-t.LastAttack <= stats.Rate {
		return
	}
	var target *Enemy
	for i := range st.Enemies {
		if e := &st.Enemies[i]; e.Alive() && e.Pos.Dist(t.Pos) <= stats.Range {
			target = e
			break
		}
	}
	if target == nil {
		return
	}

	targets := []*Enemy{target}
	if extra := t.Skill("ranger_multi"); extra > 0 {
		for i := range st.Enemies {
			if len(targets) > extra {
				break
			}
			e := &st.Enemies[i]
			if e.ID != target.ID && e.Alive() && e.Pos.Dist(t.Pos) <= stats.Range {
				targets = append(targets, e)
			}
		}
	}
	for n := t.Skill("mech_missile"); n > 0; n-- {
		targets = append(targets, target)
	}

	fx := towerEffects(t)
	arcane := float64(t.Skill("arcane_crit")) * arcaneCritPerLevel
	for _, tgt := range targets {
		dmg := stats.Damage
		crit := w.rng.Float64() < w.buffs.Crit
		if arcane > 0 {
			crit = crit || w.rng.Float64() < arcane
		}
		if crit {
			dmg *= critMultiplier
		}
		st.Projectiles = append(st.Projectiles, Projectile{
			ID:      st.newID(),
			Pos:     t.Pos.Add(core.V(0, -20)),
			Target:  tgt.ID,
			Aim:     tgt.Pos,
			Speed:   w.cfg.Combat.ProjectileSpeed,
			Damage:  dmg,
			Kind:    stats.Projectile,
			Splash:  stats.Splash,
			Ignore:  stats.ArmorIgnore > 0 && w.rng.Float64() < stats.ArmorIgnore,
			Source:  t.ID,
			Effects: fx,
		})
	}
	t.LastAttack = st.NowMs
}
