package sim

import "math"

// Enemy movement and damage-over-time tuning.
const (
	enemySpeedEvent    = 1.3
	entangleFactor     = 0.8
	blizzardFactor     = 0.7
	freezeFactor       = 0.5
	burnPerTick        = 0.5
	poisonPerTick      = 0.8
	lavaPerTick        = 0.2
	rinBurnRadius      = 100
	rinBurnPerTick     = 0.5
	gromSlowRadius     = 50
	gromSlowFactor     = 0.4
	vexFearRadius      = 120
	vexFearFactor      = 0.8
)

// enemies runs the enemy pass: status decay, damage over time, blocks and
// the hero's melee, then movement along the path. Enemies that walk off the
// end of their path are marked as leaked.
func (w *world) enemies() {
	st := w.st
	h := st.Hero
	heroUp := h != nil && !h.Dead

	for i := range st.Enemies {
		e := &st.Enemies[i]
		if !e.Alive() {
			continue
		}
		s := &e.Status

		speed := e.Speed
		switch {
		case st.EventActive(EventEnemySpeed):
			speed *= enemySpeedEvent
		case st.EventActive(EventForestEntangle):
			speed *= entangleFactor
		case st.EventActive(EventBlizzard):
			speed *= blizzardFactor
		}

		if s.Freeze > 0 {
			speed *= freezeFactor
			s.Freeze = math.Max(0, s.Freeze-w.speed)
		}
		if s.SlowTime > 0 {
			s.SlowTime = math.Max(0, s.SlowTime-w.speed)
			if s.SlowTime <= 0 {
				s.SlowPct, s.SlowStacks = 0, 0
			}
		}
		if slow := w.buffs.TotalSlow(s.SlowPct); slow > 0 {
			speed *= 1 - slow
		}
		if s.Curse > 0 {
			s.Curse = math.Max(0, s.Curse-w.speed)
			if s.Curse <= 0 {
				s.CurseAmp = 0
			}
		}

		if s.Burn > 0 {
			w.damage(e, burnPerTick*w.speed, NoEntity)
			s.Burn = math.Max(0, s.Burn-w.speed)
		}
		if s.Poison > 0 {
			w.damage(e, poisonPerTick*w.speed, NoEntity)
			s.Poison = math.Max(0, s.Poison-w.speed)
		}
		if st.EventActive(EventLavaFlow) {
			w.damage(e, lavaPerTick*w.speed, NoEntity)
		}

		stunned := s.Stun > 0
		if stunned {
			speed = 0
			s.Stun = math.Max(0, s.Stun-w.speed)
		}

		w.checkBlock(e)
		if e.Blocked() && !stunned {
			speed = 0
		}

		if heroUp {
			d := e.Pos.Dist(h.Pos)
			if h.Talents.Has("rin_t2_burn") && d < rinBurnRadius {
				w.damage(e, rinBurnPerTick*w.speed, NoEntity)
			}
			if h.Talents.Has("grom_t2_slow") && d < gromSlowRadius {
				speed *= gromSlowFactor
			}
			if h.Talents.Has("vex_t2_fear") && d < vexFearRadius {
				speed *= vexFearFactor
			}
			if w.heroEngage(e) {
				speed = 0
			}
		}

		if e.BlockedBy == HeroEntity && h != nil && h.Fighting == e.ID && !h.Dead && e.Alive() {
			w.heroTrade(e)
			heroUp = !h.Dead
		}

		if !e.Blocked() && speed > 0 {
			w.walk(e, speed*w.speed)
		}
	}
}

// checkBlock frees an enemy whose blocker is gone: a dead or missing soldier,
// or a hero that died or walked out of reach.
func (w *world) checkBlock(e *Enemy) {
	switch e.BlockedBy {
	case NoEntity:
		return
	case HeroEntity:
		h := w.st.Hero
		if h == nil || h.Dead || h.Fighting != e.ID || e.Pos.Dist(h.Pos) > w.cfg.Combat.HeroLeashRange {
			e.Release()
			if h != nil && h.Fighting == e.ID {
				h.SetMode(ModeIdle)
			}
		}
	default:
		if !w.soldierHolds(e.BlockedBy, e.ID) {
			e.Release()
		}
	}
}

// soldierHolds reports whether a living soldier with the id targets the enemy.
func (w *world) soldierHolds(soldier, enemy EntityID) bool {
	for i := range w.st.Towers {
		for _, s := range w.st.Towers[i].Soldiers {
			if s.ID == soldier {
				return !s.Dead && s.Target == enemy
			}
		}
	}
	return false
}

// walk advances an enemy along its path by step units.
func (w *world) walk(e *Enemy, step float64) {
	path := w.path(e.PathID)
	if len(path) == 0 || e.PathIndex >= len(path)-1 {
		w.leaked[e.ID] = true
		return
	}
	next := path[e.PathIndex+1]
	pos, arrived := e.Pos.MoveToward(next, step)
	e.Pos = pos
	if arrived {
		e.PathIndex++
	}
}
