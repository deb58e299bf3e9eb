package sim

import (
	"math"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

// Shop effect tuning.
const (
	healLives    = 5
	freezeTicks  = 480
	nukeFraction = 0.5
)

// apply runs a player action against a copy of the committed state and
// commits the copy only when the action succeeds, so a rejected action
// never leaves a partial change behind.
func (e *Engine) apply(fn func(w *world) error) error {
	if e.st.View.Terminal() {
		return ErrNotPlaying
	}
	next := e.st.Clone()
	sched := e.sched
	if err := fn(e.world(next, &sched, 0)); err != nil {
		return err
	}
	e.st, e.sched = next, sched
	e.buffs = ComputeBuffs(next, e.cfg.Balance)
	return nil
}

// charge takes gold for an action. Admin runs build for free.
func (w *world) charge(cost int) error {
	if w.st.Admin {
		return nil
	}
	if w.st.Money < float64(cost) {
		return ErrInsufficientFunds
	}
	w.st.Money -= float64(cost)
	return nil
}

// BuildTower places a tier-1 tower on a free build slot and returns its id.
// Barracks start with three soldiers.
func (e *Engine) BuildTower(slot int, towerID string) (EntityID, error) {
	var id EntityID
	err := e.apply(func(w *world) error {
		if slot < 0 || slot >= len(w.level.BuildSlots) {
			return ErrUnknownSlot
		}
		if _, taken := w.st.TowerAt(slot); taken {
			return ErrSlotOccupied
		}
		def, ok := w.cat.Tower(towerID)
		if !ok {
			return ErrUnknownTower
		}
		if err := w.charge(def.T1.Cost); err != nil {
			return err
		}

		pos := w.level.BuildSlots[slot]
		t := Tower{
			ID:         w.st.newID(),
			DefID:      def.ID,
			Kind:       def.Kind,
			Slot:       slot,
			Pos:        pos,
			Tier:       1,
			Branch:     -1,
			Skills:     make(map[string]int),
			Investment: def.T1.Cost,
		}
		if def.Kind == content.KindBarracks {
			hp := def.T1.SoldierHP * w.buffs.SoldierHP
			for i := 0; i < 3; i++ {
				t.Soldiers = append(t.Soldiers, Soldier{
					ID:     w.st.newID(),
					Pos:    pos.Add(core.V(w.rng.Float64()*20-10, 30)),
					HP:     hp,
					MaxHP:  hp,
					Damage: def.T1.Damage,
				})
			}
		}
		w.st.Towers = append(w.st.Towers, t)
		id = t.ID
		w.log.Debug("tower built", "tower", def.ID, "slot", slot)
		return nil
	})
	return id, err
}

// UpgradeTower raises a tower one tier. The step to tier 3 takes the branch
// index; earlier steps ignore it. Tiers and branches never go back.
func (e *Engine) UpgradeTower(id EntityID, branch int) error {
	return e.apply(func(w *world) error {
		t, ok := w.st.Tower(id)
		if !ok {
			return ErrUnknownTower
		}
		def := w.cat.MustTower(t.DefID)

		var cost int
		switch t.Tier {
		case 1:
			cost = def.T2.Cost
		case 2:
			if branch < 0 || branch >= len(def.Branches) {
				return ErrInvalidUpgrade
			}
			cost = def.Branches[branch].Cost
		default:
			return ErrInvalidUpgrade
		}
		if err := w.charge(cost); err != nil {
			return err
		}

		t.Tier++
		if t.Tier == 3 {
			t.Branch = branch
		}
		t.Investment += cost

		base := def.Stats(t.Tier, t.Branch)
		for i := range t.Soldiers {
			s := &t.Soldiers[i]
			if s.Summon {
				continue
			}
			s.MaxHP = base.SoldierHP * w.buffs.SoldierHP
			s.Damage = base.Damage
			if !s.Dead {
				s.HP = s.MaxHP
			}
		}
		w.log.Debug("tower upgraded", "tower", t.DefID, "tier", t.Tier, "branch", t.Branch)
		return nil
	})
}

// UpgradeSkill buys the next level of a tier-3 branch skill. Each level
// costs the skill's base cost times the level being bought.
func (e *Engine) UpgradeSkill(id EntityID, skillID string) error {
	return e.apply(func(w *world) error {
		t, ok := w.st.Tower(id)
		if !ok {
			return ErrUnknownTower
		}
		if t.Tier != 3 {
			return ErrInvalidUpgrade
		}
		skill, ok := w.cat.MustTower(t.DefID).Stats(3, t.Branch).Skill(skillID)
		if !ok {
			return ErrInvalidUpgrade
		}
		lv := t.Skill(skillID)
		if lv >= skill.Max() {
			return ErrSkillMaxed
		}
		cost := SkillCost(skill, lv)
		if err := w.charge(cost); err != nil {
			return err
		}
		t.Skills[skillID] = lv + 1
		t.Investment += cost
		return nil
	})
}

// SkillCost is the price of the level after current.
func SkillCost(skill content.SkillDef, current int) int {
	return skill.Cost * (current + 1)
}

// SellRefund is what selling a tower pays back.
func SellRefund(t *Tower, fraction float64) int {
	return int(math.Floor(float64(t.Investment) * fraction))
}

// SellTower removes a tower with its soldiers and refunds part of the gold
// invested in it. Enemies its soldiers held are released.
func (e *Engine) SellTower(id EntityID) (int, error) {
	var refund int
	err := e.apply(func(w *world) error {
		t, ok := w.st.Tower(id)
		if !ok {
			return ErrUnknownTower
		}
		held := make(map[EntityID]bool, len(t.Soldiers))
		for _, s := range t.Soldiers {
			held[s.ID] = true
		}
		for i := range w.st.Enemies {
			if en := &w.st.Enemies[i]; held[en.BlockedBy] {
				en.Release()
			}
		}

		refund = SellRefund(t, w.cfg.Economy.SellRefund)
		if !w.st.Admin {
			w.st.Money += float64(refund)
		}
		w.label(t.Pos, "Sold", "#fbbf24")

		kept := w.st.Towers[:0]
		for _, o := range w.st.Towers {
			if o.ID != id {
				kept = append(kept, o)
			}
		}
		w.st.Towers = kept
		return nil
	})
	return refund, err
}

// SetRally moves the rally point of a tower's soldiers. The point must lie
// within the tower's range plus the rally reach.
func (e *Engine) SetRally(id EntityID, at core.Vec2) error {
	return e.apply(func(w *world) error {
		t, ok := w.st.Tower(id)
		if !ok {
			return ErrUnknownTower
		}
		stats := EffectiveTowerStats(t, w.cat.MustTower(t.DefID), w.buffs, w.st.Event)
		if t.Pos.Dist(at) > stats.Range+w.cfg.Combat.RallyReach {
			return ErrOutOfRange
		}
		p := at
		t.Rally = &p
		for i := range t.Soldiers {
			w.releaseSoldierTarget(&t.Soldiers[i])
		}
		return nil
	})
}

// MoveHero sends the hero toward a point, leaving any fight it is in.
func (e *Engine) MoveHero(at core.Vec2) error {
	return e.apply(func(w *world) error {
		h := w.st.Hero
		if h == nil || h.Dead {
			return ErrHeroUnavailable
		}
		if h.Mode == ModeFighting {
			if en, ok := w.st.Enemy(h.Fighting); ok && en.BlockedBy == HeroEntity {
				en.Release()
			}
		}
		if !h.SetMode(ModeMoving) {
			return ErrHeroUnavailable
		}
		p := at
		h.Target = &p
		return nil
	})
}

// CastUltimate fires the hero's ultimate and starts its cooldown. During a
// hero-cooldown event the cooldown starts at half length.
func (e *Engine) CastUltimate() error {
	return e.apply(func(w *world) error {
		h := w.st.Hero
		if h == nil || h.Dead {
			return ErrHeroUnavailable
		}
		if h.Cooldown > 0 && !w.st.Admin {
			return ErrOnCooldown
		}
		fn, err := ultimates.Get(w.heroDef.ID)
		if err != nil {
			return ErrHeroUnavailable
		}
		fx, dealt := fn(w, h)
		w.st.SkillEffect = &fx

		cd := w.cfg.Tick.Ticks(w.hero.Cooldown)
		if w.st.EventActive(EventHeroCooldown) {
			cd *= 0.5
		}
		h.Cooldown = cd
		w.log.Info("ultimate cast", "hero", w.heroDef.ID, "effect", fx.Kind, "damage", dealt)
		return nil
	})
}

// BuyItem buys and uses a shop item. Each item has its own cooldown.
func (e *Engine) BuyItem(itemID string) error {
	return e.apply(func(w *world) error {
		st := w.st
		item, ok := w.cat.ShopItem(itemID)
		if !ok {
			return ErrUnknownItem
		}
		if !st.Admin && st.ItemCooldowns[itemID] > 0 {
			return ErrOnCooldown
		}
		if err := w.charge(item.Cost); err != nil {
			return err
		}
		if !st.Admin {
			st.ItemCooldowns[itemID] = w.cfg.Tick.Ticks(item.Cooldown)
		}

		h := st.Hero
		switch item.Effect {
		case content.EffectHeal:
			st.Lives = min(w.maxLives(), st.Lives+healLives)
			if h != nil {
				if h.Dead {
					h.Dead = false
					h.Respawn = 0
					h.Mode = ModeIdle
				}
				h.HP = h.MaxHP
			}
			w.puff(FieldCenter, "#ef4444", 100, 60)
		case content.EffectMana:
			if h != nil {
				h.Cooldown = 0
				w.puff(h.Pos, "#3b82f6", 50, 60)
			}
		case content.EffectFortify:
			st.GoldBuff = w.cfg.Economy.GoldBuffTicks
			for i := range st.Towers {
				t := &st.Towers[i]
				if t.Kind != content.KindBarracks {
					continue
				}
				for j := range t.Soldiers {
					s := &t.Soldiers[j]
					s.Dead = false
					s.Respawn = 0
					s.HP = s.MaxHP
				}
			}
		case content.EffectBerserk:
			if h == nil {
				return ErrHeroUnavailable
			}
			h.Berserk = w.cfg.Economy.BerserkTicks
			w.puff(h.Pos, "#ef4444", 80, 60)
		case content.EffectFreeze:
			for i := range st.Enemies {
				st.Enemies[i].Status.Freeze = freezeTicks
			}
		case content.EffectNuke:
			for i := range st.Enemies {
				en := &st.Enemies[i]
				w.damage(en, en.HP*nukeFraction, NoEntity)
			}
			w.puff(FieldCenter, "#fbbf24", 1000, 60)
		}
		w.log.Debug("item used", "item", item.ID, "effect", item.Effect)
		return nil
	})
}

// CallNextWave rushes the next wave: whatever is left of the current wave
// spawns at once and the wave advances with the rush bonus. Calls closer
// together than the debounce window are rejected.
func (e *Engine) CallNextWave() error {
	if e.sched.Rushed && e.clockMs-e.sched.LastRushMs < e.cfg.Tick.RushDebounceMs {
		return ErrDebounced
	}
	if e.st.Wave >= e.level.Waves {
		return ErrWaveLocked
	}
	return e.apply(func(w *world) error {
		w.burstRemaining()
		if !w.advance(w.st.Tick+1, "rush") {
			return ErrDebounced
		}
		w.sched.Rushed = true
		w.sched.LastRushMs = e.clockMs
		return nil
	})
}

// ToggleSpeed cycles the speed multiplier 1, 2, 4 and back to 1.
func (e *Engine) ToggleSpeed() int {
	next := e.st.Clone()
	switch next.Speed {
	case 1:
		next.Speed = 2
	case 2:
		next.Speed = 4
	default:
		next.Speed = 1
	}
	e.st = next
	return next.Speed
}

// SetPaused freezes or resumes the simulation.
func (e *Engine) SetPaused(paused bool) {
	if e.st.Paused == paused {
		return
	}
	next := e.st.Clone()
	next.Paused = paused
	e.st = next
}

// SetModal marks a blocking overlay, such as the bestiary, as open. The
// simulation is frozen while it is.
func (e *Engine) SetModal(open bool) {
	if e.st.Modal == open {
		return
	}
	next := e.st.Clone()
	next.Modal = open
	e.st = next
}

// AdminSpawn adds one enemy of any kind, scaled like a boss of the current
// wave so it is not killed instantly.
func (e *Engine) AdminSpawn(kind string) error {
	return e.apply(func(w *world) error {
		if !w.st.Admin {
			return ErrNotAdmin
		}
		def, ok := w.cat.Enemy(kind)
		if !ok {
			return ErrUnknownEnemy
		}
		en := w.newEnemy(def.Kind, w.randomPath(), w.cfg.Waves.SpawnOffset, w.cfg.Scaling.BossScale(w.st.Wave), def.Boss)
		w.st.Enemies = append(w.st.Enemies, en)
		w.log.Debug("admin spawn", "kind", def.Kind, "hp", en.HP)
		return nil
	})
}

// AdminKillAll clears the field without paying rewards.
func (e *Engine) AdminKillAll() error {
	return e.apply(func(w *world) error {
		if !w.st.Admin {
			return ErrNotAdmin
		}
		for _, en := range w.st.Enemies {
			w.puff(en.Pos, "#ef4444", 20, 30)
			w.label(en.Pos, "CLEARED", "#ffffff")
			w.heroLost(en.ID)
		}
		for i := range w.st.Towers {
			for j := range w.st.Towers[i].Soldiers {
				w.st.Towers[i].Soldiers[j].Target = NoEntity
			}
		}
		w.st.Enemies = nil
		return nil
	})
}
