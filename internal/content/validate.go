package content

import (
	"errors"
	"fmt"
)

// Validate checks every table for broken references and impossible numbers.
// All problems are returned together as one joined error.
func (t Tables) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("content: "+format, args...))
	}

	heroIDs := make(map[string]bool)
	for _, h := range t.Heroes {
		if h.ID == "" {
			add("hero with empty id")
			continue
		}
		if heroIDs[h.ID] {
			add("duplicate hero %q", h.ID)
		}
		heroIDs[h.ID] = true
		if h.Stats.HP <= 0 {
			add("hero %q: hp must be positive", h.ID)
		}
		if h.Stats.Cooldown <= 0 {
			add("hero %q: cooldown must be positive", h.ID)
		}
		for _, tl := range h.Talents {
			if tl.Tier < 1 || tl.Tier > 3 {
				add("hero %q: talent %q has tier %d", h.ID, tl.ID, tl.Tier)
			}
		}
	}

	towerIDs := make(map[string]bool)
	for _, d := range t.Towers {
		if towerIDs[d.ID] {
			add("duplicate tower %q", d.ID)
		}
		towerIDs[d.ID] = true
		switch d.Kind {
		case KindBarracks, KindArcher, KindMage, KindCannon, KindGoldMine, KindSupport:
		default:
			add("tower %q: unknown kind %q", d.ID, d.Kind)
		}
		if len(d.Branches) != 3 {
			add("tower %q: expected 3 branches, got %d", d.ID, len(d.Branches))
		}
		tiers := append([]TierStats{d.T1, d.T2}, d.Branches...)
		for i, ts := range tiers {
			if ts.Cost <= 0 {
				add("tower %q: tier entry %d (%s) has no cost", d.ID, i, ts.Name)
			}
			if ts.Damage > 0 && ts.Projectile == ProjectileNone && d.Kind != KindBarracks {
				add("tower %q: %s deals damage without a projectile", d.ID, ts.Name)
			}
			if d.Kind == KindBarracks && ts.SoldierHP <= 0 {
				add("tower %q: %s has no soldier hp", d.ID, ts.Name)
			}
			for _, sk := range ts.Skills {
				if sk.Cost <= 0 {
					add("tower %q: skill %q has no cost", d.ID, sk.ID)
				}
			}
		}
	}

	enemyKinds := make(map[string]EnemyDef)
	for _, e := range t.Enemies {
		if _, dup := enemyKinds[e.Kind]; dup {
			add("duplicate enemy %q", e.Kind)
		}
		enemyKinds[e.Kind] = e
		if e.HP <= 0 {
			add("enemy %q: hp must be positive", e.Kind)
		}
		if e.Armor < 0 || e.Armor >= 1 {
			add("enemy %q: armor %.2f outside [0, 1)", e.Kind, e.Armor)
		}
	}

	levelIDs := make(map[int]bool)
	for _, l := range t.Levels {
		if levelIDs[l.ID] {
			add("duplicate level %d", l.ID)
		}
		levelIDs[l.ID] = true
		if l.Waves <= 0 {
			add("level %d: waves must be positive", l.ID)
		}
		if len(l.Paths) == 0 {
			add("level %d: no paths", l.ID)
		}
		for i, p := range l.Paths {
			if len(p) < 2 {
				add("level %d: path %d needs at least two points", l.ID, i)
			}
		}
		if len(l.BuildSlots) == 0 {
			add("level %d: no build slots", l.ID)
		}
	}

	for _, it := range t.Shop {
		switch it.Effect {
		case EffectHeal, EffectMana, EffectFortify, EffectBerserk, EffectFreeze, EffectNuke:
		default:
			add("shop item %q: unknown effect %q", it.ID, it.Effect)
		}
	}

	for _, b := range t.Waves.Brackets {
		if _, ok := enemyKinds[b.Kind]; !ok {
			add("wave bracket %d: unknown enemy %q", b.Until, b.Kind)
		}
	}
	if len(t.Waves.Bosses) == 0 {
		add("wave table: empty boss pool")
	}
	for _, k := range t.Waves.Bosses {
		if _, ok := enemyKinds[k]; !ok {
			add("wave table: unknown boss %q", k)
		}
	}
	normal := 0
	for _, e := range enemyKinds {
		if !e.Boss {
			normal++
		}
	}
	if normal == 0 {
		add("enemy table has no non-boss kinds")
	}

	return errors.Join(errs...)
}
