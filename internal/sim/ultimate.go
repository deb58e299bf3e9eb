package sim

import (
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
	"github.com/vovakirdan/sky-guardians/internal/registry"
)

// Skill effect kinds, one per hero ultimate.
const (
	fxRinBlast    = "RIN_BLAST"
	fxYukiRain    = "YUKI_RAIN"
	fxSakuraLaser = "SAKURA_LASER"
	fxTamamoFog   = "TAMAMO_FOG"
	fxIbarakiHand = "IBARAKI_HAND"
	fxKaelWind    = "KAEL_WIND"
	fxLyraLight   = "LYRA_LIGHT"
	fxGromQuake   = "GROM_QUAKE"
	fxVexVoid     = "VEX_VOID"
)

// UltimateFunc applies a hero's ultimate to the world being built. It
// returns the visual descriptor left behind and the damage it dealt.
type UltimateFunc func(w *world, h *Hero) (SkillEffect, float64)

var ultimates = registry.New[UltimateFunc]("ultimate")

func init() {
	ultimates.Register("h_rin", rinUltimate)
	ultimates.Register("h_yuki", yukiUltimate)
	ultimates.Register("h_sakura", sakuraUltimate)
	ultimates.Register("h_tamamo", tamamoUltimate)
	ultimates.Register("h_ibaraki", ibarakiUltimate)
	ultimates.Register("h_kael", kaelUltimate)
	ultimates.Register("h_lyra", lyraUltimate)
	ultimates.Register("h_grom", gromUltimate)
	ultimates.Register("h_vex", vexUltimate)
}

// HasUltimate reports whether a hero id has an ultimate registered.
func HasUltimate(heroID string) bool {
	return ultimates.Exists(heroID)
}

// ultimateTargets calls fn for every living enemy within radius of a point;
// a negative radius selects the whole field.
func (w *world) ultimateTargets(at core.Vec2, radius float64, fn func(e *Enemy)) {
	for i := range w.st.Enemies {
		e := &w.st.Enemies[i]
		if !e.Alive() {
			continue
		}
		if radius >= 0 && e.Pos.Dist(at) >= radius {
			continue
		}
		fn(e)
	}
}

// randomLiving picks a random living enemy, or nil when none is left.
func (w *world) randomLiving() *Enemy {
	var alive []*Enemy
	for i := range w.st.Enemies {
		if e := &w.st.Enemies[i]; e.Alive() {
			alive = append(alive, e)
		}
	}
	if len(alive) == 0 {
		return nil
	}
	return alive[w.rng.Intn(len(alive))]
}

func rinUltimate(w *world, h *Hero) (SkillEffect, float64) {
	dealt := 0.0
	w.ultimateTargets(h.Pos, 250, func(e *Enemy) {
		dealt += w.damage(e, 2000, NoEntity)
		e.Status.Stun += 300
		w.puff(e.Pos, "#ef4444", 10, 30)
	})
	if h.Talents.Has("rin_t3_ult") {
		h.HP = min(h.MaxHP, h.HP+h.MaxHP*0.5)
	}
	return SkillEffect{Kind: fxRinBlast, Timer: 60, Pos: h.Pos}, dealt
}

func yukiUltimate(w *world, h *Hero) (SkillEffect, float64) {
	t3 := h.Talents.Has("yuki_t3_ult")
	dealt := 0.0
	w.ultimateTargets(h.Pos, -1, func(e *Enemy) {
		dealt += w.damage(e, 200, NoEntity)
		if t3 {
			e.Status.Freeze += 180
		}
		w.puff(e.Pos.Add(core.V(0, -20)), "#60a5fa", 8, 20)
	})
	timer := 120.0
	if t3 {
		timer = 240
	}
	return SkillEffect{Kind: fxYukiRain, Timer: timer, Pos: core.V(FieldCenter.X, 0)}, dealt
}

// sakuraUltimate strikes around the toughest enemy, or with the tier-3
// talent drops three strikes on random enemies.
func sakuraUltimate(w *world, h *Hero) (SkillEffect, float64) {
	var target *Enemy
	for i := range w.st.Enemies {
		e := &w.st.Enemies[i]
		if e.Alive() && (target == nil || e.HP > target.HP) {
			target = e
		}
	}
	if target == nil {
		return SkillEffect{Kind: fxSakuraLaser, Timer: 40, Pos: h.Pos}, 0
	}
	fx := SkillEffect{Kind: fxSakuraLaser, Timer: 40, Pos: target.Pos}
	dealt := 0.0
	if h.Talents.Has("sakura_t3_ult") {
		for i := 0; i < 3; i++ {
			e := w.randomLiving()
			if e == nil {
				break
			}
			dealt += w.damage(e, 5000, NoEntity)
			w.puff(e.Pos, "#db2777", 100, 60)
		}
		return fx, dealt
	}
	at := target.Pos
	w.ultimateTargets(at, 200, func(e *Enemy) {
		dealt += w.damage(e, 5000, NoEntity)
	})
	w.puff(at, "#db2777", 200, 60)
	return fx, dealt
}

func tamamoUltimate(w *world, h *Hero) (SkillEffect, float64) {
	burn := 300.0
	if h.Talents.Has("tamamo_t3_ult") {
		burn = 600
	}
	dealt := 0.0
	w.ultimateTargets(h.Pos, -1, func(e *Enemy) {
		e.Status.Burn += burn
		e.Status.Freeze += 480
		dealt += w.damage(e, 2000, NoEntity)
	})
	return SkillEffect{Kind: fxTamamoFog, Timer: 300, Pos: FieldCenter}, dealt
}

func ibarakiUltimate(w *world, h *Hero) (SkillEffect, float64) {
	h.HP = min(h.MaxHP, h.HP+2000)
	radius := 300.0
	if h.Talents.Has("ibaraki_t3_ult") {
		radius = 400
	}
	dealt := 0.0
	w.ultimateTargets(h.Pos, radius, func(e *Enemy) {
		dealt += w.damage(e, 3000, NoEntity)
	})
	return SkillEffect{Kind: fxIbarakiHand, Timer: 50, Pos: h.Pos}, dealt
}

func kaelUltimate(w *world, h *Hero) (SkillEffect, float64) {
	strikes := 15
	if h.Talents.Has("kael_t3_ult") {
		strikes = 25
	}
	dealt := 0.0
	for i := 0; i < strikes; i++ {
		e := w.randomLiving()
		if e == nil {
			break
		}
		dealt += w.damage(e, 350, NoEntity)
		w.puff(e.Pos, "#10b981", 20, 20)
	}
	return SkillEffect{Kind: fxKaelWind, Timer: 30, Pos: h.Pos}, dealt
}

// lyraUltimate revives and heals every barracks soldier and the hero. The
// light it leaves behind also speeds up every tower while it lasts.
func lyraUltimate(w *world, h *Hero) (SkillEffect, float64) {
	for i := range w.st.Towers {
		t := &w.st.Towers[i]
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
	h.HP = h.MaxHP
	timer := 120.0
	if h.Talents.Has("lyra_t3_ult") {
		timer = 240
	}
	return SkillEffect{Kind: fxLyraLight, Timer: timer, Pos: FieldCenter}, 0
}

func gromUltimate(w *world, h *Hero) (SkillEffect, float64) {
	dmg := 1500.0
	if h.Talents.Has("grom_t3_ult") {
		dmg = 2500
	}
	dealt := 0.0
	w.ultimateTargets(h.Pos, -1, func(e *Enemy) {
		e.Status.Stun += 480
		dealt += w.damage(e, dmg, NoEntity)
	})
	return SkillEffect{Kind: fxGromQuake, Timer: 60, Pos: h.Pos}, dealt
}

// vexUltimate tears a fraction of max hp from everything near the middle of
// the field and drags it toward the center.
func vexUltimate(w *world, h *Hero) (SkillEffect, float64) {
	frac := 0.05
	if h.Talents.Has("vex_t3_ult") {
		frac = 0.1
	}
	dealt := 0.0
	w.ultimateTargets(FieldCenter, 400, func(e *Enemy) {
		dealt += w.damage(e, e.MaxHP*frac, NoEntity)
		e.Pos = e.Pos.Lerp(FieldCenter, 0.15)
	})
	return SkillEffect{Kind: fxVexVoid, Timer: 180, Pos: FieldCenter}, dealt
}
