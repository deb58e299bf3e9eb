package sim

import (
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/sky-guardians/internal/core"
)

// Effect is an on-hit modifier a projectile carries from the moment it is
// fired. Effects are resolved in stage order after the base damage lands;
// Headshot is the one effect that runs before it.
type Effect interface {
	stage() stage
	apply(h *hit)
}

type stage int

const (
	stageExecute stage = iota
	stagePoison
	stageSlow
	stageStun
	stageTeleport
	stageChain
	stageTalent
	stageCluster
)

// hit is one resolution of a projectile against its primary target.
type hit struct {
	w      *world
	p      *Projectile
	target *Enemy
	at     core.Vec2
	damage float64
}

// Headshot executes non-boss targets with the given probability.
type Headshot struct {
	Chance float64
}

func (Headshot) stage() stage { return stageExecute }

func (e Headshot) apply(h *hit) {
	if h.target.Boss || h.w.rng.Float64() >= e.Chance {
		return
	}
	h.damage = h.target.HP + 999
	h.w.label(h.at.Add(core.V(0, -20)), "HEADSHOT!", "#ef4444")
}

// Poison adds poison time.
type Poison struct {
	Ticks float64
}

func (Poison) stage() stage { return stagePoison }

func (e Poison) apply(h *hit) {
	h.target.Status.Poison += e.Ticks
}

// Slow adds a slow stack. Stacks are capped, the accumulated percentage is
// capped, and the duration is refreshed to the full window rather than
// extended.
type Slow struct {
	Amount float64
}

func (Slow) stage() stage { return stageSlow }

func (e Slow) apply(h *hit) {
	bal := h.w.cfg.Balance
	st := &h.target.Status
	if st.SlowStacks < bal.MaxSlowStacks {
		st.SlowStacks++
		st.SlowPct += e.Amount
	}
	if st.SlowPct > bal.MaxTotalSlow {
		st.SlowPct = bal.MaxTotalSlow
	}
	if st.SlowTime < bal.SlowDurationTicks {
		st.SlowTime = bal.SlowDurationTicks
	}
}

// Stun adds stun time; a zero Chance always procs.
type Stun struct {
	Ticks  float64
	Chance float64
}

func (Stun) stage() stage { return stageStun }

func (e Stun) apply(h *hit) {
	if e.Chance > 0 && h.w.rng.Float64() >= e.Chance {
		return
	}
	h.target.Status.Stun += e.Ticks
}

// Curse makes the target take more damage from later hits.
type Curse struct {
	Amp   float64
	Ticks float64
}

func (Curse) stage() stage { return stageStun }

func (e Curse) apply(h *hit) {
	st := &h.target.Status
	st.Curse = max(st.Curse, e.Ticks)
	st.CurseAmp = max(st.CurseAmp, e.Amp)
}

// Teleport throws the target back along its path.
type Teleport struct {
	Chance float64
	Steps  int
}

func (Teleport) stage() stage { return stageTeleport }

func (e Teleport) apply(h *hit) {
	if h.w.rng.Float64() >= e.Chance {
		return
	}
	t := h.target
	path := h.w.path(t.PathID)
	if len(path) == 0 {
		return
	}
	t.PathIndex = max(0, t.PathIndex-e.Steps)
	t.Pos = path[t.PathIndex]
	if t.BlockedBy == HeroEntity {
		h.w.heroLost(t.ID)
	}
	t.Release()
	h.w.puff(h.at, "#a855f7", 15, 15)
}

// Chain arcs to up to Count nearby enemies for a fraction of the hit.
type Chain struct {
	Count    int
	Radius   float64
	Fraction float64
	Stun     float64
}

func (Chain) stage() stage { return stageChain }

func (e Chain) apply(h *hit) {
	n := 0
	for i := range h.w.st.Enemies {
		if n >= e.Count {
			break
		}
		o := &h.w.st.Enemies[i]
		if o.ID == h.target.ID || !o.Alive() || o.Pos.Dist(h.at) >= e.Radius {
			continue
		}
		h.w.damage(o, h.damage*e.Fraction, h.p.Source)
		o.Status.Stun += e.Stun
		h.w.puff(o.Pos, "#67e8f9", 8, 8)
		n++
	}
}

// Freeze sets the target's freeze time to at least Ticks.
type Freeze struct {
	Ticks float64
}

func (Freeze) stage() stage { return stageTalent }

func (e Freeze) apply(h *hit) {
	h.target.Status.Freeze = max(h.target.Status.Freeze, e.Ticks)
}

// Burn adds burn time to the target, or to every enemy near the impact when
// Radius is set.
type Burn struct {
	Ticks  float64
	Radius float64
}

func (Burn) stage() stage { return stageTalent }

func (e Burn) apply(h *hit) {
	if e.Radius <= 0 {
		h.target.Status.Burn += e.Ticks
		return
	}
	for i := range h.w.st.Enemies {
		o := &h.w.st.Enemies[i]
		if o.Alive() && o.Pos.Dist(h.at) < e.Radius {
			o.Status.Burn = max(o.Status.Burn, e.Ticks)
		}
	}
}

// Pierce damages enemies standing right next to the target.
type Pierce struct {
	Fraction float64
	Radius   float64
}

func (Pierce) stage() stage { return stageTalent }

func (e Pierce) apply(h *hit) {
	for i := range h.w.st.Enemies {
		o := &h.w.st.Enemies[i]
		if o.ID != h.target.ID && o.Alive() && o.Pos.Dist(h.at) < e.Radius {
			h.w.damage(o, h.damage*e.Fraction, h.p.Source)
		}
	}
}

// Cluster scatters secondary blasts around a splash impact.
type Cluster struct{}

const (
	clusterBlasts   = 3
	clusterRadius   = 50
	clusterFraction = 0.3
	clusterSpread   = 40
)

func (Cluster) stage() stage { return stageCluster }

func (Cluster) apply(h *hit) {
	for b := 0; b < clusterBlasts; b++ {
		c := h.at.Add(core.V(h.w.rng.Float64()*clusterSpread-clusterSpread/2, h.w.rng.Float64()*clusterSpread-clusterSpread/2))
		h.w.puff(c, "#ef4444", 20, 15)
		for i := range h.w.st.Enemies {
			o := &h.w.st.Enemies[i]
			if o.Alive() && o.Pos.Dist(c) <= clusterRadius {
				h.w.damage(o, h.damage*clusterFraction, h.p.Source)
			}
		}
	}
}

// EffectList is the ordered set of effects on a projectile.
type EffectList []Effect

// resolve applies every effect of the given stage range in stage order.
func (l EffectList) resolve(h *hit, from, to stage) {
	for s := from; s <= to; s++ {
		for _, e := range l {
			if e.stage() == s {
				e.apply(h)
			}
		}
	}
}

// Has reports whether an effect of the same concrete type as kind is
// present.
func (l EffectList) Has(kind Effect) bool {
	want := reflect.TypeOf(kind)
	for _, e := range l {
		if reflect.TypeOf(e) == want {
			return true
		}
	}
	return false
}

// effectRecord is the serialized form of one Effect.
type effectRecord struct {
	Kind string    `msgpack:"k"`
	V    []float64 `msgpack:"v,omitempty"`
}

func toRecord(e Effect) (effectRecord, error) {
	switch e := e.(type) {
	case Headshot:
		return effectRecord{"headshot", []float64{e.Chance}}, nil
	case Poison:
		return effectRecord{"poison", []float64{e.Ticks}}, nil
	case Slow:
		return effectRecord{"slow", []float64{e.Amount}}, nil
	case Stun:
		return effectRecord{"stun", []float64{e.Ticks, e.Chance}}, nil
	case Curse:
		return effectRecord{"curse", []float64{e.Amp, e.Ticks}}, nil
	case Teleport:
		return effectRecord{"teleport", []float64{e.Chance, float64(e.Steps)}}, nil
	case Chain:
		return effectRecord{"chain", []float64{float64(e.Count), e.Radius, e.Fraction, e.Stun}}, nil
	case Freeze:
		return effectRecord{"freeze", []float64{e.Ticks}}, nil
	case Burn:
		return effectRecord{"burn", []float64{e.Ticks, e.Radius}}, nil
	case Pierce:
		return effectRecord{"pierce", []float64{e.Fraction, e.Radius}}, nil
	case Cluster:
		return effectRecord{Kind: "cluster"}, nil
	}
	return effectRecord{}, fmt.Errorf("sim: cannot encode effect %T", e)
}

func fromRecord(r effectRecord) (Effect, error) {
	want := map[string]int{
		"headshot": 1, "poison": 1, "slow": 1, "stun": 2, "curse": 2, "teleport": 2,
		"chain": 4, "freeze": 1, "burn": 2, "pierce": 2, "cluster": 0,
	}
	n, ok := want[r.Kind]
	if !ok {
		return nil, fmt.Errorf("sim: unknown effect kind %q", r.Kind)
	}
	if len(r.V) != n {
		return nil, fmt.Errorf("sim: effect %q expects %d values, got %d", r.Kind, n, len(r.V))
	}
	v := r.V
	switch r.Kind {
	case "headshot":
		return Headshot{Chance: v[0]}, nil
	case "poison":
		return Poison{Ticks: v[0]}, nil
	case "slow":
		return Slow{Amount: v[0]}, nil
	case "stun":
		return Stun{Ticks: v[0], Chance: v[1]}, nil
	case "curse":
		return Curse{Amp: v[0], Ticks: v[1]}, nil
	case "teleport":
		return Teleport{Chance: v[0], Steps: int(v[1])}, nil
	case "chain":
		return Chain{Count: int(v[0]), Radius: v[1], Fraction: v[2], Stun: v[3]}, nil
	case "freeze":
		return Freeze{Ticks: v[0]}, nil
	case "burn":
		return Burn{Ticks: v[0], Radius: v[1]}, nil
	case "pierce":
		return Pierce{Fraction: v[0], Radius: v[1]}, nil
	default:
		return Cluster{}, nil
	}
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (l EffectList) EncodeMsgpack(enc *msgpack.Encoder) error {
	recs := make([]effectRecord, 0, len(l))
	for _, e := range l {
		r, err := toRecord(e)
		if err != nil {
			return err
		}
		recs = append(recs, r)
	}
	return enc.Encode(recs)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (l *EffectList) DecodeMsgpack(dec *msgpack.Decoder) error {
	var recs []effectRecord
	if err := dec.Decode(&recs); err != nil {
		return err
	}
	out := make(EffectList, 0, len(recs))
	for _, r := range recs {
		e, err := fromRecord(r)
		if err != nil {
			return err
		}
		out = append(out, e)
	}
	*l = out
	return nil
}
