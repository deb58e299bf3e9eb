package sim

import (
	"math"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

// Scheduler is the wave-progress record that lives beside the GameState.
// Only the tick and the wave actions touch it, and every wave change goes
// through AdvanceWave.
type Scheduler struct {
	Spawned         int     `msgpack:"spawned"`
	ToSpawn         int     `msgpack:"to_spawn"`
	SpawnTimer      float64 `msgpack:"spawn_timer"`
	BossSpawned     bool    `msgpack:"boss_spawned"`
	EventTriggered  bool    `msgpack:"event_triggered"`
	Rushed          bool    `msgpack:"rushed"`
	LastRushMs      float64 `msgpack:"last_rush_ms"`      // engine wall clock
	LastAdvanceTick uint64  `msgpack:"last_advance_tick"` // 0 means never
}

// NewScheduler returns the progress record for the first wave.
func NewScheduler(w config.WaveConfig) Scheduler {
	return Scheduler{ToSpawn: w.Quota(1)}
}

// WaveCleared reports whether the current wave spawned its whole quota and
// no enemy remains.
func (s *Scheduler) WaveCleared(st *GameState) bool {
	return s.Spawned >= s.ToSpawn && len(st.Enemies) == 0
}

// AdvanceWave moves the run to the next wave: it pays the rush bonus, starts
// the new wave timer and resets spawn progress. It does nothing when the
// level has no waves left or when a wave already advanced on the same tick,
// so a manual call and a timer expiry can never both fire.
func (s *Scheduler) AdvanceWave(st *GameState, tick uint64, w config.WaveConfig, tc config.TickConfig, maxWave int) (int, bool) {
	if st.Wave >= maxWave || (s.LastAdvanceTick != 0 && s.LastAdvanceTick == tick) {
		return 0, false
	}
	bonus := w.RushBonus(st.Wave)
	st.Money += float64(bonus)
	st.Stats.GoldEarned += float64(bonus)
	st.Wave++
	st.WaveTimer = tc.Ticks(w.TimerSeconds(st.Wave))

	s.ToSpawn = w.Quota(st.Wave)
	s.Spawned = 0
	s.SpawnTimer = 0
	s.BossSpawned = false
	s.EventTriggered = false
	s.LastAdvanceTick = tick
	return bonus, true
}

// advance runs AdvanceWave for the tick being built and logs it.
func (w *world) advance(tick uint64, reason string) bool {
	bonus, ok := w.sched.AdvanceWave(w.st, tick, w.cfg.Waves, w.cfg.Tick, w.level.Waves)
	if ok {
		w.log.Info("wave advanced", "wave", w.st.Wave, "reason", reason, "bonus", bonus)
	}
	return ok
}

// schedule is the per-tick scheduler step: wave timer, events, spawning.
func (w *world) schedule() {
	st, s, wc := w.st, w.sched, w.cfg.Waves

	if st.Wave < w.level.Waves {
		st.WaveTimer = math.Max(0, st.WaveTimer-w.speed)
		if st.WaveTimer <= 0 {
			w.advance(st.Tick, "timer")
		}
	}

	if wc.IsEventWave(st.Wave) && !s.EventTriggered {
		w.startEvent()
	}
	if st.Event != nil && s.WaveCleared(st) {
		w.log.Info("event cleared", "event", st.Event.Kind, "wave", st.Wave)
		st.Event = nil
	}

	s.SpawnTimer += w.speed
	switch {
	case wc.IsBossWave(st.Wave) && s.Spawned == 0 && !s.BossSpawned:
		w.spawnBoss(w.randomPath(), wc.SpawnOffset)
		s.BossSpawned = true
		s.Spawned++
	case s.Spawned < s.ToSpawn && s.SpawnTimer > wc.SpawnInterval(st.Wave):
		s.SpawnTimer = 0
		s.Spawned++
		w.spawnNormal(w.randomPath(), wc.SpawnOffset)
	}
}

// burstRemaining spawns what is left of the current wave's quota at once,
// boss first, spacing the enemies out behind the path start.
func (w *world) burstRemaining() {
	st, s, wc := w.st, w.sched, w.cfg.Waves
	left := s.ToSpawn - s.Spawned
	if left <= 0 {
		return
	}
	if wc.IsBossWave(st.Wave) && !s.BossSpawned {
		w.spawnBoss(w.randomPath(), wc.SpawnOffset)
		s.BossSpawned = true
		left--
	}
	for i := 0; i < left; i++ {
		w.spawnNormal(w.randomPath(), wc.SpawnOffset+float64(i)*wc.SpawnOffsetStep)
	}
	s.Spawned = s.ToSpawn
}

var baseEvents = []ActiveEvent{
	{Kind: EventEnemySpeed, Name: "Frenzied Tide", Description: "Enemies move 30% faster this wave"},
	{Kind: EventEnemyArmor, Name: "Iron Wall", Description: "Enemies take 20% less damage this wave"},
	{Kind: EventHeroCooldown, Name: "Mana Surge", Description: "Hero ultimate cooldown is halved"},
	{Kind: EventDoubleGold, Name: "Golden Age", Description: "Kills pay double gold this wave"},
}

var terrainEvents = map[content.Theme]ActiveEvent{
	content.ThemeForest: {Kind: EventForestEntangle, Name: "Thorn Spread", Description: "Enemies move 20% slower this wave"},
	content.ThemeDesert: {Kind: EventSandstorm, Name: "Sandstorm", Description: "Tower range is reduced by 25%"},
	content.ThemeSnow:   {Kind: EventBlizzard, Name: "Blizzard", Description: "Enemies move 30% slower this wave"},
	content.ThemeLava:   {Kind: EventLavaFlow, Name: "Lava Flood", Description: "Enemies burn continuously"},
	content.ThemeVoid:   {Kind: EventNullField, Name: "Null Field", Description: "Tower damage is reduced by 25%"},
}

// EventPool returns the events that can roll on a level of the given theme.
func EventPool(theme content.Theme) []ActiveEvent {
	pool := append([]ActiveEvent(nil), baseEvents...)
	if ev, ok := terrainEvents[theme]; ok {
		pool = append(pool, ev)
	}
	return pool
}

func (w *world) startEvent() {
	pool := EventPool(w.level.Theme)
	ev := pool[w.rng.Intn(len(pool))]
	ev.Wave = w.st.Wave
	w.st.Event = &ev
	w.sched.EventTriggered = true
	w.log.Info("event started", "event", ev.Kind, "wave", ev.Wave)
}

func (w *world) randomPath() int {
	return w.rng.Intn(len(w.level.Paths))
}

// spawnPoint is offset behind the path start, against its first segment.
func spawnPoint(path []core.Vec2, offset float64) core.Vec2 {
	if len(path) == 0 {
		return core.Vec2{}
	}
	if len(path) < 2 {
		return path[0]
	}
	dir, ok := path[0].Sub(path[1]).Normalized()
	if !ok {
		return path[0]
	}
	return path[0].Add(dir.Scale(offset))
}

func (w *world) newEnemy(kind string, pathID int, offset, scale float64, boss bool) Enemy {
	def := w.cat.MustEnemy(kind)
	hp := math.Max(1, math.Floor(def.HP*scale))
	return Enemy{
		ID:     w.st.newID(),
		Kind:   def.Kind,
		Pos:    spawnPoint(w.path(pathID), offset),
		HP:     hp,
		MaxHP:  hp,
		Speed:  def.Speed,
		Armor:  def.Armor,
		PathID: pathID,
		Flying: def.Flying,
		Boss:   boss,
	}
}

func (w *world) normalKind(wave int) string {
	if kind, ok := w.cat.Waves.BracketKind(wave); ok {
		return kind
	}
	pool := w.cat.NormalPool()
	return pool[w.rng.Intn(len(pool))]
}

func (w *world) spawnNormal(pathID int, offset float64) {
	wave := w.st.Wave
	kind := w.normalKind(wave)
	scale := w.cfg.Scaling.HPScale(wave) * w.cat.MustEnemy(kind).GrowthModifier()
	w.st.Enemies = append(w.st.Enemies, w.newEnemy(kind, pathID, offset, scale, false))
}

func (w *world) spawnBoss(pathID int, offset float64) {
	wave := w.st.Wave
	pool := w.cat.Waves.BossPool(wave)
	kind := pool[w.rng.Intn(len(pool))]
	e := w.newEnemy(kind, pathID, offset, w.cfg.Scaling.BossScale(wave), true)
	e.Speed *= w.cfg.Scaling.BossSpeedFactor
	w.st.Enemies = append(w.st.Enemies, e)
	w.log.Info("boss spawned", "kind", kind, "hp", e.HP, "wave", wave)
}
