package sim

import (
	"errors"
	"testing"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

func TestAdvanceWaveOncePerTick(t *testing.T) {
	cfg := config.DefaultSimConfig()
	st := &GameState{Wave: 3, Money: 100}
	s := NewScheduler(cfg.Waves)
	s.Spawned = 4
	s.BossSpawned = true

	bonus, ok := s.AdvanceWave(st, 10, cfg.Waves, cfg.Tick, 9999)
	if !ok {
		t.Fatal("Expected first advance to succeed")
	}
	if _, ok := s.AdvanceWave(st, 10, cfg.Waves, cfg.Tick, 9999); ok {
		t.Fatal("Expected a second advance on the same tick to be refused")
	}

	if st.Wave != 4 {
		t.Errorf("Expected wave 4, got %d", st.Wave)
	}
	if bonus != cfg.Waves.RushBonus(3) {
		t.Errorf("Expected bonus %d, got %d", cfg.Waves.RushBonus(3), bonus)
	}
	if st.Money != 100+float64(bonus) {
		t.Errorf("Expected bonus paid once, money %.0f", st.Money)
	}
	if s.Spawned != 0 || s.BossSpawned || s.EventTriggered || s.SpawnTimer != 0 {
		t.Errorf("Expected counters reset, got %+v", s)
	}
	if s.ToSpawn != cfg.Waves.Quota(4) {
		t.Errorf("Expected quota %d, got %d", cfg.Waves.Quota(4), s.ToSpawn)
	}

	if _, ok := s.AdvanceWave(st, 11, cfg.Waves, cfg.Tick, 9999); !ok {
		t.Error("Expected advance on a later tick to succeed")
	}
	if _, ok := s.AdvanceWave(&GameState{Wave: 5}, 12, cfg.Waves, cfg.Tick, 5); ok {
		t.Error("Expected advance past the last wave to be refused")
	}
}

func TestWaveTimerExpiry(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	e.st.WaveTimer = 1
	gold := e.st.Stats.GoldEarned

	e.Step(testTickMs)

	st := e.State()
	if st.Wave != 2 {
		t.Fatalf("Expected wave 2, got %d", st.Wave)
	}
	bonus := float64(e.cfg.Waves.RushBonus(1))
	if st.Stats.GoldEarned-gold != bonus {
		t.Errorf("Expected %.0f bonus gold once, got %.0f", bonus, st.Stats.GoldEarned-gold)
	}
	s := e.Scheduler()
	if s.Spawned != 0 || s.BossSpawned {
		t.Errorf("Expected reset counters, got spawned=%d boss=%v", s.Spawned, s.BossSpawned)
	}
	if want := e.cfg.Tick.Ticks(e.cfg.Waves.TimerSeconds(2)); st.WaveTimer != want {
		t.Errorf("Expected wave timer %.0f, got %.0f", want, st.WaveTimer)
	}
}

func TestRushAndTimerSameTick(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	gold := e.st.Stats.GoldEarned

	if err := e.CallNextWave(); err != nil {
		t.Fatalf("CallNextWave failed: %v", err)
	}
	// Force the timer to expire on the tick the rush was stamped with.
	e.st.WaveTimer = 1
	e.Step(testTickMs)

	if e.State().Wave != 2 {
		t.Errorf("Expected exactly one wave increment, got wave %d", e.State().Wave)
	}
	if got := e.State().Stats.GoldEarned - gold; got != float64(e.cfg.Waves.RushBonus(1)) {
		t.Errorf("Expected one rush bonus, got %.0f gold", got)
	}

	w := testWorld(e)
	if w.advance(e.sched.LastAdvanceTick, "timer") {
		t.Error("Expected the stamped tick to refuse a second advance")
	}
}

func TestCallNextWave(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	quota := e.sched.ToSpawn

	if err := e.CallNextWave(); err != nil {
		t.Fatalf("CallNextWave failed: %v", err)
	}
	if got := len(e.State().Enemies); got != quota {
		t.Errorf("Expected %d burst-spawned enemies, got %d", quota, got)
	}
	if err := e.CallNextWave(); !errors.Is(err, ErrDebounced) {
		t.Errorf("Expected ErrDebounced, got %v", err)
	}

	for i := 0; i < 15; i++ {
		e.Step(testTickMs)
	}
	if err := e.CallNextWave(); err != nil {
		t.Errorf("Expected call after the debounce window to succeed, got %v", err)
	}
	if e.State().Wave != 3 {
		t.Errorf("Expected wave 3, got %d", e.State().Wave)
	}
}

func TestCallNextWaveLockedOnLastWave(t *testing.T) {
	e := newTestEngine(t, Options{Level: 0})
	e.st.Wave = e.level.Waves
	if err := e.CallNextWave(); !errors.Is(err, ErrWaveLocked) {
		t.Errorf("Expected ErrWaveLocked, got %v", err)
	}
}

func TestBossSpawnsFirst(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	e.st.Wave = 10
	e.sched = Scheduler{ToSpawn: e.cfg.Waves.Quota(10)}

	e.Step(testTickMs)

	st := e.State()
	if len(st.Enemies) != 1 || !st.Enemies[0].Boss {
		t.Fatalf("Expected one boss on the first tick, got %d enemies", len(st.Enemies))
	}
	if e.sched.Spawned != 1 || !e.sched.BossSpawned {
		t.Errorf("Expected boss to take a quota slot, got %+v", e.sched)
	}
	pool := e.cat.Waves.BossPool(10)
	found := false
	for _, k := range pool {
		found = found || k == st.Enemies[0].Kind
	}
	if !found {
		t.Errorf("Boss %s not in early pool %v", st.Enemies[0].Kind, pool)
	}
}

func TestEventWaveStartsAndClears(t *testing.T) {
	e := newTestEngine(t, Options{Level: 2})
	e.st.Wave = 5
	e.sched = Scheduler{ToSpawn: 1}

	e.Step(testTickMs)
	if e.State().Event == nil {
		t.Fatal("Expected an event on wave 5")
	}
	if e.State().Event.Wave != 5 {
		t.Errorf("Expected event wave 5, got %d", e.State().Event.Wave)
	}

	e.sched.Spawned = 1
	e.st.Enemies = nil
	e.Step(testTickMs)
	if e.State().Event != nil {
		t.Error("Expected event cleared once the wave is cleared")
	}
	if !e.sched.EventTriggered {
		t.Error("Expected the event not to re-trigger on the same wave")
	}
}

func TestEventPool(t *testing.T) {
	for theme, ev := range terrainEvents {
		pool := EventPool(theme)
		if len(pool) != len(baseEvents)+1 {
			t.Errorf("%s: expected %d events, got %d", theme, len(baseEvents)+1, len(pool))
		}
		if pool[len(pool)-1].Kind != ev.Kind {
			t.Errorf("%s: expected terrain event %s, got %s", theme, ev.Kind, pool[len(pool)-1].Kind)
		}
	}
}

func TestSpawnPointBehindStart(t *testing.T) {
	tests := []struct {
		name string
		path []core.Vec2
		want core.Vec2
	}{
		{"horizontal", []core.Vec2{core.V(0, 200), core.V(200, 200)}, core.V(-30, 200)},
		{"vertical", []core.Vec2{core.V(100, 0), core.V(100, 100)}, core.V(100, -30)},
		{"coincident", []core.Vec2{core.V(5, 5), core.V(5, 5)}, core.V(5, 5)},
		{"single point", []core.Vec2{core.V(7, 8)}, core.V(7, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spawnPoint(tt.path, 30)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
