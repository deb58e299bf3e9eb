package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/sky-guardians/internal/core"
)

func TestNewEngine(t *testing.T) {
	e := newTestEngine(t, Options{Level: 0, Hero: "h_rin"})
	st := e.State()

	if st.Wave != 1 || st.Speed != 1 || st.View != ViewPlaying {
		t.Errorf("Expected wave 1 at speed 1 playing, got wave %d speed %d view %v", st.Wave, st.Speed, st.View)
	}
	if st.Money != 500 {
		t.Errorf("Expected start money 500, got %.0f", st.Money)
	}
	if st.Lives != e.cfg.Balance.StartLives {
		t.Errorf("Expected %d lives, got %d", e.cfg.Balance.StartLives, st.Lives)
	}
	if st.Hero == nil || st.Hero.Pos != core.V(800, 300) {
		t.Errorf("Expected hero at the path end, got %+v", st.Hero)
	}
	if st.RunID == "" {
		t.Error("Expected a run id")
	}
	if e.Scheduler().ToSpawn != 10 {
		t.Errorf("Expected first quota 10, got %d", e.Scheduler().ToSpawn)
	}

	if _, err := New(Options{Level: 99}); err == nil {
		t.Error("Expected an error for an unknown level")
	}
	if _, err := New(Options{Level: 0, Hero: "h_nobody"}); err == nil {
		t.Error("Expected an error for an unknown hero")
	}
}

func TestAdvanceAccumulator(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})

	if n := e.Advance(10); n != 0 {
		t.Errorf("Expected 0 ticks for 10ms, got %d", n)
	}
	if n := e.Advance(10); n != 1 {
		t.Errorf("Expected 1 tick once 20ms accumulated, got %d", n)
	}
	if n := e.Advance(1000); n != e.cfg.Tick.MaxCatchUp {
		t.Errorf("Expected catch-up capped at %d, got %d", e.cfg.Tick.MaxCatchUp, n)
	}
	if n := e.Advance(1); n != 0 {
		t.Errorf("Expected the dropped backlog not to carry over, got %d ticks", n)
	}
	if got := e.State().Tick; got != 6 {
		t.Errorf("Expected 6 ticks in total, got %d", got)
	}
	if n := e.Advance(-5); n != 0 {
		t.Errorf("Expected no ticks for negative time, got %d", n)
	}
	if n := e.Advance(math.NaN()); n != 0 {
		t.Errorf("Expected no ticks for NaN, got %d", n)
	}
}

func TestFrozenRunDoesNotTick(t *testing.T) {
	tests := []struct {
		name   string
		freeze func(e *Engine)
		thaw   func(e *Engine)
	}{
		{"paused", func(e *Engine) { e.SetPaused(true) }, func(e *Engine) { e.SetPaused(false) }},
		{"modal", func(e *Engine) { e.SetModal(true) }, func(e *Engine) { e.SetModal(false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{Level: 1})
			e.Advance(10)
			tt.freeze(e)

			if n := e.Advance(500); n != 0 {
				t.Errorf("Expected no ticks while frozen, got %d", n)
			}
			e.Step(testTickMs)
			if e.State().Tick != 0 {
				t.Errorf("Expected tick 0, got %d", e.State().Tick)
			}

			tt.thaw(e)
			// The 10ms before the freeze were discarded with the accumulator.
			if n := e.Advance(10); n != 0 {
				t.Errorf("Expected the accumulator reset, got %d ticks", n)
			}
			if n := e.Advance(10); n != 1 {
				t.Errorf("Expected ticking to resume, got %d", n)
			}
		})
	}
}

func TestTickAdvancesClocks(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	money := e.State().Money
	e.ToggleSpeed()

	e.Step(testTickMs)

	st := e.State()
	if st.Tick != 1 || !approx(st.NowMs, testTickMs) || !approx(st.Stats.ElapsedMs, testTickMs) {
		t.Errorf("Expected one tick of time, got tick %d now %.2f", st.Tick, st.NowMs)
	}
	if !approx(st.Money-money, 2*e.cfg.Economy.PassiveIncome) {
		t.Errorf("Expected passive income scaled by speed, got %.3f", st.Money-money)
	}
	if want := e.cfg.Tick.Ticks(e.cfg.Waves.FirstTimerSeconds) - 2; !approx(st.WaveTimer, want) {
		t.Errorf("Expected wave timer %.0f, got %.0f", want, st.WaveTimer)
	}
}

func TestVictoryOnFiniteLevel(t *testing.T) {
	e := newTestEngine(t, Options{Level: 0})

	for i := 0; i < 5000 && e.State().View == ViewPlaying; i++ {
		for j := range e.st.Enemies {
			e.st.Enemies[j].HP = 0
		}
		_ = e.CallNextWave()
		e.Step(testTickMs)
	}

	st := e.State()
	if st.View != ViewVictory {
		t.Fatalf("Expected victory, got %v on wave %d", st.View, st.Wave)
	}
	if st.Stats.Kills != 70 {
		t.Errorf("Expected 70 kills, got %d", st.Stats.Kills)
	}
	if st.Lives != e.cfg.Balance.StartLives {
		t.Errorf("Expected no lives lost, got %d", st.Lives)
	}
	if st.Wave != e.level.Waves {
		t.Errorf("Expected final wave %d, got %d", e.level.Waves, st.Wave)
	}

	tick := st.Tick
	if n := e.Advance(1000); n != 0 || e.State().Tick != tick {
		t.Error("Expected a finished run to stay frozen")
	}
}

func TestEndlessLevelNeverWins(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	e.st.Wave = 50
	e.sched.Spawned = e.sched.ToSpawn
	e.st.WaveTimer = 1000
	e.Step(testTickMs)
	if e.State().View != ViewPlaying {
		t.Errorf("Expected endless run to continue, got %v", e.State().View)
	}
}

func TestSoak(t *testing.T) {
	if testing.Short() {
		t.Skip("soak test")
	}
	e := newTestEngine(t, Options{Level: 1, Hero: "h_grom", Seed: 7})
	e.st.Money = 5000
	for slot, tower := range []string{"archer", "barracks", "mage", "cannon", "support", "barracks"} {
		if _, err := e.BuildTower(slot, tower); err != nil {
			t.Fatalf("BuildTower %s: %v", tower, err)
		}
	}
	e.ToggleSpeed()
	e.ToggleSpeed()

	lives := e.State().Lives
	for i := 0; i < 6000 && e.State().View == ViewPlaying; i++ {
		if i%400 == 0 {
			_ = e.CallNextWave()
		}
		if i%900 == 0 {
			_ = e.CastUltimate()
		}
		e.Step(testTickMs)

		st := e.State()
		if st.Lives > lives || st.Lives < 0 {
			t.Fatalf("tick %d: lives went from %d to %d", st.Tick, lives, st.Lives)
		}
		lives = st.Lives
		for _, en := range st.Enemies {
			if math.IsNaN(en.HP) || math.IsNaN(en.Pos.X) || math.IsNaN(en.Pos.Y) {
				t.Fatalf("tick %d: enemy %d has NaN state", st.Tick, en.ID)
			}
			if en.HP > en.MaxHP+1e-6 {
				t.Fatalf("tick %d: enemy %d above max hp", st.Tick, en.ID)
			}
		}
		if b := e.Buffs(); b.EnemySlow > e.cfg.Balance.MaxTotalSlow+1e-9 || b.Speed > e.cfg.Balance.MaxGlobalSpeedBuff+1e-9 {
			t.Fatalf("tick %d: buffs above caps %+v", st.Tick, b)
		}
		checkBlocks(t, st)
	}
}

func TestSummary(t *testing.T) {
	e := newTestEngine(t, Options{Level: 0, Hero: "h_kael"})
	for i := 0; i < 60; i++ {
		e.Step(testTickMs)
	}
	s := e.Summary()
	if s.RunID != e.State().RunID || s.Hero != "h_kael" || s.Level != 0 {
		t.Errorf("Unexpected summary %+v", s)
	}
	if !approx(s.Elapsed.Seconds(), 1) {
		t.Errorf("Expected 1s elapsed, got %v", s.Elapsed)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() *GameState {
		e := newTestEngine(t, Options{Level: 2, Hero: "h_yuki", Seed: 99})
		e.BuildTower(0, "archer")
		e.BuildTower(3, "barracks")
		_ = e.CallNextWave()
		for i := 0; i < 600; i++ {
			e.Step(testTickMs)
		}
		return e.State()
	}
	a, b := run(), run()
	if a.Stats != b.Stats || a.Money != b.Money || len(a.Enemies) != len(b.Enemies) {
		t.Errorf("Expected identical runs, got %+v and %+v", a.Stats, b.Stats)
	}
	for i := range a.Enemies {
		if a.Enemies[i].Pos != b.Enemies[i].Pos || a.Enemies[i].HP != b.Enemies[i].HP {
			t.Fatalf("enemy %d differs between runs", i)
		}
	}
}
