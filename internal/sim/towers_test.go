package sim

import (
	"testing"

	"github.com/vovakirdan/sky-guardians/internal/core"
)

func TestGoldMinePayout(t *testing.T) {
	tests := []struct {
		name      string
		tier      int
		branch    int
		skills    map[string]int
		goldBuff  float64
		cap       float64
		lives     int
		wantGold  float64
		wantLives int
	}{
		{name: "camp", tier: 1, branch: -1, lives: 10, wantGold: 15, wantLives: 10},
		{name: "deep mine", tier: 2, branch: -1, lives: 10, wantGold: 30, wantLives: 10},
		{name: "gold buff doubles", tier: 1, branch: -1, goldBuff: 600, lives: 10, wantGold: 30, wantLives: 10},
		{name: "bank interest", tier: 3, branch: 0, skills: map[string]int{"bank_interest": 3}, lives: 10, wantGold: 46, wantLives: 10},
		{name: "bank interest capped", tier: 3, branch: 0, skills: map[string]int{"bank_interest": 1000}, cap: 300, lives: 10, wantGold: 345, wantLives: 10},
		{name: "gem bonus", tier: 3, branch: 2, skills: map[string]int{"gem_money": 2}, lives: 10, wantGold: 49, wantLives: 10},
		{name: "gem bonus with gold buff", tier: 3, branch: 2, skills: map[string]int{"gem_money": 2}, goldBuff: 1, lives: 10, wantGold: 98, wantLives: 10},
		{name: "smuggled life", tier: 3, branch: 1, skills: map[string]int{"market_smuggle": 20}, lives: 5, wantGold: 45, wantLives: 6},
		{name: "smuggled life capped", tier: 3, branch: 1, skills: map[string]int{"market_smuggle": 20}, lives: 20, wantGold: 45, wantLives: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{Level: 0})
			if tt.cap > 0 {
				e.cfg.Economy.BankInterestCap = tt.cap
			}
			id, err := e.BuildTower(3, "gold_mine")
			if err != nil {
				t.Fatalf("BuildTower failed: %v", err)
			}
			tw, _ := e.st.Tower(id)
			tw.Tier, tw.Branch = tt.tier, tt.branch
			for k, v := range tt.skills {
				tw.Skills[k] = v
			}
			tw.LastPayout = -10000
			e.st.GoldBuff = tt.goldBuff
			e.st.Lives = tt.lives
			money, earned := e.st.Money, e.st.Stats.GoldEarned

			w := testWorld(e)
			w.mine(tw, e.cat.MustTower("gold_mine").Stats(tw.Tier, tw.Branch), TowerStats{Rate: 1000})

			if got := e.st.Money - money; !approx(got, tt.wantGold) {
				t.Errorf("Expected %.0f gold, got %.2f", tt.wantGold, got)
			}
			if got := e.st.Stats.GoldEarned - earned; !approx(got, tt.wantGold) {
				t.Errorf("Expected %.0f gold earned, got %.2f", tt.wantGold, got)
			}
			if e.st.Lives != tt.wantLives {
				t.Errorf("Expected %d lives, got %d", tt.wantLives, e.st.Lives)
			}
			if tw.LastPayout != e.st.NowMs {
				t.Errorf("Expected payout time %.0f, got %.0f", e.st.NowMs, tw.LastPayout)
			}
		})
	}
}

func TestGoldMineWaitsForRate(t *testing.T) {
	e := newTestEngine(t, Options{Level: 0})
	id, err := e.BuildTower(3, "gold_mine")
	if err != nil {
		t.Fatalf("BuildTower failed: %v", err)
	}
	tw, _ := e.st.Tower(id)
	e.st.NowMs = 5000
	tw.LastPayout = 4500
	money := e.st.Money

	testWorld(e).mine(tw, e.cat.MustTower("gold_mine").T1, TowerStats{Rate: 1000})
	if e.st.Money != money {
		t.Errorf("Expected no payout before the rate elapsed, got %.0f more gold", e.st.Money-money)
	}
}

// soloBarracks builds a barracks on slot 1 and keeps a single soldier
// standing on its rally point.
func soloBarracks(t *testing.T) (*Engine, *Tower) {
	t.Helper()
	e := newTestEngine(t, Options{Level: 0})
	id, err := e.BuildTower(1, "barracks")
	if err != nil {
		t.Fatalf("BuildTower failed: %v", err)
	}
	tw, _ := e.st.Tower(id)
	tw.Soldiers = tw.Soldiers[:1]
	tw.Soldiers[0].Pos = rallyPoint(tw, 0)
	return e, tw
}

func TestSoldierMelee(t *testing.T) {
	t.Run("holds an enemy in reach", func(t *testing.T) {
		e, tw := soloBarracks(t)
		en := addEnemy(e, "GOBLIN", rallyPoint(tw, 0).Add(core.V(5, 0)), 5000)
		base := e.cat.MustTower("barracks").T1

		testWorld(e).soldiers(tw, base)

		s := tw.Soldiers[0]
		if en.BlockedBy != s.ID {
			t.Errorf("Expected enemy held by soldier %d, got %d", s.ID, en.BlockedBy)
		}
		if s.Target != en.ID {
			t.Errorf("Expected soldier target %d, got %d", en.ID, s.Target)
		}
		checkBlocks(t, e.st)
	})

	t.Run("death releases the block", func(t *testing.T) {
		e, tw := soloBarracks(t)
		en := addEnemy(e, "GOBLIN", rallyPoint(tw, 0).Add(core.V(5, 0)), 5000)
		base := e.cat.MustTower("barracks").T1
		w := testWorld(e)
		w.soldiers(tw, base)

		tw.Soldiers[0].HP = -1
		w.soldiers(tw, base)

		s := tw.Soldiers[0]
		if !s.Dead {
			t.Fatal("Expected the soldier to die")
		}
		if en.Blocked() {
			t.Errorf("Expected the enemy released, got blocked by %d", en.BlockedBy)
		}
		if s.Target != NoEntity {
			t.Errorf("Expected no target, got %d", s.Target)
		}
		if s.Respawn != e.cfg.Combat.SoldierRespawnTicks {
			t.Errorf("Expected respawn %.0f, got %.0f", e.cfg.Combat.SoldierRespawnTicks, s.Respawn)
		}
		checkBlocks(t, e.st)
	})

	t.Run("respawns at tier hp", func(t *testing.T) {
		e, tw := soloBarracks(t)
		tw.Tier = 2
		base := e.cat.MustTower("barracks").T2
		w := testWorld(e)
		tw.Soldiers[0].HP = -1
		w.soldiers(tw, base)

		ticks := 0
		for tw.Soldiers[0].Dead && ticks < 10000 {
			w.soldiers(tw, base)
			ticks++
		}
		if want := int(e.cfg.Combat.SoldierRespawnTicks); ticks != want {
			t.Errorf("Expected respawn after %d ticks, got %d", want, ticks)
		}
		s := tw.Soldiers[0]
		want := base.SoldierHP * w.buffs.SoldierHP
		if s.HP != want || s.MaxHP != want {
			t.Errorf("Expected hp %.0f/%.0f, got %.0f/%.0f", want, want, s.HP, s.MaxHP)
		}
		if s.Pos != rallyPoint(tw, 0) {
			t.Errorf("Expected respawn on the rally point, got %v", s.Pos)
		}
	})

	t.Run("leash releases a far target", func(t *testing.T) {
		e, tw := soloBarracks(t)
		rally := rallyPoint(tw, 0)
		en := addEnemy(e, "GOBLIN", rally.Add(core.V(5, 0)), 5000)
		s := &tw.Soldiers[0]
		s.Pos = rally.Add(core.V(e.cfg.Combat.LeashRange+50, 0))
		s.Target = en.ID
		en.BlockedBy = s.ID

		testWorld(e).soldiers(tw, e.cat.MustTower("barracks").T1)

		if en.Blocked() {
			t.Errorf("Expected the leashed enemy released, got blocked by %d", en.BlockedBy)
		}
		if s.Target != NoEntity {
			t.Errorf("Expected the soldier to drop its target, got %d", s.Target)
		}
	})
}

func TestSummons(t *testing.T) {
	tests := []struct {
		name   string
		branch int
		skills map[string]int
		limit  int
		hp     float64
	}{
		{"skeletons", 1, map[string]int{"necro_summon": 2}, 2, 300},
		{"golem", 2, map[string]int{"ele_golem": 2}, 1, 2000},
		{"no skeletons unlearned", 1, nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{Level: 0})
			id, err := e.BuildTower(2, "mage")
			if err != nil {
				t.Fatalf("BuildTower failed: %v", err)
			}
			tw, _ := e.st.Tower(id)
			tw.Tier, tw.Branch = 3, tt.branch
			for k, v := range tt.skills {
				tw.Skills[k] = v
			}
			base := e.cat.MustTower("mage").Stats(3, tt.branch)
			w := testWorld(e)
			interval := int(e.cfg.Combat.SummonIntervalTicks)

			for i := 0; i < interval; i++ {
				w.summon(tw, base.Summon)
			}
			if len(tw.Soldiers) != 0 {
				t.Fatalf("Expected no summon before the interval, got %d", len(tw.Soldiers))
			}
			for i := 0; i < (interval+1)*(tt.limit+2); i++ {
				w.summon(tw, base.Summon)
			}
			if len(tw.Soldiers) != tt.limit {
				t.Fatalf("Expected %d summons, got %d", tt.limit, len(tw.Soldiers))
			}
			if tt.limit == 0 {
				return
			}
			for _, s := range tw.Soldiers {
				if !s.Summon || s.MaxHP != tt.hp {
					t.Errorf("Expected a summon with %.0f hp, got summon=%v hp %.0f", tt.hp, s.Summon, s.MaxHP)
				}
			}

			tw.Soldiers[0].HP = -1
			w.soldiers(tw, base)
			if len(tw.Soldiers) != tt.limit-1 {
				t.Errorf("Expected a dead summon to be dropped, got %d soldiers", len(tw.Soldiers))
			}
			for _, s := range tw.Soldiers {
				if s.Dead {
					t.Error("Expected no dead summon waiting to respawn")
				}
			}
		})
	}
}

func TestTowerFiresFasterAtHigherSpeed(t *testing.T) {
	shots := func(speed int) int {
		e := newTestEngine(t, Options{Level: 0})
		if _, err := e.BuildTower(0, "archer"); err != nil {
			t.Fatalf("BuildTower failed: %v", err)
		}
		en := addEnemy(e, "GOBLIN", core.V(120, 200), 1e9)
		en.Speed = 0
		e.st.Speed = speed
		w := testWorld(e)
		for i := 0; i < 600; i++ {
			e.st.NowMs += testTickMs
			w.towers()
		}
		return len(e.st.Projectiles)
	}

	slow, fast := shots(1), shots(4)
	if slow == 0 {
		t.Fatal("Expected the archer to fire at speed 1")
	}
	if fast < 3*slow || fast > 5*slow {
		t.Errorf("Expected about 4x the shots at speed 4, got %d vs %d", fast, slow)
	}
}

func TestTeleportThrowsBack(t *testing.T) {
	tests := []struct {
		name   string
		chance float64
		moved  bool
	}{
		{"proc", 1.1, true},
		{"no proc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{Level: 0})
			path := e.level.Paths[0]
			en := addEnemy(e, "GOBLIN", path[4], 500)
			en.PathIndex = 4
			en.BlockedBy = 99

			h := &hit{w: testWorld(e), p: &Projectile{}, target: en, at: en.Pos}
			Teleport{Chance: tt.chance, Steps: 3}.apply(h)

			wantIndex, wantBlock := 4, EntityID(99)
			if tt.moved {
				wantIndex, wantBlock = 1, NoEntity
			}
			if en.PathIndex != wantIndex || en.Pos != path[wantIndex] {
				t.Errorf("Expected path index %d at %v, got %d at %v", wantIndex, path[wantIndex], en.PathIndex, en.Pos)
			}
			if en.BlockedBy != wantBlock {
				t.Errorf("Expected block %d, got %d", wantBlock, en.BlockedBy)
			}
		})
	}
}
