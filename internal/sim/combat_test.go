package sim

import (
	"testing"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/core"
)

func TestImpactArmor(t *testing.T) {
	tests := []struct {
		name   string
		ignore bool
		want   float64
	}{
		{"armor applies", false, 60},
		{"armor ignored", true, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{Level: 1})
			en := addEnemy(e, "SLIME", core.V(100, 100), 100)
			en.Armor = 0.2
			w := testWorld(e)

			p := &Projectile{Damage: 50, Kind: content.ProjectileArrow, Target: en.ID, Ignore: tt.ignore}
			w.impact(p, &e.st.Enemies[0], en.Pos)

			if got := e.st.Enemies[0].HP; !approx(got, tt.want) {
				t.Errorf("Expected hp %.0f, got %.2f", tt.want, got)
			}
		})
	}
}

func TestDamageCountsOnlyApplied(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	addEnemy(e, "SLIME", core.V(100, 100), 10)
	w := testWorld(e)

	dealt := w.damage(&e.st.Enemies[0], 50, 7)
	if dealt != 10 {
		t.Errorf("Expected 10 damage applied, got %.1f", dealt)
	}
	if e.st.Stats.DamageDealt != 10 {
		t.Errorf("Expected 10 damage counted, got %.1f", e.st.Stats.DamageDealt)
	}
	if w.pendingDamage[7] != 10 || e.st.Enemies[0].LastHitBy != 7 {
		t.Errorf("Expected tower 7 credited, got %.1f / %d", w.pendingDamage[7], e.st.Enemies[0].LastHitBy)
	}
	if again := w.damage(&e.st.Enemies[0], 5, 7); again != 0 {
		t.Errorf("Expected no damage to a dead enemy, got %.1f", again)
	}
}

func TestSplashHitsEveryoneInRadius(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	addEnemy(e, "SLIME", core.V(100, 100), 100)
	addEnemy(e, "SLIME", core.V(130, 100), 100)
	addEnemy(e, "SLIME", core.V(300, 100), 100)
	for i := range e.st.Enemies {
		e.st.Enemies[i].Armor = 0.5
	}
	w := testWorld(e)

	p := &Projectile{Damage: 40, Kind: content.ProjectileBomb, Splash: 50, Target: e.st.Enemies[0].ID}
	w.impact(p, &e.st.Enemies[0], core.V(100, 100))

	want := []float64{60, 60, 100}
	for i, hp := range want {
		if got := e.st.Enemies[i].HP; !approx(got, hp) {
			t.Errorf("enemy %d: expected hp %.0f, got %.2f", i, hp, got)
		}
	}
}

func TestBombLandsOnLastAim(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	addEnemy(e, "SLIME", core.V(100, 100), 100)
	e.st.Projectiles = []Projectile{{
		ID:     e.st.newID(),
		Pos:    core.V(0, 100),
		Target: 9999,
		Aim:    core.V(100, 100),
		Speed:  8,
		Damage: 30,
		Kind:   content.ProjectileBomb,
		Splash: 40,
	}}
	w := testWorld(e)

	for i := 0; i < 20 && len(e.st.Projectiles) > 0; i++ {
		w.projectiles()
	}

	if len(e.st.Projectiles) != 0 {
		t.Fatalf("Expected the bomb to land, %d projectiles left", len(e.st.Projectiles))
	}
	if got := e.st.Enemies[0].HP; !approx(got, 70) {
		t.Errorf("Expected splash damage at the aim point, hp %.2f", got)
	}
}

func TestLostShotIsDiscarded(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	addEnemy(e, "SLIME", core.V(10, 100), 100)
	e.st.Projectiles = []Projectile{{
		ID:     e.st.newID(),
		Pos:    core.V(0, 100),
		Target: 9999,
		Aim:    core.V(10, 100),
		Speed:  8,
		Damage: 30,
		Kind:   content.ProjectileArrow,
	}}
	w := testWorld(e)
	w.projectiles()

	if len(e.st.Projectiles) != 0 {
		t.Errorf("Expected the orphaned arrow removed, got %d", len(e.st.Projectiles))
	}
	if e.st.Enemies[0].HP != 100 {
		t.Errorf("Expected no damage from a lost shot, hp %.1f", e.st.Enemies[0].HP)
	}
}

func TestHeadshot(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	addEnemy(e, "SLIME", core.V(100, 100), 1000)
	addEnemy(e, "GOLEM", core.V(200, 100), 1000)
	e.st.Enemies[1].Boss = true
	e.st.Enemies[1].Armor = 0
	w := testWorld(e)

	for i := range e.st.Enemies {
		p := &Projectile{Damage: 10, Kind: content.ProjectileArrow, Effects: EffectList{Headshot{Chance: 1}}}
		w.impact(p, &e.st.Enemies[i], e.st.Enemies[i].Pos)
	}

	if e.st.Enemies[0].Alive() {
		t.Errorf("Expected normal enemy executed, hp %.1f", e.st.Enemies[0].HP)
	}
	if got := e.st.Enemies[1].HP; !approx(got, 990) {
		t.Errorf("Expected boss to take normal damage, hp %.1f", got)
	}
}

func TestChainArcsToNeighbours(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	for _, x := range []float64{100, 120, 140, 160, 400} {
		addEnemy(e, "SLIME", core.V(x, 100), 100)
	}
	w := testWorld(e)

	p := &Projectile{Damage: 40, Kind: content.ProjectileMagic, Effects: EffectList{Chain{Count: 2, Radius: 100, Fraction: 0.5, Stun: 10}}}
	w.impact(p, &e.st.Enemies[0], e.st.Enemies[0].Pos)

	hit := 0
	for _, en := range e.st.Enemies[1:] {
		if en.HP < 100 {
			hit++
			if !approx(en.HP, 80) || en.Status.Stun != 10 {
				t.Errorf("enemy %d: expected 20 chain damage and stun, got hp %.1f stun %.0f", en.ID, en.HP, en.Status.Stun)
			}
		}
	}
	if hit != 2 {
		t.Errorf("Expected 2 chained enemies, got %d", hit)
	}
	if e.st.Enemies[4].HP != 100 {
		t.Error("Expected the far enemy untouched")
	}
	if e.st.Enemies[0].Status.Freeze < magicFreezeTicks {
		t.Error("Expected magic hit to freeze its target")
	}
}

func TestDeathPaidOnce(t *testing.T) {
	e := newTestEngine(t, Options{Level: 1})
	id, err := e.BuildTower(0, "archer")
	if err != nil {
		t.Fatalf("BuildTower failed: %v", err)
	}
	en := addEnemy(e, "SLIME", core.V(100, 50), 20)
	en.HP = 0
	en.LastHitBy = id
	reward := e.cat.MustEnemy("SLIME").Reward

	for i := 0; i < 3; i++ {
		e.Step(testTickMs)
	}

	st := e.State()
	if st.Stats.Kills != 1 {
		t.Errorf("Expected 1 kill, got %d", st.Stats.Kills)
	}
	if st.Stats.GoldEarned != reward {
		t.Errorf("Expected %.0f gold earned, got %.1f", reward, st.Stats.GoldEarned)
	}
	tw, _ := st.Tower(id)
	if tw.Kills != 1 {
		t.Errorf("Expected kill credited to tower, got %d", tw.Kills)
	}
	if len(st.Enemies) != 0 {
		t.Errorf("Expected dead enemy removed, got %d", len(st.Enemies))
	}
}

func TestLeakCostsLives(t *testing.T) {
	tests := []struct {
		name string
		boss bool
		want int
	}{
		{"normal leak", false, 19},
		{"boss leak", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{Level: 1})
			e.st.Hero = nil
			path := e.level.Paths[0]
			en := addEnemy(e, "SLIME", path[len(path)-1], 50)
			en.PathIndex = len(path) - 1
			en.Boss = tt.boss

			e.Step(testTickMs)

			if got := e.State().Lives; got != tt.want {
				t.Errorf("Expected %d lives, got %d", tt.want, got)
			}
			if tt.boss && e.State().View != ViewGameOver {
				t.Errorf("Expected game over, got %v", e.State().View)
			}
		})
	}
}
