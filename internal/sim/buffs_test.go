package sim

import (
	"testing"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
)

func supportTower(id EntityID, branch int, skills map[string]int) Tower {
	return Tower{ID: id, DefID: "support", Kind: content.KindSupport, Tier: 3, Branch: branch, Skills: skills}
}

func TestTotemBonusCapped(t *testing.T) {
	bal := config.DefaultSimConfig().Balance

	tests := []struct {
		name   string
		totems int
		level  int
		want   float64
	}{
		{"single", 1, 0, bal.TotemBaseSpeed},
		{"two below caps", 2, 0, 2 * bal.TotemBaseSpeed},
		{"stack count cap", 5, 0, float64(bal.MaxTotemStacks) * bal.TotemBaseSpeed},
		{"absolute cap", 10, 3, bal.MaxTotemTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &GameState{}
			for i := 0; i < tt.totems; i++ {
				st.Towers = append(st.Towers, supportTower(EntityID(i+2), branchBloodlust, map[string]int{"totem_speed": tt.level}))
			}
			b := ComputeBuffs(st, bal)
			if !approx(b.TotemBonus, tt.want) {
				t.Errorf("Expected totem bonus %.3f, got %.3f", tt.want, b.TotemBonus)
			}
			if b.TotemBonus > bal.MaxTotemTotal+1e-9 {
				t.Errorf("Totem bonus %.3f above cap %.3f", b.TotemBonus, bal.MaxTotemTotal)
			}
			if b.Speed > bal.MaxGlobalSpeedBuff+1e-9 {
				t.Errorf("Speed %.3f above global cap", b.Speed)
			}
		})
	}
}

func TestSlowNeverExceedsCap(t *testing.T) {
	cfg := config.DefaultSimConfig()
	st := &GameState{}
	for i := 0; i < 12; i++ {
		st.Towers = append(st.Towers, supportTower(EntityID(i+2), branchFear, map[string]int{"fear_slow": 3}))
	}
	b := ComputeBuffs(st, cfg.Balance)
	if b.EnemySlow > cfg.Balance.MaxTotalSlow+1e-9 {
		t.Fatalf("Global slow %.3f above cap %.3f", b.EnemySlow, cfg.Balance.MaxTotalSlow)
	}

	w := &world{cfg: cfg, st: &GameState{}}
	target := &Enemy{ID: 2, HP: 100, MaxHP: 100}
	h := &hit{w: w, p: &Projectile{}, target: target}
	for i := 0; i < 15; i++ {
		Slow{Amount: 0.3}.apply(h)
	}
	if target.Status.SlowStacks > cfg.Balance.MaxSlowStacks {
		t.Errorf("Expected at most %d stacks, got %d", cfg.Balance.MaxSlowStacks, target.Status.SlowStacks)
	}
	if target.Status.SlowPct > cfg.Balance.MaxTotalSlow+1e-9 {
		t.Errorf("Per-enemy slow %.3f above cap", target.Status.SlowPct)
	}
	if target.Status.SlowTime != cfg.Balance.SlowDurationTicks {
		t.Errorf("Expected slow time refreshed to %.0f, got %.0f", cfg.Balance.SlowDurationTicks, target.Status.SlowTime)
	}
	if total := b.TotalSlow(target.Status.SlowPct); total > cfg.Balance.MaxTotalSlow+1e-9 {
		t.Errorf("Combined slow %.3f above cap %.3f", total, cfg.Balance.MaxTotalSlow)
	}
}

func TestSupportAuras(t *testing.T) {
	bal := config.DefaultSimConfig().Balance
	st := &GameState{Towers: []Tower{
		{ID: 2, DefID: "support", Kind: content.KindSupport, Tier: 1, Branch: -1},
		{ID: 3, DefID: "support", Kind: content.KindSupport, Tier: 2, Branch: -1},
		supportTower(4, branchSoulLink, map[string]int{"soul_hp": 2, "soul_regen": 1}),
	}}
	b := ComputeBuffs(st, bal)

	if !approx(b.Damage, 1.3) {
		t.Errorf("Expected damage 1.3, got %.3f", b.Damage)
	}
	if !approx(b.Range, 1.2) {
		t.Errorf("Expected range 1.2, got %.3f", b.Range)
	}
	if !approx(b.SoldierHP, 1+soulLinkBase+2*soulHPPerLevel) {
		t.Errorf("Expected soldier hp %.3f, got %.3f", 1+soulLinkBase+2*soulHPPerLevel, b.SoldierHP)
	}
	if !approx(b.SoldierRegen, soulRegenPerLevel) {
		t.Errorf("Expected soldier regen %.3f, got %.3f", soulRegenPerLevel, b.SoldierRegen)
	}
}

func TestLyraLightStacksUnderCap(t *testing.T) {
	bal := config.DefaultSimConfig().Balance
	st := &GameState{SkillEffect: &SkillEffect{Kind: fxLyraLight, Timer: 60}}
	for i := 0; i < 3; i++ {
		st.Towers = append(st.Towers, supportTower(EntityID(i+2), branchBloodlust, map[string]int{"totem_speed": 3}))
	}
	b := ComputeBuffs(st, bal)
	if !approx(b.Speed, bal.MaxGlobalSpeedBuff) {
		t.Errorf("Expected speed clamped to %.2f, got %.3f", bal.MaxGlobalSpeedBuff, b.Speed)
	}

	st.Towers = st.Towers[:1]
	st.Towers[0].Skills["totem_speed"] = 0
	b = ComputeBuffs(st, bal)
	want := 1 + bal.TotemBaseSpeed + lyraSpeedBonus
	if !approx(b.Speed, want) {
		t.Errorf("Expected speed %.3f, got %.3f", want, b.Speed)
	}
}

func TestEffectiveTowerStatsIdempotent(t *testing.T) {
	cat := content.Default()
	bal := config.DefaultSimConfig().Balance
	def := cat.MustTower("archer")
	tw := &Tower{ID: 2, DefID: "archer", Kind: def.Kind, Tier: 3, Branch: 0, Skills: map[string]int{"sniper_range": 2}}
	st := &GameState{Towers: []Tower{*tw, supportTower(3, branchBloodlust, map[string]int{"totem_speed": 1})}}
	b := ComputeBuffs(st, bal)
	ev := &ActiveEvent{Kind: EventSandstorm}

	first := EffectiveTowerStats(tw, def, b, ev)
	second := EffectiveTowerStats(tw, def, b, ev)
	if first != second {
		t.Fatalf("Expected identical stats, got %+v and %+v", first, second)
	}

	base := def.Stats(3, 0)
	wantRange := (base.Range*b.Range + 2*sniperRangePerLevel) * sandstormRange
	if !approx(first.Range, wantRange) {
		t.Errorf("Expected range %.2f, got %.2f", wantRange, first.Range)
	}
	if first.Rate >= base.Rate {
		t.Errorf("Expected totem to shorten attack interval below %.0f, got %.1f", base.Rate, first.Rate)
	}
	if first.Rate < base.Rate/bal.MaxGlobalSpeedBuff {
		t.Errorf("Attack interval %.1f below speed floor", first.Rate)
	}
}

func TestEventDamageFactor(t *testing.T) {
	cursed := &Enemy{Status: Status{Curse: 10, CurseAmp: 0.2}}
	tests := []struct {
		name      string
		ev        *ActiveEvent
		fromTower bool
		e         *Enemy
		want      float64
	}{
		{"none", nil, true, &Enemy{}, 1},
		{"armor event", &ActiveEvent{Kind: EventEnemyArmor}, false, &Enemy{}, enemyArmorFactor},
		{"null field tower", &ActiveEvent{Kind: EventNullField}, true, &Enemy{}, nullFieldFactor},
		{"null field hero", &ActiveEvent{Kind: EventNullField}, false, &Enemy{}, 1},
		{"curse", nil, true, cursed, 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventDamageFactor(tt.ev, tt.fromTower, tt.e); !approx(got, tt.want) {
				t.Errorf("Expected %.3f, got %.3f", tt.want, got)
			}
		})
	}
}
