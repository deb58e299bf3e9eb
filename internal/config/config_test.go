package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestDefaultSimConfigMatchesHardcoded(t *testing.T) {
	cfg := DefaultSimConfig()
	hard := hardcodedSimConfig()

	if cfg.Tick != hard.Tick {
		t.Errorf("tick section differs: embedded %+v, hardcoded %+v", cfg.Tick, hard.Tick)
	}
	if cfg.Balance != hard.Balance {
		t.Errorf("balance section differs: embedded %+v, hardcoded %+v", cfg.Balance, hard.Balance)
	}
	if cfg.Scaling != hard.Scaling {
		t.Errorf("scaling section differs: embedded %+v, hardcoded %+v", cfg.Scaling, hard.Scaling)
	}
	if cfg.Waves != hard.Waves {
		t.Errorf("waves section differs: embedded %+v, hardcoded %+v", cfg.Waves, hard.Waves)
	}
	if cfg.Combat != hard.Combat {
		t.Errorf("combat section differs: embedded %+v, hardcoded %+v", cfg.Combat, hard.Combat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestHPScale(t *testing.T) {
	s := DefaultSimConfig().Scaling

	if got := s.HPScale(1); math.Abs(got-1.48) > 1e-9 {
		t.Errorf("Expected HPScale(1) = 1.48, got %f", got)
	}

	// Past the soft cap only half of the extra growth is kept
	raw := math.Pow(1.08, 40) + 40*0.4
	atCap := math.Pow(1.08, 30) + 30*0.4
	want := atCap + (raw-atCap)*0.5
	if got := s.HPScale(40); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected HPScale(40) = %f, got %f", want, got)
	}

	prev := 0.0
	for w := 1; w <= 100; w++ {
		got := s.HPScale(w)
		if got <= prev {
			t.Fatalf("HPScale must grow: wave %d gave %f after %f", w, got, prev)
		}
		prev = got
	}
}

func TestBossScale(t *testing.T) {
	s := DefaultSimConfig().Scaling
	want := math.Pow(1.10, 10) + 5
	if got := s.BossScale(10); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected BossScale(10) = %f, got %f", want, got)
	}
}

func TestWaveCurves(t *testing.T) {
	w := DefaultSimConfig().Waves

	quotas := map[int]int{1: 10, 2: 13, 3: 14, 4: 16, 5: 17}
	for wave, want := range quotas {
		if got := w.Quota(wave); got != want {
			t.Errorf("Quota(%d) = %d, expected %d", wave, got, want)
		}
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"spawn interval wave 1", w.SpawnInterval(1), 95},
		{"spawn interval floor", w.SpawnInterval(20), 30},
		{"timer wave 2", w.TimerSeconds(2), 58},
		{"timer floor", w.TimerSeconds(50), 20},
		{"rush bonus wave 3", float64(w.RushBonus(3)), 65},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, tc.got)
			}
		})
	}

	if !w.IsBossWave(10) || w.IsBossWave(5) || w.IsBossWave(0) {
		t.Error("boss waves should be multiples of 10")
	}
	if !w.IsEventWave(5) || w.IsEventWave(1) || w.IsEventWave(6) {
		t.Error("event waves should be multiples of 5 above 1")
	}
}

func TestMineYield(t *testing.T) {
	e := DefaultSimConfig().Economy
	for tier, want := range map[int]float64{1: 15, 2: 30, 3: 45, 7: 45} {
		if got := e.Yield(tier); got != want {
			t.Errorf("Yield(%d) = %v, expected %v", tier, got, want)
		}
	}
}

func TestLoadSimCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	data := "balance:\n  max_total_slow: 0.4\nwaves:\n  first_quota: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSim(path)
	if err != nil {
		t.Fatalf("LoadSim failed: %v", err)
	}
	if cfg.Balance.MaxTotalSlow != 0.4 {
		t.Errorf("Expected overridden max_total_slow 0.4, got %v", cfg.Balance.MaxTotalSlow)
	}
	if cfg.Waves.FirstQuota != 3 {
		t.Errorf("Expected overridden first_quota 3, got %d", cfg.Waves.FirstQuota)
	}
	// Keys absent from the file keep their defaults
	if cfg.Tick.Rate != 60 {
		t.Errorf("Expected default tick rate 60, got %d", cfg.Tick.Rate)
	}
}

func TestLoadSimErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSim(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("balance:\n  max_total_slow: 1.5\ntick:\n  rate: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadSim(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"max_total_slow", "tick.rate"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestVerifyAdminPIN(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("4242"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	admin := AdminConfig{PINHash: string(hash)}

	if err := admin.VerifyAdminPIN("4242"); err != nil {
		t.Errorf("correct PIN rejected: %v", err)
	}
	if err := admin.VerifyAdminPIN("0000"); !errors.Is(err, ErrWrongPIN) {
		t.Errorf("Expected ErrWrongPIN, got %v", err)
	}
	if err := (AdminConfig{}).VerifyAdminPIN("4242"); !errors.Is(err, ErrAdminDisabled) {
		t.Errorf("Expected ErrAdminDisabled, got %v", err)
	}
}

func TestHashPIN(t *testing.T) {
	if _, err := HashPIN("12"); err == nil {
		t.Error("short PIN should be rejected")
	}
	h, err := HashPIN("secret")
	if err != nil {
		t.Fatalf("HashPIN failed: %v", err)
	}
	if err := (AdminConfig{PINHash: h}).VerifyAdminPIN("secret"); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}
