package config

import "math"

// HPScale returns the HP multiplier for a normal enemy on the given wave.
// The curve is exponential plus linear; growth accrued past SoftCapStartWave
// is multiplied by SoftGrowthFactor.
func (s ScalingConfig) HPScale(wave int) float64 {
	w := float64(wave)
	scale := math.Pow(s.GrowthRate, w) + w*s.Linear
	if wave > s.SoftCapStartWave {
		c := float64(s.SoftCapStartWave)
		atCap := math.Pow(s.GrowthRate, c) + c*s.Linear
		scale = atCap + (scale-atCap)*s.SoftGrowthFactor
	}
	return scale
}

// BossScale returns the HP multiplier for bosses and admin-spawned enemies.
func (s ScalingConfig) BossScale(wave int) float64 {
	w := float64(wave)
	return math.Pow(s.BossGrowthRate, w) + w*s.BossLinear
}

// Quota returns how many enemies a wave spawns.
func (w WaveConfig) Quota(wave int) int {
	if wave <= 1 {
		return w.FirstQuota
	}
	return w.QuotaBase + int(math.Floor(float64(wave)*w.QuotaPerWave))
}

// SpawnInterval returns the ticks between individual spawns on a wave.
func (w WaveConfig) SpawnInterval(wave int) float64 {
	return math.Max(w.SpawnIntervalFloor, w.SpawnIntervalBase-float64(wave)*w.SpawnIntervalStep)
}

// TimerSeconds returns the countdown that starts when the given wave begins.
func (w WaveConfig) TimerSeconds(wave int) float64 {
	return math.Max(w.TimerFloorSeconds, w.TimerBaseSeconds-float64(wave))
}

// RushBonus returns the gold granted when the given wave is advanced.
func (w WaveConfig) RushBonus(wave int) int {
	return w.RushBonusBase + wave*w.RushBonusPerWave
}

// IsBossWave reports whether the wave opens with a boss.
func (w WaveConfig) IsBossWave(wave int) bool {
	return w.BossEvery > 0 && wave > 0 && wave%w.BossEvery == 0
}

// IsEventWave reports whether the wave rolls a timed event.
func (w WaveConfig) IsEventWave(wave int) bool {
	return w.EventEvery > 0 && wave > 1 && wave%w.EventEvery == 0
}

// Yield returns the gold a mine of the given tier pays out.
func (e EconomyConfig) Yield(tier int) float64 {
	if len(e.MineYield) == 0 {
		return 0
	}
	idx := clampInt(tier-1, 0, len(e.MineYield)-1)
	return float64(e.MineYield[idx])
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
