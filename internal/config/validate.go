package config

import (
	"errors"
	"fmt"
)

// Validate reports every impossible value in the configuration.
func (c SimConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Tick.Rate > 0, "tick.rate must be positive, got %d", c.Tick.Rate)
	check(c.Tick.MaxCatchUp > 0, "tick.max_catch_up must be positive, got %d", c.Tick.MaxCatchUp)
	check(c.Tick.RushDebounceMs >= 0, "tick.rush_debounce_ms must not be negative")

	b := c.Balance
	check(b.MaxGlobalSpeedBuff >= 1, "balance.max_global_speed_buff must be at least 1, got %.2f", b.MaxGlobalSpeedBuff)
	check(b.MaxTotalSlow >= 0 && b.MaxTotalSlow < 1, "balance.max_total_slow must be in [0, 1), got %.2f", b.MaxTotalSlow)
	check(b.MaxSlowStacks > 0, "balance.max_slow_stacks must be positive")
	check(b.MaxTotemStacks > 0, "balance.max_totem_stacks must be positive")
	check(b.MaxTotemTotal >= 0, "balance.max_totem_total must not be negative")
	check(b.StartLives > 0 && b.StartLives <= b.MaxLives, "balance.start_lives must be in [1, max_lives]")

	s := c.Scaling
	check(s.GrowthRate >= 1, "scaling.growth_rate must be at least 1, got %.2f", s.GrowthRate)
	check(s.BossGrowthRate >= 1, "scaling.boss_growth_rate must be at least 1, got %.2f", s.BossGrowthRate)
	check(s.SoftGrowthFactor >= 0 && s.SoftGrowthFactor <= 1, "scaling.soft_growth_factor must be in [0, 1]")
	check(s.BossSpeedFactor > 0, "scaling.boss_speed_factor must be positive")

	w := c.Waves
	check(w.FirstQuota > 0, "waves.first_quota must be positive")
	check(w.SpawnIntervalFloor > 0, "waves.spawn_interval_floor must be positive")
	check(w.TimerFloorSeconds > 0, "waves.timer_floor_seconds must be positive")
	check(w.BossEvery >= 0 && w.EventEvery >= 0, "waves.boss_every and waves.event_every must not be negative")

	cb := c.Combat
	check(cb.ProjectileSpeed > 0 && cb.HeroProjectileSpeed > 0, "combat projectile speeds must be positive")
	check(cb.EngageRange > 0 && cb.AggroRange >= cb.EngageRange, "combat.aggro_range must be at least engage_range")
	check(cb.LeashRange > 0, "combat.leash_range must be positive")
	for name, p := range map[string]float64{
		"melee_hit_chance":   cb.MeleeHitChance,
		"retaliation_chance": cb.RetaliationChance,
		"hero_trade_chance":  cb.HeroTradeChance,
	} {
		check(p >= 0 && p <= 1, "combat.%s must be a probability, got %.2f", name, p)
	}

	e := c.Economy
	check(e.SellRefund >= 0 && e.SellRefund <= 1, "economy.sell_refund must be in [0, 1]")
	check(len(e.MineYield) == 3, "economy.mine_yield needs one entry per tier, got %d", len(e.MineYield))

	return errors.Join(errs...)
}
