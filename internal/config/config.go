// Package config provides YAML-based balance configuration for the
// simulation: tick rate, stacking caps, enemy scaling curves, wave cadence,
// melee and projectile tuning, economy and admin settings.
package config

// SimConfig contains every tunable number the simulation reads.
type SimConfig struct {
	Tick    TickConfig    `yaml:"tick"`
	Balance BalanceConfig `yaml:"balance"`
	Scaling ScalingConfig `yaml:"scaling"`
	Waves   WaveConfig    `yaml:"waves"`
	Combat  CombatConfig  `yaml:"combat"`
	Economy EconomyConfig `yaml:"economy"`
	Admin   AdminConfig   `yaml:"admin"`
}

// TickConfig defines the fixed-timestep driver.
type TickConfig struct {
	Rate           int     `yaml:"rate"`             // Logical ticks per second
	MaxCatchUp     int     `yaml:"max_catch_up"`     // Ticks run at most per Advance call
	RushDebounceMs float64 `yaml:"rush_debounce_ms"` // Minimum gap between manual wave calls
}

// BalanceConfig holds the stacking caps.
type BalanceConfig struct {
	MaxGlobalSpeedBuff float64 `yaml:"max_global_speed_buff"`
	MaxTotalSlow       float64 `yaml:"max_total_slow"`
	MaxSlowStacks      int     `yaml:"max_slow_stacks"`
	SlowDurationTicks  float64 `yaml:"slow_duration_ticks"`
	TotemBaseSpeed     float64 `yaml:"totem_base_speed"`
	TotemSpeedPerLevel float64 `yaml:"totem_speed_per_level"`
	MaxTotemStacks     int     `yaml:"max_totem_stacks"`
	MaxTotemTotal      float64 `yaml:"max_totem_total"`
	StartLives         int     `yaml:"start_lives"`
	MaxLives           int     `yaml:"max_lives"`
}

// ScalingConfig defines enemy HP growth per wave.
type ScalingConfig struct {
	GrowthRate       float64 `yaml:"growth_rate"`         // Exponential base for normal enemies
	Linear           float64 `yaml:"linear"`              // Linear HP term per wave
	SoftCapStartWave int     `yaml:"soft_cap_start_wave"` // Growth past this wave is damped
	SoftGrowthFactor float64 `yaml:"soft_growth_factor"`  // Fraction of post-cap growth kept
	BossGrowthRate   float64 `yaml:"boss_growth_rate"`
	BossLinear       float64 `yaml:"boss_linear"`
	BossSpeedFactor  float64 `yaml:"boss_speed_factor"`
}

// WaveConfig defines wave quotas, spawn cadence, timers and events.
type WaveConfig struct {
	FirstQuota         int     `yaml:"first_quota"`
	QuotaBase          int     `yaml:"quota_base"`
	QuotaPerWave       float64 `yaml:"quota_per_wave"`
	SpawnIntervalBase  float64 `yaml:"spawn_interval_base"`  // Ticks between spawns on wave 0
	SpawnIntervalStep  float64 `yaml:"spawn_interval_step"`  // Reduction per wave
	SpawnIntervalFloor float64 `yaml:"spawn_interval_floor"` // Minimum ticks between spawns
	FirstTimerSeconds  float64 `yaml:"first_timer_seconds"`
	TimerBaseSeconds   float64 `yaml:"timer_base_seconds"`
	TimerFloorSeconds  float64 `yaml:"timer_floor_seconds"`
	RushBonusBase      int     `yaml:"rush_bonus_base"`
	RushBonusPerWave   int     `yaml:"rush_bonus_per_wave"`
	BossEvery          int     `yaml:"boss_every"`
	EventEvery         int     `yaml:"event_every"`
	SpawnOffset        float64 `yaml:"spawn_offset"`      // Distance behind the path start
	SpawnOffsetStep    float64 `yaml:"spawn_offset_step"` // Extra distance per burst-spawned enemy
}

// CombatConfig defines ranges, speeds and hit chances. Distances are in
// battlefield units, chances are per tick at speed 1.
type CombatConfig struct {
	ProjectileSpeed      float64 `yaml:"projectile_speed"`
	HeroProjectileSpeed  float64 `yaml:"hero_projectile_speed"`
	AggroRange           float64 `yaml:"aggro_range"`
	EngageRange          float64 `yaml:"engage_range"`
	ThrowRange           float64 `yaml:"throw_range"`
	LeashRange           float64 `yaml:"leash_range"`
	TargetDropRange      float64 `yaml:"target_drop_range"`
	ChaseSpeed           float64 `yaml:"chase_speed"`
	ReturnSpeed          float64 `yaml:"return_speed"`
	BlockDistance        float64 `yaml:"block_distance"`
	MeleeHitChance       float64 `yaml:"melee_hit_chance"`
	RetaliationChance    float64 `yaml:"retaliation_chance"`
	EnemyMeleeDamage     float64 `yaml:"enemy_melee_damage"`
	SoldierRespawnTicks  float64 `yaml:"soldier_respawn_ticks"`
	SummonIntervalTicks  float64 `yaml:"summon_interval_ticks"`
	RallyReach           float64 `yaml:"rally_reach"`
	HeroMeleeRange       float64 `yaml:"hero_melee_range"`
	HeroRangedRange      float64 `yaml:"hero_ranged_range"`
	HeroMeleeBlockRange  float64 `yaml:"hero_melee_block_range"`
	HeroRangedBlockRange float64 `yaml:"hero_ranged_block_range"`
	HeroLeashRange       float64 `yaml:"hero_leash_range"`
	HeroTradeChance      float64 `yaml:"hero_trade_chance"`
	HeroRegen            float64 `yaml:"hero_regen"`
	HeroMoveSpeed        float64 `yaml:"hero_move_speed"`
}

// EconomyConfig defines income and refunds.
type EconomyConfig struct {
	PassiveIncome       float64 `yaml:"passive_income"` // Gold per tick at speed 1
	SellRefund          float64 `yaml:"sell_refund"`
	BankInterestCap     float64 `yaml:"bank_interest_cap"`
	GoldBuffTicks       float64 `yaml:"gold_buff_ticks"`
	BerserkTicks        float64 `yaml:"berserk_ticks"`
	MarketBonusPerLevel float64 `yaml:"market_bonus_per_level"`
	MineYield           []int   `yaml:"mine_yield"` // Gold per payout by tier
}

// AdminConfig defines the debug mode.
type AdminConfig struct {
	PINHash string `yaml:"pin_hash"` // bcrypt hash; empty disables admin mode
	Money   int    `yaml:"money"`
	Lives   int    `yaml:"lives"`
}

// TickMs returns the length of one logical tick in milliseconds.
func (t TickConfig) TickMs() float64 {
	if t.Rate <= 0 {
		return 1000.0 / 60
	}
	return 1000.0 / float64(t.Rate)
}

// Ticks converts seconds into logical ticks.
func (t TickConfig) Ticks(seconds float64) float64 {
	rate := t.Rate
	if rate <= 0 {
		rate = 60
	}
	return seconds * float64(rate)
}
