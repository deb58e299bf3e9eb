package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/sim.yaml
var defaultSimYAML []byte

// LoadSim loads the simulation configuration.
// Search order: customPath -> ~/.guardians/configs/sim.yaml -> ./configs/sim.yaml -> embedded default
func LoadSim(customPath string) (SimConfig, error) {
	var cfg SimConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg = DefaultSimConfig()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("sim.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			cfg = DefaultSimConfig()
			if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Validate() == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/sim.yaml"); err == nil {
		cfg = DefaultSimConfig()
		if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	return DefaultSimConfig(), nil
}

// DefaultSimConfig returns the embedded default configuration.
func DefaultSimConfig() SimConfig {
	var cfg SimConfig
	if err := yaml.Unmarshal(defaultSimYAML, &cfg); err != nil {
		return hardcodedSimConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".guardians", "configs", filename)
}

func hardcodedSimConfig() SimConfig {
	return SimConfig{
		Tick: TickConfig{
			Rate:           60,
			MaxCatchUp:     5,
			RushDebounceMs: 200,
		},
		Balance: BalanceConfig{
			MaxGlobalSpeedBuff: 2.5,
			MaxTotalSlow:       0.6,
			MaxSlowStacks:      3,
			SlowDurationTicks:  120,
			TotemBaseSpeed:     0.15,
			TotemSpeedPerLevel: 0.05,
			MaxTotemStacks:     3,
			MaxTotemTotal:      0.6,
			StartLives:         20,
			MaxLives:           20,
		},
		Scaling: ScalingConfig{
			GrowthRate:       1.08,
			Linear:           0.4,
			SoftCapStartWave: 30,
			SoftGrowthFactor: 0.5,
			BossGrowthRate:   1.10,
			BossLinear:       0.5,
			BossSpeedFactor:  0.8,
		},
		Waves: WaveConfig{
			FirstQuota:         10,
			QuotaBase:          10,
			QuotaPerWave:       1.5,
			SpawnIntervalBase:  100,
			SpawnIntervalStep:  5,
			SpawnIntervalFloor: 30,
			FirstTimerSeconds:  60,
			TimerBaseSeconds:   60,
			TimerFloorSeconds:  20,
			RushBonusBase:      50,
			RushBonusPerWave:   5,
			BossEvery:          10,
			EventEvery:         5,
			SpawnOffset:        30,
			SpawnOffsetStep:    25,
		},
		Combat: CombatConfig{
			ProjectileSpeed:      8,
			HeroProjectileSpeed:  10,
			AggroRange:           90,
			EngageRange:          20,
			ThrowRange:           100,
			LeashRange:           250,
			TargetDropRange:      150,
			ChaseSpeed:           5.5,
			ReturnSpeed:          3.0,
			BlockDistance:        12,
			MeleeHitChance:       0.05,
			RetaliationChance:    0.03,
			EnemyMeleeDamage:     5,
			SoldierRespawnTicks:  300,
			SummonIntervalTicks:  600,
			RallyReach:           100,
			HeroMeleeRange:       30,
			HeroRangedRange:      180,
			HeroMeleeBlockRange:  30,
			HeroRangedBlockRange: 10,
			HeroLeashRange:       50,
			HeroTradeChance:      0.1,
			HeroRegen:            0.2,
			HeroMoveSpeed:        5.5,
		},
		Economy: EconomyConfig{
			PassiveIncome:       0.05,
			SellRefund:          0.7,
			BankInterestCap:     300,
			GoldBuffTicks:       1800,
			BerserkTicks:        1200,
			MarketBonusPerLevel: 0.1,
			MineYield:           []int{15, 30, 45},
		},
		Admin: AdminConfig{
			Money: 999999,
			Lives: 9999,
		},
	}
}
