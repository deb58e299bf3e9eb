package sim

import "errors"

// Rejected player actions. A rejected action leaves the state untouched.
var (
	ErrNotPlaying        = errors.New("sim: run is not in progress")
	ErrInsufficientFunds = errors.New("sim: not enough gold")
	ErrInvalidUpgrade    = errors.New("sim: invalid upgrade")
	ErrSkillMaxed        = errors.New("sim: skill already at max level")
	ErrOnCooldown        = errors.New("sim: still on cooldown")
	ErrUnknownTower      = errors.New("sim: unknown tower")
	ErrUnknownSlot       = errors.New("sim: unknown build slot")
	ErrSlotOccupied      = errors.New("sim: build slot occupied")
	ErrHeroUnavailable   = errors.New("sim: hero is unavailable")
	ErrWaveLocked        = errors.New("sim: no more waves on this level")
	ErrDebounced         = errors.New("sim: wave called too quickly")
	ErrOutOfRange        = errors.New("sim: point out of range")
	ErrUnknownItem       = errors.New("sim: unknown shop item")
	ErrUnknownEnemy      = errors.New("sim: unknown enemy kind")
	ErrNotAdmin          = errors.New("sim: admin mode required")
)
