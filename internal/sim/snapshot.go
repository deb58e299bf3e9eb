package sim

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// saveVersion is bumped whenever the encoded layout changes incompatibly.
const saveVersion = 1

// ErrSaveVersion is returned for saves written by an incompatible version.
var ErrSaveVersion = errors.New("sim: unsupported save version")

type saveFile struct {
	Version   int        `msgpack:"version"`
	State     *GameState `msgpack:"state"`
	Scheduler Scheduler  `msgpack:"scheduler"`
	ClockMs   float64    `msgpack:"clock_ms"`
}

// EncodeSave serializes everything needed to resume the run: the committed
// state and the scheduler side-channel.
func EncodeSave(e *Engine) ([]byte, error) {
	data, err := msgpack.Marshal(saveFile{
		Version:   saveVersion,
		State:     e.st,
		Scheduler: e.sched,
		ClockMs:   e.clockMs,
	})
	if err != nil {
		return nil, fmt.Errorf("sim: cannot encode save: %w", err)
	}
	e.log.Info("save written", "run", e.st.RunID, "wave", e.st.Wave, "bytes", len(data))
	return data, nil
}

// DecodeSave reads a save without resuming it.
func DecodeSave(blob []byte) (*GameState, Scheduler, error) {
	f, err := decodeSave(blob)
	if err != nil {
		return nil, Scheduler{}, err
	}
	return f.State, f.Scheduler, nil
}

func decodeSave(blob []byte) (saveFile, error) {
	var f saveFile
	if err := msgpack.Unmarshal(blob, &f); err != nil {
		return saveFile{}, fmt.Errorf("sim: cannot decode save: %w", err)
	}
	if f.Version != saveVersion {
		return saveFile{}, fmt.Errorf("%w: %d", ErrSaveVersion, f.Version)
	}
	if f.State == nil {
		return saveFile{}, errors.New("sim: save has no state")
	}
	return f, nil
}

// Restore resumes a saved run. Level, hero and talents come from the save;
// the rest of opts (tables, balance, seed, logger, admin) from the caller.
func Restore(opts Options, blob []byte) (*Engine, error) {
	f, err := decodeSave(blob)
	if err != nil {
		return nil, err
	}
	st := f.State

	opts.Level = st.LevelID
	opts.Hero = st.HeroID
	opts.Talents = Talents{}
	if st.Hero != nil {
		opts.Talents = st.Hero.Talents
	}
	e, err := newEngine(opts)
	if err != nil {
		return nil, fmt.Errorf("sim: cannot restore save: %w", err)
	}

	if st.ItemCooldowns == nil {
		st.ItemCooldowns = make(map[string]float64)
	}
	for i := range st.Towers {
		if st.Towers[i].Skills == nil {
			st.Towers[i].Skills = make(map[string]int)
		}
	}
	st.Admin = opts.Admin
	st.Paused = true

	e.st = st
	e.sched = f.Scheduler
	e.clockMs = f.ClockMs
	e.buffs = ComputeBuffs(st, e.cfg.Balance)
	e.log.Info("save loaded", "run", st.RunID, "wave", st.Wave)
	return e, nil
}
