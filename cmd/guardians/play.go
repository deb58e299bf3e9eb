package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sky-guardians/internal/core"
	"github.com/vovakirdan/sky-guardians/internal/platform/tui"
	"github.com/vovakirdan/sky-guardians/internal/sim"
	"github.com/vovakirdan/sky-guardians/internal/storage"
)

var (
	flagLevel   int
	flagHero    string
	flagTalents string
	flagResume  string
	flagSlot    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a level",
	Long: `Start a run on one level, optionally with a hero and talents.

Controls:
  Arrows/WASD  - Move the cursor      [ ]   - Jump between build slots
  Enter        - Build                Tab   - Cycle tower kind
  U            - Upgrade to tier 2    1-3   - Pick a tier 3 branch
  Z/X          - Level branch skills  Bksp  - Sell
  R            - Rally soldiers here  M     - Move the hero here
  E            - Hero ultimate        F1-F6 - Shop items
  N            - Call the next wave   F     - Toggle speed
  P/Space      - Pause                I     - Bestiary
  Ctrl+S       - Save                 Esc   - Pause, then back
  Q/Ctrl+C     - Quit

Examples:
  guardians play
  guardians play --level 4 --hero h_yuki --talents yuki_t1_range,yuki_t2_crit
  guardians play --resume quicksave`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level id (see 'guardians levels')")
	playCmd.Flags().StringVar(&flagHero, "hero", "", "Hero id (see 'guardians heroes')")
	playCmd.Flags().StringVar(&flagTalents, "talents", "", "Comma-separated talent ids, at most one per tier")
	playCmd.Flags().StringVar(&flagResume, "resume", "", "Resume the session saved in this slot")
	playCmd.Flags().StringVar(&flagSlot, "slot", tui.QuickSaveSlot, "Save slot for Ctrl+S")
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

// parseTalents assigns talent ids to their tiers using the hero's table.
func parseTalents(s setup, heroID, list string) (sim.Talents, error) {
	var t sim.Talents
	if strings.TrimSpace(list) == "" {
		return t, nil
	}
	if heroID == "" {
		return t, errors.New("talents need a hero")
	}
	hero, ok := s.catalog.Hero(heroID)
	if !ok {
		return t, fmt.Errorf("unknown hero %q", heroID)
	}

	for _, id := range strings.Split(list, ",") {
		id = strings.TrimSpace(id)
		tier := 0
		for n := 1; n <= 3 && tier == 0; n++ {
			for _, tal := range hero.TalentsByTier(n) {
				if tal.ID == id {
					tier = n
				}
			}
		}
		slot := map[int]*string{1: &t.T1, 2: &t.T2, 3: &t.T3}[tier]
		switch {
		case tier == 0:
			return t, fmt.Errorf("hero %s has no talent %q", heroID, id)
		case *slot != "":
			return t, fmt.Errorf("two tier %d talents: %s and %s", tier, *slot, id)
		}
		*slot = id
	}
	return t, nil
}

// runStore hands the store to the UI without turning a nil pointer into a
// non-nil interface.
func runStore(store *storage.Store) tui.RunStore {
	if store == nil {
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, _ []string) error {
	s, err := loadSetup(false)
	if err != nil {
		return err
	}
	defer s.Close()

	talents, err := parseTalents(s, flagHero, flagTalents)
	if err != nil {
		return err
	}

	store := openStore(s.logger)
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()
	opts := sim.Options{
		Catalog: s.catalog,
		Config:  s.sim,
		Level:   flagLevel,
		Hero:    flagHero,
		Talents: talents,
		Seed:    cfg.Seed,
		Admin:   s.admin,
		Logger:  s.logger,
	}

	var model tui.Model
	if flagResume != "" {
		model, err = resumeModel(store, opts, cfg)
	} else {
		model, err = tui.NewModel(opts, runStore(store), cfg)
	}
	if err != nil {
		return err
	}

	if _, err := tui.Run(model.WithSaveSlot(flagSlot)); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// resumeModel restores the session saved in --resume.
func resumeModel(store *storage.Store, opts sim.Options, cfg core.RuntimeConfig) (tui.Model, error) {
	if store == nil {
		return tui.Model{}, errors.New("cannot resume without the runs database")
	}
	sess, err := store.LoadSession(flagResume)
	if err != nil {
		return tui.Model{}, err
	}
	if sess == nil {
		return tui.Model{}, fmt.Errorf("no saved session in slot %q (see 'guardians saves')", flagResume)
	}
	e, err := sim.Restore(opts, sess.Data)
	if err != nil {
		return tui.Model{}, err
	}

	// Starting over after the restored run ends uses the saved setup.
	st := e.State()
	opts.Level = st.LevelID
	opts.Hero = st.HeroID
	opts.Talents = sim.Talents{}
	if st.Hero != nil {
		opts.Talents = st.Hero.Talents
	}
	return tui.NewModelFromEngine(e, opts, runStore(store), cfg), nil
}
