package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

var (
	flagSimSeconds int
	flagSimTowers  string
	flagSimRush    bool
	flagSimRecord  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a level headless with a scripted builder",
	Long: `Plays a level without a terminal UI. A simple builder fills the build
slots in order with the given tower kinds, upgrades them when gold allows
and fires the hero's ultimate into crowds. Prints the run summary.

Useful for balance checks and for reproducing a run with --seed.

Examples:
  guardians simulate
  guardians simulate --level 5 --hero h_rin --seconds 900 --rush
  guardians simulate --towers cannon,mage --seed 42 --record`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagLevel, "level", 0, "Level id")
	simulateCmd.Flags().StringVar(&flagHero, "hero", "", "Hero id")
	simulateCmd.Flags().StringVar(&flagTalents, "talents", "", "Comma-separated talent ids")
	simulateCmd.Flags().IntVar(&flagSimSeconds, "seconds", 600, "Simulated time limit")
	simulateCmd.Flags().StringVar(&flagSimTowers, "towers", "archer,mage,barracks,cannon", "Tower kinds to build, cycled over the slots")
	simulateCmd.Flags().BoolVar(&flagSimRush, "rush", false, "Call the next wave as soon as the field is clear")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Store the run in the runs database")
}

// builderInterval is how often, in ticks, the builder looks at the field.
const builderInterval = 30

// autoBuilder is the scripted player of a headless run.
type autoBuilder struct {
	towers []string
	rush   bool
}

func newAutoBuilder(cat *content.Catalog, kinds string, rush bool) (*autoBuilder, error) {
	b := &autoBuilder{rush: rush}
	for _, id := range strings.Split(kinds, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := cat.Tower(id); !ok {
			return nil, fmt.Errorf("unknown tower %q", id)
		}
		b.towers = append(b.towers, id)
	}
	if len(b.towers) == 0 {
		return nil, fmt.Errorf("no tower kinds to build")
	}
	return b, nil
}

// act spends gold on the first useful thing per slot. Rejected actions are
// part of the script: most of them are just a lack of gold.
func (b *autoBuilder) act(e *sim.Engine) {
	st := e.State()
	for slot := range e.Level().BuildSlots {
		t, built := st.TowerAt(slot)
		switch {
		case !built:
			_, _ = e.BuildTower(slot, b.towers[slot%len(b.towers)])
		case t.Tier == 1:
			_ = e.UpgradeTower(t.ID, 0)
		case t.Tier == 2:
			def := e.Catalog().MustTower(t.DefID)
			_ = e.UpgradeTower(t.ID, slot%len(def.Branches))
		default:
			for _, sk := range e.Catalog().MustTower(t.DefID).Stats(3, t.Branch).Skills {
				if t.Skill(sk.ID) < sk.Max() {
					_ = e.UpgradeSkill(t.ID, sk.ID)
					break
				}
			}
		}
		st = e.State()
	}

	if h := st.Hero; h != nil && !h.Dead && h.Cooldown <= 0 {
		alive := 0
		for _, en := range st.Enemies {
			if en.Alive() {
				alive++
			}
		}
		if alive >= 5 {
			_ = e.CastUltimate()
		}
	}

	sched := e.Scheduler()
	if b.rush && sched.WaveCleared(e.State()) {
		_ = e.CallNextWave()
	}
}

// simulate runs the engine tick by tick until the run ends or the time
// limit passes.
func simulate(e *sim.Engine, b *autoBuilder, limit time.Duration) sim.Summary {
	tickMs := e.Config().Tick.TickMs()
	ticks := int(float64(limit.Milliseconds()) / tickMs)
	for i := 0; i < ticks && !e.State().View.Terminal(); i++ {
		if i%builderInterval == 0 {
			b.act(e)
		}
		e.Step(tickMs)
	}
	return e.Summary()
}

func runSimulate(_ *cobra.Command, _ []string) error {
	s, err := loadSetup(true)
	if err != nil {
		return err
	}
	defer s.Close()

	talents, err := parseTalents(s, flagHero, flagTalents)
	if err != nil {
		return err
	}
	builder, err := newAutoBuilder(s.catalog, flagSimTowers, flagSimRush)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e, err := sim.New(sim.Options{
		Catalog: s.catalog,
		Config:  s.sim,
		Level:   flagLevel,
		Hero:    flagHero,
		Talents: talents,
		Seed:    seed,
		Admin:   s.admin,
		Logger:  s.logger,
	})
	if err != nil {
		return err
	}

	sum := simulate(e, builder, time.Duration(flagSimSeconds)*time.Second)

	outcome := "time limit"
	if sum.View.Terminal() {
		outcome = strings.ToLower(strings.ReplaceAll(sum.View.String(), "_", " "))
	}
	fmt.Printf("Level %d %s, seed %d\n", sum.Level, e.Level().Name, seed)
	fmt.Printf("  Result         %s\n", outcome)
	fmt.Printf("  Wave reached   %d\n", sum.Wave)
	fmt.Printf("  Lives left     %d\n", sum.Lives)
	fmt.Printf("  Kills          %s\n", humanize.Comma(int64(sum.Kills)))
	fmt.Printf("  Gold earned    %s\n", humanize.Comma(int64(sum.GoldEarned)))
	fmt.Printf("  Damage dealt   %s\n", humanize.Comma(int64(sum.DamageDealt)))
	fmt.Printf("  Towers         %d\n", len(e.State().Towers))
	fmt.Printf("  Simulated      %s\n", sum.Elapsed.Round(time.Second))

	if flagSimRecord {
		if !sum.View.Terminal() {
			return fmt.Errorf("only finished runs can be recorded")
		}
		store := openStore(s.logger)
		if store == nil {
			return fmt.Errorf("cannot record without the runs database")
		}
		defer store.Close()
		if err := store.RecordRun(sum); err != nil {
			return err
		}
		fmt.Println("Run recorded.")
	}
	return nil
}
