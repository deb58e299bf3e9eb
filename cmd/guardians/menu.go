package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-guardians/internal/platform/tui"
	"github.com/vovakirdan/sky-guardians/internal/sim"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Set up a run interactively",
	Long: `Start in interactive menu mode: choose a level, a hero and one talent
per tier. After a run you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Esc          - Previous step
  Tab          - Run history
  Q            - Quit

Examples:
  guardians menu
  guardians menu --fps 30
  guardians menu --db ./runs.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	s, err := loadSetup(false)
	if err != nil {
		return err
	}
	defer s.Close()

	store := openStore(s.logger)
	if store != nil {
		defer store.Close()
	}
	var (
		best    tui.BestWaves
		history tui.RunHistory
	)
	if store != nil {
		best, history = store, store
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(s.catalog, best, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsRuns {
			goBack, runsErr := tui.RunRuns(s.catalog, history, cfg.ScreenW, cfg.ScreenH)
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				continue // Back to menu
			}
			return nil
		}

		sel := menuResult.Selection
		if sel == nil {
			return nil
		}

		// Update seed for each run
		cfg.Seed = time.Now().UnixNano()
		if flagSeed != 0 {
			cfg.Seed = flagSeed
		}

		model, err := tui.NewModel(sim.Options{
			Catalog: s.catalog,
			Config:  s.sim,
			Level:   sel.Level,
			Hero:    sel.Hero,
			Talents: sel.Talents,
			Admin:   s.admin,
			Logger:  s.logger,
		}, runStore(store), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting run: %v\n", err)
			continue
		}

		backToMenu, err := tui.Run(model)
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if !backToMenu {
			return nil
		}
	}
}
