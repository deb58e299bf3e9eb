// guardians is a terminal tower defense: build towers along the enemy path,
// command a hero, and hold the line for as many waves as you can.
//
// Usage:
//
//	guardians play               - Play a level directly
//	guardians menu               - Pick level, hero and talents interactively
//	guardians levels             - List the battlefields
//	guardians heroes             - List the heroes and their talents
//	guardians runs               - Show the run history
//	guardians saves              - List or delete saved sessions
//	guardians simulate           - Run a level headless with a scripted builder
//	guardians serve              - Start SSH server for remote play
//	guardians content validate   - Check a content directory
//	guardians admin hash-pin     - Hash an admin PIN for the config file
//
// Global flags:
//
//	--fps <rate>        - Set UI tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--db <path>         - Set database path (default: ~/.guardians/runs.db)
//	--config <path>     - Simulation balance YAML
//	--content <dir>     - Directory with content tables
//	--admin-pin <pin>   - Enable admin mode
//	--log <path>        - Write engine logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
	"github.com/vovakirdan/sky-guardians/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagContent  string
	flagAdminPIN string
	flagLogPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guardians",
	Short: "Sky Guardians - tower defense in your terminal",
	Long: `Sky Guardians is a real-time tower defense played in the terminal.

Enemies walk fixed paths toward your base. Spend gold on towers at the
build slots, upgrade them into specializations, and lead a hero with an
ultimate ability. Every leaked enemy costs a life.

Examples:
  guardians menu
  guardians play --level 3 --hero h_rin --talents rin_t1_hp,rin_t2_burn
  guardians play --resume quicksave
  guardians simulate --level 0 --seconds 300
  guardians serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "UI tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.guardians/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to simulation config YAML")
	rootCmd.PersistentFlags().StringVar(&flagContent, "content", "", "Directory with content tables")
	rootCmd.PersistentFlags().StringVar(&flagAdminPIN, "admin-pin", "", "Admin PIN (enables admin mode)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write engine logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(heroesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(adminCmd)
}

// setup is what every command that runs the engine needs.
type setup struct {
	catalog *content.Catalog
	sim     config.SimConfig
	admin   bool
	logger  *log.Logger
	closeFn func()
}

func (s setup) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// loadSetup reads content and balance, checks the admin PIN and builds the
// engine logger. The terminal UI owns stderr while a run is on screen, so
// engine logs go to --log or nowhere unless toStderr is set.
func loadSetup(toStderr bool) (setup, error) {
	cat, err := content.Load(flagContent)
	if err != nil {
		return setup{}, err
	}
	simCfg, err := config.LoadSim(flagConfig)
	if err != nil {
		return setup{}, err
	}

	s := setup{catalog: cat, sim: simCfg}
	if flagAdminPIN != "" {
		if err := simCfg.Admin.VerifyAdminPIN(flagAdminPIN); err != nil {
			return setup{}, err
		}
		s.admin = true
	}

	var w io.Writer = io.Discard
	switch {
	case flagLogPath != "":
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return setup{}, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		s.closeFn = func() { f.Close() }
	case toStderr:
		w = os.Stderr
	}
	s.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "guardians",
	})
	if s.admin {
		s.logger.Warn("admin mode enabled")
	}
	return s, nil
}

// openStore opens the runs database. A failure is logged and play goes on
// without history.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return nil
	}
	return store
}
