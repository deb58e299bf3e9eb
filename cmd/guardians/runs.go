package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-guardians/internal/storage"
)

var (
	flagRunsLevel int
	flagRunsLimit int
	flagRunsStats bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the run history",
	Long: `Display the best recorded runs, for one level or all of them.

Runs are ranked by wave reached, then kills. Admin runs are marked with *.

Examples:
  guardians runs
  guardians runs --level 3 --limit 20
  guardians runs --stats
  guardians runs --level 3 --clear`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLevel, "level", storage.AllLevels, "Only this level (-1 = all)")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show per-level statistics instead")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the selected runs")
}

func runRuns(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case flagRunsClear:
		if err := store.ClearRuns(flagRunsLevel); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	case flagRunsStats:
		return printLevelStats(store)
	}

	runs, err := store.TopRuns(flagRunsLevel, flagRunsLimit)
	if err != nil {
		return err
	}

	title := "all levels"
	if flagRunsLevel != storage.AllLevels {
		title = fmt.Sprintf("level %d", flagRunsLevel)
	}
	fmt.Printf("Best runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'guardians menu' to record the first one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-3s  %-5s  %-10s  %-9s  %7s  %8s  %-8s  %s\n",
		"Rank", "Lvl", "Wave", "Hero", "Result", "Kills", "Gold", "Time", "When")
	fmt.Printf("  %-4s  %-3s  %-5s  %-10s  %-9s  %7s  %8s  %-8s  %s\n",
		"----", "---", "----", "----", "------", "-----", "----", "----", "----")

	for i, r := range runs {
		hero := r.Hero
		if hero == "" {
			hero = "-"
		}
		result := strings.ToLower(strings.ReplaceAll(r.Outcome, "_", " "))
		if r.Admin {
			result += "*"
		}
		fmt.Printf("  %-4d  %-3d  %-5d  %-10s  %-9s  %7s  %8s  %-8s  %s\n",
			i+1, r.Level, r.Wave, hero, result,
			humanize.Comma(int64(r.Kills)), humanize.Comma(int64(r.GoldEarned)),
			r.Duration().Round(time.Second), humanize.Time(r.CreatedAt()))
	}
	return nil
}

func printLevelStats(store *storage.Store) error {
	if flagRunsLevel != storage.AllLevels {
		st, err := store.LevelStats(flagRunsLevel)
		if err != nil {
			return err
		}
		if st.Runs == 0 {
			return errors.New("no runs recorded for this level")
		}
		printStatsLine(st)
		return nil
	}

	all, err := store.AllLevelStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	levels := make([]int, 0, len(all))
	for l := range all {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	for _, l := range levels {
		printStatsLine(all[l])
	}
	return nil
}

func printStatsLine(st *storage.LevelStats) {
	fmt.Printf("  level %-3d  %s runs  %d wins  best wave %d  avg %.1f  %s kills  last played %s\n",
		st.Level, humanize.Comma(int64(st.Runs)), st.Victories, st.BestWave, st.AvgWave,
		humanize.Comma(st.TotalKills), humanize.Time(st.LastPlayed()))
}
