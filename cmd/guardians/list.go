package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all battlefields",
	Long:  `Shows every level with its wave count, theme and starting gold, plus your best wave when the runs database is available.`,
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

var heroesCmd = &cobra.Command{
	Use:   "heroes",
	Short: "List all heroes and their talents",
	Args:  cobra.NoArgs,
	RunE:  runHeroes,
}

func runLevels(_ *cobra.Command, _ []string) error {
	s, err := loadSetup(true)
	if err != nil {
		return err
	}
	defer s.Close()

	store := openStore(s.logger)
	if store != nil {
		defer store.Close()
	}

	levels := s.catalog.Levels()
	fmt.Println("Battlefields:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range levels {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Printf("  %-3s  %-*s  %-7s  %-7s  %6s  %s\n", "ID", maxNameLen, "Name", "Waves", "Theme", "Gold", "Best")
	fmt.Printf("  %-3s  %-*s  %-7s  %-7s  %6s  %s\n", "--", maxNameLen, "----", "-----", "-----", "----", "----")
	for _, l := range levels {
		waves := "endless"
		if !l.Endless() {
			waves = fmt.Sprintf("%d", l.Waves)
		}
		best := "-"
		if store != nil {
			if w, err := store.BestWave(l.ID); err == nil && w > 0 {
				best = fmt.Sprintf("wave %d", w)
			}
		}
		fmt.Printf("  %-3d  %-*s  %-7s  %-7s  %6s  %s\n",
			l.ID, maxNameLen, l.Name, waves, l.Theme, humanize.Comma(int64(l.StartMoney)), best)
	}

	fmt.Println()
	fmt.Println("Run 'guardians play --level <id>' to play a level.")
	return nil
}

func runHeroes(_ *cobra.Command, _ []string) error {
	s, err := loadSetup(true)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, h := range s.catalog.Heroes() {
		fmt.Printf("%s (%s)\n", h.Name, h.ID)
		fmt.Printf("  %s, %s, ultimate: %s\n", h.Role, strings.ToLower(string(h.Weapon)), h.Ultimate)
		fmt.Printf("  hp %.0f  atk %.0f  armor %.0f%%  respawn %.0fs  cooldown %.0fs\n",
			h.Stats.HP, h.Stats.Atk, h.Stats.Armor*100, h.Stats.Respawn, h.Stats.Cooldown)
		for tier := 1; tier <= 3; tier++ {
			var names []string
			for _, t := range h.TalentsByTier(tier) {
				names = append(names, fmt.Sprintf("%s [%s]", t.Name, t.ID))
			}
			fmt.Printf("  tier %d: %s\n", tier, strings.Join(names, ", "))
		}
		fmt.Println()
	}
	fmt.Println("Run 'guardians play --hero <id> --talents <t1,t2,t3>' to bring a hero.")
	return nil
}
