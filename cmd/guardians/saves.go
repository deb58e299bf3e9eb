package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-guardians/internal/storage"
)

var flagDeleteSlot string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete saved sessions",
	Long: `Lists the sessions saved with Ctrl+S during play.

Examples:
  guardians saves
  guardians saves --delete quicksave
  guardians play --resume quicksave`,
	Args: cobra.NoArgs,
	RunE: runSaves,
}

func init() {
	savesCmd.Flags().StringVar(&flagDeleteSlot, "delete", "", "Delete the session in this slot")
}

func runSaves(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagDeleteSlot != "" {
		if err := store.DeleteSession(flagDeleteSlot); err != nil {
			return err
		}
		fmt.Printf("Deleted slot %s.\n", flagDeleteSlot)
		return nil
	}

	sessions, err := store.Sessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}

	fmt.Printf("  %-16s  %-3s  %-5s  %-10s  %s\n", "Slot", "Lvl", "Wave", "Hero", "Saved")
	fmt.Printf("  %-16s  %-3s  %-5s  %-10s  %s\n", "----", "---", "----", "----", "-----")
	for _, s := range sessions {
		hero := s.Hero
		if hero == "" {
			hero = "-"
		}
		fmt.Printf("  %-16s  %-3d  %-5d  %-10s  %s (%s)\n",
			s.Slot, s.Level, s.Wave, hero, humanize.Time(s.SavedAt()), humanize.Bytes(uint64(len(s.Data))))
	}
	return nil
}
