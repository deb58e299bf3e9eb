package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sky-guardians/internal/config"
	"github.com/vovakirdan/sky-guardians/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect content tables",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Load and check the content tables and the simulation config",
	Long: `Loads every content table from dir (falling back to the built-in tables
for files it does not contain) and the simulation config from --config,
and reports every problem found.

Examples:
  guardians content validate ./my-content
  guardians content validate --config ./sim.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContentValidate,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin mode helpers",
}

var adminHashCmd = &cobra.Command{
	Use:   "hash-pin <pin>",
	Short: "Print the bcrypt hash of an admin PIN",
	Long: `Prints the value to put in admin.pin_hash of the simulation config.
Admin mode is then enabled with --admin-pin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		h, err := config.HashPIN(args[0])
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
	adminCmd.AddCommand(adminHashCmd)
}

func runContentValidate(_ *cobra.Command, args []string) error {
	dir := flagContent
	if len(args) == 1 {
		dir = args[0]
	}
	cat, err := content.Load(dir)
	if err != nil {
		return err
	}
	if _, err := config.LoadSim(flagConfig); err != nil {
		return err
	}
	fmt.Printf("OK: %s\n", cat)
	return nil
}
