package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiyria/qivan/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate [content_dir]",
	Short: "Load and check content without playing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.ContentDir
	if len(args) == 1 {
		dir = args[0]
	}

	table, err := loader.Load(dir)
	var ve *loader.ValidationError
	if errors.As(err, &ve) {
		for _, w := range ve.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		return err
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d abilities, %d status effects, %d enemies, %d items, %d threats\n",
		dir, len(table.Abilities), len(table.StatusEffects), len(table.Enemies), len(table.Items), len(table.Threats))
	return nil
}
