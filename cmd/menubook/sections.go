package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/menubook/internal/menu"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [source]",
	Short: "List the categories of a menu and the page each starts on",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, src, err := loadSettings(args)
		if err != nil {
			return err
		}
		book, err := menu.Open(context.Background(), src)
		if err != nil {
			return fmt.Errorf("opening %s: %w", src.Path, err)
		}
		out := cmd.OutOrStdout()
		if book.Empty() {
			fmt.Fprintf(out, "%s has no available items.\n", book.Profile.Name)
			return nil
		}
		fmt.Fprintf(out, "%s (%d pages)\n", book.Profile.Name, book.Len())
		for i, section := range book.Sections() {
			fmt.Fprintf(out, "  %d. %-28s p.%d\n", i+1, section.Label, section.Page+1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
