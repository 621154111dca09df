package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/menubook/internal/config"
	"github.com/csheth/menubook/internal/menu"
)

var (
	cfgFile    string
	restaurant string
)

var rootCmd = &cobra.Command{
	Use:   "menubook",
	Short: "Page through a restaurant menu like a printed book",
	Long: `menubook renders a restaurant menu as a book in the terminal: a cover,
a table of contents, one page per category and a back page. Pages turn one
at a time with an animation, and the contents jump straight to a category.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&restaurant, "restaurant", "", "client public id or slug when the source holds several")
}

// loadSettings reads the config file and resolves the menu source. A
// positional source argument wins over the configured one.
func loadSettings(args []string) (*config.Config, menu.Source, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, menu.Source{}, fmt.Errorf("loading config: %w", err)
	}
	if len(args) > 0 {
		cfg.Source = args[0]
	}
	if restaurant != "" {
		cfg.Restaurant = restaurant
	}
	if err := cfg.Validate(); err != nil {
		return nil, menu.Source{}, err
	}
	if strings.TrimSpace(cfg.Source) == "" {
		return nil, menu.Source{}, fmt.Errorf("no menu source given; pass a file or set source in %s", cfgFile)
	}
	return cfg, menu.Source{Path: cfg.Source, Restaurant: cfg.Restaurant}, nil
}
