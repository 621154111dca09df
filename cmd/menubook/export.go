package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/menubook/internal/menu"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "Write a menu out as YAML or as an Excel workbook",
	Long: `Reads any structured source (YAML, workbook, HTML page or the dashboard
database) and writes it as a menu document. The output format follows the
extension of --out: .yaml or .yml for a document, .xlsx for a workbook.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return errors.New("--out is required")
		}
		_, src, err := loadSettings(args)
		if err != nil {
			return err
		}
		if !src.Structured() {
			return fmt.Errorf("%s is a printed menu and has no items to export", src.Path)
		}
		m, err := menu.LoadMenu(context.Background(), src)
		if err != nil {
			return fmt.Errorf("reading %s: %w", src.Path, err)
		}

		switch strings.ToLower(filepath.Ext(exportOut)) {
		case ".yaml", ".yml":
			err = menu.SaveDocument(exportOut, m)
		case ".xlsx":
			err = menu.SaveWorkbook(exportOut, m)
		default:
			return fmt.Errorf("%w: cannot export to %q", menu.ErrUnsupportedSource, exportOut)
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", len(m.Items), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (.yaml, .yml or .xlsx)")
	rootCmd.AddCommand(exportCmd)
}
