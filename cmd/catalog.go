package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/happykids/kidsdiag/internal/diagnosis"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate diagnosis catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file against the engine vocabulary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		if len(args) == 1 {
			cfg.Catalog.Path = args[0]
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		src := cfg.Catalog.Path
		if src == "" {
			src = "built-in catalog"
		}
		fmt.Printf("%s: OK (version %s, %d entries)\n", src, cat.Version, len(cat.Entries))
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Catalog version %s\n", cat.Version)
		for _, e := range cat.Entries {
			printEntry(e)
		}
		return nil
	},
}

func printEntry(e diagnosis.Entry) {
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("%s  (priority %d)\n", e.Code, e.Priority)
	fmt.Printf("  %s\n", e.Name)
	for _, c := range e.Conditions {
		fmt.Printf("  if %s\n", c)
	}
	if e.Intervention.Text != "" {
		fmt.Printf("  %s: %s\n", e.Intervention.Type, e.Intervention.Text)
	}
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}
