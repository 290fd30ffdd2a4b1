package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var childrenCmd = &cobra.Command{
	Use:   "children",
	Short: "List children with record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		children, err := e.store.ChildRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list children: %w", err)
		}
		if len(children) == 0 {
			fmt.Println("No children registered. Use `kidsdiag import --child ID <file>`.")
			return nil
		}

		fmt.Printf("%-20s  %-20s  %-10s  %7s  %-16s  %s\n",
			"ID", "Name", "Birth", "Records", "Last played", "Last profile")
		fmt.Println(strings.Repeat("─", 96))
		for _, c := range children {
			fmt.Printf("%-20s  %-20s  %-10s  %7d  %-16s  %s\n",
				truncate(c.ID, 20),
				truncate(c.Name, 20),
				formatDate(c.BirthDate, time.DateOnly),
				c.Results,
				formatDate(c.LastPlayed, "2006-01-02 15:04"),
				formatDate(c.LastProfileAt, "2006-01-02 15:04"),
			)
		}
		return nil
	},
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(layout)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
