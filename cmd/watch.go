package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/ingest"
	"github.com/happykids/kidsdiag/internal/profile"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import exports dropped into a directory and recompute profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		childID, _ := cmd.Flags().GetString("child")
		existing, _ := cmd.Flags().GetBool("existing")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		engine, err := e.engine(false)
		if err != nil {
			return err
		}
		reader, err := ingest.NewReader(ingest.Options{ChildID: childID})
		if err != nil {
			return err
		}
		if childID != "" {
			if err := registerChild(cmd.Context(), e, childID, "", ""); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := &ingest.Watcher{
			Dir:      args[0],
			Debounce: debounce,
			Logger:   e.logger,
			Existing: existing,
			Handle: func(ctx context.Context, path string) error {
				st, err := importFile(ctx, e, reader, path)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d imported, %d rejected\n", path, st.imported, st.rejected)
				for _, id := range st.children {
					if err := refreshProfile(ctx, e, engine, id); err != nil {
						e.logger.Warn("profile refresh failed", "child", id, "err", err)
					}
				}
				return nil
			},
		}
		fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
		return w.Run(ctx)
	},
}

// refreshProfile rebuilds and saves the child's profile after an import.
func refreshProfile(ctx context.Context, e *env, engine *profile.Engine, childID string) error {
	child, err := e.store.ChildRepo().Get(ctx, childID)
	if err != nil {
		return err
	}
	records, err := e.store.RecordsFor(ctx, childID, engine.Config().MaxRecords)
	if err != nil {
		return err
	}
	r := engine.BuildFor(subjectOf(*child), records)
	if err := saveProfile(ctx, e, r); err != nil {
		return err
	}
	diag := strings.Join(diagnosis.Codes(r.Matches), ", ")
	if diag == "" {
		diag = "-"
	}
	fmt.Printf("  %s: %d records, %s, %s\n", childID, r.Records, r.Profile.CognitiveStyle.Label(), diag)
	return nil
}

func init() {
	watchCmd.Flags().StringP("child", "c", "", "Child ID for records without child_id")
	watchCmd.Flags().Bool("existing", false, "Import exports already in the directory first")
	watchCmd.Flags().Duration("debounce", ingest.DefaultDebounce, "Quiet period before a changed file is read")
}
